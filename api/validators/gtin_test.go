package validators

import (
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
)

func TestValidateGTIN(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"gtin-8", "12345678", "12345678", true},
		{"gtin-13", "4006381333931", "4006381333931", true},
		{"gtin-14", "00012345678905", "00012345678905", true},
		{"surrounding whitespace", "  00012345678905  ", "00012345678905", true},
		{"too short", "1234567", "", false},
		{"too long", "123456789012345", "", false},
		{"letters", "1234567a", "", false},
		{"internal space", "1234 5678", "", false},
		{"empty", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateGTIN(tc.in)
			if tc.ok {
				if err != nil {
					t.Fatalf("ValidateGTIN(%q): %v", tc.in, err)
				}
				if got != tc.want {
					t.Fatalf("got %q, want %q", got, tc.want)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateGTIN(%q) accepted invalid input", tc.in)
			}
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello  ", 10); got != "hello" {
		t.Fatalf("got %q", got)
	}
	if got := SanitizeString("abcdefghij", 4); got != "abcd" {
		t.Fatalf("got %q", got)
	}
	if got := SanitizeString("  spaced  ", 0); got != "spaced" {
		t.Fatalf("zero max must not truncate, got %q", got)
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=30&bad=abc&big=500", nil)

	got, err := ParseQueryInt(req, "limit", 25, 1, 100)
	if err != nil || got != 30 {
		t.Fatalf("limit = %d, err = %v", got, err)
	}

	got, err = ParseQueryInt(req, "missing", 25, 1, 100)
	if err != nil || got != 25 {
		t.Fatalf("default = %d, err = %v", got, err)
	}

	if _, err = ParseQueryInt(req, "bad", 25, 1, 100); err == nil {
		t.Fatal("non-numeric value must be rejected")
	}
	if _, err = ParseQueryInt(req, "big", 25, 1, 100); err == nil {
		t.Fatal("out-of-range value must be rejected")
	}
}
