package budget

import (
	"testing"

	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
)

func TestParseSuggestionPlainJSON(t *testing.T) {
	raw := `{"items":[{"gtin":"00012345678905","quantity":2}],"reasoning":"fits the budget"}`

	got, err := parseSuggestion(raw)
	if err != nil {
		t.Fatalf("parseSuggestion: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].GTIN != "00012345678905" || got.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items: %+v", got.Items)
	}
	if got.Reasoning != "fits the budget" {
		t.Fatalf("reasoning = %q", got.Reasoning)
	}
}

func TestParseSuggestionCodeFenced(t *testing.T) {
	raw := "```json\n{\"items\":[{\"gtin\":\"00012345678905\",\"quantity\":1}]}\n```"

	got, err := parseSuggestion(raw)
	if err != nil {
		t.Fatalf("parseSuggestion: %v", err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("items = %+v", got.Items)
	}
}

func TestParseSuggestionProseWrapped(t *testing.T) {
	raw := `Here is your basket: {"items":[{"gtin":"00012345678905","quantity":3}],"reasoning":"cheap staples"} Enjoy!`

	got, err := parseSuggestion(raw)
	if err != nil {
		t.Fatalf("parseSuggestion: %v", err)
	}
	if got.Items[0].Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", got.Items[0].Quantity)
	}
}

func TestParseSuggestionBracesInsideStrings(t *testing.T) {
	raw := `note {"items":[{"gtin":"00012345678905","quantity":1}],"reasoning":"braces like {these} are fine"}`

	got, err := parseSuggestion(raw)
	if err != nil {
		t.Fatalf("parseSuggestion: %v", err)
	}
	if got.Reasoning != "braces like {these} are fine" {
		t.Fatalf("reasoning = %q", got.Reasoning)
	}
}

func TestParseSuggestionRejections(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty reply", "   "},
		{"not json", "sorry, I cannot help with that"},
		{"no items", `{"items":[],"reasoning":"nothing fits"}`},
		{"empty gtin", `{"items":[{"gtin":"","quantity":1}]}`},
		{"zero quantity", `{"items":[{"gtin":"00012345678905","quantity":0}]}`},
		{"negative quantity", `{"items":[{"gtin":"00012345678905","quantity":-2}]}`},
		{"truncated json", `{"items":[{"gtin":"00012345678905","quantity":`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseSuggestion(tc.raw)
			if err == nil {
				t.Fatal("expected error")
			}
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeDependency {
				t.Fatalf("expected dependency error, got %v", err)
			}
		})
	}
}
