package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(CodeNotFound, "list not found")

	if err.Code() != CodeNotFound {
		t.Fatalf("Code() = %s, want %s", err.Code(), CodeNotFound)
	}
	if err.Message() != "list not found" {
		t.Fatalf("Message() = %q", err.Message())
	}
	if got, want := err.Error(), "NOT_FOUND: list not found"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "load prices")

	if !stdErrors.Is(err, cause) {
		t.Fatal("wrapped cause must survive errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("Code() = %s", err.Code())
	}
}

func TestWrapNilCauseBehavesLikeNew(t *testing.T) {
	err := Wrap(CodeInternal, nil, "boom")
	if err.Unwrap() != nil {
		t.Fatal("nil cause must not produce an unwrap target")
	}
}

func TestAsFindsTypedErrorThroughWrapping(t *testing.T) {
	inner := New(CodeValidation, "bad gtin")
	outer := fmt.Errorf("handler: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("As should find the typed error through fmt wrapping")
	}
	if typed.Code() != CodeValidation {
		t.Fatalf("Code() = %s", typed.Code())
	}
}

func TestAsReturnsNilForForeignErrors(t *testing.T) {
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("plain errors must not convert")
	}
	if As(nil) != nil {
		t.Fatal("nil must not convert")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "bad batch").WithDetails(map[string]any{"missing": []string{"123"}})

	details, ok := err.Details().(map[string]any)
	if !ok {
		t.Fatalf("Details() = %T", err.Details())
	}
	if _, ok := details["missing"]; !ok {
		t.Fatal("details payload lost")
	}
}

func TestMetadataForKnownCodes(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:      http.StatusBadRequest,
		CodeUnauthorized:    http.StatusUnauthorized,
		CodeForbidden:       http.StatusForbidden,
		CodeNotFound:        http.StatusNotFound,
		CodeConflict:        http.StatusConflict,
		CodeIdempotency:     http.StatusConflict,
		CodeRateLimit:       http.StatusTooManyRequests,
		CodePaymentRequired: http.StatusPaymentRequired,
		CodeInternal:        http.StatusInternalServerError,
		CodeDependency:      http.StatusServiceUnavailable,
	}

	for code, status := range cases {
		if got := MetadataFor(code).HTTPStatus; got != status {
			t.Fatalf("MetadataFor(%s).HTTPStatus = %d, want %d", code, got, status)
		}
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_ELSE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("fallback status = %d", meta.HTTPStatus)
	}
}

func TestNilErrorAccessorsAreSafe(t *testing.T) {
	var err *Error
	if err.Code() != CodeInternal {
		t.Fatalf("nil Code() = %s", err.Code())
	}
	if err.Message() != "" || err.Details() != nil || err.Unwrap() != nil {
		t.Fatal("nil accessors must return zero values")
	}
}
