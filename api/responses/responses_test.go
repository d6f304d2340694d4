package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v (%s)", err, rec.Body.String())
	}
	return payload
}

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"name": "weekly"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}

	payload := decodeBody(t, rec)
	data, ok := payload["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data envelope: %v", payload)
	}
	if data["name"] != "weekly" {
		t.Fatalf("data = %v", data)
	}
}

func TestWriteSuccessStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccessStatus(rec, http.StatusCreated, map[string]string{"id": "abc"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestWriteErrorMapsCodeToStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeNotFound, "list not found"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	payload := decodeBody(t, rec)
	errObj := payload["error"].(map[string]any)
	if errObj["code"] != "NOT_FOUND" {
		t.Fatalf("code = %v", errObj["code"])
	}
	if errObj["message"] != "list not found" {
		t.Fatalf("message = %v", errObj["message"])
	}
}

func TestWriteErrorExposesValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "unknown gtins in items").
		WithDetails(map[string]any{"missing": []string{"99999999999990"}})
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	payload := decodeBody(t, rec)
	errObj := payload["error"].(map[string]any)
	if _, ok := errObj["details"]; !ok {
		t.Fatalf("validation details missing: %v", errObj)
	}
}

func TestWriteErrorHidesInternalDetailsAndMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeInternal, "pq: duplicate key on users_pkey").
		WithDetails(map[string]any{"table": "users"})
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	payload := decodeBody(t, rec)
	errObj := payload["error"].(map[string]any)
	if errObj["message"] != "internal server error" {
		t.Fatalf("internal message leaked: %v", errObj["message"])
	}
	if _, ok := errObj["details"]; ok {
		t.Fatalf("internal details leaked: %v", errObj)
	}
}

func TestWriteErrorWrapsForeignErrorsAsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, errors.New("sql: connection reset"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	payload := decodeBody(t, rec)
	errObj := payload["error"].(map[string]any)
	if errObj["code"] != "INTERNAL_ERROR" {
		t.Fatalf("code = %v", errObj["code"])
	}
}
