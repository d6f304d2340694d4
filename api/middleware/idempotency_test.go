package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeIdempotencyStore struct {
	records map[string]string
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{records: map[string]string{}}
}

func (f *fakeIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.records[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.records[key]; ok {
		return false, nil
	}
	f.records[key] = value.(string)
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "bw:idemp:" + scope + ":" + id
}

func (f *fakeIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.records, key)
	}
	return nil
}

func TestRouteTTL(t *testing.T) {
	cases := []struct {
		name    string
		method  string
		pattern string
		wantTTL time.Duration
		matched bool
	}{
		{"register", http.MethodPost, "/api/v1/auth/register", defaultIdempotencyTTL, true},
		{"create list", http.MethodPost, "/api/v1/lists", defaultIdempotencyTTL, true},
		{"subrouter root trailing slash", http.MethodPost, "/api/admin/stores/", defaultIdempotencyTTL, true},
		{"replace items", http.MethodPut, "/api/v1/lists/{listId}/items", defaultIdempotencyTTL, true},
		{"bulk prices", http.MethodPost, "/api/v1/owner/prices/bulk", defaultIdempotencyTTL, true},
		{"budget apply", http.MethodPost, "/api/v1/lists/{listId}/budget/apply", criticalIdempotencyTTL, true},
		{"auto list", http.MethodPost, "/api/v1/budget/auto-list", criticalIdempotencyTTL, true},
		{"get is never idempotency-guarded", http.MethodGet, "/api/v1/lists", 0, false},
		{"unlisted route", http.MethodPost, "/api/v1/compare", 0, false},
		{"empty pattern", http.MethodPost, "", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ttl, ok := routeTTL(tc.method, tc.pattern)
			if ok != tc.matched {
				t.Fatalf("matched = %v, want %v", ok, tc.matched)
			}
			if ttl != tc.wantTTL {
				t.Fatalf("ttl = %s, want %s", ttl, tc.wantTTL)
			}
		})
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"abc"}}`))
	}))

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/lists", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", "key-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := send(`{"name":"weekly"}`)
	if first.Code != http.StatusCreated {
		t.Fatalf("first status = %d", first.Code)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	replay := send(`{"name":"weekly"}`)
	if replay.Code != http.StatusCreated {
		t.Fatalf("replay status = %d", replay.Code)
	}
	if replay.Body.String() != first.Body.String() {
		t.Fatalf("replay body = %s, want %s", replay.Body.String(), first.Body.String())
	}
	if calls != 1 {
		t.Fatalf("replay must not re-run the handler, calls = %d", calls)
	}
}

func TestIdempotencyKeyReuseWithDifferentBodyConflicts(t *testing.T) {
	store := newFakeIdempotencyStore()
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	first := httptest.NewRequest(http.MethodPost, "/api/v1/lists", strings.NewReader(`{"name":"weekly"}`))
	first.Header.Set("Idempotency-Key", "key-2")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first status = %d", rec.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/api/v1/lists", strings.NewReader(`{"name":"other"}`))
	second.Header.Set("Idempotency-Key", "key-2")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	if rec.Code != http.StatusConflict {
		t.Fatalf("reuse status = %d, want %d", rec.Code, http.StatusConflict)
	}
	if !strings.Contains(rec.Body.String(), "IDEMPOTENCY_KEY_REUSED") {
		t.Fatalf("reuse body = %s", rec.Body.String())
	}
}

func TestIdempotencyRequiresHeaderOnGuardedRoutes(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/lists", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if calls != 0 {
		t.Fatal("handler must not run without an idempotency key")
	}
}

func TestIdempotencySkipsUnguardedRoutes(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	// No header needed on routes outside the rule table.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compare", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if len(store.records) != 0 {
		t.Fatal("nothing should be recorded for unguarded routes")
	}
}

func TestIdempotencyScopesKeysPerUser(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	send := func(userID string) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/lists", strings.NewReader(`{"name":"weekly"}`))
		req.Header.Set("Idempotency-Key", "shared-key")
		req = req.WithContext(WithUserID(req.Context(), userID))
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	send("user-a")
	send("user-b")

	if calls != 2 {
		t.Fatalf("calls = %d, want 2: different users must not share idempotency records", calls)
	}
}
