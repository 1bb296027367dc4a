package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	merrors "github.com/matzehuels/masonry/pkg/errors"
)

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	body, err := Get(context.Background(), srv.Client(), srv.URL+"/items.json")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(body) != `{"items":[]}` {
		t.Errorf("Get() body = %q", body)
	}
}

func TestGetRetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := GetWithRetry(context.Background(), srv.Client(), srv.URL, 3, time.Millisecond)
	if err != nil {
		t.Fatalf("GetWithRetry() error: %v", err)
	}
	if string(body) != "ok" || calls != 3 {
		t.Errorf("body = %q after %d calls, want \"ok\" after 3", body, calls)
	}
}

func TestGetNotFoundIsNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := GetWithRetry(context.Background(), srv.Client(), srv.URL, 3, time.Millisecond)
	if !merrors.Is(err, merrors.ErrCodeNotFound) {
		t.Errorf("GetWithRetry() error = %v, want NOT_FOUND", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestGetRejectsBadScheme(t *testing.T) {
	_, err := Get(context.Background(), nil, "file:///etc/passwd")
	if !merrors.Is(err, merrors.ErrCodeInvalidInput) {
		t.Errorf("Get() error = %v, want INVALID_INPUT", err)
	}
}
