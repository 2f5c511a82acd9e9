package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	cerrors "github.com/matzehuels/canopy/pkg/errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   cerrors.Code
	}{
		{"not found", cerrors.New(cerrors.ErrCodeNodeNotFound, "node 9 not found"), http.StatusNotFound, cerrors.ErrCodeNodeNotFound},
		{"session", cerrors.New(cerrors.ErrCodeSessionNotFound, "gone"), http.StatusNotFound, cerrors.ErrCodeSessionNotFound},
		{"leaf", cerrors.New(cerrors.ErrCodeNotInteractive, "leaf"), http.StatusConflict, cerrors.ErrCodeNotInteractive},
		{"input", cerrors.New(cerrors.ErrCodeInvalidInput, "bad"), http.StatusBadRequest, cerrors.ErrCodeInvalidInput},
		{"plain", errors.New("boom"), http.StatusInternalServerError, cerrors.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			var body ErrorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != tt.code {
				t.Errorf("code = %s, want %s", body.Code, tt.code)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct{ Width float64 }
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"width": 12}`))
	if err := DecodeJSON(r, &v); err != nil || v.Width != 12 {
		t.Fatalf("DecodeJSON() = %v, width %v", err, v.Width)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := DecodeJSON(r, &v); err != nil {
		t.Errorf("empty body error = %v", err)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"bogus": 1}`))
	if err := DecodeJSON(r, &v); !cerrors.Is(err, cerrors.ErrCodeInvalidInput) {
		t.Errorf("unknown field error = %v, want INVALID_INPUT", err)
	}
}

func TestRetry(t *testing.T) {
	p := Policy{Attempts: 3, Delay: time.Millisecond}

	calls := 0
	err := Retry(context.Background(), p, func() error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errors.New("refused")}
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("Retry() = %v after %d calls, want nil after 3", err, calls)
	}

	calls = 0
	fatal := errors.New("auth")
	if err := Retry(context.Background(), p, func() error { calls++; return fatal }); !errors.Is(err, fatal) || calls != 1 {
		t.Errorf("non-retryable: err = %v, calls = %d", err, calls)
	}

	calls = 0
	err = Retry(context.Background(), p, func() error { calls++; return &RetryableError{Err: errors.New("down")} })
	if !IsRetryable(err) || calls != 3 {
		t.Errorf("exhausted: err = %v, calls = %d", err, calls)
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, Policy{Attempts: 5, Delay: time.Hour}, func() error {
		return &RetryableError{Err: errors.New("down")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() = %v, want context.Canceled", err)
	}
}
