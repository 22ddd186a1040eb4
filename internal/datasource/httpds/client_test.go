package httpds

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func fastClient(retries int) *Client {
	return NewClient(Config{
		Timeout:        2 * time.Second,
		MaxRetries:     retries,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		Header:         http.Header{"X-Planta": []string{"P1"}},
	})
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{InsecureSkipVerify: true, MaxRetries: -2})
	if c.httpClient.Timeout != 30*time.Second || c.maxRetries != 0 {
		t.Fatalf("timeout=%v retries=%d", c.httpClient.Timeout, c.maxRetries)
	}
	tr, ok := c.httpClient.Transport.(*http.Transport)
	if !ok || !tr.TLSClientConfig.InsecureSkipVerify {
		t.Fatalf("transport = %T, want insecure *http.Transport", c.httpClient.Transport)
	}
}

func TestSource_OpenStreamsBody(t *testing.T) {
	t.Parallel()

	const csv = "Turno,Linea\nA,L1\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Planta") != "P1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, csv)
	}))
	defer srv.Close()

	rc, err := NewSource(fastClient(0), srv.URL).Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != csv {
		t.Fatalf("body = %q, want %q", got, csv)
	}
}

func TestGet_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resp, err := fastClient(3).Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()
	if n := atomic.LoadInt32(&hits); n != 3 {
		t.Fatalf("hits = %d, want 3", n)
	}
}

func TestGet_GivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := fastClient(2).Get(context.Background(), srv.URL)
	if !errors.Is(err, ErrStatus) {
		t.Fatalf("err = %v, want ErrStatus", err)
	}
	if n := atomic.LoadInt32(&hits); n != 3 {
		t.Fatalf("hits = %d, want 3 (1 + 2 retries)", n)
	}
}

func TestGet_NonRetryableStatusIsFinal(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := fastClient(5).Get(context.Background(), srv.URL); !errors.Is(err, ErrStatus) {
		t.Fatalf("err = %v, want ErrStatus", err)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("hits = %d, want 1", n)
	}
	if _, err := fastClient(0).Get(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty url")
	}
}

func TestBackoffDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		retry int
		want  time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 500 * time.Millisecond},
		{40, 500 * time.Millisecond},
		{-1, 100 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := backoffDuration(100*time.Millisecond, tt.retry, 500*time.Millisecond); got != tt.want {
			t.Errorf("backoffDuration(retry=%d) = %v, want %v", tt.retry, got, tt.want)
		}
	}
}

func TestSleepContext_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
