package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/skillweave/pkg/cache"
	apperrors "github.com/matzehuels/skillweave/pkg/errors"
	"github.com/matzehuels/skillweave/pkg/httputil"
)

func testCache(t *testing.T) *httputil.Cache {
	t.Helper()
	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return httputil.NewCache(store, nil, time.Hour)
}

func TestNewClient(t *testing.T) {
	c := testCache(t)
	headers := map[string]string{"Authorization": "Bearer token"}
	client := NewClient(c, headers)

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.cache != c {
		t.Error("NewClient() cache not set correctly")
	}
	if client.headers["Authorization"] != "Bearer token" {
		t.Error("NewClient() headers not set correctly")
	}
}

func TestNewClientNilCache(t *testing.T) {
	client := NewClient(nil, nil)
	if client.cache == nil {
		t.Fatal("NewClient(nil) should fall back to a disabled cache")
	}
	if client.headers != nil {
		t.Error("NewClient() should allow nil headers")
	}
}

func TestClientGet(t *testing.T) {
	type response struct {
		Message string `json:"message"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		json.NewEncoder(w).Encode(response{Message: "hello"})
	}))
	defer server.Close()

	client := NewClient(testCache(t), nil).WithHTTPClient(server.Client())

	var resp response
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientGetWithHeadersOverridesDefaults(t *testing.T) {
	var override, custom string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		override = r.Header.Get("X-Override")
		custom = r.Header.Get("X-Custom")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := NewClient(nil, map[string]string{"X-Override": "default"}).WithHTTPClient(server.Client())

	var resp map[string]string
	err := client.GetWithHeaders(context.Background(), server.URL,
		map[string]string{"X-Override": "overridden", "X-Custom": "custom"}, &resp)
	if err != nil {
		t.Fatalf("GetWithHeaders() error: %v", err)
	}
	if override != "overridden" {
		t.Errorf("header = %q, want %q", override, "overridden")
	}
	if custom != "custom" {
		t.Errorf("custom header = %q, want %q", custom, "custom")
	}
}

func TestClientGetText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("---\nname: lint\n---\nRun it.\n"))
	}))
	defer server.Close()

	client := NewClient(nil, nil).WithHTTPClient(server.Client())

	text, err := client.GetText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetText() error: %v", err)
	}
	if text != "---\nname: lint\n---\nRun it.\n" {
		t.Errorf("GetText() = %q", text)
	}
}

func TestClientGetStatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		code      int
		header    map[string]string
		want      error
		retryable bool
	}{
		{name: "404", code: http.StatusNotFound, want: ErrNotFound},
		{name: "401", code: http.StatusUnauthorized, want: ErrUnauthorized},
		{name: "403", code: http.StatusForbidden, want: ErrUnauthorized},
		{name: "500", code: http.StatusInternalServerError, want: ErrNetwork, retryable: true},
		{name: "400", code: http.StatusBadRequest, want: ErrNetwork},
		{name: "429", code: http.StatusTooManyRequests, header: map[string]string{"Retry-After": "7"}, retryable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.code)
			}))
			defer server.Close()

			client := NewClient(nil, nil).WithHTTPClient(server.Client())

			var resp map[string]string
			err := client.Get(context.Background(), server.URL, &resp)
			if err == nil {
				t.Fatal("Get() should return error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Get() error = %v, want %v", err, tt.want)
			}
			if got := httputil.IsRetryable(err); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestClientRateLimitRetryAfter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(nil, nil).WithHTTPClient(server.Client())

	_, err := client.GetText(context.Background(), server.URL)
	var rl *apperrors.RateLimitedError
	if !errors.As(err, &rl) {
		t.Fatalf("expected RateLimitedError, got %T: %v", err, err)
	}
	if rl.RetryAfter != 7 {
		t.Errorf("RetryAfter = %d, want 7", rl.RetryAfter)
	}
}

func TestClientGetCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("late"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(nil, nil).WithHTTPClient(server.Client())
	_, err := client.GetText(ctx, server.URL)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("GetText() error = %v, want context.Canceled", err)
	}
}

func TestClientCached(t *testing.T) {
	client := NewClient(testCache(t), nil)

	type testData struct {
		Value string `json:"value"`
	}

	fetchCount := 0
	fetch := func(v *testData) func() error {
		return func() error {
			fetchCount++
			v.Value = "fetched"
			return nil
		}
	}

	var first testData
	if err := client.Cached(context.Background(), "key", false, &first, fetch(&first)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	var second testData
	if err := client.Cached(context.Background(), "key", false, &second, fetch(&second)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}

	if fetchCount != 1 {
		t.Errorf("fetch count = %d, want 1", fetchCount)
	}
	if second.Value != "fetched" {
		t.Errorf("cached value = %q, want %q", second.Value, "fetched")
	}
}

func TestClientCachedRefresh(t *testing.T) {
	client := NewClient(testCache(t), nil)

	fetchCount := 0
	var value string
	fetch := func() error {
		fetchCount++
		value = "fetched"
		return nil
	}

	for range 2 {
		if err := client.Cached(context.Background(), "key", true, &value, fetch); err != nil {
			t.Fatalf("Cached() error: %v", err)
		}
	}
	if fetchCount != 2 {
		t.Errorf("fetch count = %d, want 2", fetchCount)
	}
}

func TestClientCachedFetchError(t *testing.T) {
	client := NewClient(testCache(t), nil)

	fetchCount := 0
	var value string
	fetch := func() error {
		fetchCount++
		return ErrNotFound
	}

	err := client.Cached(context.Background(), "missing", false, &value, fetch)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Cached() error = %v, want ErrNotFound", err)
	}
	if fetchCount != 1 {
		t.Errorf("non-retryable errors should not be retried, fetch count = %d", fetchCount)
	}
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient()
	if client == nil {
		t.Fatal("NewHTTPClient() returned nil")
	}
	if client.Timeout != httpTimeout {
		t.Errorf("Timeout = %v, want %v", client.Timeout, httpTimeout)
	}
}

func TestClientGetTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClient(nil, nil).WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond})

	_, err := client.GetText(context.Background(), server.URL)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("GetText() error = %v, want ErrTimeout", err)
	}
	if errors.Is(err, ErrNetwork) {
		t.Error("a timeout should not be reported as a generic network error")
	}
	if !httputil.IsRetryable(err) {
		t.Error("timeouts should be retryable")
	}
}
