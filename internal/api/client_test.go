package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

type fakeCreds struct {
	mu          sync.Mutex
	access      string
	refresh     string
	stored      []string
	invalidated bool
}

func (f *fakeCreds) AccessToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.access
}

func (f *fakeCreds) RefreshToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refresh
}

func (f *fakeCreds) StoreAccessToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access = token
	f.stored = append(f.stored, token)
	return nil
}

func (f *fakeCreds) Invalidate(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = true
	f.access = ""
	f.refresh = ""
	return nil
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := New(srv.URL).With(&fakeCreds{access: "tok-1", refresh: "ref-1"})
	var out []Notice
	if err := client.Get(context.Background(), "/notices/", nil, &out); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestAnonymousRequestHasNoAuthHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	var out []Notice
	if err := New(srv.URL).Get(context.Background(), "/notices/", nil, &out); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no auth header, got %q", gotAuth)
	}
}

func TestExpiredTokenRefreshedAndRetriedOnce(t *testing.T) {
	var refreshCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/token/refresh/" {
			atomic.AddInt32(&refreshCalls, 1)
			var req map[string]string
			json.NewDecoder(r.Body).Decode(&req)
			if req["refresh"] != "ref-ok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"access": "tok-new"})
			return
		}
		if r.Header.Get("Authorization") != "Bearer tok-new" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"count":1,"results":[{"title":"hello"}]}`))
	}))
	defer srv.Close()

	creds := &fakeCreds{access: "tok-stale", refresh: "ref-ok"}
	client := New(srv.URL).With(creds)

	var page Page[Notice]
	if err := client.Get(context.Background(), "/notices/", nil, &page); err != nil {
		t.Fatalf("expected recovery after refresh, got %v", err)
	}
	if len(page.Results) != 1 || page.Results[0].Title != "hello" {
		t.Fatalf("unexpected payload: %+v", page)
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 1 {
		t.Fatalf("expected 1 refresh call, got %d", n)
	}
	if creds.AccessToken() != "tok-new" {
		t.Fatalf("expected refreshed token persisted, got %q", creds.AccessToken())
	}
}

func TestSecond401AfterRefreshIsFinal(t *testing.T) {
	var apiCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/token/refresh/" {
			json.NewEncoder(w).Encode(map[string]string{"access": "tok-new"})
			return
		}
		atomic.AddInt32(&apiCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := New(srv.URL).With(&fakeCreds{access: "tok-stale", refresh: "ref-ok"})
	err := client.Get(context.Background(), "/notices/", nil, nil)
	if StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 to surface, got %v", err)
	}
	if n := atomic.LoadInt32(&apiCalls); n != 2 {
		t.Fatalf("expected exactly one retry (2 calls), got %d", n)
	}
}

func TestRefreshFailureTearsDownSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	expired := false
	creds := &fakeCreds{access: "tok-stale", refresh: "ref-dead"}
	client := New(srv.URL, OnSessionExpired(func() { expired = true })).With(creds)

	err := client.Get(context.Background(), "/notices/", nil, nil)
	if StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expected original 401 to propagate, got %v", err)
	}
	if !creds.invalidated {
		t.Fatalf("expected session invalidated after failed refresh")
	}
	if !expired {
		t.Fatalf("expected expiry callback to fire")
	}
}

func TestNoRefreshTokenMeansNoRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	creds := &fakeCreds{access: "tok-stale"}
	client := New(srv.URL).With(creds)
	err := client.Get(context.Background(), "/notices/", nil, nil)
	if StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected no retry without a refresh token, got %d calls", n)
	}
	if !creds.invalidated {
		t.Fatalf("expected session invalidated")
	}
}

func TestConcurrentExpiryTriggersOneRefresh(t *testing.T) {
	var refreshCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/token/refresh/" {
			atomic.AddInt32(&refreshCalls, 1)
			json.NewEncoder(w).Encode(map[string]string{"access": "tok-new"})
			return
		}
		if r.Header.Get("Authorization") == "Bearer tok-new" {
			w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := New(srv.URL).With(&fakeCreds{access: "tok-stale", refresh: "ref-ok"})

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var out []Notice
			errs[i] = client.Get(context.Background(), "/notices/", nil, &out)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 1 {
		t.Fatalf("expected one shared refresh, got %d", n)
	}
}

func TestMultipartFormContentType(t *testing.T) {
	var gotContentType, gotTitle, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		gotTitle = r.FormValue("title")
		file, header, err := r.FormFile("image")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		file.Close()
		gotFile = header.Filename
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"1"}`))
	}))
	defer srv.Close()

	form := NewForm().
		Field("title", "banner").
		File("image", "banner.png", strings.NewReader("png-bytes"))
	var out HeroImage
	if err := New(srv.URL).Post(context.Background(), "/hero-images/", form, &out); err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if !strings.HasPrefix(gotContentType, "multipart/form-data; boundary=") {
		t.Fatalf("expected multipart content type, got %q", gotContentType)
	}
	if gotTitle != "banner" || gotFile != "banner.png" {
		t.Fatalf("form fields lost: title=%q file=%q", gotTitle, gotFile)
	}
}

func TestJSONBodyContentType(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if err := New(srv.URL).Post(context.Background(), "/notices/", map[string]string{"title": "x"}, nil); err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if gotContentType != "application/json" {
		t.Fatalf("expected application/json, got %q", gotContentType)
	}
}

func TestParamsOmitNilValues(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	err := New(srv.URL).Get(context.Background(), "/notices/", Params{
		"category": "exam",
		"page":     nil,
		"limit":    10,
	}, nil)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if strings.Contains(gotQuery, "page") {
		t.Fatalf("nil param leaked into query: %q", gotQuery)
	}
	if !strings.Contains(gotQuery, "category=exam") || !strings.Contains(gotQuery, "limit=10") {
		t.Fatalf("expected params in query, got %q", gotQuery)
	}
}

func TestWriteErrorCarriesParsedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"title":["This field is required."],"detail":"invalid notice"}`))
	}))
	defer srv.Close()

	err := New(srv.URL).Post(context.Background(), "/notices/", map[string]string{}, nil)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", reqErr.Status)
	}
	if reqErr.Message() != "invalid notice" {
		t.Fatalf("unexpected message %q", reqErr.Message())
	}
	if reqErr.FieldErrors()["title"] != "This field is required." {
		t.Fatalf("field errors lost: %+v", reqErr.FieldErrors())
	}
}

func TestWriteErrorFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	err := New(srv.URL).Post(context.Background(), "/notices/", map[string]string{}, nil)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Message() != "HTTP 502: Bad Gateway" {
		t.Fatalf("unexpected fallback message %q", reqErr.Message())
	}
}

func TestTransportErrorIsNotRequestError(t *testing.T) {
	client := New("http://127.0.0.1:1")
	err := client.Get(context.Background(), "/notices/", nil, nil)
	if err == nil {
		t.Fatalf("expected transport error")
	}
	if StatusOf(err) != 0 {
		t.Fatalf("transport error must not carry a status, got %d", StatusOf(err))
	}
}

func TestDeleteNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := New(srv.URL).Delete(context.Background(), "/notices/1/", nil); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
}
