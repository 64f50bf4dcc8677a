package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"campusportal/internal/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func refreshTokenExpiring(t *testing.T, in time.Duration) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(in).Unix(),
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return token
}

// loginBackend fakes the auth endpoints and counts every request it serves.
func loginBackend(t *testing.T, refresh string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/auth/login/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["email"] != "admin@campus.edu" || req["password"] != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Unable to log in with provided credentials."}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access":  "tok-access",
			"refresh": refresh,
			"user":    map[string]string{"id": "u1", "email": "admin@campus.edu", "username": "admin"},
			"profile": map[string]string{"id": "p1", "role": "admin", "full_name": "Site Admin"},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestSignInPersistsFullRecord(t *testing.T) {
	refresh := refreshTokenExpiring(t, time.Hour)
	srv, _ := loginBackend(t, refresh)

	store := NewMemoryStore()
	mgr := NewManager(store, api.New(srv.URL), time.Hour, testLogger())

	sess, err := mgr.SignIn(context.Background(), "admin@campus.edu", "hunter2")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if !sess.IsAdmin() {
		t.Fatalf("expected admin session, role=%q", sess.Role())
	}

	rec, err := store.Load(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("loading record: %v", err)
	}
	if rec.AccessToken != "tok-access" || rec.RefreshToken != refresh {
		t.Fatalf("tokens not persisted: %+v", rec)
	}
	if len(rec.User) == 0 || len(rec.Profile) == 0 {
		t.Fatalf("cached user/profile not persisted")
	}
}

func TestSignInWrongCredentials(t *testing.T) {
	srv, _ := loginBackend(t, "")
	mgr := NewManager(NewMemoryStore(), api.New(srv.URL), time.Hour, testLogger())

	_, err := mgr.SignIn(context.Background(), "admin@campus.edu", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestBootstrapUsesNoNetwork(t *testing.T) {
	refresh := refreshTokenExpiring(t, time.Hour)
	srv, calls := loginBackend(t, refresh)

	store := NewMemoryStore()
	mgr := NewManager(store, api.New(srv.URL), time.Hour, testLogger())

	sess, err := mgr.SignIn(context.Background(), "admin@campus.edu", "hunter2")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	before := atomic.LoadInt32(calls)

	restored, err := mgr.Bootstrap(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if restored == nil || restored.User.Email != "admin@campus.edu" || !restored.IsAdmin() {
		t.Fatalf("session not restored: %+v", restored)
	}
	if after := atomic.LoadInt32(calls); after != before {
		t.Fatalf("bootstrap hit the backend: %d calls", after-before)
	}
}

func TestBootstrapUnknownIDIsAnonymous(t *testing.T) {
	mgr := NewManager(NewMemoryStore(), api.New("http://127.0.0.1:1"), time.Hour, testLogger())
	sess, err := mgr.Bootstrap(context.Background(), "no-such-session")
	if err != nil || sess != nil {
		t.Fatalf("expected anonymous, got sess=%v err=%v", sess, err)
	}
	sess, err = mgr.Bootstrap(context.Background(), "")
	if err != nil || sess != nil {
		t.Fatalf("expected anonymous for empty id, got sess=%v err=%v", sess, err)
	}
}

func TestBootstrapClearsCorruptRecord(t *testing.T) {
	store := NewMemoryStore()
	_ = store.Save(context.Background(), "s1", &Record{
		AccessToken: "tok",
		User:        []byte("not-json"),
		Profile:     []byte("{}"),
	}, 0)

	mgr := NewManager(store, api.New("http://127.0.0.1:1"), time.Hour, testLogger())
	sess, err := mgr.Bootstrap(context.Background(), "s1")
	if err != nil || sess != nil {
		t.Fatalf("expected corrupt record treated as anonymous, got sess=%v err=%v", sess, err)
	}
	if _, err := store.Load(context.Background(), "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected corrupt record deleted, got %v", err)
	}
}

func TestIsAdminIsStrict(t *testing.T) {
	cases := map[string]bool{
		"admin":   true,
		"teacher": false,
		"editor":  false,
		"ADMIN":   false,
		"":        false,
	}
	for role, want := range cases {
		sess := &Session{Profile: api.Profile{Role: role}}
		if sess.IsAdmin() != want {
			t.Fatalf("role %q: expected IsAdmin=%v", role, want)
		}
	}
	var nilSess *Session
	if nilSess.IsAdmin() {
		t.Fatalf("nil session must not be admin")
	}
}

func TestSignOutDeletesRecord(t *testing.T) {
	refresh := refreshTokenExpiring(t, time.Hour)
	srv, _ := loginBackend(t, refresh)

	store := NewMemoryStore()
	mgr := NewManager(store, api.New(srv.URL), time.Hour, testLogger())

	sess, err := mgr.SignIn(context.Background(), "admin@campus.edu", "hunter2")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if err := mgr.SignOut(context.Background(), sess); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}
	if _, err := store.Load(context.Background(), sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected record gone, got %v", err)
	}
	if sess.AccessToken() != "" || sess.RefreshToken() != "" {
		t.Fatalf("expected in-memory tokens cleared")
	}
}

func TestSessionTTLFollowsRefreshExpiry(t *testing.T) {
	mgr := NewManager(NewMemoryStore(), api.New("http://127.0.0.1:1"), 24*time.Hour, testLogger())

	ttl := mgr.sessionTTL(refreshTokenExpiring(t, 2*time.Hour))
	if ttl <= time.Hour || ttl > 2*time.Hour {
		t.Fatalf("expected ttl near 2h, got %s", ttl)
	}

	if got := mgr.sessionTTL("not-a-jwt"); got != 24*time.Hour {
		t.Fatalf("expected default ttl for opaque token, got %s", got)
	}

	if got := mgr.sessionTTL(refreshTokenExpiring(t, -time.Hour)); got != 24*time.Hour {
		t.Fatalf("expected default ttl for expired token, got %s", got)
	}
}
