package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// heroBackend tracks PATCH calls so the tests can assert on ordering and
// rollback behavior.
type heroBackend struct {
	mu      sync.Mutex
	patches []map[string]any // each with "id" added
	failOn  int              // 1-based patch call to reject, 0 for none
}

func (b *heroBackend) routes(mux *http.ServeMux) {
	mux.HandleFunc("/hero-images/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`{"count":2,"results":[
				{"id":"h1","title":"First","display_order":1,"is_active":true},
				{"id":"h2","title":"Second","display_order":2,"is_active":true}
			]}`))
			return
		}
		if r.Method == http.MethodPatch {
			b.mu.Lock()
			defer b.mu.Unlock()
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			body["id"] = strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/hero-images/"), "/")
			b.patches = append(b.patches, body)
			if b.failOn == len(b.patches) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"detail":"boom"}`))
				return
			}
			w.Write([]byte(`{}`))
			return
		}
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func postHeroMove(t *testing.T, router http.Handler, cookie *http.Cookie, id, dir string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/admin/hero-images/"+id+"/move", strings.NewReader("dir="+dir))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHeroMoveSwapsDisplayOrder(t *testing.T) {
	backend := &heroBackend{}
	mux := http.NewServeMux()
	backend.routes(mux)
	router := newPortal(t, adminBackend("admin", mux))
	cookie := signIn(t, router)

	rec := postHeroMove(t, router, cookie, "h1", "down")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d: %s", rec.Code, rec.Body.String())
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if len(backend.patches) != 2 {
		t.Fatalf("expected 2 sequenced patches, got %d", len(backend.patches))
	}
	first, second := backend.patches[0], backend.patches[1]
	if first["id"] != "h1" || first["display_order"] != float64(2) {
		t.Fatalf("unexpected first patch: %+v", first)
	}
	if second["id"] != "h2" || second["display_order"] != float64(1) {
		t.Fatalf("unexpected second patch: %+v", second)
	}
}

func TestHeroMoveRollsBackOnPartialFailure(t *testing.T) {
	backend := &heroBackend{failOn: 2}
	mux := http.NewServeMux()
	backend.routes(mux)
	router := newPortal(t, adminBackend("admin", mux))
	cookie := signIn(t, router)

	rec := postHeroMove(t, router, cookie, "h1", "down")
	if rec.Code == http.StatusSeeOther {
		t.Fatalf("expected error response, got redirect")
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if len(backend.patches) != 3 {
		t.Fatalf("expected rollback patch after failure, got %d patches", len(backend.patches))
	}
	rollback := backend.patches[2]
	if rollback["id"] != "h1" || rollback["display_order"] != float64(1) {
		t.Fatalf("expected first image restored to order 1, got %+v", rollback)
	}
}

func TestHeroMoveAtEdgeIsNoop(t *testing.T) {
	backend := &heroBackend{}
	mux := http.NewServeMux()
	backend.routes(mux)
	router := newPortal(t, adminBackend("admin", mux))
	cookie := signIn(t, router)

	rec := postHeroMove(t, router, cookie, "h1", "up")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if len(backend.patches) != 0 {
		t.Fatalf("expected no patches at the top edge, got %d", len(backend.patches))
	}
}
