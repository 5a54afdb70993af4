package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/julienpequegnot/sentimon/internal/dashboard"
	"github.com/julienpequegnot/sentimon/internal/docstore/docstoretest"
	"github.com/julienpequegnot/sentimon/internal/drilldown"
	"github.com/julienpequegnot/sentimon/internal/fanout"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupServer(t *testing.T) (*Server, *docstoretest.Store) {
	t.Helper()
	store := docstoretest.New()
	store.AddPost("", "A", map[string]any{"title": "Alpha exam", "weightedSentimentScore": -0.5, "created": "2024-01-01T00:00:00Z", "author": "alice"})
	store.AddPost("", "B", map[string]any{"title": "Beta", "weightedSentimentScore": 0.3, "created": "2024-01-02T00:00:00Z"})
	store.AddComment("", "B", "c1", map[string]any{"body": "the exam was fine", "created": "2024-01-02T01:00:00Z"})
	store.AddAuthor("", "alice", map[string]any{"posts": []any{"A"}})
	store.AddCategoryDay("", "2024-01-01", map[string]any{
		"exams": map[string]any{"averageSentiment": -0.2, "count": 1, "postIds": []any{"A"}},
	})
	ctrl := dashboard.NewController(store, fanout.New(2), dashboard.Options{})
	return New(ctrl, ""), store
}

func do(t *testing.T, s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	s, _ := setupServer(t)
	w := do(t, s, http.MethodGet, EndPointHealth, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("expected a request id header")
	}
	if decode(t, w)["status"] != "healthy" {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	s, _ := setupServer(t)
	req := httptest.NewRequest(http.MethodGet, EndPointHealth, nil)
	req.Header.Set(requestIDHeader, "abc")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "abc" {
		t.Errorf("expected echoed id, got %q", got)
	}
}

func TestPreflight(t *testing.T) {
	s, _ := setupServer(t)
	w := do(t, s, http.MethodOptions, EndPointEvents, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestPosts(t *testing.T) {
	s, _ := setupServer(t)
	w := do(t, s, http.MethodGet, "/api/posts?start=2024-01-01&end=2024-01-31", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if posts := body["posts"].([]any); len(posts) != 2 {
		t.Errorf("expected 2 posts, got %d", len(posts))
	}
	if body["average"] != "-0.10" {
		t.Errorf("unexpected average %v", body["average"])
	}
}

func TestPostsStoreFailure(t *testing.T) {
	s, store := setupServer(t)
	store.Fail("posts", errors.New("unavailable"))
	w := do(t, s, http.MethodGet, EndPointPosts, nil)
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
	if _, ok := decode(t, w)["error"]; !ok {
		t.Error("expected error field")
	}
}

func TestList(t *testing.T) {
	s, _ := setupServer(t)

	w := do(t, s, http.MethodGet, "/api/list/highestWs", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	posts := decode(t, w)["posts"].([]any)
	if len(posts) != 2 || posts[0].(map[string]any)["postId"] != "B" {
		t.Errorf("unexpected ranking %v", posts)
	}

	w = do(t, s, http.MethodGet, "/api/list/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown key, got %d", w.Code)
	}
}

func TestChart(t *testing.T) {
	s, _ := setupServer(t)
	w := do(t, s, http.MethodGet, "/api/charts/weighted", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if labels := decode(t, w)["labels"].([]any); len(labels) != 2 {
		t.Errorf("expected 2 labels, got %v", labels)
	}

	if w := do(t, s, http.MethodGet, "/api/charts/missing", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestSearch(t *testing.T) {
	s, _ := setupServer(t)

	w := do(t, s, http.MethodGet, "/api/search?q=exam", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if len(body["posts"].([]any)) != 1 || len(body["comments"].([]any)) != 1 {
		t.Errorf("unexpected search result %s", w.Body.String())
	}

	if w := do(t, s, http.MethodGet, "/api/search?q=%20", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank keyword, got %d", w.Code)
	}
}

func TestDrillDown(t *testing.T) {
	s, _ := setupServer(t)

	w := do(t, s, http.MethodGet, "/api/posts/B", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if decode(t, w)["state"] != string(drilldown.StateReady) {
		t.Errorf("unexpected detail %s", w.Body.String())
	}

	if w := do(t, s, http.MethodGet, "/api/posts/missing", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing post, got %d", w.Code)
	}
	if w := do(t, s, http.MethodGet, "/api/authors/alice", nil); w.Code != http.StatusOK {
		t.Errorf("expected 200 for author, got %d", w.Code)
	}
	if w := do(t, s, http.MethodGet, "/api/categories/Exams/2024-01-01", nil); w.Code != http.StatusOK {
		t.Errorf("expected 200 for category, got %d", w.Code)
	}
}

func TestEvents(t *testing.T) {
	s, _ := setupServer(t)

	ev, _ := json.Marshal(dashboard.Event{Component: dashboard.WeightedChart, Action: dashboard.Click, Index: 0, Name: "Alpha exam"})
	w := do(t, s, http.MethodPost, EndPointEvents, ev)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if decode(t, w)["kind"] != string(drilldown.KindPost) {
		t.Errorf("unexpected detail %s", w.Body.String())
	}

	ev, _ = json.Marshal(dashboard.Event{Component: "unknown", Action: dashboard.Click})
	if w := do(t, s, http.MethodPost, EndPointEvents, ev); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unhandled event, got %d", w.Code)
	}

	if w := do(t, s, http.MethodPost, EndPointEvents, []byte("{")); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid body, got %d", w.Code)
	}
}

func TestDashboardPage(t *testing.T) {
	s, _ := setupServer(t)
	w := do(t, s, http.MethodGet, EndPointDashboard, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Alpha exam") {
		t.Error("expected post title in page")
	}
	if !strings.Contains(w.Header().Get("Content-Type"), "text/html") {
		t.Errorf("unexpected content type %q", w.Header().Get("Content-Type"))
	}
}

func TestListConcurrentSources(t *testing.T) {
	s, store := setupServer(t)
	store.AddPost("slow", "S1", map[string]any{"title": "Slow", "weightedSentimentScore": 0.9, "created": "2024-01-05T00:00:00Z"})
	entered, release := store.Block("slow_posts")
	defer release()

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		req := httptest.NewRequest(http.MethodGet, "/api/list/lowestWs?source=slow", nil)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		done <- w
	}()
	<-entered

	fast := do(t, s, http.MethodGet, "/api/list/lowestWs", nil)
	if fast.Code != http.StatusOK {
		t.Fatalf("expected 200 for the newer request, got %d", fast.Code)
	}
	release()

	slow := <-done
	if slow.Code != http.StatusOK {
		t.Fatalf("expected 200 for the older request, got %d: %s", slow.Code, slow.Body.String())
	}
	posts := decode(t, slow)["posts"].([]any)
	if len(posts) != 1 || posts[0].(map[string]any)["postId"] != "S1" {
		t.Errorf("older request got another filter's posts: %v", posts)
	}
}

func TestRejectsSlashSource(t *testing.T) {
	s, store := setupServer(t)

	for _, path := range []string{
		"/api/posts?source=a/b",
		"/api/list/lowestWs?source=a%2Fb",
		"/api/posts/A?source=a/b",
		"/?source=a/b",
	} {
		w := do(t, s, http.MethodGet, path, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
	if store.Calls("a/b_posts") != 0 {
		t.Error("invalid source must not reach the store")
	}
}
