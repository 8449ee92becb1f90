package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/raihan/pesonabangka/internal/middleware"
	"github.com/raihan/pesonabangka/internal/model"
)

// --- モック定義 ---

type mockPostStore struct {
	findByIDFn func(ctx context.Context, id string) (*model.Post, error)
	listFn     func(ctx context.Context) ([]*model.Post, error)
	createFn   func(ctx context.Context, post *model.Post) error
}

func (m *mockPostStore) FindByID(ctx context.Context, id string) (*model.Post, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockPostStore) List(ctx context.Context) ([]*model.Post, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockPostStore) Create(ctx context.Context, post *model.Post) error {
	if m.createFn != nil {
		return m.createFn(ctx, post)
	}
	return nil
}

type mockSanitizer struct {
	sanitizeFn func(rawHTML string) string
}

func (m *mockSanitizer) Sanitize(rawHTML string) string {
	if m.sanitizeFn != nil {
		return m.sanitizeFn(rawHTML)
	}
	return rawHTML
}

type mockPostMetrics struct {
	composed int
}

func (m *mockPostMetrics) RecordPostComposed() {
	m.composed++
}

// --- compile-time interface checks ---
var _ PostStore = (*mockPostStore)(nil)
var _ PostSanitizer = (*mockSanitizer)(nil)
var _ PostMetrics = (*mockPostMetrics)(nil)

func newTestPostHandler(t *testing.T, store *mockPostStore, sanitizer *mockSanitizer, m *mockPostMetrics) *PostHandler {
	t.Helper()
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	return NewPostHandler(store, sanitizer, renderer, m)
}

// --- テスト ---

func TestContact_ListsPosts(t *testing.T) {
	store := &mockPostStore{
		listFn: func(ctx context.Context) ([]*model.Post, error) {
			return []*model.Post{
				{ID: "post-1", Title: "First Trip Report", Author: "raihan"},
				{ID: "post-2", Title: "Second Trip Report", Author: "raihan"},
			}, nil
		},
	}
	h := newTestPostHandler(t, store, &mockSanitizer{}, &mockPostMetrics{})

	req := httptest.NewRequest(http.MethodGet, "/contact", nil)
	w := httptest.NewRecorder()

	h.Contact(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if !strings.Contains(body, "First Trip Report") || !strings.Contains(body, "Second Trip Report") {
		t.Error("expected both post titles in response body")
	}
}

func TestCompose_SanitizesBodyBeforeStore(t *testing.T) {
	var storedPost *model.Post
	store := &mockPostStore{
		createFn: func(ctx context.Context, post *model.Post) error {
			storedPost = post
			return nil
		},
	}
	sanitizer := &mockSanitizer{
		sanitizeFn: func(rawHTML string) string {
			return strings.ReplaceAll(rawHTML, "<script>alert(1)</script>", "")
		},
	}
	metrics := &mockPostMetrics{}
	h := newTestPostHandler(t, store, sanitizer, metrics)

	form := url.Values{}
	form.Set("postTitle", "Beach Day")
	form.Set("postBody", "<p>Great day</p><script>alert(1)</script>")
	form.Set("postAuthor", "raihan")
	req := httptest.NewRequest(http.MethodPost, "/compose", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	h.Compose(w, req)

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if loc := w.Header().Get("Location"); loc != "/contact" {
		t.Errorf("Location = %q, want %q", loc, "/contact")
	}

	if storedPost == nil {
		t.Fatal("expected post to be stored")
	}
	if strings.Contains(storedPost.Content, "<script>") {
		t.Error("stored content must be sanitized")
	}
	if storedPost.ID == "" {
		t.Error("expected generated post ID")
	}
	if metrics.composed != 1 {
		t.Errorf("composed = %d, want 1", metrics.composed)
	}
}

func TestCompose_MissingTitle_Returns400(t *testing.T) {
	var createCalled bool
	store := &mockPostStore{
		createFn: func(ctx context.Context, post *model.Post) error {
			createCalled = true
			return nil
		},
	}
	h := newTestPostHandler(t, store, &mockSanitizer{}, &mockPostMetrics{})

	form := url.Values{}
	form.Set("postBody", "body without a title")
	req := httptest.NewRequest(http.MethodPost, "/compose", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	h.Compose(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if createCalled {
		t.Error("invalid form must not hit the store")
	}
}

func TestCompose_EmptyAuthor_DefaultsToSessionUser(t *testing.T) {
	var storedPost *model.Post
	store := &mockPostStore{
		createFn: func(ctx context.Context, post *model.Post) error {
			storedPost = post
			return nil
		},
	}
	h := newTestPostHandler(t, store, &mockSanitizer{}, &mockPostMetrics{})

	form := url.Values{}
	form.Set("postTitle", "Anonymous Post")
	form.Set("postBody", "some body")
	req := httptest.NewRequest(http.MethodPost, "/compose", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	ctx := middleware.ContextWithUser(req.Context(), &model.User{
		ID:    "user-123",
		Email: "author@example.com",
	})
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	h.Compose(w, req)

	if storedPost == nil {
		t.Fatal("expected post to be stored")
	}
	if storedPost.Author != "author@example.com" {
		t.Errorf("Author = %q, want session user email", storedPost.Author)
	}
}

func TestGetPost_Found_RendersPost(t *testing.T) {
	store := &mockPostStore{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return &model.Post{
				ID:      id,
				Title:   "Island Hopping Notes",
				Content: "<p>Lengkuas was the highlight.</p>",
				Author:  "raihan",
			}, nil
		},
	}
	h := newTestPostHandler(t, store, &mockSanitizer{}, &mockPostMetrics{})

	req := httptest.NewRequest(http.MethodGet, "/post/post-1", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("postID", "post-1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	h.GetPost(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Island Hopping Notes") {
		t.Error("expected post title in response body")
	}
	// サニタイズ済み本文はエスケープせずそのまま描画される
	if !strings.Contains(body, "<p>Lengkuas was the highlight.</p>") {
		t.Error("expected sanitized HTML to render unescaped")
	}
}

func TestGetPost_NotFound_Renders404(t *testing.T) {
	store := &mockPostStore{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return nil, nil
		},
	}
	h := newTestPostHandler(t, store, &mockSanitizer{}, &mockPostMetrics{})

	req := httptest.NewRequest(http.MethodGet, "/post/ghost", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("postID", "ghost")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	h.GetPost(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
