package handler

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/raihan/pesonabangka/internal/middleware"
	"github.com/raihan/pesonabangka/internal/model"
)

// PostStore はブログハンドラーが必要とする永続化インターフェース。
// repository.PostRepositoryの部分集合として定義する。
type PostStore interface {
	FindByID(ctx context.Context, id string) (*model.Post, error)
	List(ctx context.Context) ([]*model.Post, error)
	Create(ctx context.Context, post *model.Post) error
}

// PostSanitizer は記事本文のサニタイズインターフェース。
type PostSanitizer interface {
	Sanitize(rawHTML string) string
}

// PostMetrics はブログハンドラーが記録するメトリクスのインターフェース。
type PostMetrics interface {
	RecordPostComposed()
}

// PostHandler はブログ関連のHTTPハンドラー。
type PostHandler struct {
	store     PostStore
	sanitizer PostSanitizer
	renderer  *Renderer
	metrics   PostMetrics
}

// NewPostHandler はPostHandlerを生成する。
func NewPostHandler(store PostStore, sanitizer PostSanitizer, renderer *Renderer, metrics PostMetrics) *PostHandler {
	return &PostHandler{
		store:     store,
		sanitizer: sanitizer,
		renderer:  renderer,
		metrics:   metrics,
	}
}

// Contact はブログ一覧ページを描画する。認証必須。
// GET /contact
func (h *PostHandler) Contact(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.List(r.Context())
	if err != nil {
		slog.Error("failed to list posts", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	data := &PageData{
		Title:     "Blog",
		CSRFToken: middleware.CSRFTokenFromRequest(r),
		Posts:     posts,
	}
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		data.User = user
	}
	h.renderer.Render(w, http.StatusOK, "contact.html", data)
}

// ShowCompose は投稿フォームを描画する。認証必須。
// GET /compose
func (h *PostHandler) ShowCompose(w http.ResponseWriter, r *http.Request) {
	data := &PageData{
		Title:     "Compose",
		CSRFToken: middleware.CSRFTokenFromRequest(r),
	}
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		data.User = user
	}
	h.renderer.Render(w, http.StatusOK, "compose.html", data)
}

// Compose は投稿フォームを処理する。認証必須。
// 本文は保存前にサニタイズする。
// POST /compose
func (h *PostHandler) Compose(w http.ResponseWriter, r *http.Request) {
	title := r.PostFormValue("postTitle")
	body := r.PostFormValue("postBody")
	author := r.PostFormValue("postAuthor")

	if title == "" || body == "" {
		http.Error(w, "title and body are required", http.StatusBadRequest)
		return
	}

	if author == "" {
		if user, ok := middleware.UserFromContext(r.Context()); ok {
			author = user.Email
		}
	}

	post := &model.Post{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   h.sanitizer.Sanitize(body),
		Author:    author,
		CreatedAt: time.Now(),
	}

	if err := h.store.Create(r.Context(), post); err != nil {
		slog.Error("failed to save post", slog.String("error", err.Error()))
		http.Error(w, "unable to save post", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordPostComposed()
	slog.Info("post composed",
		slog.String("post_id", post.ID),
		slog.String("title", post.Title),
	)
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}

// GetPost は個別記事ページを描画する。記事が存在しない場合は404を返す。
// GET /post/{postID}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	post, err := h.store.FindByID(r.Context(), postID)
	if err != nil {
		slog.Error("failed to find post", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if post == nil {
		h.renderer.RenderNotFound(w)
		return
	}

	data := &PageData{
		Title:    post.Title,
		Post:     post,
		PostBody: template.HTML(post.Content),
	}
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		data.User = user
	}
	h.renderer.Render(w, http.StatusOK, "post.html", data)
}
