package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/raihan/pesonabangka/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// *sql.DBを直接受け付けられる。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger        *slog.Logger
	HealthChecker HealthChecker

	// ミドルウェア依存
	Gate       *middleware.Gate
	CSRFConfig middleware.CSRFConfig
	Metrics    middleware.StatusRecorder

	// ハンドラー依存
	Renderer    *Renderer
	AuthService AuthServiceInterface
	AuthMetrics AuthMetrics
	AuthConfig  AuthHandlerConfig

	PostStore     PostStore
	PostSanitizer PostSanitizer
	PostMetrics   PostMetrics

	// /metrics エンドポイント（Prometheusスクレイプ用）
	MetricsHandler http.Handler
}

// NewRouter は全ルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Metrics → Logging → CSRF
//
// 保護ルート（/contact, /compose）のみRequireLoginを追加で通す。
// 認証ゲートのdenyは/signinへのリダイレクトとしてHTTP層で表現される。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

	pageHandler := NewPageHandler(deps.Renderer)
	authHandler := NewAuthHandler(deps.AuthService, deps.Renderer, deps.AuthMetrics, deps.AuthConfig)
	postHandler := NewPostHandler(deps.PostStore, deps.PostSanitizer, deps.Renderer, deps.PostMetrics)

	// --- 静的ページ（ディスパッチテーブル） ---
	for path, templateName := range staticPages {
		r.Get(path, pageHandler.Static(templateName))
	}
	r.Get("/destinations/{site}", pageHandler.DestinationSite)
	r.Get("/culinary/{dish}", pageHandler.CulinaryDish)
	r.Handle("/static/*", NewStaticHandler())

	// --- 認証 ---
	r.Post("/login", authHandler.Login)
	r.Post("/register", authHandler.Register)
	r.Get("/logout", authHandler.Logout)
	r.Route("/auth/google", func(r chi.Router) {
		r.Get("/", authHandler.GoogleLogin)
		r.Get("/callback", authHandler.GoogleCallback)
	})

	// --- 公開ブログ記事 ---
	r.Get("/post/{postID}", postHandler.GetPost)
	r.Get("/posts/{postID}", postHandler.GetPost)

	// --- 認証が必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewRequireLoginMiddleware(deps.Gate, "/signin"))

		r.Get("/contact", postHandler.Contact)
		r.Get("/compose", postHandler.ShowCompose)
		r.Post("/compose", postHandler.Compose)
	})

	// --- 運用エンドポイント ---
	r.Get("/health", newHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.NotFound(pageHandler.NotFound)

	return r
}

// newHealthHandler はDB接続を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}
