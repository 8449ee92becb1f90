package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"

	"github.com/raihan/pesonabangka/internal/middleware"
	"github.com/raihan/pesonabangka/internal/model"
)

const oauthStateCookie = "oauth_state"

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	GetLoginURL(state string) string
	HandleCallback(ctx context.Context, code string) (*model.Session, error)
	RegisterLocal(ctx context.Context, email, plaintext string) (*model.User, error)
	ResolveLocal(ctx context.Context, email, plaintext string) (*model.User, error)
	CreateSession(ctx context.Context, userID string) (*model.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthMetrics は認証ハンドラーが記録するメトリクスのインターフェース。
// metrics.MetricsCollectorの部分集合として定義する。
type AuthMetrics interface {
	RecordLoginSuccess(method string)
	RecordLoginFailure(method string)
	RecordSessionCreated()
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はローカル認証とGoogle OAuthのHTTPハンドラー。
type AuthHandler struct {
	service  AuthServiceInterface
	renderer *Renderer
	metrics  AuthMetrics
	config   AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, renderer *Renderer, metrics AuthMetrics, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		renderer: renderer,
		metrics:  metrics,
		config:   config,
	}
}

// Login はローカルログインフォームを処理する。
// 成功時はセッションを発行して/contactへリダイレクトする。
// 認証拒否は/signinへのリダイレクト。未登録emailとパスワード不一致は
// 同じ挙動になる（resolver側の列挙対策ポリシー）。
// ストア障害は拒否に変換せず500を返す。
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.service.ResolveLocal(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, model.ErrBadCredential) {
			h.metrics.RecordLoginFailure("local")
			http.Redirect(w, r, "/signin", http.StatusSeeOther)
			return
		}
		slog.Error("local login failed", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	session, err := h.service.CreateSession(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to create session", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordLoginSuccess("local")
	h.metrics.RecordSessionCreated()
	h.setSessionCookie(w, session.ID)
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}

// Register はローカル登録フォームを処理する。
// email重複は明示的なメッセージ付きで登録フォームを再描画する。
// 成功時はそのままログイン状態にして/contactへリダイレクトする。
// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if email == "" || password == "" {
		h.renderRegister(w, r, "Email and password are required.")
		return
	}

	user, err := h.service.RegisterLocal(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			h.renderRegister(w, r, "Email already exists. Try logging in.")
			return
		}
		slog.Error("registration failed", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	session, err := h.service.CreateSession(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to create session", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordSessionCreated()
	h.setSessionCookie(w, session.ID)
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}

// GoogleLogin はGoogle OAuthフローを開始する。
// GET /auth/google
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := generateState()
	if err != nil {
		slog.Error("failed to generate oauth state", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// stateをCookieに保存（CSRF対策）
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10分
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	url := h.service.GetLoginURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GoogleCallback はOAuthコールバックを処理する。
// GET /auth/google/callback?code=xxx&state=yyy
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	// 1. stateの検証（CSRF対策）
	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != state {
		slog.Warn("oauth state mismatch",
			slog.String("query_state", state),
		)
		http.Error(w, "invalid state parameter", http.StatusBadRequest)
		return
	}

	// stateクッキーを削除
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	// 2. 認可コードの取得
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing authorization code", http.StatusBadRequest)
		return
	}

	// 3. 認証処理
	session, err := h.service.HandleCallback(r.Context(), code)
	if err != nil {
		h.metrics.RecordLoginFailure("google")
		slog.Error("oauth callback failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordLoginSuccess("google")
	h.metrics.RecordSessionCreated()
	h.setSessionCookie(w, session.ID)
	http.Redirect(w, r, "/contact", http.StatusTemporaryRedirect)
}

// Logout はセッションを破棄する。破棄は冪等であり、
// セッションが既に無い場合もCookieをクリアしてリダイレクトする。
// GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
			// ログアウト失敗してもCookieはクリアする
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// setSessionCookie はセッションCookieを設定する（HTTP Only）。
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// renderRegister は登録フォームをメッセージ付きで再描画する。
func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, message string) {
	h.renderer.Render(w, http.StatusOK, "register.html", &PageData{
		Title:     "Register",
		CSRFToken: middleware.CSRFTokenFromRequest(r),
		Message:   message,
	})
}

// generateState はCSRF対策用のランダムなstate値を生成する。
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
