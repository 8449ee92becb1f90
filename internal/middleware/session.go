// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/raihan/pesonabangka/internal/model"
)

// SessionCookieName はセッションIDを保持するCookieの名前。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userContextKey はリクエストコンテキストに認証済みユーザーを格納するためのキー。
var userContextKey = contextKey("user")

// SessionFinder はセッションの検索に必要なインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionFinder interface {
	FindByID(ctx context.Context, id string) (*model.Session, error)
}

// UserFinder はユーザーの検索に必要なインターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// Gate は保護リソースへのアクセス可否を判定する認証ゲート。
// 判定は純粋なallow/denyであり、HTTPレスポンスの発行は呼び出し側の責務。
type Gate struct {
	sessions SessionFinder
	users    UserFinder
}

// NewGate はGateを生成する。
func NewGate(sessions SessionFinder, users UserFinder) *Gate {
	return &Gate{sessions: sessions, users: users}
}

// Authorize はセッショントークンを検証し、解決したユーザーを返す。
// トークンが空・セッション未知・期限切れ・参照先ユーザーが削除済みの
// いずれもdenyとなる。ストア障害もdenyとして扱い、呼び出し側へ
// エラーは返さない（漏らすのはログのみ）。
func (g *Gate) Authorize(ctx context.Context, token string) (*model.User, bool) {
	if token == "" {
		return nil, false
	}

	session, err := g.sessions.FindByID(ctx, token)
	if err != nil {
		slog.Error("failed to find session",
			slog.String("error", err.Error()),
		)
		return nil, false
	}
	if session == nil {
		return nil, false
	}

	user, err := g.users.FindByID(ctx, session.UserID)
	if err != nil {
		slog.Error("failed to resolve session user",
			slog.String("error", err.Error()),
		)
		return nil, false
	}
	if user == nil {
		// セッション発行後にユーザーレコードが削除された
		return nil, false
	}

	return user, true
}

// NewRequireLoginMiddleware はセッションCookieをGateで検証し、
// 認証済みユーザーをリクエストコンテキストに注入するミドルウェアを返す。
// denyの場合はredirectURLへリダイレクトする。
func NewRequireLoginMiddleware(gate *Gate, redirectURL string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				token = cookie.Value
			}

			user, ok := gate.Authorize(r.Context(), token)
			if !ok {
				http.Redirect(w, r, redirectURL, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext はリクエストコンテキストから認証済みユーザーを取得する。
// RequireLoginミドルウェアを通過したリクエストでのみ有効。
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// ContextWithUser はコンテキストにユーザーを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
