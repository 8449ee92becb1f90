// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// 原因カテゴリとユーザー向け対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, blog, system
	Action   string // ユーザー向け対処方法
	cause    error  // 下位レイヤのエラー（任意）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap は下位レイヤのエラーを返す。
func (e *APIError) Unwrap() error {
	return e.cause
}

// Is は同じエラーコードのAPIErrorを同一視する。
// パッケージレベルの固定エラー値とerrors.Isで比較できるようにする。
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// 定義済みエラーコード
const (
	ErrCodeNoSuchUser       = "NO_SUCH_USER"
	ErrCodeBadCredential    = "BAD_CREDENTIAL"
	ErrCodeDuplicateEmail   = "DUPLICATE_EMAIL"
	ErrCodeHashingFailure   = "HASHING_FAILURE"
	ErrCodeStoreUnavailable = "STORE_UNAVAILABLE"
	ErrCodeSessionAbsent    = "SESSION_ABSENT"
	ErrCodePostNotFound     = "POST_NOT_FOUND"
)

// 固定エラー値。errors.Isで識別する。
var (
	// ErrNoSuchUser は該当emailのユーザーが存在しないことを表す。
	// 列挙攻撃対策のため、HTTP境界ではErrBadCredentialに揃えて報告する。
	ErrNoSuchUser = &APIError{
		Code:     ErrCodeNoSuchUser,
		Message:  "no account exists for this email",
		Category: "auth",
		Action:   "Check the email address or register a new account.",
	}

	// ErrBadCredential は認証情報が一致しないことを表す。
	ErrBadCredential = &APIError{
		Code:     ErrCodeBadCredential,
		Message:  "email or password is incorrect",
		Category: "auth",
		Action:   "Check your email and password and try again.",
	}

	// ErrDuplicateEmail は同一emailのユーザーが既に存在することを表す。
	ErrDuplicateEmail = &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  "this email is already registered",
		Category: "auth",
		Action:   "Try logging in instead.",
	}

	// ErrSessionAbsent はセッションが存在しないか期限切れであることを表す。
	// 両者は区別せず同一に扱う。
	ErrSessionAbsent = &APIError{
		Code:     ErrCodeSessionAbsent,
		Message:  "session not found or expired",
		Category: "auth",
		Action:   "Sign in again.",
	}

	// ErrPostNotFound は指定されたブログ記事が存在しないことを表す。
	ErrPostNotFound = &APIError{
		Code:     ErrCodePostNotFound,
		Message:  "post not found",
		Category: "blog",
		Action:   "Check the post URL.",
	}
)

// NewHashingFailureError はパスワードハッシュ処理の内部エラーを生成する。
func NewHashingFailureError(cause error) *APIError {
	return &APIError{
		Code:     ErrCodeHashingFailure,
		Message:  "failed to hash password",
		Category: "system",
		Action:   "Try again later.",
		cause:    cause,
	}
}

// NewStoreUnavailableError はストアI/O障害を生成する。
// 認証の拒否とは明確に区別され、決して「認証失敗」に変換してはならない。
func NewStoreUnavailableError(cause error) *APIError {
	return &APIError{
		Code:     ErrCodeStoreUnavailable,
		Message:  "datastore is unavailable",
		Category: "system",
		Action:   "Try again later.",
		cause:    cause,
	}
}
