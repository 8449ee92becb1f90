// Package model はドメインモデルを定義する。
package model

import "time"

// FederatedCredential はGoogleログインのみで作成されたアカウントの
// credential列に格納されるセンチネル値。ローカルパスワードを持たないことを表し、
// パスワード照合では決して一致しない。
const FederatedCredential = "google"

// User はサイト利用ユーザーを表す。emailが唯一の自然キーであり、
// ローカル登録とGoogleログインの両方で同じemailは同じレコードに解決される。
type User struct {
	ID         string
	Email      string
	Name       string
	Credential string // bcryptハッシュ、またはFederatedCredential
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsFederatedOnly はローカルパスワードを持たないアカウントかどうかを返す。
func (u *User) IsFederatedOnly() bool {
	return u.Credential == FederatedCredential
}

// Session はユーザーのログインセッションを表す。
// IDは推測不能な不透明トークン。ユーザーレコードを所有せず、IDによる参照のみ持つ。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired はセッションが期限切れかどうかを返す。
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
