// Package security はアプリケーションのセキュリティ機能を提供する。
//
// PostSanitizerService はユーザーが投稿したブログ記事本文をサニタイズし、
// XSS攻撃などのセキュリティリスクから閲覧者を保護する。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// 安全なタグと属性のみを通過させる。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// PostSanitizerService はブログ記事本文のサニタイズ機能のインターフェースを定義する。
// 記事の保存前に使用される。
type PostSanitizerService interface {
	// Sanitize は記事本文をサニタイズして安全なHTMLを返す。
	// 許可タグ（p, br, a, ul, ol, li, blockquote, strong, em）のみを通過させ、
	// script, iframe, styleタグおよびon*イベント属性を除去する。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(rawHTML string) string
}

// postSanitizer はPostSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type postSanitizer struct {
	policy *bluemonday.Policy
}

// NewPostSanitizer はPostSanitizerServiceの新しいインスタンスを生成する。
// ポリシーの内容:
//   - 許可タグ: p, br, a, ul, ol, li, blockquote, strong, em
//   - aタグ: href属性のみ許可、target="_blank" と rel="noreferrer noopener" を強制付与
//   - 上記以外のタグ・属性はすべて除去される
func NewPostSanitizer() *postSanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "strong", "em",
	)

	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	return &postSanitizer{policy: p}
}

// Sanitize は記事本文をサニタイズして安全なHTMLを返す。
func (s *postSanitizer) Sanitize(rawHTML string) string {
	return strings.TrimSpace(s.policy.Sanitize(rawHTML))
}

// compile-time interface check
var _ PostSanitizerService = (*postSanitizer)(nil)
