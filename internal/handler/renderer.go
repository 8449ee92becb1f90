// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/raihan/pesonabangka/internal/model"
)

//go:embed templates
var templatesFS embed.FS

// PageData はテンプレートに渡す描画データ。
// 各ページはこのうち必要なフィールドのみ参照する。
type PageData struct {
	Title     string
	User      *model.User // 認証済みの場合のみ設定
	CSRFToken string      // フォームを含むページで使用
	Posts     []*model.Post
	Post      *model.Post
	PostBody  template.HTML // サニタイズ済み記事本文
	Message   string        // フォームエラー等のユーザー向けメッセージ
}

// Renderer は埋め込みテンプレートによるHTMLレンダリングを提供する。
// テンプレート名はtemplates/配下の相対パス（例: "home.html", "sites/parai.html"）。
type Renderer struct {
	templates *template.Template
}

// NewRenderer は埋め込みテンプレートをすべてパースしてRendererを生成する。
func NewRenderer() (*Renderer, error) {
	root := template.New("")

	err := fs.WalkDir(templatesFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		b, err := templatesFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", path, err)
		}

		name := strings.TrimPrefix(path, "templates/")
		if _, err := root.New(name).Parse(string(b)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Renderer{templates: root}, nil
}

// Has は指定名のテンプレートが存在するかどうかを返す。
func (r *Renderer) Has(name string) bool {
	return r.templates.Lookup(name) != nil
}

// Render はテンプレートを描画する。
// 描画エラーを途中まで書き込まれたレスポンスとして漏らさないよう、
// 一旦バッファに描画してから書き込む。
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data *PageData) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("failed to render template",
			slog.String("template", name),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// RenderNotFound は404ページを描画する。
func (r *Renderer) RenderNotFound(w http.ResponseWriter) {
	r.Render(w, http.StatusNotFound, "404.html", &PageData{Title: "Page Not Found"})
}
