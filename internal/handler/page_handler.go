package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/raihan/pesonabangka/internal/middleware"
)

// staticPages は静的ページのディスパッチテーブル。URLパスとテンプレート名の
// フラットな対応表であり、ハンドラーロジックを個別に持たない。
var staticPages = map[string]string{
	"/":                "home.html",
	"/about":           "about.html",
	"/destinations":    "destinations.html",
	"/culinary":        "culinary.html",
	"/hotel":           "hotel.html",
	"/transport":       "transport.html",
	"/signin":          "signin.html",
	"/signin/login":    "login.html",
	"/signin/register": "register.html",
}

// PageHandler は静的情報ページのHTTPハンドラー。
type PageHandler struct {
	renderer *Renderer
}

// NewPageHandler はPageHandlerを生成する。
func NewPageHandler(renderer *Renderer) *PageHandler {
	return &PageHandler{renderer: renderer}
}

// Static は指定テンプレートを描画するハンドラーを返す。
// staticPagesテーブルの各エントリから生成される。
func (h *PageHandler) Static(templateName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, templateName)
	}
}

// DestinationSite は/destinations/{site}の個別観光地ページを描画する。
// 対応するテンプレートが存在しない場合は404を返す。
// GET /destinations/{site}
func (h *PageHandler) DestinationSite(w http.ResponseWriter, r *http.Request) {
	site := chi.URLParam(r, "site")
	h.renderIfExists(w, r, "sites/"+site+".html")
}

// CulinaryDish は/culinary/{dish}の個別料理ページを描画する。
// 対応するテンプレートが存在しない場合は404を返す。
// GET /culinary/{dish}
func (h *PageHandler) CulinaryDish(w http.ResponseWriter, r *http.Request) {
	dish := chi.URLParam(r, "dish")
	h.renderIfExists(w, r, "main_dish/"+dish+".html")
}

// NotFound は未定義パスの404ハンドラー。
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderer.RenderNotFound(w)
}

// render はページ共通のデータを組み立ててテンプレートを描画する。
func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, templateName string) {
	data := &PageData{
		CSRFToken: middleware.CSRFTokenFromRequest(r),
	}
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		data.User = user
	}
	h.renderer.Render(w, http.StatusOK, templateName, data)
}

// renderIfExists はテンプレートが存在する場合のみ描画し、なければ404を返す。
func (h *PageHandler) renderIfExists(w http.ResponseWriter, r *http.Request, templateName string) {
	if !h.renderer.Has(templateName) {
		h.renderer.RenderNotFound(w)
		return
	}
	h.render(w, r, templateName)
}
