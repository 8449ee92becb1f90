package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/raihan/pesonabangka/internal/middleware"
	"github.com/raihan/pesonabangka/internal/model"
)

func newTestPageHandler(t *testing.T) *PageHandler {
	t.Helper()
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	return NewPageHandler(renderer)
}

// 静的ページテーブルの全エントリに対応するテンプレートが存在することを検証
func TestStaticPages_AllTemplatesExist(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	for path, templateName := range staticPages {
		if !renderer.Has(templateName) {
			t.Errorf("path %s maps to missing template %s", path, templateName)
		}
	}
}

// destinations一覧のリンク先観光地すべてにテンプレートが存在することを検証
func TestDestinationTemplates_AllExist(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	sites := []string{
		"pasir_padi", "parai", "batudinding", "matras", "tongaci",
		"koalin", "puritriagung", "penyusukbeach", "tanjungkalian",
		"tanjungkelayang", "lengkuas", "batuberlayar", "tanjungtinggi",
		"burong", "diving",
	}
	for _, site := range sites {
		if !renderer.Has("sites/" + site + ".html") {
			t.Errorf("missing destination template for %s", site)
		}
	}

	dishes := []string{"bakmi", "otak_otak", "seafood", "uniquefood", "others", "snacks"}
	for _, dish := range dishes {
		if !renderer.Has("main_dish/" + dish + ".html") {
			t.Errorf("missing culinary template for %s", dish)
		}
	}
}

func TestStatic_RendersTemplate(t *testing.T) {
	h := newTestPageHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	w := httptest.NewRecorder()

	h.Static("about.html")(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
}

func TestStatic_AuthenticatedUser_ShowsLogout(t *testing.T) {
	h := newTestPageHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := middleware.ContextWithUser(req.Context(), &model.User{
		ID:    "user-123",
		Email: "nav@example.com",
	})
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	h.Static("home.html")(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "/logout") {
		t.Error("expected logout link for authenticated user")
	}
	if strings.Contains(body, ">Sign In<") {
		t.Error("sign-in link must be hidden for authenticated user")
	}
}

func TestDestinationSite_UnknownSite_Renders404(t *testing.T) {
	h := newTestPageHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/destinations/atlantis", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("site", "atlantis")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	h.DestinationSite(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestCulinaryDish_KnownDish_Renders200(t *testing.T) {
	h := newTestPageHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/culinary/bakmi", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("dish", "bakmi")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	h.CulinaryDish(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "Bakmi Bangka") {
		t.Error("expected dish content in response body")
	}
}
