package handler

import (
	"embed"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// NewStaticHandler は埋め込み静的アセットを配信するハンドラーを返す。
// 埋め込みFSのパスがURLパス（/static/...）と一致するためStripPrefixは不要。
func NewStaticHandler() http.Handler {
	return http.FileServer(http.FS(staticFS))
}
