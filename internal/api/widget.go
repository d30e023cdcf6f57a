package api

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed web
var widgetFS embed.FS

// WidgetHandler serves the static wallet-login widget bundle. The widget is
// presentation only: it collects the credential and posts it to its host
// window, which forwards it to POST /auth/particle.
func WidgetHandler() http.Handler {
	sub, err := fs.Sub(widgetFS, "web")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/particle-auth", http.FileServer(http.FS(sub)))
}
