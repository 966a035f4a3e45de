// Package web embeds the HTML templates and static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"feuerwehr-web/pkg/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Funcs are the helpers available in every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"t":    i18n.T,
		"url":  i18n.URL,
		"date": i18n.FormatLongDate,
		"year": func() int { return time.Now().Year() },
		"add":  func(a, b int) int { return a + b },
	}
}

// Templates parses every embedded template. Each page is addressed by the
// name given in its define block.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
}

// Static serves the embedded assets below /static.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
