// Package web embeds the console templates and static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/OldiBike/mototrip-planner-sub000/pkg/valueobjects"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"euro": func(v float64) string {
			return valueobjects.EuroFromFloat(v).String()
		},
		"km": func(v float64) string {
			if v == 0 {
				return "-"
			}
			return strconv.FormatFloat(v, 'f', -1, 64) + " km"
		},
		"join": strings.Join,
	}
}

// Templates parses every page. Each file defines a template named after
// itself; layout.html holds the shared header and footer.
func Templates() (*template.Template, error) {
	return template.New("console").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
}

// Static serves the console script and stylesheet.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
