// Package views embeds the HTML templates.
package views

import (
	"embed"
	"html/template"
	"io/fs"
	"time"
)

//go:embed layout.html shared posts auth core
var FS embed.FS

// Funcs are available in every template.
var Funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("2 January 2006")
	},
	"selected": func(current *int, id int) bool {
		return current != nil && *current == id
	},
}

// Parse builds a template set from the layout, the shared partials and pages.
func Parse(fsys fs.FS, pages ...string) (*template.Template, error) {
	patterns := append([]string{"layout.html", "shared/*.html"}, pages...)
	return template.New("layout.html").Funcs(Funcs).ParseFS(fsys, patterns...)
}
