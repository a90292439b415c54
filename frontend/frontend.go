package frontend

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses the HTML pages served by the checkout handler.
func Templates() (*template.Template, error) {
	return template.ParseFS(files, "templates/*.html")
}
