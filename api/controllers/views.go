package controllers

import (
	"bytes"
	"embed"
	"html"
	"html/template"
	"net/http"
	"regexp"
)

//go:embed templates/*.html
var templateFS embed.FS

var strongPattern = regexp.MustCompile(`\*\*(.+?)\*\*`)

var pageTemplates = template.Must(
	template.New("pages").
		Funcs(template.FuncMap{"strong": strong}).
		ParseFS(templateFS, "templates/*.html"),
)

// strong escapes s and turns **text** spans into <strong> elements.
func strong(s string) template.HTML {
	return template.HTML(strongPattern.ReplaceAllString(html.EscapeString(s), "<strong>$1</strong>"))
}

// renderPage executes the named template into a buffer so a template failure
// never leaves a half-written page behind.
func renderPage(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}
