package httpserver

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"os"

	e "github.com/IlianBuh/Blog-service/internal/lib/errors"
)

//go:embed templates/*.html
var embedded embed.FS

// Renderer writes named page with status
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any) error
}

type TemplateRenderer struct {
	tmpl *template.Template
}

// NewTemplateRenderer parses templates from dir or embedded ones if dir is empty
func NewTemplateRenderer(dir string) (*TemplateRenderer, error) {
	const op = "httpserver.NewTemplateRenderer"

	var (
		fsys    fs.FS = embedded
		pattern       = "templates/*.html"
	)
	if dir != "" {
		fsys, pattern = os.DirFS(dir), "*.html"
	}

	tmpl, err := template.ParseFS(fsys, pattern)
	if err != nil {
		return nil, e.Fail(op, err)
	}

	return &TemplateRenderer{tmpl: tmpl}, nil
}

// Render executes page into buffer first so a failed page leaves response untouched
func (t *TemplateRenderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	const op = "httpserver.Render"

	var buf bytes.Buffer
	if err := t.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return e.Fail(op, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)

	return err
}
