package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

const (
	layoutFile   = "layout.html"
	baseTemplate = "base"
)

// Renderer holds one template set per page. Each set is a clone of the
// layout plus the shared partials with a single page parsed into it, so pages
// can all define "content" without clashing.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses layout.html, the "_*.html" partials and every other
// "*.html" page found at the root of fsys.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	baseTmpl, err := template.New(baseTemplate).Funcs(TemplateFuncs()).ParseFS(fsys, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	partials, err := fs.Glob(fsys, "_*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob partials: %w", err)
	}
	if len(partials) > 0 {
		if baseTmpl, err = baseTmpl.ParseFS(fsys, partials...); err != nil {
			return nil, fmt.Errorf("failed to parse partials: %w", err)
		}
	}

	pages, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}

	templates := make(map[string]*template.Template)
	for _, page := range pages {
		if page == layoutFile || strings.HasPrefix(page, "_") {
			continue
		}

		pageTmpl, err := baseTmpl.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone template for %s: %w", page, err)
		}

		if pageTmpl, err = pageTmpl.ParseFS(fsys, page); err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", page, err)
		}

		templates[strings.TrimSuffix(page, path.Ext(page))] = pageTmpl
	}

	return &Renderer{templates: templates}, nil
}

// Has reports whether a page with that name was loaded.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Render executes the page's layout into w.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, baseTemplate, data)
}

// RenderHTTP renders the page with status 200.
func (r *Renderer) RenderHTTP(w http.ResponseWriter, req *http.Request, name string, data any) {
	r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders into a buffer first so a template failure still
// produces a clean 500 instead of a half-written page.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data); err != nil {
		InternalErrorResponse(w, req, fmt.Errorf("render %s: %w", name, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
