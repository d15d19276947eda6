package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"sync"
)

// Templates is a named template set that can be swapped while serving.
type Templates struct {
	mu sync.RWMutex
	t  *template.Template
}

func NewTemplates(t *template.Template) *Templates {
	return &Templates{t: t}
}

// ParseFS parses every *.html file in fsys into one set of named templates.
func ParseFS(fsys fs.FS) (*template.Template, error) {
	t, err := template.New("routelab").ParseFS(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

func (ts *Templates) Swap(t *template.Template) {
	ts.mu.Lock()
	ts.t = t
	ts.mu.Unlock()
}

func (ts *Templates) Execute(w io.Writer, name string, data any) error {
	ts.mu.RLock()
	t := ts.t
	ts.mu.RUnlock()

	if t.Lookup(name) == nil {
		return fmt.Errorf("template %s not found", name)
	}
	return t.ExecuteTemplate(w, name, data)
}

// HTML executes name into a buffer so a failed template never emits partial markup.
func (ts *Templates) HTML(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := ts.Execute(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
