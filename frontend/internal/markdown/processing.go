package markdown

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed docs/*.md
var docsFS embed.FS

// TextProcessor renders the markdown docs shown on index pages into sanitized HTML.
type TextProcessor struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	docs   fs.FS

	mu       sync.RWMutex
	rendered map[string]template.HTML
}

// New returns a processor over the embedded docs.
func New() *TextProcessor {
	sub, _ := fs.Sub(docsFS, "docs")
	return NewWithFS(sub)
}

func NewWithFS(docs fs.FS) *TextProcessor {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(false)
	p.AllowRelativeURLs(true)

	return &TextProcessor{
		md:       md,
		policy:   p,
		docs:     docs,
		rendered: make(map[string]template.HTML),
	}
}

// Render converts markdown to HTML with anything unsafe stripped.
func (tp *TextProcessor) Render(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := tp.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	safeHTML := tp.policy.SanitizeBytes(buf.Bytes())
	return template.HTML(strings.TrimSpace(string(safeHTML))), nil
}

// Doc renders docs/<name>.md once and memoizes the result.
func (tp *TextProcessor) Doc(name string) (template.HTML, error) {
	tp.mu.RLock()
	html, ok := tp.rendered[name]
	tp.mu.RUnlock()
	if ok {
		return html, nil
	}

	src, err := fs.ReadFile(tp.docs, path.Clean(name)+".md")
	if err != nil {
		return "", fmt.Errorf("doc %s: %w", name, err)
	}
	html, err = tp.Render(src)
	if err != nil {
		return "", fmt.Errorf("doc %s: %w", name, err)
	}

	tp.mu.Lock()
	tp.rendered[name] = html
	tp.mu.Unlock()
	return html, nil
}
