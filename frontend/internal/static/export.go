package static

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	manifestFile  = "manifest.json"
	buildIdFile   = "BUILD_ID"
	exportVersion = 1
)

type manifest struct {
	Version int             `json:"version"`
	BuildId string          `json:"buildId"`
	Pages   []manifestEntry `json:"pages"`
}

type manifestEntry struct {
	Path        string    `json:"path"`
	File        string    `json:"file"`
	Bytes       int       `json:"bytes"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// FileFor maps a page path to its file inside an export directory.
func FileFor(path string) string {
	trimmed := strings.Trim(NormalizePath(path), "/")
	if trimmed == "" {
		return "index.html"
	}
	return filepath.ToSlash(filepath.Join(trimmed, "index.html"))
}

// Export writes every page of store under dir together with a manifest.
func Export(store *Store, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	m := manifest{Version: exportVersion, BuildId: store.BuildId()}
	for _, path := range store.Paths() {
		page, _ := store.Get(path)
		if err := ValidatePath(page.Path); err != nil {
			return err
		}
		file := FileFor(page.Path)
		target := filepath.Join(dir, filepath.FromSlash(file))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create dir for %s: %w", page.Path, err)
		}
		if err := os.WriteFile(target, page.HTML, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", page.Path, err)
		}
		m.Pages = append(m.Pages, manifestEntry{
			Path:        page.Path,
			File:        file,
			Bytes:       len(page.HTML),
			GeneratedAt: page.GeneratedAt.UTC(),
		})
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFile), data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, buildIdFile), []byte(store.BuildId()+"\n"), 0o644); err != nil {
		return fmt.Errorf("write build id: %w", err)
	}
	return nil
}

// Load reads an export produced by Export back into a ready store.
func Load(dir string) (*Store, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Version != exportVersion {
		return nil, fmt.Errorf("unsupported export version %d", m.Version)
	}
	if m.BuildId == "" {
		return nil, fmt.Errorf("manifest has no build id")
	}

	store := NewStore(m.BuildId)
	for _, entry := range m.Pages {
		if err := ValidatePath(entry.Path); err != nil {
			return nil, err
		}
		html, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(FileFor(entry.Path))))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Path, err)
		}
		store.Put(Page{Path: entry.Path, HTML: html, GeneratedAt: entry.GeneratedAt})
	}
	store.MarkReady()
	return store, nil
}
