// Package template renders notification templates from disk with a
// pongo2 template set.
package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

const templateExtension = ".html"

// Renderer implements the application TemplateRenderer port. Submitted
// values under the "data" variable are sanitized before they reach a
// template, since rendered output is sent as HTML email.
type Renderer struct {
	mu sync.RWMutex

	baseDir   string
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	policy    *bluemonday.Policy
}

// New constructs a Renderer rooted at baseDir.
func New(baseDir string) (*Renderer, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		return nil, fmt.Errorf("template: base directory is required")
	}

	loader, err := pongo2.NewLocalFileSystemLoader(baseDir)
	if err != nil {
		return nil, fmt.Errorf("template: create loader: %w", err)
	}

	return &Renderer{
		baseDir:   baseDir,
		set:       pongo2.NewSet("formloop", loader),
		templates: make(map[string]*pongo2.Template),
		policy:    bluemonday.UGCPolicy(),
	}, nil
}

// Exists probes whether a template path resolves to a file, without
// rendering it.
func (r *Renderer) Exists(path string) bool {
	path = strings.TrimSpace(path)
	if path == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(r.baseDir, path+templateExtension))
	return err == nil && !info.IsDir()
}

// Render loads and executes the template at path with vars. Submitted
// string values under "data" are sanitized first.
func (r *Renderer) Render(path string, vars map[string]any) (string, error) {
	tmpl, err := r.getTemplate(path + templateExtension)
	if err != nil {
		return "", err
	}

	ctx := make(pongo2.Context, len(vars))
	for key, value := range vars {
		ctx[key] = value
	}
	if data, ok := ctx["data"].(map[string]any); ok {
		ctx["data"] = r.sanitizeData(data)
	}

	out, err := tmpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("template: execute %q: %w", path, err)
	}
	return out, nil
}

func (r *Renderer) getTemplate(path string) (*pongo2.Template, error) {
	r.mu.RLock()
	if tmpl, ok := r.templates[path]; ok {
		r.mu.RUnlock()
		return tmpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.templates[path]; ok {
		return tmpl, nil
	}

	tmpl, err := r.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("template: load %q: %w", path, err)
	}
	r.templates[path] = tmpl
	return tmpl, nil
}

func (r *Renderer) sanitizeData(data map[string]any) map[string]any {
	sanitized := make(map[string]any, len(data))
	for key, value := range data {
		switch v := value.(type) {
		case string:
			sanitized[key] = r.policy.Sanitize(v)
		case []string:
			values := make([]string, 0, len(v))
			for _, item := range v {
				values = append(values, r.policy.Sanitize(item))
			}
			sanitized[key] = values
		default:
			sanitized[key] = value
		}
	}
	return sanitized
}
