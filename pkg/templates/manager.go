package templates

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"go.uber.org/zap"

	"github.com/selivandex/marketpulse/pkg/logger"
)

// Renderer interface for template rendering (for dependency injection)
type Renderer interface {
	ExecuteTemplate(name string, data any) (string, error)
	TemplateExists(name string) bool
}

// Manager manages text templates from a directory
type Manager struct {
	templates *template.Template
	directory string
}

// DefaultFuncMap returns common template helper functions
func DefaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"mul": func(a, b float64) float64 {
			return a * b
		},
		"pct": func(v float64) float64 {
			return v * 100
		},
		"add": func(a, b int) int {
			return a + b
		},
		"printf": fmt.Sprintf,
	}
}

// NewManager creates and loads all templates from directory
func NewManager(templatesDir string) (*Manager, error) {
	tmpl := template.New("root").Funcs(DefaultFuncMap())

	pattern := filepath.Join(templatesDir, "*.tmpl")
	result, err := tmpl.ParseGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates from %s: %w", templatesDir, err)
	}

	loaded := result.Templates()
	logger.Info("templates loaded",
		zap.String("directory", templatesDir),
		zap.Int("count", len(loaded)),
	)

	return &Manager{templates: result, directory: templatesDir}, nil
}

// ExecuteTemplate renders the named template with data
func (m *Manager) ExecuteTemplate(name string, data any) (string, error) {
	t := m.templates.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("template %q not found in %s", name, m.directory)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %q: %w", name, err)
	}

	return buf.String(), nil
}

// TemplateExists reports whether the named template is loaded
func (m *Manager) TemplateExists(name string) bool {
	return m.templates.Lookup(name) != nil
}
