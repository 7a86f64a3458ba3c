package trend

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Sidecar persists analysis results to a JSON file for downstream report
// and chart consumers. The file is pretty-printed and overwritten whole on
// every run; it is not an append log.
type Sidecar struct {
	path string
}

// NewSidecar creates a sidecar writer for the given path
func NewSidecar(path string) *Sidecar {
	return &Sidecar{path: path}
}

// Path returns the sidecar file path
func (s *Sidecar) Path() string {
	return s.path
}

// Save stamps the result with the generation time and writes it out. A
// write failure is reported to the caller but leaves the in-memory result
// untouched apart from the timestamp.
func (s *Sidecar) Save(res *Result) error {
	res.GeneratedAt = time.Now().UTC()

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode trend result: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create sidecar directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write sidecar: %w", err)
	}

	return nil
}

// Load reads the most recently persisted result
func (s *Sidecar) Load() (*Result, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sidecar: %w", err)
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to decode sidecar: %w", err)
	}

	return &res, nil
}
