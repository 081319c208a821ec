package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"token-swap/pkg/types"
)

// FileSource reads a price snapshot written by SaveSnapshot, or any file
// holding the same JSON array served by the HTTP source.
type FileSource struct {
	path string
}

// NewFileSource creates a price source backed by the file at path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return s.path }

// Fetch reads and decodes the snapshot file
func (s *FileSource) Fetch(ctx context.Context) ([]types.RawPrice, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Source: s.path, Err: err}
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, &FetchError{Source: s.path, Err: err}
	}
	defer f.Close()

	return decodePrices(s.path, f)
}

// SaveSnapshot writes raw prices to path as JSON
func SaveSnapshot(path string, raw []types.RawPrice) error {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal prices: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write to temporary file first, then rename for atomic write
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write prices: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
