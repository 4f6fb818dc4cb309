// Package file persists module state snapshots on the local filesystem.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/state"
)

// DefaultDir is used when New receives an empty base path.
var DefaultDir = filepath.Join(".dataflow", "state")

// Store implements ports.StateStore with one file per module.
type Store struct {
	BasePath string
	format   state.Format
}

// Option configures a Store.
type Option func(*Store)

// WithFormat selects the encoding and file extension. YAML is the default.
func WithFormat(f state.Format) Option {
	return func(s *Store) {
		s.format = f
	}
}

// New creates a new Store with the given base path.
func New(basePath string, opts ...Option) *Store {
	if basePath == "" {
		basePath = DefaultDir
	}
	s := &Store{BasePath: basePath, format: state.FormatYAML}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) ext() string {
	return "." + string(s.format)
}

func (s *Store) path(moduleID string) (string, error) {
	if moduleID == "" {
		return "", fmt.Errorf("%w: moduleID cannot be empty", domain.ErrInvalidArgument)
	}
	if strings.ContainsAny(moduleID, `/\`) || moduleID == "." || moduleID == ".." {
		return "", fmt.Errorf("%w: invalid moduleID %q", domain.ErrInvalidArgument, moduleID)
	}
	return filepath.Join(s.BasePath, moduleID+s.ext()), nil
}

// Save writes the snapshot atomically: temp file, fsync, rename.
func (s *Store) Save(ctx context.Context, moduleID string, snapshot *domain.StateSnapshot) error {
	destPath, err := s.path(moduleID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure state directory: %w", err)
	}

	data, err := state.Marshal(s.format, snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	// Same directory, so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+moduleID+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Windows refuses to rename over an existing file.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing state file for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load reads the snapshot of moduleID.
func (s *Store) Load(ctx context.Context, moduleID string) (*domain.StateSnapshot, error) {
	filePath, err := s.path(moduleID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	snap, err := state.Unmarshal(s.format, data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal state file %s: %w", filePath, err)
	}
	return snap, nil
}

// Delete removes the state file. Missing files are not an error.
func (s *Store) Delete(ctx context.Context, moduleID string) error {
	filePath, err := s.path(moduleID)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete state file: %w", err)
	}
	return nil
}

// List returns the ids of all stored snapshots, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list state files: %w", err)
	}

	ext := s.ext()
	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "tmp-") || filepath.Ext(name) != ext {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ext))
	}
	sort.Strings(ids)
	return ids, nil
}
