// Package modelstore persists the trained direction model as JSON.
package modelstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"trading-assistant/internal/interfaces"
	"trading-assistant/internal/logger"
	"trading-assistant/internal/predictor"
	"trading-assistant/internal/types"
)

var _ interfaces.ModelStore = (*FileStore)(nil)

// FileStore keeps one model per file. Saves replace the file atomically, so a
// concurrent Load sees either the old model or the new one.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

// Load returns types.ErrModelAbsent when no model has been saved yet.
func (s *FileStore) Load(ctx context.Context) (*predictor.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no model at %s: %w", s.path, types.ErrModelAbsent)
	}
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	var m predictor.Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", s.path, types.ErrInvalidInput)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("model %s: %w", s.path, err)
	}
	logger.Debug(ctx, "Model loaded", "path", s.path, "accuracy", m.Accuracy, "trained_at", m.TrainedAt)
	return &m, nil
}

func (s *FileStore) Save(ctx context.Context, m *predictor.Model) error {
	if m == nil {
		return fmt.Errorf("nil model: %w", types.ErrInvalidInput)
	}
	if err := m.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".model-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp model: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp model: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace model: %w", err)
	}

	logger.Info(ctx, "Model saved", "path", s.path, "accuracy", m.Accuracy, "train_rows", m.TrainRows)
	return nil
}
