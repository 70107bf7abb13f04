// Package store keeps the last loaded song on local disk as leadsheet text.
// Saves are debounced so an editor can call Save on every keystroke.
package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/leadsheet/model"
	"github.com/jsphweid/leadsheet/parser"
)

type Store struct {
	path     string
	debounce func(f func())
	logger   *slog.Logger

	mu      sync.Mutex
	pending string
	dirty   bool
}

func New(path string, wait time.Duration, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:     path,
		debounce: debounce.New(wait),
		logger:   logger,
	}
}

func (s *Store) Path() string {
	return s.path
}

// Save schedules song to be written once saves have been quiet for the
// store's wait.
func (s *Store) Save(song model.Song) {
	s.SaveText(song.Format())
}

// SaveText is Save for text that is already formatted.
func (s *Store) SaveText(text string) {
	s.mu.Lock()
	s.pending, s.dirty = text, true
	s.mu.Unlock()
	s.debounce(func() {
		if err := s.Flush(); err != nil {
			s.logger.Error("saving song failed", "path", s.path, "error", err)
		}
	})
}

// Flush writes any pending song now.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	if err := writeFile(s.path, s.pending); err != nil {
		return err
	}
	s.dirty = false
	s.logger.Debug("saved song", "path", s.path, "bytes", len(s.pending))
	return nil
}

// writeFile replaces path through a rename so readers never see half a song.
func writeFile(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write song: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace song: %w", err)
	}
	return nil
}

// Text returns the stored leadsheet, including a save not yet written.
func (s *Store) Text() (string, error) {
	s.mu.Lock()
	if s.dirty {
		defer s.mu.Unlock()
		return s.pending, nil
	}
	s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to read stored song: %w", err)
	}
	return string(data), nil
}

// Load parses the stored song.
func (s *Store) Load() (model.Song, error) {
	text, err := s.Text()
	if err != nil {
		return model.Song{}, err
	}
	song, err := parser.ParseSong(text)
	if err != nil {
		return model.Song{}, fmt.Errorf("stored song %s: %w", s.path, err)
	}
	return song, nil
}
