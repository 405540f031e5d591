package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/weather-note/internal/settings"
)

// SettingsFile keeps settings in a YAML file. Writes replace the file
// atomically so a crash never leaves a half-written file behind.
type SettingsFile struct {
	mu   sync.Mutex
	path string
}

func NewSettingsFile(path string) *SettingsFile {
	return &SettingsFile{path: path}
}

func (f *SettingsFile) Path() string {
	return f.path
}

// Load reads the file. A missing file yields the defaults.
func (f *SettingsFile) Load() (settings.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return settings.Default(), nil
	}
	if err != nil {
		return settings.Settings{}, fmt.Errorf("read settings: %w", err)
	}

	var s settings.Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return settings.Settings{}, fmt.Errorf("parse settings %s: %w", f.path, err)
	}
	return s.WithDefaults(), nil
}

// Save validates and writes s.
func (f *SettingsFile) Save(s settings.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	if err := atomic.WriteFile(f.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
