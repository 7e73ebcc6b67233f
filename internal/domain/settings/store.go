package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// FileStore reads the settings file once at startup and keeps the snapshot
// in memory. Update rewrites the file and swaps the snapshot.
type FileStore struct {
	path   string
	logger zerolog.Logger

	mu      sync.RWMutex
	current ClinicSettings
}

// LoadFile reads path with viper. A missing file yields empty settings so a
// fresh install can still print prescriptions.
func LoadFile(path string, logger zerolog.Logger) (*FileStore, error) {
	s := &FileStore{path: path, logger: logger, current: New(nil)}

	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Str("path", path).Msg("settings file not found, using empty clinic settings")
			return s, nil
		}
		return nil, fmt.Errorf("read settings file %s: %w", path, err)
	}

	values := make(map[string]string, len(Keys))
	for _, k := range Keys {
		values[k] = v.GetString(k)
	}
	s.current = New(values)
	logger.Info().Str("path", path).Msg("clinic settings loaded")
	return s, nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("json")
	}
	return v
}

// Settings returns the current snapshot.
func (s *FileStore) Settings() ClinicSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update merges known keys from updates, persists the result and returns the
// new snapshot. Unknown keys are ignored and values are trimmed.
func (s *FileStore) Update(updates map[string]string) (ClinicSettings, error) {
	clean := make(map[string]string, len(updates))
	for k, v := range updates {
		clean[k] = strings.TrimSpace(v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Merge(clean)

	v := newViper(s.path)
	for k, val := range next.Map() {
		v.Set(k, val)
	}
	if err := v.WriteConfigAs(s.path); err != nil {
		return s.current, fmt.Errorf("write settings file %s: %w", s.path, err)
	}

	s.current = next
	s.logger.Info().Str("path", s.path).Msg("clinic settings updated")
	return next, nil
}
