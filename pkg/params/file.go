package params

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/go-simplearm/internal/log"
)

// Parse decodes a YAML parameter document into flat slash-separated keys.
// Nested mappings become path segments; non-numeric leaves are rejected.
//
//	arm_mover:
//	  min_joint_1_angle: 0
//	  max_joint_1_angle: 3.14
func Parse(data []byte) (map[string]float64, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse params YAML: %w", err)
	}
	out := make(map[string]float64)
	if err := flatten("", doc, out); err != nil {
		return nil, err
	}
	return out, nil
}

func flatten(prefix string, node map[string]any, out map[string]float64) error {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "/" + k
		}
		switch val := v.(type) {
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		case int:
			out[key] = float64(val)
		case float64:
			out[key] = val
		default:
			return fmt.Errorf("param %s: unsupported value %v (%T)", key, v, v)
		}
	}
	return nil
}

// LoadFile reads and parses a YAML parameter file.
func LoadFile(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read params file: %w", err)
	}
	return Parse(data)
}

// FileStore is a Store kept in sync with a YAML file. The file is re-read
// whenever its modification time changes; a failed reload keeps the last
// good values.
type FileStore struct {
	*Store
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	modTime time.Time
}

// OpenFile loads path into a new FileStore.
func OpenFile(path string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = log.L()
	}
	fs := &FileStore{
		Store:  NewStore(nil),
		path:   path,
		logger: logger.With("component", "params", "path", path),
	}
	if err := fs.Reload(); err != nil {
		return nil, err
	}
	return fs, nil
}

// Path returns the backing file path.
func (fs *FileStore) Path() string {
	return fs.path
}

// Reload re-reads the file unconditionally.
func (fs *FileStore) Reload() error {
	info, err := os.Stat(fs.path)
	if err != nil {
		return fmt.Errorf("stat params file: %w", err)
	}
	values, err := LoadFile(fs.path)
	if err != nil {
		return err
	}

	fs.mu.Lock()
	fs.modTime = info.ModTime()
	fs.mu.Unlock()

	fs.Store.Replace(values)
	fs.logger.Debug("params loaded", "count", len(values))
	return nil
}

// refresh reloads the file if it changed since the last load.
func (fs *FileStore) refresh() {
	info, err := os.Stat(fs.path)
	if err != nil {
		fs.logger.Warn("params file unavailable, keeping last values", "error", err)
		return
	}

	fs.mu.Lock()
	changed := !info.ModTime().Equal(fs.modTime)
	fs.mu.Unlock()
	if !changed {
		return
	}

	if err := fs.Reload(); err != nil {
		fs.logger.Warn("params reload failed, keeping last values", "error", err)
	}
}

// Get returns the current value for key, reloading the file first if it
// has changed on disk.
func (fs *FileStore) Get(key string) (float64, error) {
	fs.refresh()
	return fs.Store.Get(key)
}
