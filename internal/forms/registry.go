package forms

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Registry holds the schemas found in one directory, keyed by file name
// without extension.
type Registry struct {
	dir    string
	loader *Loader
	logger *zap.Logger

	mu      sync.RWMutex
	schemas map[string]Schema
}

// NewRegistry creates an empty registry over dir. Call Reload to read it.
func NewRegistry(dir string, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		dir:     dir,
		loader:  NewLoader(LoaderOptions{}),
		logger:  logger.Named("forms"),
		schemas: make(map[string]Schema),
	}
}

// Dir returns the watched directory.
func (r *Registry) Dir() string { return r.dir }

// Reload re-reads every schema file in the directory. Schemas that fail to
// load or build a form are skipped and their errors joined; the valid ones
// replace the previous set.
func (r *Registry) Reload(ctx context.Context) error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("read forms dir: %w", err)
	}

	next := make(map[string]Schema, len(entries))
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !isSchemaFile(entry.Name()) {
			continue
		}
		file := filepath.Join(r.dir, entry.Name())
		schema, err := r.loader.Load(ctx, file)
		if err == nil {
			_, err = New(schema)
		}
		if err != nil {
			r.logger.Warn("skipping form schema", zap.String("file", file), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", entry.Name(), err))
			continue
		}
		next[schemaName(entry.Name())] = schema
	}

	r.mu.Lock()
	r.schemas = next
	r.mu.Unlock()

	r.logger.Info("form schemas loaded", zap.String("dir", r.dir), zap.Int("count", len(next)))
	return errors.Join(errs...)
}

// Names returns the registered schema names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get returns the schema registered under name.
func (r *Registry) Get(name string) (Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}

// Form builds a fresh form for name.
func (r *Registry) Form(name string) (*Form, error) {
	schema, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, name)
	}
	return New(schema)
}

// Watch reloads the registry whenever a file in the directory changes. It
// blocks until ctx is done.
func (r *Registry) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := watcher.Add(r.dir); err != nil {
		return fmt.Errorf("watch %s: %w", r.dir, err)
	}

	const relevant = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&relevant == 0 || !isSchemaFile(event.Name) {
				continue
			}
			r.logger.Debug("form schema changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			if err := r.Reload(ctx); err != nil {
				r.logger.Warn("form schema reload incomplete", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("form watcher error", zap.Error(err))
		}
	}
}

func isSchemaFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func schemaName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
