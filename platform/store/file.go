package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File is the persistent scope backed by a single JSON document on disk.
// Writes go through a temp file and rename so a crash mid-write leaves the
// previous document intact.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates a file-backed scope at path. The parent directory is
// created on first write.
func NewFile(path string) *File {
	return &File{path: path}
}

// Get implements Store.
func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return nil, err
	}

	value, ok := doc[key]
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

// Set implements Store.
func (f *File) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}

	stored := make(json.RawMessage, len(value))
	copy(stored, value)
	doc[key] = stored
	return f.write(doc)
}

// Delete implements Store.
func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}

	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return f.write(doc)
}

// Keys implements Store.
func (f *File) Keys(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	return keys, nil
}

func (f *File) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	doc := make(map[string]json.RawMessage)
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}
	return doc, nil
}

func (f *File) write(doc map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

var _ Store = (*File)(nil)
