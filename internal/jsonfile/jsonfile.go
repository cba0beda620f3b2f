// Package jsonfile reads and writes whole JSON documents on disk.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Read decodes the JSON document stored at path.
func Read[T any](path string) (T, error) {
	var result T

	file, err := os.Open(path)
	if err != nil {
		return result, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := json.NewDecoder(file).Decode(&result); err != nil {
		return result, fmt.Errorf("json.NewDecoder(%s).Decode() > %w", path, err)
	}
	return result, nil
}

// Write replaces the document at path with data.
// The content is written to a temporary file in the same directory and renamed into place.
func Write[T any](path string, data T) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent() > %w", err)
	}
	content = append(content, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp(%s) > %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("os.Rename(%s, %s) > %w", tmpPath, path, err)
	}
	return nil
}

// Ensure creates the document at path with initial when it does not exist yet.
// It reports whether the file was created.
func Ensure[T any](path string, initial T) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("os.Stat(%s) > %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("os.MkdirAll(%s) > %w", filepath.Dir(path), err)
	}
	if err := Write(path, initial); err != nil {
		return false, err
	}
	return true, nil
}
