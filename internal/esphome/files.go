package esphome

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ListYAML returns the names of regular YAML files directly under root,
// sorted lexically. Subdirectories are not descended into.
func ListYAML(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", root, err)
	}
	out := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if !hasYAMLExtension(name) {
			continue
		}
		info, err := os.Stat(filepath.Join(root, name))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// ReadYAML reads one sandboxed config file as UTF-8 text.
func ReadYAML(root, filename string) (string, error) {
	path, err := SafePath(root, filename)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filename, err)
	}
	return string(data), nil
}

// WriteResult reports a completed write.
type WriteResult struct {
	OK    bool   `json:"ok"`
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
}

// WriteYAML replaces the content of one sandboxed config file. With
// create=false the file must already exist; nothing is written otherwise.
func WriteYAML(root, filename, content string, create bool) (WriteResult, error) {
	path, err := SafePath(root, filename)
	if err != nil {
		return WriteResult{}, err
	}
	info, err := os.Stat(path)
	switch {
	case err == nil && !info.Mode().IsRegular():
		return WriteResult{}, fmt.Errorf("path exists but is not a file: %s", path)
	case err != nil && !os.IsNotExist(err):
		return WriteResult{}, fmt.Errorf("stat %s: %w", filename, err)
	case os.IsNotExist(err) && !create:
		return WriteResult{}, fmt.Errorf("%w: file does not exist (create=false): %s", ErrValidation, filename)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return WriteResult{}, fmt.Errorf("write %s: %w", filename, err)
	}
	info, err = os.Stat(path)
	if err != nil {
		return WriteResult{}, fmt.Errorf("stat %s: %w", filename, err)
	}
	return WriteResult{OK: true, Path: path, Bytes: info.Size()}, nil
}
