// Package esphome provides a sandboxed view of a local ESPHome configuration
// directory: YAML file helpers that cannot escape the configured root, and a
// runner for the esphome CLI.
package esphome

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvDir is the environment fallback for the sandbox root.
const EnvDir = "ESPHOME_DIR"

var (
	// ErrConfig marks a missing or unusable sandbox root.
	ErrConfig = errors.New("configuration error")

	// ErrValidation marks a filename that violates the sandbox contract.
	ErrValidation = errors.New("validation error")
)

// ResolveDir resolves the sandbox root from the explicit argument or the
// ESPHOME_DIR environment variable. The root must exist and be a directory;
// this is re-checked on every call rather than cached, so a root that is
// removed or replaced between calls is caught.
func ResolveDir(explicit string) (string, error) {
	base := strings.TrimSpace(explicit)
	if base == "" {
		base = strings.TrimSpace(os.Getenv(EnvDir))
	}
	if base == "" {
		return "", fmt.Errorf("%w: set %s or pass esphome_dir", ErrConfig, EnvDir)
	}
	if base == "~" || strings.HasPrefix(base, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("%w: expand %s: %v", ErrConfig, base, err)
		}
		base = filepath.Join(home, strings.TrimPrefix(base, "~"))
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("%w: resolve %s: %v", ErrConfig, base, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s does not exist or is not a directory: %s", ErrConfig, EnvDir, abs)
	}
	return abs, nil
}

// forbidden tokens in a candidate filename. Anything that could name a
// different directory is rejected outright.
var forbiddenTokens = []string{"..", "/", "\\", ":", "\x00"}

// SafePath validates a bare filename against the sandbox root and returns
// the resolved absolute path. Validation runs in full on every call; a
// previously accepted name earns no shortcut.
func SafePath(root, filename string) (string, error) {
	name := strings.TrimSpace(filename)
	if name == "" {
		return "", fmt.Errorf("%w: filename is required", ErrValidation)
	}
	for _, token := range forbiddenTokens {
		if strings.Contains(name, token) {
			return "", fmt.Errorf("%w: filename must be a simple file name (no paths)", ErrValidation)
		}
	}
	if !hasYAMLExtension(name) {
		return "", fmt.Errorf("%w: filename must end with .yaml or .yml", ErrValidation)
	}

	candidate := filepath.Join(root, name)

	// Canonicalize the candidate in full so a symlink placed inside the root
	// cannot reach outside it. The file itself may not exist yet (writes
	// with create=true), in which case the containing directory is resolved
	// instead; a dangling symlink is rejected outright since its target
	// cannot be checked.
	canonical, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		if info, lerr := os.Lstat(candidate); lerr == nil && info.Mode()&os.ModeSymlink != 0 {
			return "", fmt.Errorf("%w: path traversal detected", ErrValidation)
		}
		canonical = candidate
		if resolved, dirErr := filepath.EvalSymlinks(filepath.Dir(candidate)); dirErr == nil {
			canonical = filepath.Join(resolved, filepath.Base(candidate))
		}
	}
	rel, err := filepath.Rel(root, canonical)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) || rel == "." {
		return "", fmt.Errorf("%w: path traversal detected", ErrValidation)
	}
	return candidate, nil
}

// hasYAMLExtension accepts the two spellings of the YAML suffix. The check
// is case-sensitive.
func hasYAMLExtension(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
