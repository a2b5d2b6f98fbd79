// Package bundle implements the on-disk game bundle repository: the
// filesystem tree the developer service writes to and the lobby service
// reads from, rooted at one shared path (§4.5).
package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9 _-]`)

// Sanitize projects a game's display name onto a filesystem-safe
// directory name: strip everything outside [A-Za-z0-9 _-], trim, replace
// spaces with underscores, default to "unnamed_game".
func Sanitize(name string) string {
	cleaned := unsafeChars.ReplaceAllString(name, "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.ReplaceAll(cleaned, " ", "_")
	if cleaned == "" {
		return "unnamed_game"
	}
	return cleaned
}

// Root wraps the filesystem root both the lobby and developer services
// read from and (for the developer service) write to.
type Root struct {
	path string
}

// NewRoot returns a Root rooted at path, creating it if necessary.
func NewRoot(path string) (*Root, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("bundle: creating root %s: %w", path, err)
	}
	return &Root{path: path}, nil
}

// GameDir returns the directory holding every version of gameName.
func (r *Root) GameDir(gameName string) string {
	return filepath.Join(r.path, Sanitize(gameName))
}

// VersionDir returns the directory for one (gameName, version) bundle.
func (r *Root) VersionDir(gameName, version string) string {
	return filepath.Join(r.GameDir(gameName), version)
}

// EnsureVersionDir creates the version directory for (gameName, version),
// including parents.
func (r *Root) EnsureVersionDir(gameName, version string) (string, error) {
	dir := r.VersionDir(gameName, version)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("bundle: creating version directory %s: %w", dir, err)
	}
	return dir, nil
}

// RemoveVersionDir deletes one version's directory tree.
func (r *Root) RemoveVersionDir(gameName, version string) error {
	dir := r.VersionDir(gameName, version)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("bundle: removing version directory %s: %w", dir, err)
	}
	return nil
}

// RemoveGameDir deletes every version of gameName.
func (r *Root) RemoveGameDir(gameName string) error {
	dir := r.GameDir(gameName)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("bundle: removing game directory %s: %w", dir, err)
	}
	return nil
}

// VersionDirExists reports whether the version directory for
// (gameName, version) is present.
func (r *Root) VersionDirExists(gameName, version string) bool {
	info, err := os.Stat(r.VersionDir(gameName, version))
	return err == nil && info.IsDir()
}

// RelFile is one file discovered under a version directory, named
// relative to that directory's root.
type RelFile struct {
	RelPath string
	AbsPath string
	Size    int64
}

// ListFiles walks a version directory and returns every regular file in
// it, named relative to dir.
func ListFiles(dir string) ([]RelFile, error) {
	var out []RelFile
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("bundle: computing relative path for %s: %w", path, err)
		}
		out = append(out, RelFile{RelPath: rel, AbsPath: path, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bundle: listing %s: %w", dir, err)
	}
	return out, nil
}
