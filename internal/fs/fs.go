package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PathResolver maps directive paths onto the project root.
type PathResolver struct {
	root string
}

// NewPathResolver creates a resolver anchored at root. An empty root falls
// back to the current working directory.
func NewPathResolver(root string) *PathResolver {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			// This is unlikely to fail, but if it does, it's a critical error.
			panic(fmt.Sprintf("could not get current working directory: %v", err))
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return &PathResolver{root: abs}
}

// Root returns the absolute project root.
func (r *PathResolver) Root() string {
	return r.root
}

// Resolve turns a directive path into an absolute path. Absolute paths are
// kept as-is; relative ones are joined onto the project root.
func (r *PathResolver) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(r.root, filepath.FromSlash(path))
}

// EnsureFolder creates the directory and all missing ancestors.
// It is a no-op if the directory already exists.
func EnsureFolder(path string) error {
	return os.MkdirAll(path, 0755)
}

// WriteFile replaces the file at path with content, creating any missing
// parent directories first. The write is not atomic; the upstream data is
// best-effort and a later directive may overwrite an earlier one.
func WriteFile(path, content string) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// Exists reports whether a file or directory exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CopyFile copies src to dst, creating dst's parent directories.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// GetFileSHA256 returns the hex-encoded SHA256 of the file's content.
func GetFileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
