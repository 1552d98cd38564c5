package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalBackend keeps uploads on disk under Dir and serves them from
// PublicURL. Browsers post the file back to the gateway.
type LocalBackend struct {
	Dir       string
	PublicURL string
	UploadURL string
}

func (l *LocalBackend) Prepare(_ context.Context, pathname, _ string, _ time.Duration) (string, string, string, error) {
	return l.UploadURL, "POST", l.URLFor(pathname), nil
}

func (l *LocalBackend) URLFor(pathname string) string {
	return strings.TrimRight(l.PublicURL, "/") + "/" + pathname
}

// Path resolves pathname inside Dir, refusing anything that escapes it.
func (l *LocalBackend) Path(pathname string) (string, error) {
	full := filepath.Join(l.Dir, filepath.FromSlash(pathname))
	rel, err := filepath.Rel(l.Dir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("pathname %q escapes upload dir", pathname)
	}
	return full, nil
}

// Save writes src to pathname, creating folders as needed.
func (l *LocalBackend) Save(pathname string, src io.Reader) (string, error) {
	dest, err := l.Path(pathname)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return l.URLFor(pathname), nil
}
