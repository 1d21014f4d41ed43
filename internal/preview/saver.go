package preview

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSaver persists downloaded image bytes under a user-facing name.
type FileSaver interface {
	Save(filename string, data []byte) (string, error)
}

// DirSaver writes into a fixed directory, sanitizing the server-provided
// filename and never overwriting an existing file.
type DirSaver struct {
	Dir string
}

func (s DirSaver) Save(filename string, data []byte) (string, error) {
	if s.Dir == "" {
		return "", fmt.Errorf("download directory not configured")
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	name := sanitizeFilename(filename)
	dest := filepath.Join(s.Dir, name)
	for i := 1; ; i++ {
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			break
		}
		ext := filepath.Ext(name)
		dest = filepath.Join(s.Dir, fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(name, ext), i, ext))
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", err
	}
	return dest, nil
}

// sanitizeFilename strips path components and characters that do not belong
// in a local filename. An empty result falls back to "image".
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20, strings.ContainsRune(`<>:"|?*`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), ". ")
	if out == "" || out == "/" {
		return "image"
	}
	return out
}
