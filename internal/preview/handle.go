package preview

import (
	"os"
	"sync"
)

// Handle is a viewable reference to one image. It is backed either by a
// transient temp file (authenticated fetch) or by a plain remote URL
// (fallback when the binary endpoint is unavailable). Transient handles own
// their file: Release removes it, exactly once. Holding a released handle is
// safe; its path simply no longer exists.
type Handle struct {
	ImageID     int64
	Path        string // set for file-backed handles
	URL         string // set for remote fallback handles
	ContentType string
	Size        int64

	transient bool
	once      sync.Once
}

// Remote reports whether the handle points at a URL instead of a local file.
func (h *Handle) Remote() bool { return h != nil && h.URL != "" }

// Release frees the backing temp file. No-op for remote handles and on
// repeat calls.
func (h *Handle) Release() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		if h.transient && h.Path != "" {
			_ = os.Remove(h.Path)
		}
	})
}
