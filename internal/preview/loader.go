package preview

import (
	"context"
	"fmt"
	"os"
	"sync"

	"tradmin/internal/api"
	"tradmin/internal/logging"
	"tradmin/internal/metrics"
)

// Loader fetches image binaries through the authenticated download endpoint
// and hands out viewable handles. Fetched bytes land in the cache; each
// handle gets its own temp copy so releasing one never invalidates another.
type Loader struct {
	api         *api.Client
	cache       *Cache
	downloadURL func(int64) string
	log         *logging.Logger
	met         *metrics.Manager

	mu       sync.Mutex
	inflight map[int64]struct{}
	done     map[int64]struct{}
	wg       sync.WaitGroup
}

// NewLoader wires the loader. downloadURL maps an image id to the absolute
// binary endpoint URL. cache may be nil; everything then goes to the network.
func NewLoader(c *api.Client, cache *Cache, downloadURL func(int64) string, log *logging.Logger, met *metrics.Manager) *Loader {
	return &Loader{
		api:         c,
		cache:       cache,
		downloadURL: downloadURL,
		log:         log,
		met:         met,
		inflight:    make(map[int64]struct{}),
		done:        make(map[int64]struct{}),
	}
}

// Fetch returns a handle for the image and always resolves to something
// displayable: a cache hit or successful download yields a transient
// file-backed handle; when the binary endpoint fails the record's direct URL
// is used, and failing that the endpoint URL itself becomes the reference
// (the viewer may still be able to render it).
func (l *Loader) Fetch(ctx context.Context, id int64, remoteURL string) (*Handle, error) {
	l.met.IncPreviewFetches()
	if e, ok := l.cache.Get(id); ok {
		l.met.IncPreviewCacheHits()
		data, err := os.ReadFile(e.Path)
		if err == nil {
			return l.transientHandle(id, data, e.ContentType)
		}
		_ = l.cache.Delete(id)
	}

	data, ct, err := l.fetchAndCache(ctx, id)
	if err == nil {
		return l.transientHandle(id, data, ct)
	}
	l.log.Warnf("preview %d: binary endpoint failed (%v), falling back", id, err)
	if remoteURL != "" {
		return &Handle{ImageID: id, URL: l.api.AbsoluteURL(remoteURL)}, nil
	}
	return &Handle{ImageID: id, URL: l.downloadURL(id)}, nil
}

// Preload warms the cache for the given ids in the background. Ids already
// cached, in flight, or preloaded before are skipped. Failures are logged
// and retried on the next Preload call.
func (l *Loader) Preload(ctx context.Context, ids ...int64) {
	for _, id := range ids {
		l.mu.Lock()
		_, seen := l.done[id]
		_, busy := l.inflight[id]
		if seen || busy {
			l.mu.Unlock()
			continue
		}
		l.inflight[id] = struct{}{}
		l.mu.Unlock()

		l.wg.Add(1)
		go func(id int64) {
			defer l.wg.Done()
			defer func() {
				l.mu.Lock()
				delete(l.inflight, id)
				l.mu.Unlock()
			}()
			if _, ok := l.cache.Get(id); ok {
				l.markDone(id)
				return
			}
			if _, _, err := l.fetchAndCache(ctx, id); err != nil {
				l.log.Debugf("preload %d: %v", id, err)
				return
			}
			l.markDone(id)
		}(id)
	}
}

// Wait blocks until pending preloads finish.
func (l *Loader) Wait() { l.wg.Wait() }

// Download saves the original binary under the user-facing filename via the
// saver. The cache is consulted first; the direct URL is the last resort.
func (l *Loader) Download(ctx context.Context, id int64, remoteURL, filename string, saver FileSaver) (string, error) {
	var data []byte
	if e, ok := l.cache.Get(id); ok {
		if b, err := os.ReadFile(e.Path); err == nil {
			data = b
		}
	}
	if data == nil {
		b, _, err := l.fetchAndCache(ctx, id)
		if err != nil && remoteURL != "" {
			b, _, err = l.api.GetBinary(ctx, l.api.AbsoluteURL(remoteURL), false)
		}
		if err != nil {
			return "", fmt.Errorf("download image %d: %w", id, err)
		}
		data = b
	}
	dest, err := saver.Save(filename, data)
	if err != nil {
		return "", err
	}
	l.met.IncDownloads()
	l.log.Infof("saved image %d to %s", id, dest)
	return dest, nil
}

func (l *Loader) fetchAndCache(ctx context.Context, id int64) ([]byte, string, error) {
	data, ct, err := l.api.GetBinary(ctx, l.downloadURL(id), true)
	if err != nil {
		return nil, "", err
	}
	if _, err := l.cache.Put(id, data, ct); err != nil && l.cache != nil {
		l.log.Warnf("preview cache write for %d: %v", id, err)
	}
	return data, ct, nil
}

func (l *Loader) markDone(id int64) {
	l.mu.Lock()
	l.done[id] = struct{}{}
	l.mu.Unlock()
}

func (l *Loader) transientHandle(id int64, data []byte, ct string) (*Handle, error) {
	f, err := os.CreateTemp("", fmt.Sprintf("tradmin-preview-%d-*%s", id, extForContentType(ct)))
	if err != nil {
		return nil, err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return nil, err
	}
	return &Handle{
		ImageID:     id,
		Path:        f.Name(),
		ContentType: ct,
		Size:        int64(len(data)),
		transient:   true,
	}, nil
}
