package preview

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/sqlite"

	"tradmin/internal/config"
)

// Cache persists fetched preview binaries on disk, indexed in sqlite so
// entries survive restarts and can be expired by age. Failed fetches are
// never recorded.
type Cache struct {
	sql *sql.DB
	dir string
	ttl time.Duration
	now func() time.Time
}

// OpenCache opens (or creates) the preview cache under data_root/previews.
// A zero preview_ttl_hours keeps entries forever.
func OpenCache(cfg *config.Config) (*Cache, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if cfg.Cache.DataRoot == "" {
		return nil, errors.New("cache.data_root required")
	}
	dir := filepath.Join(cfg.Cache.DataRoot, "previews")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout=5000&_pragma=journal_mode(WAL)", filepath.Join(dir, "previews.db"))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS previews (
		image_id INTEGER PRIMARY KEY,
		path TEXT NOT NULL,
		content_type TEXT,
		size INTEGER,
		fetched_at INTEGER NOT NULL
	);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	c := &Cache{
		sql: db,
		dir: dir,
		ttl: time.Duration(cfg.Cache.PreviewTTLHours) * time.Hour,
		now: time.Now,
	}
	if err := c.Prune(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) Close() error {
	if c == nil || c.sql == nil {
		return nil
	}
	return c.sql.Close()
}

type entry struct {
	Path        string
	ContentType string
	Size        int64
}

// Get returns the cached entry for an image id. Expired rows and rows whose
// file went missing count as misses.
func (c *Cache) Get(id int64) (entry, bool) {
	if c == nil {
		return entry{}, false
	}
	var e entry
	var fetchedAt int64
	err := c.sql.QueryRow(`SELECT path, COALESCE(content_type,''), COALESCE(size,0), fetched_at FROM previews WHERE image_id=?`, id).
		Scan(&e.Path, &e.ContentType, &e.Size, &fetchedAt)
	if err != nil {
		return entry{}, false
	}
	if c.expired(fetchedAt) {
		_ = c.Delete(id)
		return entry{}, false
	}
	if _, err := os.Stat(e.Path); err != nil {
		_ = c.Delete(id)
		return entry{}, false
	}
	return e, true
}

// Put stores the binary for an image id, replacing any previous entry.
func (c *Cache) Put(id int64, data []byte, contentType string) (entry, error) {
	if c == nil {
		return entry{}, errors.New("cache not open")
	}
	path := filepath.Join(c.dir, fmt.Sprintf("%d%s", id, extForContentType(contentType)))
	tmp, err := os.CreateTemp(c.dir, "put-*")
	if err != nil {
		return entry{}, err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return entry{}, err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return entry{}, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return entry{}, err
	}
	_, err = c.sql.Exec(`INSERT INTO previews(image_id, path, content_type, size, fetched_at)
		VALUES(?,?,?,?,?)
		ON CONFLICT(image_id) DO UPDATE SET path=excluded.path, content_type=excluded.content_type, size=excluded.size, fetched_at=excluded.fetched_at`,
		id, path, contentType, int64(len(data)), c.now().Unix())
	if err != nil {
		return entry{}, err
	}
	return entry{Path: path, ContentType: contentType, Size: int64(len(data))}, nil
}

// Delete drops the row and its file.
func (c *Cache) Delete(id int64) error {
	if c == nil {
		return nil
	}
	var path string
	if err := c.sql.QueryRow(`SELECT path FROM previews WHERE image_id=?`, id).Scan(&path); err == nil && path != "" {
		_ = os.Remove(path)
	}
	_, err := c.sql.Exec(`DELETE FROM previews WHERE image_id=?`, id)
	return err
}

// Prune removes expired entries and their files.
func (c *Cache) Prune() error {
	if c == nil || c.ttl <= 0 {
		return nil
	}
	cutoff := c.now().Add(-c.ttl).Unix()
	rows, err := c.sql.Query(`SELECT path FROM previews WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return err
	}
	var stale []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			_ = rows.Close()
			return err
		}
		stale = append(stale, p)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	for _, p := range stale {
		_ = os.Remove(p)
	}
	_, err = c.sql.Exec(`DELETE FROM previews WHERE fetched_at < ?`, cutoff)
	return err
}

func (c *Cache) expired(fetchedAt int64) bool {
	if c.ttl <= 0 {
		return false
	}
	return time.Unix(fetchedAt, 0).Add(c.ttl).Before(c.now())
}

func extForContentType(ct string) string {
	switch ct {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ".bin"
	}
}
