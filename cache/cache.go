// Package cache stores rendered images keyed by everything that determines
// them. Rendering is deterministic, so a hit is the render result.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"
)

var log = commonlog.GetLogger("pixelmachine.cache")

// Cache is a SQLite-backed frame store. It is safe for concurrent use.
type Cache struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens or creates the cache database at path, creating parent
// directories as needed.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS frames (
		key TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		created INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &Cache{db: db, path: path}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Digester is anything with a stable content digest, such as a texture.
type Digester interface {
	Digest() [32]byte
}

// Key identifies a render by its program text, canvas size and texture
// contents, in order.
func Key(program string, width, height int, textures []Digester) string {
	h := sha256.New()
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(program)))
	h.Write(n[:])
	h.Write([]byte(program))

	binary.BigEndian.PutUint32(n[:4], uint32(width))
	binary.BigEndian.PutUint32(n[4:], uint32(height))
	h.Write(n[:])

	binary.BigEndian.PutUint64(n[:], uint64(len(textures)))
	h.Write(n[:])
	for _, t := range textures {
		d := t.Digest()
		h.Write(d[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the image stored under key. The boolean is false on a miss.
func (c *Cache) Get(key string) (*image.NRGBA, bool, error) {
	var data []byte
	err := c.db.QueryRow("SELECT data FROM frames WHERE key = ?", key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debugf("miss %s", key)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("querying frame: %w", err)
	}

	f, err := UnmarshalFrame(data)
	if err != nil {
		return nil, false, err
	}
	img, err := f.Image()
	if err != nil {
		return nil, false, err
	}
	log.Debugf("hit %s", key)
	return img, true, nil
}

// Put stores img under key, replacing any previous frame.
func (c *Cache) Put(key string, img *image.NRGBA) error {
	data, err := MarshalFrame(NewFrame(img))
	if err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err = c.db.Exec(
		"INSERT OR REPLACE INTO frames (key, data, created) VALUES (?, ?, ?)",
		key, data, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("saving frame: %w", err)
	}
	return nil
}

// Prune deletes frames stored before cutoff and returns how many were
// removed.
func (c *Cache) Prune(cutoff time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.db.Exec("DELETE FROM frames WHERE created < ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("pruning frames: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	log.Infof("pruned %d frames from %s", n, c.path)
	return n, nil
}
