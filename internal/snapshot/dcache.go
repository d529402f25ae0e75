package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when CachedResult format changes
const cacheSchemaVersion uint16 = 1

// DiskCache stores verification outcomes keyed by snapshot digest, so
// batch runs skip files whose content has not changed.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedResult is the cached outcome for one snapshot digest.
type CachedResult struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	OK       bool
	Message  string
	Verified time.Time
}

// NewDiskCache prepares a cache rooted at dir, creating it if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		return nil, errors.New("cache dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) path(d Digest) string {
	return filepath.Join(c.dir, d.String()+".lvc")
}

// Lookup returns the cached outcome for a digest, ok=false on a miss or
// a schema mismatch.
func (c *DiskCache) Lookup(d Digest) (CachedResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, err := os.ReadFile(c.path(d))
	if err != nil {
		return CachedResult{}, false
	}
	var res CachedResult
	if err := msgpack.Unmarshal(data, &res); err != nil {
		return CachedResult{}, false
	}
	if res.Schema != cacheSchemaVersion {
		return CachedResult{}, false
	}
	return res, true
}

// Store writes the outcome for a digest.
func (c *DiskCache) Store(d Digest, ok bool, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := CachedResult{
		Schema:   cacheSchemaVersion,
		OK:       ok,
		Message:  message,
		Verified: time.Now(),
	}
	data, err := msgpack.Marshal(&res)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := os.WriteFile(c.path(d), data, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}
