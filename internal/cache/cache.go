// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists remote-provider responses on disk with a fixed
// time-to-live. One JSON file per derived key; writes go to a temporary
// file and are published by rename so concurrent readers never observe a
// torn entry. Expired or corrupt entries read as misses.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/reymondkenney20/rmv-2/pkg/types"
)

// DefaultTTL is the fixed lifetime of every cache entry (30 days). There is
// no per-entry override.
const DefaultTTL = 30 * 24 * time.Hour

const entryExt = ".json"

// entry is the persisted record for one key.
type entry struct {
	Key        string                 `json:"key"`
	Payload    types.AnnotationResult `json:"payload"`
	CreatedAt  time.Time              `json:"created_at"`
	TTLSeconds int64                  `json:"ttl_seconds"`
}

func (e entry) expired(now time.Time) bool {
	return now.Sub(e.CreatedAt) > time.Duration(e.TTLSeconds)*time.Second
}

// Manager is the on-disk cache for remote-provider responses. Local and
// user providers are never cached; re-reading them is cheap and always fresh.
type Manager struct {
	dir    string
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets a logger for cache diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithTTL overrides the entry lifetime. Used by tests.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.ttl = ttl }
}

// WithClock overrides the time source. Used by tests to advance past expiry.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates the cache directory if needed and returns a Manager.
func NewManager(dir string, opts ...Option) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
	}
	m := &Manager{
		dir:    dir,
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Key derives the stable cache key for a logical query. Two calls with the
// same provider, identifier, and parameters always produce the same key.
func Key(providerID, pdbID string, params ...string) string {
	h := sha256.New()
	h.Write([]byte(providerID))
	h.Write([]byte{0})
	h.Write([]byte(types.NormalizePDBID(pdbID)))
	for _, p := range params {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Get returns the cached result for key. The second return is false on
// absence, expiry, or a payload that fails to deserialize; a corrupt entry
// is a miss, never an error.
func (m *Manager) Get(key string) (types.AnnotationResult, bool) {
	data, err := os.ReadFile(m.path(key))
	if err != nil {
		return types.AnnotationResult{}, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		m.logger.Warn("discarding corrupt cache entry",
			zap.String("key", key), zap.Error(err))
		return types.AnnotationResult{}, false
	}
	if e.expired(m.now()) {
		// Expired bytes stay on disk until overwritten or cleaned up.
		return types.AnnotationResult{}, false
	}
	return e.Payload, true
}

// Put serializes result under key with the current timestamp. The entry is
// written to a temporary file and published atomically by rename; a refresh
// for an existing key replaces the old entry wholesale. Concurrent writers
// to the same key race and last writer wins.
func (m *Manager) Put(key string, result types.AnnotationResult) error {
	e := entry{
		Key:        key,
		Payload:    result,
		CreatedAt:  m.now(),
		TTLSeconds: int64(m.ttl / time.Second),
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("serializing cache entry %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(m.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating cache temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing cache temp file: %w", err)
	}
	if err := os.Rename(tmpName, m.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publishing cache entry %s: %w", key, err)
	}
	return nil
}

// Clear removes all entries unconditionally and returns the number removed.
func (m *Manager) Clear() (int, error) {
	names, err := m.entryFiles()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, name := range names {
		if err := os.Remove(filepath.Join(m.dir, name)); err == nil {
			removed++
		}
	}
	return removed, nil
}

// CleanupExpired removes entries past their TTL and returns the number
// removed. Get never does this on its own; cleanup is an explicit operation.
func (m *Manager) CleanupExpired() (int, error) {
	names, err := m.entryFiles()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, name := range names {
		path := filepath.Join(m.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var e entry
		if err := json.Unmarshal(data, &e); err != nil || e.expired(m.now()) {
			if os.Remove(path) == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// Stats describes the current cache state.
type Stats struct {
	Dir        string
	Entries    int
	Expired    int
	TotalBytes int64
	ByProvider map[string]int
}

// Info scans the cache directory and returns statistics.
func (m *Manager) Info() (Stats, error) {
	names, err := m.entryFiles()
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Dir: m.dir, ByProvider: make(map[string]int)}
	for _, name := range names {
		path := filepath.Join(m.dir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		stats.TotalBytes += info.Size()

		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var e entry
		if err := json.Unmarshal(data, &e); err != nil {
			continue
		}
		stats.Entries++
		stats.ByProvider[e.Payload.ProviderID]++
		if e.expired(m.now()) {
			stats.Expired++
		}
	}
	return stats, nil
}

func (m *Manager) path(key string) string {
	return filepath.Join(m.dir, key+entryExt)
}

// entryFiles lists published entry files, skipping in-flight temp files.
func (m *Manager) entryFiles() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("reading cache directory %s: %w", m.dir, err)
	}
	var names []string
	for _, de := range entries {
		// Temp files from in-flight writes have a .tmp- suffix and are
		// excluded by the extension check.
		if de.IsDir() || !strings.HasSuffix(de.Name(), entryExt) {
			continue
		}
		names = append(names, de.Name())
	}
	return names, nil
}
