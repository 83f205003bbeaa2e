// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reymondkenney20/rmv-2/pkg/types"
)

func sampleResult(providerID string) types.AnnotationResult {
	score := 12.5
	return types.AnnotationResult{
		Motifs: map[string][]types.MotifInstance{
			"Hairpin Loop": {
				{
					Type:         "Hairpin Loop",
					PDBID:        "1S72",
					Chain:        "0",
					ModelNumber:  1,
					ResidueStart: 13,
					ResidueEnd:   530,
					Sequence:     "GCCAGC",
					Score:        &score,
					SourceID:     providerID,
				},
			},
		},
		ProviderID: providerID,
		FetchedAt:  time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCacheRoundtrip(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	want := sampleResult("bgsu_api")
	key := Key("bgsu_api", "1S72")
	require.NoError(t, m.Put(key, want))

	got, ok := m.Get(key)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestCacheMissOnAbsentKey(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	_, ok := m.Get(Key("bgsu_api", "9ZZZ"))
	assert.False(t, ok)
}

func TestCacheKeyDeterministic(t *testing.T) {
	assert.Equal(t, Key("bgsu_api", "1s72"), Key("bgsu_api", " 1S72 "))
	assert.NotEqual(t, Key("bgsu_api", "1S72"), Key("rfam_api", "1S72"))
	assert.NotEqual(t, Key("user", "1S72", "fr3d"), Key("user", "1S72", "rnamotifscan"))
}

func TestCacheExpiry(t *testing.T) {
	now := time.Now()
	clock := &now
	m, err := NewManager(t.TempDir(), WithClock(func() time.Time { return *clock }))
	require.NoError(t, err)

	key := Key("rfam_api", "4V9F")
	require.NoError(t, m.Put(key, sampleResult("rfam_api")))

	_, ok := m.Get(key)
	require.True(t, ok)

	// One second past the 30-day TTL.
	later := now.Add(DefaultTTL + time.Second)
	clock = &later

	_, ok = m.Get(key)
	assert.False(t, ok)

	// Expired bytes stay on disk; only cleanup removes them.
	_, err = os.Stat(filepath.Join(m.dir, key+entryExt))
	assert.NoError(t, err)
}

func TestCacheCorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	key := Key("bgsu_api", "1S72")
	require.NoError(t, os.WriteFile(filepath.Join(dir, key+entryExt), []byte("{not json"), 0o644))

	_, ok := m.Get(key)
	assert.False(t, ok)
}

func TestCachePutOverwrites(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	key := Key("bgsu_api", "1S72")
	require.NoError(t, m.Put(key, sampleResult("bgsu_api")))

	fresh := sampleResult("bgsu_api")
	fresh.Motifs["Internal Loop"] = []types.MotifInstance{
		{Type: "Internal Loop", PDBID: "1S72", Chain: "0", ModelNumber: 1, ResidueStart: 40, ResidueEnd: 55, SourceID: "bgsu_api"},
	}
	require.NoError(t, m.Put(key, fresh))

	got, ok := m.Get(key)
	require.True(t, ok)
	assert.Equal(t, fresh, got)
}

func TestCacheClear(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, m.Put(Key("bgsu_api", "1S72"), sampleResult("bgsu_api")))
	require.NoError(t, m.Put(Key("rfam_api", "1S72"), sampleResult("rfam_api")))

	removed, err := m.Clear()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, ok := m.Get(Key("bgsu_api", "1S72"))
	assert.False(t, ok)
}

func TestCacheCleanupExpired(t *testing.T) {
	now := time.Now()
	clock := &now
	m, err := NewManager(t.TempDir(), WithClock(func() time.Time { return *clock }))
	require.NoError(t, err)

	oldKey := Key("bgsu_api", "1S72")
	require.NoError(t, m.Put(oldKey, sampleResult("bgsu_api")))

	later := now.Add(DefaultTTL / 2)
	clock = &later
	freshKey := Key("bgsu_api", "4V9F")
	require.NoError(t, m.Put(freshKey, sampleResult("bgsu_api")))

	// Past the first entry's TTL but not the second's.
	end := now.Add(DefaultTTL + time.Hour)
	clock = &end

	removed, err := m.CleanupExpired()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, ok := m.Get(freshKey)
	assert.True(t, ok)
}

func TestCacheInfo(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, m.Put(Key("bgsu_api", "1S72"), sampleResult("bgsu_api")))
	require.NoError(t, m.Put(Key("bgsu_api", "4V9F"), sampleResult("bgsu_api")))
	require.NoError(t, m.Put(Key("rfam_api", "1S72"), sampleResult("rfam_api")))

	stats, err := m.Info()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Entries)
	assert.Equal(t, 0, stats.Expired)
	assert.Greater(t, stats.TotalBytes, int64(0))
	assert.Equal(t, 2, stats.ByProvider["bgsu_api"])
	assert.Equal(t, 1, stats.ByProvider["rfam_api"])
}
