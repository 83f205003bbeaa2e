// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestAtlasDB creates a throwaway atlas database seeded with rows.
func newTestAtlasDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "motifs.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE motifs (
		pdb_id        TEXT NOT NULL,
		motif_type    TEXT NOT NULL,
		chain         TEXT NOT NULL,
		model         INTEGER NOT NULL,
		residue_start INTEGER NOT NULL,
		residue_end   INTEGER NOT NULL,
		sequence      TEXT,
		score         REAL,
		description   TEXT
	)`)
	require.NoError(t, err)

	rows := []struct {
		pdb, typ, chain   string
		model, start, end int
		seq, score, desc  any
	}{
		{"1S72", "Hairpin Loop", "0", 1, 55, 62, "UGGGAU", 1.5, "HL_1S72_001"},
		{"1S72", "Hairpin Loop", "0", 1, 80, 86, "GAAAC", nil, nil},
		{"1S72", "Internal Loop", "0", 1, 100, 112, nil, 2.25, "IL_1S72_001"},
		{"4V9F", "3-way Junction", "A", 1, 10, 40, nil, nil, nil},
	}
	for _, r := range rows {
		_, err = db.Exec(
			`INSERT INTO motifs (pdb_id, motif_type, chain, model, residue_start, residue_end, sequence, score, description)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.pdb, r.typ, r.chain, r.model, r.start, r.end, r.seq, r.score, r.desc)
		require.NoError(t, err)
	}
	return path
}

func TestAtlasMotifs(t *testing.T) {
	atlas, err := NewAtlas(newTestAtlasDB(t))
	require.NoError(t, err)
	defer atlas.Close()

	result, err := atlas.Motifs(context.Background(), "1s72")
	require.NoError(t, err)

	assert.Equal(t, AtlasID, result.ProviderID)
	require.Len(t, result.Motifs["Hairpin Loop"], 2)
	require.Len(t, result.Motifs["Internal Loop"], 1)

	first := result.Motifs["Hairpin Loop"][0]
	assert.Equal(t, "1S72", first.PDBID)
	assert.Equal(t, "0", first.Chain)
	assert.Equal(t, 55, first.ResidueStart)
	assert.Equal(t, 62, first.ResidueEnd)
	assert.Equal(t, "UGGGAU", first.Sequence)
	assert.Equal(t, AtlasID, first.SourceID)
	require.NotNil(t, first.Score)
	assert.InDelta(t, 1.5, *first.Score, 1e-9)

	// NULL columns read back as zero values.
	second := result.Motifs["Hairpin Loop"][1]
	assert.Empty(t, second.Description)
	assert.Nil(t, second.Score)
}

func TestAtlasMotifs_UnknownStructureIsEmpty(t *testing.T) {
	atlas, err := NewAtlas(newTestAtlasDB(t))
	require.NoError(t, err)
	defer atlas.Close()

	result, err := atlas.Motifs(context.Background(), "9ZZZ")
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
}

func TestAtlasAvailablePDBIDs(t *testing.T) {
	atlas, err := NewAtlas(newTestAtlasDB(t))
	require.NoError(t, err)
	defer atlas.Close()

	ids, err := atlas.AvailablePDBIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"1S72", "4V9F"}, ids)
}

func TestAtlasInfo(t *testing.T) {
	atlas, err := NewAtlas(newTestAtlasDB(t))
	require.NoError(t, err)
	defer atlas.Close()

	info := atlas.Info()
	assert.Equal(t, AtlasID, info.ID)
	assert.Equal(t, KindLocal, info.Kind)
}
