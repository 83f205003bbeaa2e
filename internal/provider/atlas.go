// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/reymondkenney20/rmv-2/pkg/types"
)

// AtlasID is the provider ID of the bundled RNA 3D Motif Atlas dataset.
const AtlasID = "atlas"

// Atlas serves the bundled RNA 3D Motif Atlas snapshot from a read-only
// SQLite database. Lookups are pure reads; a structure missing from the
// dataset is an empty result, not an error.
type Atlas struct {
	db *sql.DB
}

// NewAtlas opens the bundled Atlas database at dbPath.
func NewAtlas(dbPath string) (*Atlas, error) {
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening atlas database: %w", err)
	}
	return &Atlas{db: db}, nil
}

// Close releases the database connection.
func (a *Atlas) Close() error {
	return a.db.Close()
}

// Info returns the provider description.
func (a *Atlas) Info() Info {
	return Info{
		ID:          AtlasID,
		Name:        "RNA 3D Motif Atlas (bundled)",
		Description: "Offline snapshot of RNA 3D Motif Atlas loops (HL, IL, junctions)",
		Kind:        KindLocal,
	}
}

// Motifs looks up every motif recorded for the structure, grouped by type
// in the dataset's row order.
func (a *Atlas) Motifs(ctx context.Context, pdbID string) (types.AnnotationResult, error) {
	pdbID = types.NormalizePDBID(pdbID)

	rows, err := a.db.QueryContext(ctx,
		`SELECT motif_type, chain, model, residue_start, residue_end, sequence, score, description
		 FROM motifs WHERE pdb_id = ? ORDER BY motif_type, rowid`, pdbID)
	if err != nil {
		return types.AnnotationResult{}, fmt.Errorf("querying atlas for %s: %w", pdbID, err)
	}
	defer rows.Close()

	motifs := make(map[string][]types.MotifInstance)
	for rows.Next() {
		var (
			inst  types.MotifInstance
			seq   sql.NullString
			score sql.NullFloat64
			desc  sql.NullString
		)
		if err := rows.Scan(&inst.Type, &inst.Chain, &inst.ModelNumber,
			&inst.ResidueStart, &inst.ResidueEnd, &seq, &score, &desc); err != nil {
			return types.AnnotationResult{}, fmt.Errorf("scanning atlas row: %w", err)
		}
		inst.PDBID = pdbID
		inst.SourceID = AtlasID
		inst.Sequence = seq.String
		inst.Description = desc.String
		if score.Valid {
			v := score.Float64
			inst.Score = &v
		}
		motifs[inst.Type] = append(motifs[inst.Type], inst)
	}
	if err := rows.Err(); err != nil {
		return types.AnnotationResult{}, fmt.Errorf("reading atlas rows: %w", err)
	}

	return types.AnnotationResult{
		Motifs:     motifs,
		ProviderID: AtlasID,
		FetchedAt:  time.Now(),
	}, nil
}

// AvailablePDBIDs lists every structure in the bundled dataset.
func (a *Atlas) AvailablePDBIDs() ([]string, error) {
	rows, err := a.db.Query(`SELECT DISTINCT pdb_id FROM motifs ORDER BY pdb_id`)
	if err != nil {
		return nil, fmt.Errorf("listing atlas structures: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning atlas structure id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
