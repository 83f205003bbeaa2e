// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/reymondkenney20/rmv-2/pkg/types"
)

// RfamID is the provider ID of the bundled Rfam motif dataset.
const RfamID = "rfam"

// rfamFamily is one bundled family file (e.g. GNRA.yaml): the named motif
// plus its known occurrences in PDB structures.
type rfamFamily struct {
	Motif     string `yaml:"motif"`
	Name      string `yaml:"name"`
	Instances []struct {
		PDBID    string   `yaml:"pdb_id"`
		Chain    string   `yaml:"chain"`
		Model    int      `yaml:"model"`
		Start    int      `yaml:"start"`
		End      int      `yaml:"end"`
		Sequence string   `yaml:"sequence"`
		Score    *float64 `yaml:"score"`
	} `yaml:"instances"`
}

// Rfam serves the bundled Rfam named-motif dataset (GNRA, UNCG, K-turn,
// T-loop, ...) from a directory of per-family YAML files. The whole dataset
// is loaded eagerly and indexed by structure at construction.
type Rfam struct {
	dir     string
	byPDB   map[string]map[string][]types.MotifInstance
	familyN int
}

// NewRfam loads every family file under dir and builds the structure index.
// Unparsable family files are skipped with a logged warning.
func NewRfam(dir string, logger *zap.Logger) (*Rfam, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading rfam dataset directory %s: %w", dir, err)
	}

	r := &Rfam{dir: dir, byPDB: make(map[string]map[string][]types.MotifInstance)}
	for _, de := range entries {
		name := de.Name()
		if de.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("skipping unreadable rfam family file",
				zap.String("file", name), zap.Error(err))
			continue
		}
		var fam rfamFamily
		if err := yaml.Unmarshal(data, &fam); err != nil || fam.Motif == "" {
			logger.Warn("skipping malformed rfam family file",
				zap.String("file", name), zap.Error(err))
			continue
		}

		r.familyN++
		for _, in := range fam.Instances {
			pdbID := types.NormalizePDBID(in.PDBID)
			model := in.Model
			if model == 0 {
				model = 1
			}
			inst := types.MotifInstance{
				Type:         fam.Motif,
				PDBID:        pdbID,
				Chain:        in.Chain,
				ModelNumber:  model,
				ResidueStart: in.Start,
				ResidueEnd:   in.End,
				Sequence:     in.Sequence,
				Score:        in.Score,
				Description:  fam.Name,
				SourceID:     RfamID,
			}
			if r.byPDB[pdbID] == nil {
				r.byPDB[pdbID] = make(map[string][]types.MotifInstance)
			}
			r.byPDB[pdbID][fam.Motif] = append(r.byPDB[pdbID][fam.Motif], inst)
		}
	}
	return r, nil
}

// Info returns the provider description.
func (r *Rfam) Info() Info {
	return Info{
		ID:          RfamID,
		Name:        "Rfam Motifs (bundled)",
		Description: fmt.Sprintf("Offline Rfam named motifs, %d families", r.familyN),
		Kind:        KindLocal,
	}
}

// Motifs returns the bundled annotations for a structure. A structure
// absent from the dataset yields an empty result.
func (r *Rfam) Motifs(_ context.Context, pdbID string) (types.AnnotationResult, error) {
	pdbID = types.NormalizePDBID(pdbID)

	motifs := make(map[string][]types.MotifInstance)
	for motifType, instances := range r.byPDB[pdbID] {
		motifs[motifType] = append([]types.MotifInstance(nil), instances...)
	}

	return types.AnnotationResult{
		Motifs:     motifs,
		ProviderID: RfamID,
		FetchedAt:  time.Now(),
	}, nil
}

// AvailablePDBIDs lists every structure in the bundled dataset.
func (r *Rfam) AvailablePDBIDs() ([]string, error) {
	ids := make([]string, 0, len(r.byPDB))
	for id := range r.byPDB {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
