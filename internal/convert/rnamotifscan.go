// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/reymondkenney20/rmv-2/pkg/types"
)

// RNAMotifScan output uses separate columns instead of a packed position
// field. Column names vary slightly between tool versions, so the name,
// start, and end columns each accept a couple of spellings.
var (
	rmsNameCols  = []string{"Motif_Name", "Motif", "Type"}
	rmsStartCols = []string{"Start", "Start_Position"}
	rmsEndCols   = []string{"End", "End_Position"}
)

const (
	rmsColChain    = "Chain"
	rmsColScore    = "Score"
	rmsColSequence = "Sequence"
)

// RNAMotifScan converts RNAMotifScan output files. Comma-separated by
// default; files with a .tsv extension are read as tab-separated.
type RNAMotifScan struct {
	logger *zap.Logger
}

// NewRNAMotifScan returns an RNAMotifScan converter. A nil logger disables warnings.
func NewRNAMotifScan(logger *zap.Logger) *RNAMotifScan {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RNAMotifScan{logger: logger}
}

// Tool returns "rnamotifscan".
func (c *RNAMotifScan) Tool() string { return "rnamotifscan" }

// Convert parses an RNAMotifScan output file into canonical instances
// grouped by type. The chain column is required; score is optional.
func (c *RNAMotifScan) Convert(path, pdbID string) (map[string][]types.MotifInstance, error) {
	data, err := readUTF8(path)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, types.ErrMalformedData)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty: %w", path, types.ErrMalformedData)
	}

	idx := headerIndex(records[0])
	nameCol := firstColumn(idx, rmsNameCols)
	startCol := firstColumn(idx, rmsStartCols)
	endCol := firstColumn(idx, rmsEndCols)
	chainCol, okChain := idx[rmsColChain]
	if nameCol < 0 || startCol < 0 || endCol < 0 || !okChain {
		return nil, fmt.Errorf("%s: header missing name, start, end, or chain column: %w",
			path, types.ErrMalformedData)
	}

	pdbID = types.NormalizePDBID(pdbID)
	out := make(map[string][]types.MotifInstance)
	for rowNum, row := range records[1:] {
		motifType := field(row, nameCol)
		chain := field(row, chainCol)
		start, err1 := strconv.Atoi(field(row, startCol))
		end, err2 := strconv.Atoi(field(row, endCol))

		switch {
		case motifType == "" || chain == "":
			c.logger.Warn("skipping RNAMotifScan row with empty motif or chain",
				zap.String("file", path), zap.Int("row", rowNum+2))
			continue
		case err1 != nil || err2 != nil:
			c.logger.Warn("skipping RNAMotifScan row with non-numeric bounds",
				zap.String("file", path), zap.Int("row", rowNum+2))
			continue
		case start <= 0 || end <= 0 || start > end:
			c.logger.Warn("skipping RNAMotifScan row with invalid residue range",
				zap.String("file", path), zap.Int("row", rowNum+2),
				zap.Int("start", start), zap.Int("end", end))
			continue
		}

		var score *float64
		if raw := optField(row, idx, rmsColScore); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				score = &v
			}
		}

		out[motifType] = append(out[motifType], types.MotifInstance{
			Type:         motifType,
			PDBID:        pdbID,
			Chain:        chain,
			ModelNumber:  1,
			ResidueStart: start,
			ResidueEnd:   end,
			Sequence:     optField(row, idx, rmsColSequence),
			Score:        score,
			SourceID:     c.Tool(),
		})
	}
	return out, nil
}

// firstColumn returns the index of the first candidate present in the
// header, or -1 when none match.
func firstColumn(idx map[string]int, candidates []string) int {
	for _, name := range candidates {
		if i, ok := idx[name]; ok {
			return i
		}
	}
	return -1
}
