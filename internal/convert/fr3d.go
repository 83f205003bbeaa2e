// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/reymondkenney20/rmv-2/pkg/types"
)

// FR3D column names. The header is fixed; "Motif type" and "Positions" are
// required, the rest are optional.
const (
	fr3dColType        = "Motif type"
	fr3dColPositions   = "Positions"
	fr3dColSequence    = "Sequence"
	fr3dColBasePairs   = "cWW"
	fr3dColDescription = "Description"
)

// FR3D converts FR3D output CSV files. The Positions column packs the
// location into pipe-delimited components:
//
//	1S72|1|0|13-530
//
// identifier, chain, model, and a start-end residue range. Multiple ranges
// for one motif are joined with semicolons; each range becomes its own
// canonical instance.
type FR3D struct {
	logger *zap.Logger
}

// NewFR3D returns an FR3D converter. A nil logger disables warnings.
func NewFR3D(logger *zap.Logger) *FR3D {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FR3D{logger: logger}
}

// Tool returns "fr3d".
func (c *FR3D) Tool() string { return "fr3d" }

// Convert parses an FR3D CSV file into canonical instances grouped by type.
func (c *FR3D) Convert(path, pdbID string) (map[string][]types.MotifInstance, error) {
	data, err := readUTF8(path)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, types.ErrMalformedData)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty: %w", path, types.ErrMalformedData)
	}

	idx := headerIndex(records[0])
	typeCol, okType := idx[fr3dColType]
	posCol, okPos := idx[fr3dColPositions]
	if !okType || !okPos {
		return nil, fmt.Errorf("%s: header missing %q or %q column: %w",
			path, fr3dColType, fr3dColPositions, types.ErrMalformedData)
	}

	out := make(map[string][]types.MotifInstance)
	for rowNum, row := range records[1:] {
		motifType := field(row, typeCol)
		if motifType == "" {
			c.logger.Warn("skipping FR3D row without motif type",
				zap.String("file", path), zap.Int("row", rowNum+2))
			continue
		}

		ranges, err := parsePositions(field(row, posCol))
		if err != nil {
			c.logger.Warn("skipping malformed FR3D row",
				zap.String("file", path), zap.Int("row", rowNum+2), zap.Error(err))
			continue
		}

		var score *float64
		if raw := optField(row, idx, fr3dColBasePairs); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				score = &v
			}
		}

		for _, rg := range ranges {
			out[motifType] = append(out[motifType], types.MotifInstance{
				Type:         motifType,
				PDBID:        types.NormalizePDBID(rg.pdbID),
				Chain:        rg.chain,
				ModelNumber:  rg.model,
				ResidueStart: rg.start,
				ResidueEnd:   rg.end,
				Sequence:     optField(row, idx, fr3dColSequence),
				Score:        score,
				Description:  optField(row, idx, fr3dColDescription),
				SourceID:     c.Tool(),
			})
		}
	}
	return out, nil
}

// positionRange is one parsed component of an FR3D Positions field.
type positionRange struct {
	pdbID string
	chain string
	model int
	start int
	end   int
}

// parsePositions splits an FR3D Positions value into its ranges. Each
// semicolon-separated part must have exactly four pipe-delimited components
// with a numeric model and a numeric start-end range.
func parsePositions(raw string) ([]positionRange, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty positions field: %w", types.ErrMalformedData)
	}

	var ranges []positionRange
	for _, part := range strings.Split(raw, ";") {
		components := strings.Split(strings.TrimSpace(part), "|")
		if len(components) != 4 {
			return nil, fmt.Errorf("positions %q: want 4 components, got %d: %w",
				part, len(components), types.ErrMalformedData)
		}

		model, err := strconv.Atoi(components[2])
		if err != nil {
			return nil, fmt.Errorf("positions %q: bad model number: %w", part, types.ErrMalformedData)
		}

		bounds := strings.SplitN(components[3], "-", 2)
		if len(bounds) != 2 {
			return nil, fmt.Errorf("positions %q: bad residue range: %w", part, types.ErrMalformedData)
		}
		start, err1 := strconv.Atoi(bounds[0])
		end, err2 := strconv.Atoi(bounds[1])
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("positions %q: non-numeric residue range: %w", part, types.ErrMalformedData)
		}
		// FR3D writes descending ranges for strand direction; canonical
		// records keep start <= end.
		if start > end {
			start, end = end, start
		}

		ranges = append(ranges, positionRange{
			pdbID: components[0],
			chain: components[1],
			model: model,
			start: start,
			end:   end,
		})
	}
	return ranges, nil
}
