// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/reymondkenney20/rmv-2/internal/httputil"
	"github.com/reymondkenney20/rmv-2/pkg/types"
)

// BGSUID is the provider ID of the BGSU RNA 3D Hub API.
const BGSUID = "bgsu_api"

// bgsuAPIBase is the RNA 3D Hub loop download endpoint. Declared as a var
// so tests can substitute an httptest server.
var bgsuAPIBase = "https://rna.bgsu.edu/rna3dhub/loops/download"

// bgsuLoopNames maps loop-type prefixes to readable names. Unknown prefixes
// are still accepted; the motif vocabulary is open.
var bgsuLoopNames = map[string]string{
	"HL": "Hairpin Loop",
	"IL": "Internal Loop",
	"J3": "3-way Junction",
	"J4": "4-way Junction",
	"J5": "5-way Junction",
	"J6": "6-way Junction",
	"J7": "7-way Junction",
	"J8": "8-way Junction",
}

// bgsuEntry matches one CSV pair: "LOOP_ID","residue,residue,...".
var bgsuEntry = regexp.MustCompile(`"([^"]+)","([^"]+)"`)

// BGSU fetches loop annotations from the BGSU RNA 3D Hub API. One request
// per call; responses are cached by the selector through the cache manager.
type BGSU struct {
	client *http.Client
	cfg    types.HTTPConfig
	logger *zap.Logger
}

// NewBGSU returns a BGSU API provider with a bounded request timeout.
func NewBGSU(cfg types.HTTPConfig, logger *zap.Logger) *BGSU {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BGSU{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger,
	}
}

// Info returns the provider description.
func (b *BGSU) Info() Info {
	return Info{
		ID:          BGSUID,
		Name:        "BGSU RNA 3D Hub (online)",
		Description: "Live loop annotations from BGSU RNA 3D Hub, ~3000+ RNA structures",
		Kind:        KindAPI,
	}
}

// Motifs fetches and parses the loop list for a structure. A 404 means the
// structure is not in the RNA 3D Hub, which is a normal empty outcome.
func (b *BGSU) Motifs(ctx context.Context, pdbID string) (types.AnnotationResult, error) {
	pdbID = types.NormalizePDBID(pdbID)
	url := bgsuAPIBase + "/" + pdbID

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return types.AnnotationResult{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.cfg.UserAgent)
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	resp, err := httputil.DoWithRetry(ctx, b.client, req, 0)
	if err != nil {
		return types.AnnotationResult{}, fmt.Errorf("RNA 3D Hub request for %s: %v: %w",
			pdbID, err, types.ErrUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return types.AnnotationResult{}, fmt.Errorf("%s not in RNA 3D Hub: %w", pdbID, types.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return types.AnnotationResult{}, fmt.Errorf("RNA 3D Hub returned HTTP %d for %s: %w",
			resp.StatusCode, pdbID, types.ErrUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.AnnotationResult{}, fmt.Errorf("reading RNA 3D Hub response: %v: %w",
			err, types.ErrUnavailable)
	}

	motifs, err := b.parseLoops(body, pdbID)
	if err != nil {
		return types.AnnotationResult{}, err
	}
	return types.AnnotationResult{
		Motifs:     motifs,
		ProviderID: BGSUID,
		FetchedAt:  time.Now(),
	}, nil
}

// parseLoops converts the loop CSV into grouped instances. Each entry is a
// loop ID ({TYPE}_{PDB}_{NUMBER}) and its residues, one spec per residue:
//
//	"HL_1S72_001","1S72|1|0|U|55,1S72|1|0|G|56,..."
func (b *BGSU) parseLoops(body []byte, pdbID string) (map[string][]types.MotifInstance, error) {
	text := strings.TrimSpace(string(body))
	if text == "" {
		// No loops annotated for this structure.
		return map[string][]types.MotifInstance{}, nil
	}

	matches := bgsuEntry.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("RNA 3D Hub response for %s has no parsable entries: %w",
			pdbID, types.ErrMalformedData)
	}

	motifs := make(map[string][]types.MotifInstance)
	for _, m := range matches {
		loopID := strings.TrimSpace(m[1])
		parts := strings.Split(loopID, "_")
		if len(parts) < 2 {
			b.logger.Warn("skipping malformed loop id",
				zap.String("pdb_id", pdbID), zap.String("loop_id", loopID))
			continue
		}
		loopType := parts[0]

		inst, ok := b.parseResidues(m[2], loopType, pdbID)
		if !ok {
			b.logger.Warn("skipping loop without parsable residues",
				zap.String("pdb_id", pdbID), zap.String("loop_id", loopID))
			continue
		}
		motifs[loopType] = append(motifs[loopType], inst)
	}
	return motifs, nil
}

// parseResidues folds a comma-separated residue spec list
// (PDB|Model|Chain|Nucleotide|ResNum) into one canonical instance covering
// the span of the listed residues.
func (b *BGSU) parseResidues(raw, loopType, pdbID string) (types.MotifInstance, bool) {
	var (
		nums  []int
		chain string
		model = 1
		seq   strings.Builder
	)
	for _, spec := range strings.Split(raw, ",") {
		fields := strings.Split(strings.TrimSpace(spec), "|")
		if len(fields) < 5 {
			continue
		}
		num, err := strconv.Atoi(fields[4])
		if err != nil {
			continue
		}
		if chain == "" {
			chain = fields[2]
			if m, err := strconv.Atoi(fields[1]); err == nil {
				model = m
			}
		}
		nums = append(nums, num)
		seq.WriteString(fields[3])
	}
	if len(nums) == 0 {
		return types.MotifInstance{}, false
	}
	sort.Ints(nums)

	return types.MotifInstance{
		Type:         loopType,
		PDBID:        pdbID,
		Chain:        chain,
		ModelNumber:  model,
		ResidueStart: nums[0],
		ResidueEnd:   nums[len(nums)-1],
		Sequence:     seq.String(),
		Description:  bgsuLoopNames[loopType],
		SourceID:     BGSUID,
	}, true
}
