// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/reymondkenney20/rmv-2/internal/httputil"
	"github.com/reymondkenney20/rmv-2/pkg/types"
)

// RfamAPIID is the provider ID of the Rfam REST API.
const RfamAPIID = "rfam_api"

// rfamAPIBase is the Rfam REST endpoint. Declared as a var so tests can
// substitute an httptest server.
var rfamAPIBase = "https://rfam.org"

// rfamMotifNames maps Rfam motif accessions to their short names, used when
// a mapping omits the name.
var rfamMotifNames = map[string]string{
	"RM00003": "C-loop",
	"RM00005": "CsrA_binding",
	"RM00007": "Domain-V",
	"RM00008": "GNRA",
	"RM00010": "K-turn",
	"RM00021": "tandem-GA",
	"RM00022": "Terminator1",
	"RM00023": "Terminator2",
	"RM00024": "T-loop",
	"RM00028": "UMAC",
	"RM00029": "UNCG",
	"RM00030": "U-turn",
}

// rfamStructureResponse is the JSON shape of the structure motif-mapping
// endpoint.
type rfamStructureResponse struct {
	Mappings []rfamMapping `json:"mappings"`
}

type rfamMapping struct {
	MotifAcc string   `json:"motif_acc"`
	MotifID  string   `json:"motif_id"`
	Chain    string   `json:"chain"`
	Model    int      `json:"model"`
	PDBStart int      `json:"pdb_start"`
	PDBEnd   int      `json:"pdb_end"`
	EValue   *float64 `json:"e_value"`
}

// RfamAPI fetches named-motif mappings from the Rfam REST API. One request
// per call against the structure mapping endpoint.
type RfamAPI struct {
	client *http.Client
	cfg    types.HTTPConfig
	logger *zap.Logger
}

// NewRfamAPI returns an Rfam API provider with a bounded request timeout.
func NewRfamAPI(cfg types.HTTPConfig, logger *zap.Logger) *RfamAPI {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RfamAPI{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger,
	}
}

// Info returns the provider description.
func (r *RfamAPI) Info() Info {
	return Info{
		ID:          RfamAPIID,
		Name:        "Rfam (online)",
		Description: "Live named RNA motifs (GNRA, K-turn, T-loop, ...) from Rfam",
		Kind:        KindAPI,
	}
}

// Motifs fetches the motif mappings for a structure. A 404 means Rfam has
// no record of the structure, which is a normal empty outcome.
func (r *RfamAPI) Motifs(ctx context.Context, pdbID string) (types.AnnotationResult, error) {
	pdbID = types.NormalizePDBID(pdbID)
	url := fmt.Sprintf("%s/structure/%s/motifs?content-type=application/json", rfamAPIBase, pdbID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return types.AnnotationResult{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, r.client, req, 0)
	if err != nil {
		return types.AnnotationResult{}, fmt.Errorf("Rfam request for %s: %v: %w",
			pdbID, err, types.ErrUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return types.AnnotationResult{}, fmt.Errorf("%s not in Rfam: %w", pdbID, types.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return types.AnnotationResult{}, fmt.Errorf("Rfam returned HTTP %d for %s: %w",
			resp.StatusCode, pdbID, types.ErrUnavailable)
	}

	var payload rfamStructureResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return types.AnnotationResult{}, fmt.Errorf("parsing Rfam response for %s: %v: %w",
			pdbID, err, types.ErrMalformedData)
	}

	motifs := make(map[string][]types.MotifInstance)
	for i, m := range payload.Mappings {
		motifType := m.MotifID
		if motifType == "" {
			motifType = rfamMotifNames[m.MotifAcc]
		}
		if motifType == "" || m.PDBStart <= 0 || m.PDBEnd < m.PDBStart {
			r.logger.Warn("skipping unusable Rfam mapping",
				zap.String("pdb_id", pdbID), zap.Int("mapping", i),
				zap.String("motif_acc", m.MotifAcc))
			continue
		}
		model := m.Model
		if model == 0 {
			model = 1
		}
		motifs[motifType] = append(motifs[motifType], types.MotifInstance{
			Type:         motifType,
			PDBID:        pdbID,
			Chain:        m.Chain,
			ModelNumber:  model,
			ResidueStart: m.PDBStart,
			ResidueEnd:   m.PDBEnd,
			Score:        m.EValue,
			Description:  m.MotifAcc,
			SourceID:     RfamAPIID,
		})
	}

	return types.AnnotationResult{
		Motifs:     motifs,
		ProviderID: RfamAPIID,
		FetchedAt:  time.Now(),
	}, nil
}
