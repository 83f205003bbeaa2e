// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reymondkenney20/rmv-2/pkg/types"
)

// withRfamServer points the provider at a test server for one test.
func withRfamServer(t *testing.T, handler http.HandlerFunc) *RfamAPI {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := rfamAPIBase
	rfamAPIBase = ts.URL
	t.Cleanup(func() { rfamAPIBase = old })

	return NewRfamAPI(types.HTTPConfig{UserAgent: "rmv-test"}, nil)
}

const rfamSample = `{
  "mappings": [
    {"motif_acc": "RM00008", "motif_id": "GNRA", "chain": "0", "model": 1, "pdb_start": 80, "pdb_end": 83, "e_value": 0.002},
    {"motif_acc": "RM00010", "chain": "0", "pdb_start": 77, "pdb_end": 94},
    {"motif_acc": "RM99999", "chain": "0", "pdb_start": 0, "pdb_end": 10}
  ]
}`

func TestRfamAPIMotifs(t *testing.T) {
	r := withRfamServer(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/structure/1S72/motifs", req.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, rfamSample)
	})

	result, err := r.Motifs(context.Background(), "1s72")
	require.NoError(t, err)

	assert.Equal(t, RfamAPIID, result.ProviderID)
	require.Len(t, result.Motifs["GNRA"], 1)

	gnra := result.Motifs["GNRA"][0]
	assert.Equal(t, "1S72", gnra.PDBID)
	assert.Equal(t, "0", gnra.Chain)
	assert.Equal(t, 80, gnra.ResidueStart)
	assert.Equal(t, 83, gnra.ResidueEnd)
	assert.Equal(t, "RM00008", gnra.Description)
	assert.Equal(t, RfamAPIID, gnra.SourceID)
	require.NotNil(t, gnra.Score)
	assert.InDelta(t, 0.002, *gnra.Score, 1e-9)

	// The second mapping omits motif_id; the accession table supplies the
	// name and the missing model defaults to 1.
	require.Len(t, result.Motifs["K-turn"], 1)
	assert.Equal(t, 1, result.Motifs["K-turn"][0].ModelNumber)

	// The third mapping has an unknown accession and a bad range: dropped.
	assert.Len(t, result.Motifs, 2)
}

func TestRfamAPIMotifs_NotFound(t *testing.T) {
	r := withRfamServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := r.Motifs(context.Background(), "9ZZZ")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestRfamAPIMotifs_ServerError(t *testing.T) {
	r := withRfamServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := r.Motifs(context.Background(), "1S72")
	assert.ErrorIs(t, err, types.ErrUnavailable)
}

func TestRfamAPIMotifs_MalformedJSON(t *testing.T) {
	r := withRfamServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	})

	_, err := r.Motifs(context.Background(), "1S72")
	assert.ErrorIs(t, err, types.ErrMalformedData)
}

func TestRfamAPIMotifs_NoMappings(t *testing.T) {
	r := withRfamServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"mappings": []}`)
	})

	result, err := r.Motifs(context.Background(), "1S72")
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
}
