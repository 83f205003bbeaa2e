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

// withBGSUServer points the provider at a test server for one test.
func withBGSUServer(t *testing.T, handler http.HandlerFunc) *BGSU {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := bgsuAPIBase
	bgsuAPIBase = ts.URL
	t.Cleanup(func() { bgsuAPIBase = old })

	return NewBGSU(types.HTTPConfig{UserAgent: "rmv-test"}, nil)
}

const bgsuSample = `"HL_1S72_001","1S72|1|0|U|55,1S72|1|0|G|56,1S72|1|0|A|57"
"HL_1S72_002","1S72|1|0|G|80,1S72|1|0|A|81"
"IL_1S72_001","1S72|1|0|C|100,1S72|1|0|G|112"
"J3_1S72_001","1S72|1|0|A|10,1S72|1|0|U|40,1S72|1|0|G|25"
`

func TestBGSUMotifs(t *testing.T) {
	b := withBGSUServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1S72", r.URL.Path)
		assert.Equal(t, "rmv-test", r.Header.Get("User-Agent"))
		fmt.Fprint(w, bgsuSample)
	})

	result, err := b.Motifs(context.Background(), "1s72")
	require.NoError(t, err)

	assert.Equal(t, BGSUID, result.ProviderID)
	require.Len(t, result.Motifs["HL"], 2)
	require.Len(t, result.Motifs["IL"], 1)
	require.Len(t, result.Motifs["J3"], 1)

	hl := result.Motifs["HL"][0]
	assert.Equal(t, "1S72", hl.PDBID)
	assert.Equal(t, "0", hl.Chain)
	assert.Equal(t, 1, hl.ModelNumber)
	assert.Equal(t, 55, hl.ResidueStart)
	assert.Equal(t, 57, hl.ResidueEnd)
	assert.Equal(t, "UGA", hl.Sequence)
	assert.Equal(t, "Hairpin Loop", hl.Description)
	assert.Equal(t, BGSUID, hl.SourceID)

	// Residue numbers arrive unordered; the span covers min to max.
	j3 := result.Motifs["J3"][0]
	assert.Equal(t, 10, j3.ResidueStart)
	assert.Equal(t, 40, j3.ResidueEnd)
	assert.Equal(t, "3-way Junction", j3.Description)
}

func TestBGSUMotifs_NotFound(t *testing.T) {
	b := withBGSUServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := b.Motifs(context.Background(), "9ZZZ")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestBGSUMotifs_ServerError(t *testing.T) {
	b := withBGSUServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := b.Motifs(context.Background(), "1S72")
	assert.ErrorIs(t, err, types.ErrUnavailable)
}

func TestBGSUMotifs_EmptyBody(t *testing.T) {
	b := withBGSUServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	result, err := b.Motifs(context.Background(), "1S72")
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
}

func TestBGSUMotifs_UnparsableBody(t *testing.T) {
	b := withBGSUServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html>maintenance page</html>")
	})

	_, err := b.Motifs(context.Background(), "1S72")
	assert.ErrorIs(t, err, types.ErrMalformedData)
}

func TestBGSUMotifs_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close() // refuse connections

	old := bgsuAPIBase
	bgsuAPIBase = ts.URL
	defer func() { bgsuAPIBase = old }()

	b := NewBGSU(types.HTTPConfig{}, nil)
	_, err := b.Motifs(context.Background(), "1S72")
	assert.ErrorIs(t, err, types.ErrUnavailable)
}
