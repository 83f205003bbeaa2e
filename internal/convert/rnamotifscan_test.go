// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reymondkenney20/rmv-2/pkg/types"
)

func TestRNAMotifScanConvert_CSV(t *testing.T) {
	path := writeFile(t, "1s72.csv",
		`Motif_Name,Start,End,Chain,Score
kink-turn,80,97,A,12.5
kink-turn,120,139,A,8.1
c-loop,210,218,B,4.4
`)

	motifs, err := NewRNAMotifScan(nil).Convert(path, "1s72")
	require.NoError(t, err)
	require.Len(t, motifs, 2)
	require.Len(t, motifs["kink-turn"], 2)

	inst := motifs["kink-turn"][0]
	assert.Equal(t, "kink-turn", inst.Type)
	assert.Equal(t, "1S72", inst.PDBID)
	assert.Equal(t, "A", inst.Chain)
	assert.Equal(t, 1, inst.ModelNumber)
	assert.Equal(t, 80, inst.ResidueStart)
	assert.Equal(t, 97, inst.ResidueEnd)
	assert.Equal(t, "rnamotifscan", inst.SourceID)
	require.NotNil(t, inst.Score)
	assert.InDelta(t, 12.5, *inst.Score, 1e-9)
}

func TestRNAMotifScanConvert_TSV(t *testing.T) {
	path := writeFile(t, "1s72.tsv",
		"Motif\tStart\tEnd\tChain\nsarcin-ricin\t55\t62\t0\n")

	motifs, err := NewRNAMotifScan(nil).Convert(path, "1S72")
	require.NoError(t, err)

	inst := motifs["sarcin-ricin"][0]
	assert.Equal(t, "0", inst.Chain)
	assert.Equal(t, 55, inst.ResidueStart)
	assert.Equal(t, 62, inst.ResidueEnd)
	assert.Nil(t, inst.Score)
}

func TestRNAMotifScanConvert_AlternateColumnNames(t *testing.T) {
	path := writeFile(t, "alt.csv",
		`Type,Start_Position,End_Position,Chain
e-loop,10,20,C
`)

	motifs, err := NewRNAMotifScan(nil).Convert(path, "2ABC")
	require.NoError(t, err)
	require.Len(t, motifs["e-loop"], 1)
	assert.Equal(t, "2ABC", motifs["e-loop"][0].PDBID)
}

func TestRNAMotifScanConvert_MissingChainColumn(t *testing.T) {
	path := writeFile(t, "nochain.csv",
		`Motif_Name,Start,End,Score
kink-turn,80,97,12.5
`)

	motifs, err := NewRNAMotifScan(nil).Convert(path, "1S72")
	assert.ErrorIs(t, err, types.ErrMalformedData)
	assert.Nil(t, motifs)
}

func TestRNAMotifScanConvert_BadRowsSkipped(t *testing.T) {
	path := writeFile(t, "mixed.csv",
		`Motif_Name,Start,End,Chain
kink-turn,80,97,A
,10,20,A
c-loop,ten,20,A
c-loop,30,20,A
c-loop,-5,20,A
`)

	motifs, err := NewRNAMotifScan(nil).Convert(path, "1S72")
	require.NoError(t, err)

	assert.Len(t, motifs["kink-turn"], 1)
	assert.Empty(t, motifs["c-loop"])
}
