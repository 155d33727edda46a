package tttr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeWindow_BinCountAndCentralBin(t *testing.T) {
	w := computeWindow(200, 50, 1)

	assert.Equal(t, uint64(4), w.nBinsSide)
	assert.Equal(t, uint64(8), w.nBins)
	assert.Equal(t, uint64(4), w.centralBin)
	assert.Equal(t, uint64(200), w.cwTicks)
	assert.Equal(t, uint64(50), w.resolutionTicks)
}

func TestComputeWindow_BinCountFormula(t *testing.T) {
	// histogram.len() == 2*floor(cw/res), per the bin-count invariant.
	for _, tc := range []struct{ cw, res float64 }{
		{1e-6, 1e-9}, {200, 50}, {1e-3, 1e-4},
	} {
		w := computeWindow(tc.cw, tc.res, 1e-12)
		assert.Equal(t, 2*uint64(tc.cw/tc.res), w.nBins)
	}
}

func TestWindow_PositiveNegativeIndexSplitAtCentralBin(t *testing.T) {
	w := computeWindow(200, 50, 1)

	// Smallest positive delay (< resolutionTicks) lands exactly at central_bin.
	assert.Equal(t, w.centralBin, w.positiveIndex(0))
	// Smallest negative delay lands at central_bin-1.
	assert.Equal(t, w.centralBin-1, w.negativeIndex(0))

	assert.Equal(t, w.centralBin+1, w.positiveIndex(w.resolutionTicks))
	assert.Equal(t, w.centralBin-2, w.negativeIndex(w.resolutionTicks))
}
