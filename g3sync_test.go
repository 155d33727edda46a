package tttr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func hht3Word(sp, ch, dtime, nsync uint32) uint32 {
	return sp<<31 | ch<<25 | dtime<<10 | nsync
}

// A sync-tick record, then two photons on channel_2 then channel_1
// (current click), arriving in strictly increasing tof order, match the
// (channel_1, channel_2, channel_sync) permutation: tau1 = delta13,
// tau2 = delta23. Channel 0 (channel_sync) can only come from the
// overflow/sync branch of the T3 decoder, never a photon, so the sync
// click's tof is necessarily a multiple of 1024*sync_period_ps; the
// photon offsets are chosen well within one sync period of it.
func TestG3Sync_Permutation12Sync(t *testing.T) {
	const syncPeriodPs = 100000
	const dtimeResPs = 1

	words := []uint32{
		hht3Word(1, 0x3F, 0, 0),   // sync tick: syncAccum=1024, tof=1024*100000
		hht3Word(0, 1, 2000, 0),   // channel 2 (ch field 1 -> channel=2)
		hht3Word(0, 0, 5000, 0),   // channel 1 (ch field 0 -> channel=1), current
	}
	stream := wordsToStream(words)

	f := &PTUFile{
		RecType:      RecHHT3HH2,
		NumRecords:   uint64(len(words)),
		DataOffset:   0,
		SyncPeriodPs: syncPeriodPs,
		DTimeResPs:   dtimeResPs,
		stream:       stream,
	}

	result, err := G3Sync(f, G3SyncParams{
		ChannelSync: 0, Channel1: 1, Channel2: 2,
		Resolution: 1e-12 * 1000,
	})
	assert.NoError(t, err)

	var total uint64
	for _, row := range result.Histogram {
		for _, c := range row {
			total += c
		}
	}
	assert.Equal(t, uint64(1), total)

	// sync tof = 1024*100000 = 102400000; photon2 tof = +2000; photon3 tof = +5000.
	delta13 := uint64(5000)
	delta23 := uint64(2000)
	resolutionTicks := uint64(syncPeriodPs) / (uint64(syncPeriodPs) / 1000)
	idx1 := delta13 / resolutionTicks
	idx2 := delta23 / resolutionTicks

	assert.Equal(t, uint64(1), result.Histogram[idx1][idx2])
}

func TestG3Sync_NonT3FormatFails(t *testing.T) {
	f := &PTUFile{RecType: RecPHT2}
	_, err := G3Sync(f, G3SyncParams{Resolution: 1e-9})
	assert.ErrorIs(t, err, ErrNotImplemented)
}
