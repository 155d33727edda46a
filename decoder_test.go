package tttr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// S1: Synthetic PHT2 stream of records [0x00000001, 0xF0000000, 0x00000002].
func TestPHT2Decoder_S1(t *testing.T) {
	d := &pht2Decoder{}

	ev1 := d.decode(0x00000001)
	assert.Equal(t, Event{Channel: 0, Tof: 1}, ev1)

	ev2 := d.decode(0xF0000000)
	assert.Equal(t, Event{Channel: -1, Tof: 0}, ev2)
	assert.Equal(t, uint64(pht2Overflow), d.overflow)

	ev3 := d.decode(0x00000002)
	assert.Equal(t, Event{Channel: 0, Tof: pht2Overflow + 2}, ev3)
}

func TestPHT2Decoder_OverflowAccumulatorAdvancesLinearly(t *testing.T) {
	d := &pht2Decoder{}
	const k = 7
	for i := 0; i < k; i++ {
		d.decode(0xF0000000)
	}
	assert.Equal(t, uint64(k*pht2Overflow), d.overflow)
}

func TestPHT2Decoder_MarkerRetainsOverflowOffset(t *testing.T) {
	d := &pht2Decoder{overflow: 100}
	ev := d.decode(0xF0000001)
	assert.Equal(t, Event{Channel: -2, Tof: 101}, ev)
}

// S2: HHT2_HH1 record 0x80000000 with sp=1, ch=0, tm=0.
func TestHHT2HH1Decoder_S2(t *testing.T) {
	d := &hht2hh1Decoder{}
	ev := d.decode(0x80000000)
	assert.Equal(t, Event{Channel: 0, Tof: 0}, ev)
	assert.Equal(t, uint64(0), d.overflow)
}

func TestHHT2HH1Decoder_Overflow(t *testing.T) {
	d := &hht2hh1Decoder{}
	// sp=1, ch=0x3F (special, overflow), tm=0
	word := uint32(1)<<31 | uint32(0x3F)<<25
	d.decode(word)
	assert.Equal(t, uint64(hht2hh1Overflow), d.overflow)
}

func TestHHT2HH1Decoder_Photon(t *testing.T) {
	d := &hht2hh1Decoder{}
	// sp=0, ch=3, tm=10 -> channel = ch+1 = 4
	word := uint32(3)<<25 | uint32(10)
	ev := d.decode(word)
	assert.Equal(t, Event{Channel: 4, Tof: 10}, ev)
}

// S3: HHT2_HH2 overflow records with tm=0 (no-op) and tm=1 (advance).
func TestHHT2HH2Decoder_S3(t *testing.T) {
	d := &hht2hh2Decoder{}

	d.decode(0xFE000000) // sp=1, ch=0x3F, tm=0
	assert.Equal(t, uint64(0), d.overflow)

	d.decode(0xFE000001) // sp=1, ch=0x3F, tm=1
	assert.Equal(t, uint64(hht2hh2Overflow), d.overflow)
}

func TestHHT2HH2Decoder_OverflowScalesByTm(t *testing.T) {
	d := &hht2hh2Decoder{}
	word := uint32(1)<<31 | uint32(0x3F)<<25 | uint32(5)
	d.decode(word)
	assert.Equal(t, uint64(hht2hh2Overflow*5), d.overflow)
}

// S4: HHT3_HH2 photon record with ch=0, dtime=100, nsync=5, sync
// accumulator at 10, sync_period_ps=12500, dtime_res_ps=4.
func TestHHT3HH2Decoder_S4(t *testing.T) {
	d := &hht3hh2Decoder{syncAccum: 10, syncPeriodPs: 12500, dtimeResPs: 4}

	word := uint32(0)<<25 | uint32(100)<<10 | uint32(5)
	ev := d.decode(word)

	assert.Equal(t, Event{Channel: 1, Tof: 187900}, ev)
}

func TestHHT3HH2Decoder_SyncOverflow(t *testing.T) {
	d := &hht3hh2Decoder{syncPeriodPs: 100}

	// sp=1, ch=0x3F, nsync=0 -> sync accumulator advances by 1024
	word := uint32(1)<<31 | uint32(0x3F)<<25
	ev := d.decode(word)
	assert.Equal(t, int32(0), ev.Channel)
	assert.Equal(t, uint64(1024*100), ev.Tof)
	assert.Equal(t, uint64(1024), d.syncAccum)
}

func TestHHT3HH2Decoder_SyncOverflowWithNsync(t *testing.T) {
	d := &hht3hh2Decoder{syncPeriodPs: 100}

	word := uint32(1)<<31 | uint32(0x3F)<<25 | uint32(3)
	d.decode(word)
	assert.Equal(t, uint64(1024*3), d.syncAccum)
}

func TestHHT3HH2Decoder_Marker(t *testing.T) {
	d := &hht3hh2Decoder{syncAccum: 2, syncPeriodPs: 50}

	// sp=1, ch=5 (marker, 1<=ch<=15)
	word := uint32(1)<<31 | uint32(5)<<25
	ev := d.decode(word)
	assert.Equal(t, Event{Channel: -1, Tof: 100}, ev)
}
