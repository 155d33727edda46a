package tttr

// Event is the canonical decoded record: a channel number and an
// unwrapped time-of-flight in format-specific ticks. Non-negative channels
// are real detector channels; -1 marks an overflow/error carrier (tof
// invalid except where a decoder states otherwise); -2 marks a PHT2
// marker event. T3 decoders additionally use channel 0 for the
// sync-tick sentinel described in HHT3_HH2.
type Event struct {
	Channel int32
	Tof     uint64
}

// decoder is the capability every record-format state machine implements:
// turn one packed 32-bit word into an Event while mutating its own
// overflow/sync state. RecordStream is generic over decoder so the hot
// loop calls a concrete method directly instead of going through a
// runtime interface dispatch per event (see RecordStream).
type decoder interface {
	decode(word uint32) Event
}

// pht2Decoder implements the PicoHarp T2 format (§4.1 PHT2). One tick is
// the header's global resolution, in seconds.
type pht2Decoder struct {
	overflow uint64
}

const pht2Overflow = 210698240

func (d *pht2Decoder) decode(word uint32) Event {
	ch := int32(word>>28) & 0xF
	tm := uint64(word) & 0x0FFFFFFF

	if ch == 0xF {
		markers := tm & 0xF
		if markers == 0 {
			d.overflow += pht2Overflow
			return Event{Channel: -1, Tof: 0}
		}
		return Event{Channel: -2, Tof: d.overflow + tm}
	}

	return Event{Channel: ch, Tof: d.overflow + tm}
}

// hht2hh1Decoder implements the HydraHarp V1 T2 format (§4.1 HHT2_HH1).
type hht2hh1Decoder struct {
	overflow uint64
}

const hht2hh1Overflow = 33552000

func (d *hht2hh1Decoder) decode(word uint32) Event {
	sp := int32(word>>31) & 0x1
	ch := int32(word>>25) & 0x3F
	tm := uint64(word) & 0x01FFFFFF

	if sp == 1 && ch == 0x3F {
		d.overflow += hht2hh1Overflow
	}

	channel := (1-sp)*(ch+1) - sp*ch
	return Event{Channel: channel, Tof: d.overflow + tm}
}

// hht2hh2Decoder implements the HydraHarp V2 T2 format (§4.1 HHT2_HH2).
// Bit layout matches hht2hh1Decoder; the overflow rule is a multi-step
// advance scaled by tm (see §9 open question (a)).
type hht2hh2Decoder struct {
	overflow uint64
}

const hht2hh2Overflow = 33554432

func (d *hht2hh2Decoder) decode(word uint32) Event {
	sp := int32(word>>31) & 0x1
	ch := int32(word>>25) & 0x3F
	tm := uint64(word) & 0x01FFFFFF

	if sp == 1 && ch == 0x3F {
		d.overflow += hht2hh2Overflow * tm
	}

	channel := (1-sp)*(ch+1) - sp*ch
	return Event{Channel: channel, Tof: d.overflow + tm}
}

// hht3hh2Decoder implements the HydraHarp V2 T3 format (§4.1 HHT3_HH2).
// tof is expressed in picoseconds; syncPeriodPs and dtimeResPs are filled
// in from the file header at stream construction.
type hht3hh2Decoder struct {
	syncAccum   uint64
	syncPeriodPs uint64
	dtimeResPs   uint64
}

func (d *hht3hh2Decoder) decode(word uint32) Event {
	sp := int32(word>>31) & 0x1
	ch := int32(word>>25) & 0x3F
	dtime := uint64(word>>10) & 0x7FFF
	nsync := uint64(word) & 0x3FF

	if sp == 1 {
		if ch == 0x3F {
			if nsync == 0 {
				d.syncAccum += 1024
			} else {
				d.syncAccum += 1024 * nsync
			}
			return Event{Channel: 0, Tof: d.syncAccum * d.syncPeriodPs}
		}
		if ch >= 1 && ch <= 15 {
			return Event{Channel: -1, Tof: d.syncAccum * d.syncPeriodPs}
		}
		return Event{Channel: -1, Tof: 0}
	}

	trueNsync := d.syncAccum + nsync
	tof := trueNsync*d.syncPeriodPs + dtime*d.dtimeResPs
	return Event{Channel: ch + 1, Tof: tof}
}
