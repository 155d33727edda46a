package tttr

// newPHT2Stream, newHHT2HH1Stream, newHHT2HH2Stream and newHHT3HH2Stream
// seek f's stream to [start, stop) and construct a freshly-decoded
// RecordStream over it. Engines call the one matching f.RecType; calling
// the wrong one produces garbage, not an error, so callers must dispatch
// on RecType first (see the switch in each engine function).

func newPHT2Stream(f *PTUFile, start, stop *uint64) (*RecordStream[*pht2Decoder], error) {
	remaining, err := f.prepareRange(start, stop)
	if err != nil {
		return nil, err
	}
	return newRecordStream(f.stream, remaining, f.streamTimeRes(), &pht2Decoder{}), nil
}

func newHHT2HH1Stream(f *PTUFile, start, stop *uint64) (*RecordStream[*hht2hh1Decoder], error) {
	remaining, err := f.prepareRange(start, stop)
	if err != nil {
		return nil, err
	}
	return newRecordStream(f.stream, remaining, f.streamTimeRes(), &hht2hh1Decoder{}), nil
}

func newHHT2HH2Stream(f *PTUFile, start, stop *uint64) (*RecordStream[*hht2hh2Decoder], error) {
	remaining, err := f.prepareRange(start, stop)
	if err != nil {
		return nil, err
	}
	return newRecordStream(f.stream, remaining, f.streamTimeRes(), &hht2hh2Decoder{}), nil
}

func newHHT3HH2Stream(f *PTUFile, start, stop *uint64) (*RecordStream[*hht3hh2Decoder], error) {
	remaining, err := f.prepareRange(start, stop)
	if err != nil {
		return nil, err
	}
	dec := &hht3hh2Decoder{syncPeriodPs: f.SyncPeriodPs, dtimeResPs: f.DTimeResPs}
	return newRecordStream(f.stream, remaining, f.streamTimeRes(), dec), nil
}

// Range is a half-open [Start, Stop) record range. A nil bound in either
// field defers to the file's full span; engines accepting multiple Ranges
// (G2 Symmetric) accumulate every range into one shared histogram.
type Range struct {
	Start *uint64
	Stop  *uint64
}
