package tttr

// G2AsymmetricParams configures the asymmetric g² engine: T2 formats
// only, a single contiguous record range.
type G2AsymmetricParams struct {
	Channel1, Channel2         int32
	CorrelationWindow, Resolution float64
	Start, Stop                *uint64
}

// G2Result is a 1-D delay histogram with a central bin splitting
// negative and non-negative delays.
type G2Result struct {
	Histogram  []uint64
	CentralBin uint64
}

// G2Asymmetric cross-correlates two channels over a single record range.
// Supported on T2 formats only.
func G2Asymmetric(f *PTUFile, params G2AsymmetricParams) (G2Result, error) {
	w := computeWindow(params.CorrelationWindow, params.Resolution, f.streamTimeRes())
	hist := make([]uint64, w.nBins)

	switch f.RecType {
	case RecPHT2:
		rs, err := newPHT2Stream(f, params.Start, params.Stop)
		if err != nil {
			return G2Result{}, err
		}
		if err := runG2Core(rs, params.Channel1, params.Channel2, w, hist); err != nil {
			return G2Result{}, err
		}
	case RecHHT2HH1:
		rs, err := newHHT2HH1Stream(f, params.Start, params.Stop)
		if err != nil {
			return G2Result{}, err
		}
		if err := runG2Core(rs, params.Channel1, params.Channel2, w, hist); err != nil {
			return G2Result{}, err
		}
	case RecHHT2HH2:
		rs, err := newHHT2HH2Stream(f, params.Start, params.Stop)
		if err != nil {
			return G2Result{}, err
		}
		if err := runG2Core(rs, params.Channel1, params.Channel2, w, hist); err != nil {
			return G2Result{}, err
		}
	default:
		return G2Result{}, ErrNotImplemented
	}

	return G2Result{Histogram: hist, CentralBin: w.centralBin}, nil
}

// G2SymmetricParams is G2AsymmetricParams generalised to an optional set
// of disjoint record ranges, all accumulating into one histogram; an
// empty Ranges defaults to the full file as a single range.
type G2SymmetricParams struct {
	Channel1, Channel2            int32
	CorrelationWindow, Resolution float64
	Ranges                        []Range
}

// G2Symmetric is G2Asymmetric extended to HHT3_HH2 (using a fixed 1ps
// tick resolution, see PTUFile.streamTimeRes) and to multiple disjoint
// record ranges accumulated into a shared histogram. Ring buffers are
// fresh per range.
func G2Symmetric(f *PTUFile, params G2SymmetricParams) (G2Result, error) {
	w := computeWindow(params.CorrelationWindow, params.Resolution, f.streamTimeRes())
	hist := make([]uint64, w.nBins)

	ranges := params.Ranges
	if len(ranges) == 0 {
		ranges = []Range{{}}
	}

	for _, r := range ranges {
		var err error
		switch f.RecType {
		case RecPHT2:
			var rs *RecordStream[*pht2Decoder]
			rs, err = newPHT2Stream(f, r.Start, r.Stop)
			if err == nil {
				err = runG2Core(rs, params.Channel1, params.Channel2, w, hist)
			}
		case RecHHT2HH1:
			var rs *RecordStream[*hht2hh1Decoder]
			rs, err = newHHT2HH1Stream(f, r.Start, r.Stop)
			if err == nil {
				err = runG2Core(rs, params.Channel1, params.Channel2, w, hist)
			}
		case RecHHT2HH2:
			var rs *RecordStream[*hht2hh2Decoder]
			rs, err = newHHT2HH2Stream(f, r.Start, r.Stop)
			if err == nil {
				err = runG2Core(rs, params.Channel1, params.Channel2, w, hist)
			}
		case RecHHT3HH2:
			var rs *RecordStream[*hht3hh2Decoder]
			rs, err = newHHT3HH2Stream(f, r.Start, r.Stop)
			if err == nil {
				err = runG2Core(rs, params.Channel1, params.Channel2, w, hist)
			}
		default:
			err = ErrNotImplemented
		}
		if err != nil {
			return G2Result{}, err
		}
	}

	return G2Result{Histogram: hist, CentralBin: w.centralBin}, nil
}

// runG2Core is the shared nested ring-buffer correlation loop behind
// both g² engines, monomorphised per decoder at each call site.
func runG2Core[D decoder](rs *RecordStream[D], channel1, channel2 int32, w window, hist []uint64) error {
	buf1 := NewRingBuffer()
	buf2 := NewRingBuffer()

	for {
		ev, ok, err := rs.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		switch ev.Channel {
		case channel1:
			buf1.Push(ev.Tof)
			t := ev.Tof
			buf2.Iterate(func(tp uint64) bool {
				delta := t - tp
				if delta >= w.cwTicks {
					return false
				}
				hist[w.negativeIndex(delta)]++
				return true
			})
		case channel2:
			buf2.Push(ev.Tof)
			t := ev.Tof
			buf1.Iterate(func(tp uint64) bool {
				delta := t - tp
				if delta >= w.cwTicks {
					return false
				}
				hist[w.positiveIndex(delta)]++
				return true
			})
		}
	}
}
