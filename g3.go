package tttr

// G3Params configures the full third-order correlation engine. All four
// record formats are supported.
type G3Params struct {
	Channel1, Channel2, Channel3  int32
	CorrelationWindow, Resolution float64
	Start, Stop                   *uint64
}

// G3Result is a square (τ1, τ2) delay histogram.
type G3Result struct {
	Histogram  [][]uint64
	CentralBin uint64
}

// G3 computes the third-order intensity correlation across three
// channels. Supports all four record formats.
func G3(f *PTUFile, params G3Params) (G3Result, error) {
	w := computeWindow(params.CorrelationWindow, params.Resolution, f.streamTimeRes())

	var hist [][]uint64
	var err error

	switch f.RecType {
	case RecPHT2:
		var rs *RecordStream[*pht2Decoder]
		rs, err = newPHT2Stream(f, params.Start, params.Stop)
		if err == nil {
			hist, err = runG3Core(rs, params.Channel1, params.Channel2, params.Channel3, w)
		}
	case RecHHT2HH1:
		var rs *RecordStream[*hht2hh1Decoder]
		rs, err = newHHT2HH1Stream(f, params.Start, params.Stop)
		if err == nil {
			hist, err = runG3Core(rs, params.Channel1, params.Channel2, params.Channel3, w)
		}
	case RecHHT2HH2:
		var rs *RecordStream[*hht2hh2Decoder]
		rs, err = newHHT2HH2Stream(f, params.Start, params.Stop)
		if err == nil {
			hist, err = runG3Core(rs, params.Channel1, params.Channel2, params.Channel3, w)
		}
	case RecHHT3HH2:
		var rs *RecordStream[*hht3hh2Decoder]
		rs, err = newHHT3HH2Stream(f, params.Start, params.Stop)
		if err == nil {
			hist, err = runG3Core(rs, params.Channel1, params.Channel2, params.Channel3, w)
		}
	default:
		err = ErrNotImplemented
	}
	if err != nil {
		return G3Result{}, err
	}

	return G3Result{Histogram: hist, CentralBin: w.centralBin}, nil
}

func newHistogram2D(side uint64) [][]uint64 {
	h := make([][]uint64, side)
	for i := range h {
		h[i] = make([]uint64, side)
	}
	return h
}

// runG3Core is the shared nested-buffer third-order loop. It skips
// clicks whose channel is none of the three configured channels and
// dispatches the six (c1,c2,c3) permutations by an explicit switch
// rather than the reference implementation's if/else-if cascade (see
// the design notes on permutation dispatch); the six counted cases and
// their silently-dropped leftovers are preserved exactly.
func runG3Core[D decoder](rs *RecordStream[D], c1p, c2p, c3p int32, w window) ([][]uint64, error) {
	hist := newHistogram2D(w.nBins)
	buf := NewColorRingBuffer()

	for {
		ev, ok, err := rs.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return hist, nil
		}

		t1, ch1 := ev.Tof, ev.Channel
		if ch1 != c1p && ch1 != c2p && ch1 != c3p {
			continue
		}

		buf.Iterate(func(t2 uint64, ch2 int32) bool {
			delta12 := t1 - t2
			if delta12 > w.cwTicks {
				return false
			}

			buf.Iterate(func(t3 uint64, ch3 int32) bool {
				if t3 >= t2 {
					return true
				}
				delta23 := t2 - t3
				delta13 := delta12 + delta23

				switch {
				case ch1 == c1p && ch2 == c2p && ch3 == c3p: // (1,2,3)
					tau1, tau2 := delta12, delta13
					if tau1 >= w.cwTicks || tau2 >= w.cwTicks {
						return false
					}
					hist[w.negativeIndex(tau1)][w.negativeIndex(tau2)]++
				case ch1 == c1p && ch2 == c3p && ch3 == c2p: // (1,3,2)
					tau1, tau2 := delta13, delta12
					if tau1 >= w.cwTicks || tau2 >= w.cwTicks {
						return false
					}
					hist[w.negativeIndex(tau1)][w.negativeIndex(tau2)]++
				case ch1 == c2p && ch2 == c1p && ch3 == c3p: // (2,1,3)
					tau1, tau2 := delta12, delta23
					if tau1 >= w.cwTicks || tau2 >= w.cwTicks {
						return false
					}
					hist[w.positiveIndex(tau1)][w.negativeIndex(tau2)]++
				case ch1 == c2p && ch2 == c3p && ch3 == c1p: // (2,3,1)
					tau1, tau2 := delta13, delta23
					if tau1 >= w.cwTicks || tau2 >= w.cwTicks {
						return false
					}
					hist[w.positiveIndex(tau1)][w.positiveIndex(tau2)]++
				case ch1 == c3p && ch2 == c1p && ch3 == c2p: // (3,1,2)
					tau1, tau2 := delta23, delta12
					if tau1 >= w.cwTicks || tau2 >= w.cwTicks {
						return false
					}
					hist[w.negativeIndex(tau1)][w.positiveIndex(tau2)]++
				case ch1 == c3p && ch2 == c2p && ch3 == c1p: // (3,2,1)
					tau1, tau2 := delta23, delta13
					if tau1 >= w.cwTicks || tau2 >= w.cwTicks {
						return false
					}
					hist[w.positiveIndex(tau1)][w.positiveIndex(tau2)]++
				}
				return true
			})

			return true
		})

		buf.Push(t1, ch1)
	}
}
