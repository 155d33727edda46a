package tttr

// ZeroFinderParams mirrors G2AsymmetricParams; the engine is a g²
// variant with per-channel depth reduced to the single most recent click.
type ZeroFinderParams struct {
	Channel1, Channel2            int32
	CorrelationWindow, Resolution float64
	Start, Stop                   *uint64
}

// ZeroFinderResult is a delay histogram with its bin-centre axis
// precomputed, since the artefact's whole purpose is reading off the
// peak position.
type ZeroFinderResult struct {
	Bins      []float64
	Histogram []uint64
}

// ZeroFinder locates the inter-channel electronic delay between two
// detector channels by retaining only the single most recent click per
// channel (a depth-1 ring buffer) rather than the full g² history. T2
// formats only.
func ZeroFinder(f *PTUFile, params ZeroFinderParams) (ZeroFinderResult, error) {
	w := computeWindow(params.CorrelationWindow, params.Resolution, f.streamTimeRes())

	var hist []uint64
	var err error

	switch f.RecType {
	case RecPHT2:
		var rs *RecordStream[*pht2Decoder]
		rs, err = newPHT2Stream(f, params.Start, params.Stop)
		if err == nil {
			hist, err = runZeroFinderCore(rs, params.Channel1, params.Channel2, w)
		}
	case RecHHT2HH1:
		var rs *RecordStream[*hht2hh1Decoder]
		rs, err = newHHT2HH1Stream(f, params.Start, params.Stop)
		if err == nil {
			hist, err = runZeroFinderCore(rs, params.Channel1, params.Channel2, w)
		}
	case RecHHT2HH2:
		var rs *RecordStream[*hht2hh2Decoder]
		rs, err = newHHT2HH2Stream(f, params.Start, params.Stop)
		if err == nil {
			hist, err = runZeroFinderCore(rs, params.Channel1, params.Channel2, w)
		}
	default:
		err = ErrNotImplemented
	}
	if err != nil {
		return ZeroFinderResult{}, err
	}

	bins := make([]float64, w.nBins)
	for i := range bins {
		bins[i] = (float64(i) - float64(w.centralBin)) * params.Resolution
	}

	return ZeroFinderResult{Bins: bins, Histogram: hist}, nil
}

func runZeroFinderCore[D decoder](rs *RecordStream[D], channel1, channel2 int32, w window) ([]uint64, error) {
	hist := make([]uint64, w.nBins)
	var prevTofChannel1, prevTofChannel2 uint64

	for {
		ev, ok, err := rs.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return hist, nil
		}

		switch ev.Channel {
		case channel1:
			prevTofChannel1 = ev.Tof
			delta := ev.Tof - prevTofChannel2
			if delta < w.cwTicks {
				hist[w.negativeIndex(delta)]++
			}
		case channel2:
			prevTofChannel2 = ev.Tof
			delta := ev.Tof - prevTofChannel1
			if delta < w.cwTicks {
				hist[w.positiveIndex(delta)]++
			}
		}
	}
}
