package tttr

// IntensityParams configures the Intensity engine. Channel, if non-nil,
// restricts counting to an exact channel match; otherwise every
// non-negative (real photon) channel counts. Start/Stop restrict the
// record range read from the file; nil defaults to the full span.
type IntensityParams struct {
	Resolution  float64
	Channel     *int32
	Start, Stop *uint64
}

// IntensityResult holds the discretized click counts per bin and, for
// each bin, the positional index of the event that closed it.
type IntensityResult struct {
	Trace         []uint64
	RecordNumbers []uint64
}

// Intensity computes the click-rate time trace of a PTU file. Unlike the
// reference tool this supports all four record formats; §4.3 places no
// format restriction and overflow-corrected tof is available uniformly
// across decoders.
func Intensity(f *PTUFile, params IntensityParams) (IntensityResult, error) {
	switch f.RecType {
	case RecPHT2:
		rs, err := newPHT2Stream(f, params.Start, params.Stop)
		if err != nil {
			return IntensityResult{}, err
		}
		return runIntensity(rs, params)
	case RecHHT2HH1:
		rs, err := newHHT2HH1Stream(f, params.Start, params.Stop)
		if err != nil {
			return IntensityResult{}, err
		}
		return runIntensity(rs, params)
	case RecHHT2HH2:
		rs, err := newHHT2HH2Stream(f, params.Start, params.Stop)
		if err != nil {
			return IntensityResult{}, err
		}
		return runIntensity(rs, params)
	case RecHHT3HH2:
		rs, err := newHHT3HH2Stream(f, params.Start, params.Stop)
		if err != nil {
			return IntensityResult{}, err
		}
		return runIntensity(rs, params)
	default:
		return IntensityResult{}, ErrNotImplemented
	}
}

// runIntensity is the shared core loop, monomorphised per decoder at the
// Intensity call site above rather than dispatched through an interface
// per event.
func runIntensity[D decoder](rs *RecordStream[D], params IntensityParams) (IntensityResult, error) {
	ticksPerBin := uint64(params.Resolution / rs.timeRes)

	var trace, recnums []uint64
	var counter uint64
	endOfBin := ticksPerBin
	var idx uint64

	for {
		ev, ok, err := rs.Next()
		if err != nil {
			return IntensityResult{}, err
		}
		if !ok {
			break
		}

		// An event may close more than one bin at once when the gap to
		// the previous event spans several empty intervals (e.g. after
		// an overflow record); each closed bin still gets emitted.
		for ev.Tof > endOfBin {
			trace = append(trace, counter)
			recnums = append(recnums, idx)
			counter = 0
			endOfBin += ticksPerBin
		}

		if params.Channel != nil {
			if ev.Channel == *params.Channel {
				counter++
			}
		} else if ev.Channel >= 0 {
			counter++
		}

		idx++
	}

	return IntensityResult{Trace: trace, RecordNumbers: recnums}, nil
}
