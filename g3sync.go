package tttr

// G3SyncParams configures the sync-referenced third-order engine.
// HHT3_HH2 only: the sync period supplies the (sole) correlation window.
type G3SyncParams struct {
	ChannelSync, Channel1, Channel2 int32
	Resolution                      float64
	Start, Stop                     *uint64
}

// G3SyncResult is a square (τ1, τ2) histogram over delays modulo the
// sync period, with bin centres at i*Resolution (no central-bin mirror:
// both axes are non-negative).
type G3SyncResult struct {
	Histogram [][]uint64
	Bins      []float64
}

// G3Sync computes the third-order correlation of two channels relative
// to a periodic sync channel. HHT3_HH2 only.
func G3Sync(f *PTUFile, params G3SyncParams) (G3SyncResult, error) {
	if f.RecType != RecHHT3HH2 {
		return G3SyncResult{}, ErrNotImplemented
	}

	rs, err := newHHT3HH2Stream(f, params.Start, params.Stop)
	if err != nil {
		return G3SyncResult{}, err
	}

	syncPeriod := f.SyncPeriodPs
	correlationWindow := float64(syncPeriod) * 1e-12
	// The small bias keeps float round-off (e.g. 99.99999999999999 for
	// 100000 ps / 1000 ps) from dropping a bin off an exact ratio.
	nBins := uint64(correlationWindow/params.Resolution + 1e-9)
	resolutionTicks := syncPeriod / nBins

	hist := newHistogram2D(nBins)
	buf := NewColorRingBuffer()

	relevant := func(ch int32) bool {
		return ch == params.ChannelSync || ch == params.Channel1 || ch == params.Channel2
	}

	for {
		ev, ok, err := rs.Next()
		if err != nil {
			return G3SyncResult{}, err
		}
		if !ok {
			break
		}

		t1, ch1 := ev.Tof, ev.Channel
		if !relevant(ch1) {
			continue
		}

		buf.Iterate(func(t2 uint64, ch2 int32) bool {
			delta12 := t1 - t2
			if delta12 > syncPeriod {
				return false
			}

			buf.Iterate(func(t3 uint64, ch3 int32) bool {
				if t3 >= t2 {
					return true
				}
				delta13 := t1 - t3
				delta23 := t2 - t3

				var tau1, tau2 uint64
				matched := false

				switch {
				case ch1 == params.Channel1 && ch2 == params.Channel2 && ch3 == params.ChannelSync:
					tau1, tau2 = delta13, delta23
					matched = true
				case ch1 == params.Channel2 && ch2 == params.Channel1 && ch3 == params.ChannelSync:
					tau1, tau2 = delta23, delta13
					matched = true
				}

				if !matched {
					return true
				}

				idx1 := (tau1 % syncPeriod) / resolutionTicks
				idx2 := (tau2 % syncPeriod) / resolutionTicks
				if idx1 < nBins && idx2 < nBins {
					hist[idx1][idx2]++
					return false
				}
				return true
			})

			return true
		})

		buf.Push(t1, ch1)
	}

	bins := make([]float64, nBins)
	for i := range bins {
		bins[i] = float64(i) * params.Resolution
	}

	return G3SyncResult{Histogram: hist, Bins: bins}, nil
}
