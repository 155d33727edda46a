package tttr

// LifetimeParams configures the Lifetime engine. channel_sync is
// normally 0, the sync-tick sentinel channel HHT3_HH2 emits.
type LifetimeParams struct {
	ChannelSync   int32
	ChannelSource int32
	Resolution    float64
	Start, Stop   *uint64
}

// LifetimeResult is a 1-D decay histogram with bin centres at i*Resolution.
type LifetimeResult struct {
	Histogram []uint64
	Bins      []float64
}

// Lifetime computes a photon arrival-time decay histogram relative to
// the most recent sync pulse. HHT3_HH2 only: the sync period and
// sync-relative tof are only meaningful in T3 mode.
func Lifetime(f *PTUFile, params LifetimeParams) (LifetimeResult, error) {
	if f.RecType != RecHHT3HH2 {
		return LifetimeResult{}, ErrNotImplemented
	}

	rs, err := newHHT3HH2Stream(f, params.Start, params.Stop)
	if err != nil {
		return LifetimeResult{}, err
	}

	correlationWindow := float64(f.SyncPeriodPs) * 1e-12
	// The small bias keeps float round-off (e.g. 124.99999999999999 for
	// 12500 ps / 100 ps) from dropping a bin off an exact ratio.
	nBins := uint64(correlationWindow/params.Resolution + 1e-9)
	binTicks := f.SyncPeriodPs / nBins

	histogram := make([]uint64, nBins)
	var tofSync uint64

	for {
		ev, ok, err := rs.Next()
		if err != nil {
			return LifetimeResult{}, err
		}
		if !ok {
			break
		}

		switch ev.Channel {
		case params.ChannelSync:
			tofSync = ev.Tof
		case params.ChannelSource:
			delta := ev.Tof - tofSync
			idx := (delta % f.SyncPeriodPs) / binTicks
			if idx < nBins {
				histogram[idx]++
			}
		}
	}

	bins := make([]float64, nBins)
	for i := range bins {
		bins[i] = float64(i) * params.Resolution
	}

	return LifetimeResult{Histogram: histogram, Bins: bins}, nil
}
