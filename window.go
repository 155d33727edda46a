package tttr

// window holds the tick-domain constants shared by the correlation
// engines (g², g³): a correlation window expressed in ticks, the
// resulting per-side bin count, and the central histogram index that
// splits negative from non-negative delays.
type window struct {
	nBinsSide       uint64
	cwTicks         uint64
	resolutionTicks uint64
	nBins           uint64
	centralBin      uint64
}

// computeWindow derives window constants from a correlation window and
// bin resolution, both in seconds, against a stream's tick length.
// cwTicks is rounded down to an exact multiple of nBinsSide so that
// resolutionTicks divides it evenly.
func computeWindow(correlationWindow, resolution, timeRes float64) window {
	nBinsSide := uint64(correlationWindow / resolution)
	cwTicksRaw := uint64(correlationWindow / timeRes)
	cwTicks := nBinsSide * (cwTicksRaw / nBinsSide)
	resolutionTicks := cwTicks / nBinsSide
	nBins := 2 * nBinsSide
	return window{
		nBinsSide:       nBinsSide,
		cwTicks:         cwTicks,
		resolutionTicks: resolutionTicks,
		nBins:           nBins,
		centralBin:      nBins / 2,
	}
}

// positiveIndex and negativeIndex place a delay at tick distance tau
// (always given as a non-negative magnitude) on the correct side of the
// central bin.
func (w window) positiveIndex(tau uint64) uint64 {
	return w.centralBin + tau/w.resolutionTicks
}

func (w window) negativeIndex(tau uint64) uint64 {
	return w.centralBin - tau/w.resolutionTicks - 1
}
