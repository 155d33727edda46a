package tttr

// bufferCapacity is the fixed depth every ring buffer in this package is
// built with.
const bufferCapacity = 4096

// RingBuffer is a fixed-capacity, overwrite-oldest circular buffer of
// tof ticks, used by the asymmetric/symmetric g2 engines to hold recent
// clicks on one channel.
type RingBuffer struct {
	buf  [bufferCapacity]uint64
	n    int
	head int
}

// NewRingBuffer returns an empty ring buffer at full capacity.
func NewRingBuffer() *RingBuffer {
	return &RingBuffer{}
}

// Push records a new tof, evicting the oldest entry once the buffer is
// full.
func (r *RingBuffer) Push(tof uint64) {
	r.buf[r.head] = tof
	r.head = (r.head + 1) % bufferCapacity
	if r.n < bufferCapacity {
		r.n++
	}
}

// Len reports how many entries are currently held.
func (r *RingBuffer) Len() int {
	return r.n
}

// Iterate walks entries newest-first, stopping early if fn returns false.
func (r *RingBuffer) Iterate(fn func(tof uint64) bool) {
	for i := 0; i < r.n; i++ {
		idx := (r.head - 1 - i + bufferCapacity) % bufferCapacity
		if !fn(r.buf[idx]) {
			return
		}
	}
}

// ColorRingBuffer is RingBuffer's (tof, channel) counterpart, used where
// an engine correlates across more than one channel through a single
// shared buffer (g3 full third-order).
type ColorRingBuffer struct {
	tof [bufferCapacity]uint64
	ch  [bufferCapacity]int32
	n   int
	head int
}

// NewColorRingBuffer returns an empty ring buffer at full capacity.
func NewColorRingBuffer() *ColorRingBuffer {
	return &ColorRingBuffer{}
}

// Push records a new (tof, channel) pair, evicting the oldest entry once
// the buffer is full.
func (r *ColorRingBuffer) Push(tof uint64, channel int32) {
	r.tof[r.head] = tof
	r.ch[r.head] = channel
	r.head = (r.head + 1) % bufferCapacity
	if r.n < bufferCapacity {
		r.n++
	}
}

// Len reports how many entries are currently held.
func (r *ColorRingBuffer) Len() int {
	return r.n
}

// Iterate walks entries newest-first, stopping early if fn returns false.
func (r *ColorRingBuffer) Iterate(fn func(tof uint64, channel int32) bool) {
	for i := 0; i < r.n; i++ {
		idx := (r.head - 1 - i + bufferCapacity) % bufferCapacity
		if !fn(r.tof[idx], r.ch[idx]) {
			return
		}
	}
}
