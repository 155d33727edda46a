package tttr

import "errors"

// Error taxonomy for the TTTR core. Header parsing and stream construction
// surface these to the caller; the streaming engines themselves never
// originate an error once a stream has been constructed.
var (
	// ErrFileNotAvailable is returned when the input path cannot be opened.
	ErrFileNotAvailable = errors.New("tttr: file not available")

	// ErrIO wraps an underlying read/seek failure mid-file.
	ErrIO = errors.New("tttr: io error")

	// ErrInvalidHeader covers malformed tag names/values, unknown tag-type
	// codes, or a missing required header key.
	ErrInvalidHeader = errors.New("tttr: invalid header")

	// ErrWrongEnumVariant is returned when a required tag exists but holds
	// a PTUTag kind other than the one the caller expected.
	ErrWrongEnumVariant = errors.New("tttr: wrong tag variant")

	// ErrNotImplemented is returned when an engine is invoked against a
	// record format it does not support, or a RecType the header declares
	// that has no decoder at all.
	ErrNotImplemented = errors.New("tttr: not implemented")
)
