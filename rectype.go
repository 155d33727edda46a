package tttr

// RecType selects which decoder a record stream is built around. Formats
// recognised by the header but without a decoder collapse to
// RecNotImplemented; engines must fail with ErrNotImplemented rather than
// attempt to stream them.
type RecType int

const (
	RecNotImplemented RecType = iota
	RecPHT2
	RecHHT2HH1
	RecHHT2HH2
	RecHHT3HH2
)

// rawRecType is the Int value carried by the "TTResultFormat_TTTRRecType"
// header tag.
type rawRecType int64

const (
	rawPicoHarpT3      rawRecType = 0x00010303
	rawPicoHarpT2      rawRecType = 0x00010203
	rawHydraHarpT3     rawRecType = 0x00010304
	rawHydraHarpT2     rawRecType = 0x00010204
	rawHydraHarp2T3    rawRecType = 0x01010304
	rawHydraHarp2T2    rawRecType = 0x01010204
	rawTimeHarp260NT3  rawRecType = 0x00010305
	rawTimeHarp260PT3  rawRecType = 0x00010306
	rawTimeHarp260NT2  rawRecType = 0x00010205
	rawTimeHarp260PT2  rawRecType = 0x00010206
)

// recTypeFromRaw maps the header's raw RecType code onto the decoder
// family that handles it, or RecNotImplemented for recognised-but-
// unsupported codes.
func recTypeFromRaw(raw int64) RecType {
	switch rawRecType(raw) {
	case rawPicoHarpT2:
		return RecPHT2
	case rawHydraHarpT2:
		return RecHHT2HH1
	case rawHydraHarp2T2, rawTimeHarp260NT2, rawTimeHarp260PT2:
		return RecHHT2HH2
	case rawHydraHarp2T3:
		// The only T3-mode code wired to a decoder: HHT3_HH2 is the
		// HydraHarp V2 T3 record format. The remaining T3 codes have
		// no decoder in this package and stay NotImplemented.
		return RecHHT3HH2
	case rawPicoHarpT3, rawHydraHarpT3, rawTimeHarp260NT3, rawTimeHarp260PT3:
		return RecNotImplemented
	}
	return RecNotImplemented
}

// isT3 reports whether a record type is a T3-mode (sync-relative) format.
func (r RecType) isT3() bool {
	return r == RecHHT3HH2
}

func (r RecType) String() string {
	switch r {
	case RecPHT2:
		return "PHT2"
	case RecHHT2HH1:
		return "HHT2_HH1"
	case RecHHT2HH2:
		return "HHT2_HH2"
	case RecHHT3HH2:
		return "HHT3_HH2"
	}
	return "NotImplemented"
}
