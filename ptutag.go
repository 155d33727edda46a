package tttr

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
)

// PTUTagType is the 4-byte little-endian type code stamped on every tag
// record in a PTU header.
type PTUTagType uint32

const (
	TagTypeEmpty       PTUTagType = 0xFFFF0008
	TagTypeBool        PTUTagType = 0x00000008
	TagTypeInt         PTUTagType = 0x10000008
	TagTypeBitSet64    PTUTagType = 0x11000008
	TagTypeColor8      PTUTagType = 0x12000008
	TagTypeFloat       PTUTagType = 0x20000008
	TagTypeTDateTime   PTUTagType = 0x21000008
	TagTypeFloat8Array PTUTagType = 0x2001FFFF
	TagTypeAnsiString  PTUTagType = 0x4001FFFF
	TagTypeWideString  PTUTagType = 0x4002FFFF
	TagTypeBinaryBlob  PTUTagType = 0xFFFFFFFF
)

// PTUTag is a single header value. Exactly one field is meaningful,
// selected by Type; callers retrieve values through the typed Header
// getters rather than reading fields directly.
type PTUTag struct {
	Type       PTUTagType
	Bool       bool
	Int        int64
	Float      float64
	FloatArray []float64
	Str        string
	Blob       []byte
}

// Header is the parsed set of PTU tag records, keyed by tag name (with a
// decimal index suffix appended for array-indexed tags).
type Header map[string]PTUTag

const (
	ptuMagicLen  = 16
	ptuTagNamLen = 32
	headerEndTag = "Header_End"
)

// ReadHeader consumes the 16-byte magic prologue and the sequence of
// 48-byte tag records that follow, until "Header_End" is seen. A synthetic
// "DataOffset" Int tag is appended recording the byte offset immediately
// following the header, which is where the packed record body begins.
func ReadHeader(stream Stream) (Header, error) {
	magic := make([]byte, ptuMagicLen)
	if _, err := io.ReadFull(stream, magic); err != nil {
		return nil, errors.Join(ErrIO, err)
	}

	header := make(Header)

	for {
		name, index, err := readTagName(stream)
		if err != nil {
			return nil, err
		}

		var typeCode uint32
		if err := binary.Read(stream, binary.LittleEndian, &typeCode); err != nil {
			return nil, errors.Join(ErrIO, err)
		}

		payload := make([]byte, 8)
		if _, err := io.ReadFull(stream, payload); err != nil {
			return nil, errors.Join(ErrIO, err)
		}

		key := name
		if index >= 0 {
			key = name + strconv.FormatInt(int64(index), 10)
		}

		if name == headerEndTag {
			pos, err := Tell(stream)
			if err != nil {
				return nil, err
			}
			header["DataOffset"] = PTUTag{Type: TagTypeInt, Int: pos}
			return header, nil
		}

		tag, err := decodeTag(stream, PTUTagType(typeCode), payload)
		if err != nil {
			return nil, errors.Join(ErrInvalidHeader, err, errors.New(name))
		}

		header[key] = tag
	}
}

// readTagName reads the fixed 32-byte NUL-padded name field and the
// 4-byte signed little-endian array index that follows it.
func readTagName(stream Stream) (string, int32, error) {
	raw := make([]byte, ptuTagNamLen)
	if _, err := io.ReadFull(stream, raw); err != nil {
		return "", 0, errors.Join(ErrIO, err)
	}

	name := string(bytes_TrimNUL(raw))

	var index int32
	if err := binary.Read(stream, binary.LittleEndian, &index); err != nil {
		return "", 0, errors.Join(ErrIO, err)
	}

	return name, index, nil
}

func bytes_TrimNUL(b []byte) []byte {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	return b[:n]
}

// decodeTag interprets the 8-byte payload according to the type code. For
// array/string/blob types the payload is a byte length and the named bytes
// follow immediately in the stream.
func decodeTag(stream Stream, tagType PTUTagType, payload []byte) (PTUTag, error) {
	switch tagType {
	case TagTypeEmpty:
		return PTUTag{Type: tagType}, nil

	case TagTypeBool:
		v := int64(binary.LittleEndian.Uint64(payload))
		return PTUTag{Type: tagType, Bool: v != 0}, nil

	case TagTypeInt, TagTypeBitSet64, TagTypeColor8:
		v := int64(binary.LittleEndian.Uint64(payload))
		return PTUTag{Type: tagType, Int: v}, nil

	case TagTypeFloat:
		bits := binary.LittleEndian.Uint64(payload)
		return PTUTag{Type: tagType, Float: math.Float64frombits(bits)}, nil

	case TagTypeTDateTime:
		bits := binary.LittleEndian.Uint64(payload)
		oleDate := math.Float64frombits(bits)
		seconds := (oleDate - 25569) * 86400
		return PTUTag{Type: tagType, Float: seconds}, nil

	case TagTypeFloat8Array:
		length := int64(binary.LittleEndian.Uint64(payload))
		raw := make([]byte, length)
		if _, err := io.ReadFull(stream, raw); err != nil {
			return PTUTag{}, errors.Join(ErrIO, err)
		}
		n := len(raw) / 8
		arr := make([]float64, n)
		for i := 0; i < n; i++ {
			bits := binary.LittleEndian.Uint64(raw[i*8 : i*8+8])
			arr[i] = math.Float64frombits(bits)
		}
		return PTUTag{Type: tagType, FloatArray: arr}, nil

	case TagTypeAnsiString:
		length := int64(binary.LittleEndian.Uint64(payload))
		raw := make([]byte, length)
		if _, err := io.ReadFull(stream, raw); err != nil {
			return PTUTag{}, errors.Join(ErrIO, err)
		}
		return PTUTag{Type: tagType, Str: string(bytes_TrimNUL(raw))}, nil

	case TagTypeWideString:
		length := int64(binary.LittleEndian.Uint64(payload))
		raw := make([]byte, length)
		if _, err := io.ReadFull(stream, raw); err != nil {
			return PTUTag{}, errors.Join(ErrIO, err)
		}
		n := len(raw) / 2
		units := make([]uint16, n)
		for i := 0; i < n; i++ {
			units[i] = binary.BigEndian.Uint16(raw[i*2 : i*2+2])
		}
		decoded := utf16.Decode(units)
		return PTUTag{Type: tagType, Str: strings.TrimRight(string(decoded), "\x00")}, nil

	case TagTypeBinaryBlob:
		length := int64(binary.LittleEndian.Uint64(payload))
		raw := make([]byte, length)
		if _, err := io.ReadFull(stream, raw); err != nil {
			return PTUTag{}, errors.Join(ErrIO, err)
		}
		return PTUTag{Type: tagType, Blob: raw}, nil
	}

	return PTUTag{}, errors.New("unknown tag type code")
}

// Int returns the Int/BitSet64/Color8 payload of the named tag.
func (h Header) Int(name string) (int64, error) {
	tag, ok := h[name]
	if !ok {
		return 0, errors.Join(ErrInvalidHeader, errors.New("missing required tag: "+name))
	}
	switch tag.Type {
	case TagTypeInt, TagTypeBitSet64, TagTypeColor8:
		return tag.Int, nil
	}
	return 0, errors.Join(ErrWrongEnumVariant, errors.New(name))
}

// Float returns the Float/TDateTime payload of the named tag.
func (h Header) Float(name string) (float64, error) {
	tag, ok := h[name]
	if !ok {
		return 0, errors.Join(ErrInvalidHeader, errors.New("missing required tag: "+name))
	}
	switch tag.Type {
	case TagTypeFloat, TagTypeTDateTime:
		return tag.Float, nil
	}
	return 0, errors.Join(ErrWrongEnumVariant, errors.New(name))
}

// Bool returns the Bool payload of the named tag.
func (h Header) Bool(name string) (bool, error) {
	tag, ok := h[name]
	if !ok {
		return false, errors.Join(ErrInvalidHeader, errors.New("missing required tag: "+name))
	}
	if tag.Type != TagTypeBool {
		return false, errors.Join(ErrWrongEnumVariant, errors.New(name))
	}
	return tag.Bool, nil
}

// String returns the AnsiString/WideString payload of the named tag.
func (h Header) String(name string) (string, error) {
	tag, ok := h[name]
	if !ok {
		return "", errors.Join(ErrInvalidHeader, errors.New("missing required tag: "+name))
	}
	switch tag.Type {
	case TagTypeAnsiString, TagTypeWideString:
		return tag.Str, nil
	}
	return "", errors.Join(ErrWrongEnumVariant, errors.New(name))
}
