package tttr

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// tagRecord appends one 48-byte-or-longer tag record: a 32-byte NUL-padded
// name, a 4-byte signed index, a 4-byte type code, and an 8-byte payload,
// followed by any variable-length body the type requires.
func tagRecord(buf *bytes.Buffer, name string, index int32, typeCode PTUTagType, payload uint64, extra []byte) {
	nameBytes := make([]byte, ptuTagNamLen)
	copy(nameBytes, name)
	buf.Write(nameBytes)
	binary.Write(buf, binary.LittleEndian, index)
	binary.Write(buf, binary.LittleEndian, uint32(typeCode))
	binary.Write(buf, binary.LittleEndian, payload)
	buf.Write(extra)
}

func float64Bits(f float64) uint64 {
	return math.Float64bits(f)
}

// ReadHeader consumes the 16-byte magic, a handful of scalar and
// variable-length tags, then the terminating Header_End tag, and appends a
// synthetic DataOffset tag recording the position immediately after it.
func TestReadHeader_ScalarAndVariableLengthTags(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, ptuMagicLen))

	tagRecord(&buf, "Int_Tag", -1, TagTypeInt, uint64(42), nil)
	tagRecord(&buf, "Bool_Tag", -1, TagTypeBool, uint64(1), nil)
	tagRecord(&buf, "Float_Tag", -1, TagTypeFloat, float64Bits(3.5), nil)

	ansi := []byte("abc\x00")
	tagRecord(&buf, "Str_Tag", -1, TagTypeAnsiString, uint64(len(ansi)), ansi)

	tagRecord(&buf, "Header_End", -1, TagTypeEmpty, 0, nil)

	stream := bytes.NewReader(buf.Bytes())
	header, err := ReadHeader(stream)
	assert.NoError(t, err)

	i, err := header.Int("Int_Tag")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), i)

	b, err := header.Bool("Bool_Tag")
	assert.NoError(t, err)
	assert.True(t, b)

	f, err := header.Float("Float_Tag")
	assert.NoError(t, err)
	assert.Equal(t, 3.5, f)

	s, err := header.String("Str_Tag")
	assert.NoError(t, err)
	assert.Equal(t, "abc", s)

	offset, err := header.Int("DataOffset")
	assert.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), offset)
}

// An array-indexed tag name gets a decimal suffix appended to its key.
func TestReadHeader_ArrayIndexSuffixesKey(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, ptuMagicLen))

	tagRecord(&buf, "Arr", 3, TagTypeInt, uint64(7), nil)
	tagRecord(&buf, "Header_End", -1, TagTypeEmpty, 0, nil)

	stream := bytes.NewReader(buf.Bytes())
	header, err := ReadHeader(stream)
	assert.NoError(t, err)

	v, err := header.Int("Arr3")
	assert.NoError(t, err)
	assert.Equal(t, int64(7), v)

	_, err = header.Int("Arr")
	assert.Error(t, err)
}

// TDateTime is an OLE automation date; ReadHeader converts it to Unix
// seconds via the fixed 25569-day epoch offset.
func TestReadHeader_TDateTimeConvertsToUnixSeconds(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, ptuMagicLen))

	// OLE date 25569.0 is the Unix epoch itself.
	tagRecord(&buf, "When", -1, TagTypeTDateTime, float64Bits(25569.0), nil)
	tagRecord(&buf, "Header_End", -1, TagTypeEmpty, 0, nil)

	stream := bytes.NewReader(buf.Bytes())
	header, err := ReadHeader(stream)
	assert.NoError(t, err)

	secs, err := header.Float("When")
	assert.NoError(t, err)
	assert.Equal(t, 0.0, secs)
}

// WideString payloads are UTF-16BE and are trimmed of trailing NULs after
// decoding.
func TestReadHeader_WideStringDecodesUTF16BE(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, ptuMagicLen))

	// "hi" in UTF-16BE, NUL-padded to a 4-unit field.
	wide := []byte{0x00, 'h', 0x00, 'i', 0x00, 0x00, 0x00, 0x00}
	tagRecord(&buf, "Wide_Tag", -1, TagTypeWideString, uint64(len(wide)), wide)
	tagRecord(&buf, "Header_End", -1, TagTypeEmpty, 0, nil)

	stream := bytes.NewReader(buf.Bytes())
	header, err := ReadHeader(stream)
	assert.NoError(t, err)

	s, err := header.String("Wide_Tag")
	assert.NoError(t, err)
	assert.Equal(t, "hi", s)
}

// Requesting a tag under the wrong typed getter fails rather than silently
// reinterpreting the payload.
func TestHeader_WrongEnumVariantFails(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, ptuMagicLen))

	tagRecord(&buf, "Int_Tag", -1, TagTypeInt, uint64(1), nil)
	tagRecord(&buf, "Header_End", -1, TagTypeEmpty, 0, nil)

	stream := bytes.NewReader(buf.Bytes())
	header, err := ReadHeader(stream)
	assert.NoError(t, err)

	_, err = header.Float("Int_Tag")
	assert.ErrorIs(t, err, ErrWrongEnumVariant)
}

// A missing tag name fails with ErrInvalidHeader rather than a zero value.
func TestHeader_MissingTagFails(t *testing.T) {
	h := make(Header)
	_, err := h.Int("Nope")
	assert.ErrorIs(t, err, ErrInvalidHeader)
}
