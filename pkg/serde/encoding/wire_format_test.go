package encoding

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testVersionID = uuid.MustParse("b7b4a7f0-9c96-4e4a-a687-fb5de9ef0c63")

func TestNewGlueWireFormat(t *testing.T) {
	// Act
	parser, builder := NewGlueWireFormat(CompressionNone)

	// Assert
	assert.NotNil(t, parser)
	assert.NotNil(t, builder)
	assert.Implements(t, (*WireFormatParser)(nil), parser)
	assert.Implements(t, (*WireFormatBuilder)(nil), builder)
}

func TestEncode_HeaderLayout(t *testing.T) {
	payloads := [][]byte{
		{},
		{0x01},
		[]byte("hello world"),
	}

	for _, payload := range payloads {
		// Act
		result := Encode(payload, testVersionID, false)

		// Assert
		assert.Equal(t, []byte{0x03, 0x00}, result[0:2])
		assert.Equal(t, testVersionID[:], result[2:18])
		assert.Equal(t, payload, result[18:])
	}
}

func TestEncode_Compressed(t *testing.T) {
	// Arrange
	payload := bytes.Repeat([]byte("abc"), 100)

	// Act
	result := Encode(payload, testVersionID, true)

	// Assert
	assert.Equal(t, VersionByte, result[0])
	assert.Equal(t, CompressionZlibByte, result[1])
	assert.Equal(t, testVersionID[:], result[2:18])
	assert.Less(t, len(result), HeaderSize+len(payload))
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	testCases := []struct {
		name     string
		payload  []byte
		compress bool
	}{
		{"Empty payload", []byte{}, false},
		{"Empty payload compressed", []byte{}, true},
		{"Single byte", []byte{0xFF}, false},
		{"Single byte compressed", []byte{0xFF}, true},
		{"Text", []byte(`{"name":"Yoda","age":900}`), false},
		{"Text compressed", []byte(`{"name":"Yoda","age":900}`), true},
		{"Leading magic byte in payload", []byte{0x03, 0x05, 0x00}, true},
		{"Large payload", bytes.Repeat([]byte{0x00, 0x01, 0x02}, 10000), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id := uuid.New()

			// Act
			encoded := Encode(tc.payload, id, tc.compress)
			payload, decodedID, err := Decode(encoded)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, id, decodedID)
			assert.Equal(t, tc.payload, payload)
		})
	}
}

func TestWireFormat_BuildParse_RoundTrip(t *testing.T) {
	for _, compression := range []Compression{CompressionNone, CompressionZlib} {
		t.Run(string(compression), func(t *testing.T) {
			// Arrange
			parser, builder := NewGlueWireFormat(compression)
			payload := []byte("payload")

			// Act
			data := builder.Build(testVersionID, payload)
			id, parsed, err := parser.Parse(data)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, testVersionID, id)
			assert.Equal(t, payload, parsed)
			assert.Equal(t, compression == CompressionZlib, data[1] == CompressionZlibByte)
		})
	}
}

func TestDecode_UnknownEncoding(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"Empty data", []byte{}},
		{"Confluent magic byte", []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0xAA}},
		{"Confluent magic byte only", []byte{0x00}},
		{"Previous protocol version", append([]byte{0x02, 0x00}, testVersionID[:]...)},
		{"Plain JSON", []byte(`{"name":"Yoda"}`)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			payload, id, err := Decode(tc.data)

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnknownEncoding)
			assert.Nil(t, payload)
			assert.Equal(t, uuid.Nil, id)

			var codecErr *CodecError
			assert.False(t, errors.As(err, &codecErr))
		})
	}
}

func TestDecode_BadCompressionByte(t *testing.T) {
	// Arrange
	data := append([]byte{0x03, 0x01}, bytes.Repeat([]byte{0xAB}, 16)...)
	data = append(data, []byte("anything")...)

	// Act
	payload, _, err := Decode(data)

	// Assert
	require.Error(t, err)
	var codecErr *CodecError
	require.True(t, errors.As(err, &codecErr))
	assert.Contains(t, err.Error(), "compression byte 0x01 not recognized")
	assert.NotErrorIs(t, err, ErrUnknownEncoding)
	assert.Nil(t, payload)
}

func TestDecode_CorruptCompressedPayload(t *testing.T) {
	// Arrange
	data := append([]byte{VersionByte, CompressionZlibByte}, testVersionID[:]...)
	data = append(data, []byte("not zlib")...)

	// Act
	_, _, err := Decode(data)

	// Assert
	require.Error(t, err)
	var codecErr *CodecError
	require.True(t, errors.As(err, &codecErr))
	assert.Contains(t, err.Error(), "failed to decompress payload")
	assert.NotNil(t, codecErr.Unwrap())
}

func TestDecode_TruncatedHeader(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"Magic only", []byte{0x03}},
		{"Magic and compression", []byte{0x03, 0x00}},
		{"Partial uuid", append([]byte{0x03, 0x00}, testVersionID[:10]...)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			_, _, err := Decode(tc.data)

			// Assert
			require.Error(t, err)
			var codecErr *CodecError
			assert.True(t, errors.As(err, &codecErr))
			assert.Contains(t, err.Error(), "data too short")
		})
	}
}

func TestDecode_HeaderOnly(t *testing.T) {
	// Arrange
	data := append([]byte{VersionByte, CompressionNoneByte}, testVersionID[:]...)

	// Act
	payload, id, err := Decode(data)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, testVersionID, id)
	assert.Empty(t, payload)
}

func TestParseHeader(t *testing.T) {
	// Arrange
	data := Encode([]byte("payload"), testVersionID, true)

	// Act
	header, err := ParseHeader(data)

	// Assert
	require.NoError(t, err)
	assert.True(t, header.Compressed())
	assert.Equal(t, testVersionID, header.SchemaVersionID)
}

func TestCompression_IsValid(t *testing.T) {
	assert.True(t, CompressionNone.IsValid())
	assert.True(t, CompressionZlib.IsValid())
	assert.False(t, Compression("snappy").IsValid())
}

func TestWireFormat_InterfaceCompliance(t *testing.T) {
	var _ WireFormatParser = (*glueWireFormat)(nil)
	var _ WireFormatBuilder = (*glueWireFormat)(nil)
}
