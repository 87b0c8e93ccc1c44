package encoding

import (
	"bytes"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zlib"
)

// Wire format layout:
//
//	byte | value
//	-----+---------------------------------------------
//	0    | version byte, always VersionByte
//	1    | compression byte (CompressionNoneByte or CompressionZlibByte)
//	2-17 | schema version uuid (raw 16 bytes)
//	18+  | payload, zlib-compressed if the compression byte says so
const (
	VersionByte         byte = 0x03
	CompressionNoneByte byte = 0x00
	CompressionZlibByte byte = 0x05

	SchemaVersionIDSize = 16
	HeaderSize          = 2 + SchemaVersionIDSize
)

// Compression selects how the payload is stored after the header.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZlib Compression = "zlib"
)

// IsValid checks if the compression is supported.
func (c Compression) IsValid() bool {
	return c == CompressionNone || c == CompressionZlib
}

// Header is the fixed-width prefix of an encoded message.
type Header struct {
	CompressionByte byte
	SchemaVersionID uuid.UUID
}

// Compressed reports whether the payload following the header is zlib-compressed.
func (h Header) Compressed() bool {
	return h.CompressionByte == CompressionZlibByte
}

// WireFormatParser parses schema registry wire format messages.
type WireFormatParser interface {
	// Parse extracts the schema version id and the (decompressed) payload.
	// Expected format: [0x03][compression][uuid (16 bytes)][payload]
	Parse(data []byte) (schemaVersionID uuid.UUID, payload []byte, err error)
}

// WireFormatBuilder builds schema registry wire format messages.
type WireFormatBuilder interface {
	// Build creates wire format bytes from a schema version id and payload.
	// Returns format: [0x03][compression][uuid (16 bytes)][payload]
	Build(schemaVersionID uuid.UUID, payload []byte) []byte
}

type glueWireFormat struct {
	compress bool
}

// NewGlueWireFormat creates a parser and a builder for the Glue wire format.
// The compression setting only affects building; parsing honours the compression byte.
func NewGlueWireFormat(compression Compression) (WireFormatParser, WireFormatBuilder) {
	f := &glueWireFormat{compress: compression == CompressionZlib}
	return f, f
}

func (w *glueWireFormat) Parse(data []byte) (uuid.UUID, []byte, error) {
	payload, id, err := Decode(data)
	return id, payload, err
}

func (w *glueWireFormat) Build(schemaVersionID uuid.UUID, payload []byte) []byte {
	return Encode(payload, schemaVersionID, w.compress)
}

// Encode prefixes payload with the wire format header.
// When compress is true the payload is deflated with zlib.
func Encode(payload []byte, schemaVersionID uuid.UUID, compress bool) []byte {
	compressionByte := CompressionNoneByte
	if compress {
		compressionByte = CompressionZlibByte
		payload = deflate(payload)
	}

	result := make([]byte, HeaderSize+len(payload))
	result[0] = VersionByte
	result[1] = compressionByte
	copy(result[2:HeaderSize], schemaVersionID[:])
	copy(result[HeaderSize:], payload)
	return result
}

// Decode extracts the payload and schema version id from wire format bytes.
//
// Returns ErrUnknownEncoding when the leading byte is not VersionByte, meaning the
// data was written by another protocol (e.g. Confluent's 0x00) or without a schema.
// Any other malformation is reported as *CodecError.
func Decode(data []byte) ([]byte, uuid.UUID, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, uuid.Nil, err
	}

	payload := data[HeaderSize:]
	if header.Compressed() {
		payload, err = inflate(payload)
		if err != nil {
			return nil, uuid.Nil, newCodecError("failed to decompress payload", err)
		}
	}

	return payload, header.SchemaVersionID, nil
}

// ParseHeader validates and returns the wire format header without touching the payload.
func ParseHeader(data []byte) (Header, error) {
	if len(data) == 0 {
		return Header{}, fmt.Errorf("%w: empty data", ErrUnknownEncoding)
	}

	if data[0] != VersionByte {
		return Header{}, fmt.Errorf("%w: leading byte 0x%02x not recognized", ErrUnknownEncoding, data[0])
	}

	if len(data) < HeaderSize {
		return Header{}, newCodecError(fmt.Sprintf("data too short: expected at least %d bytes, got %d", HeaderSize, len(data)), nil)
	}

	compressionByte := data[1]
	if compressionByte != CompressionNoneByte && compressionByte != CompressionZlibByte {
		return Header{}, newCodecError(fmt.Sprintf("compression byte 0x%02x not recognized", compressionByte), nil)
	}

	var id uuid.UUID
	copy(id[:], data[2:HeaderSize])

	return Header{
		CompressionByte: compressionByte,
		SchemaVersionID: id,
	}, nil
}

func deflate(data []byte) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer do not fail.
	zw := zlib.NewWriter(&buf)
	_, _ = zw.Write(data)
	_ = zw.Close()
	return buf.Bytes()
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close() //nolint:errcheck // reader over an in-memory buffer

	return io.ReadAll(zr)
}
