// Package encoding implements the binary envelope that carries the schema version id
// and the compression flag in front of every serialized payload.
//
// The layout is byte-for-byte compatible with the Java and Python AWS Glue Schema
// Registry clients.
package encoding

import (
	"errors"
	"fmt"
)

// ErrUnknownEncoding is returned when the leading byte does not identify this protocol.
// It is not retryable: the data belongs to another encoding and should be handed to a
// secondary deserializer or treated as unreadable.
var ErrUnknownEncoding = errors.New("unknown encoding")

// CodecError is returned when a recognized envelope is malformed.
type CodecError struct {
	Reason string
	Err    error
}

func newCodecError(reason string, err error) *CodecError {
	return &CodecError{Reason: reason, Err: err}
}

func (e *CodecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("codec error: %s: %v", e.Reason, e.Err)
	}
	return "codec error: " + e.Reason
}

func (e *CodecError) Unwrap() error {
	return e.Err
}
