// Package axmlerr defines the decoder's error taxonomy: a fixed set of
// distinguishable kinds, each carrying enough context (chunk type, byte
// offset, offending index) for diagnostic output.
package axmlerr

import (
	"errors"
	"fmt"
)

// Code identifies a distinguishable decode failure kind.
type Code string

const (
	// MagicMismatch indicates the outer chunk type is not RES_XML_TYPE.
	// Callers use this to fall back to textual XML parsing.
	MagicMismatch Code = "MAGIC_MISMATCH"
	// Truncated indicates a read would extend past the buffer end, or a
	// chunk's declared size exceeds the remaining buffer.
	Truncated Code = "TRUNCATED"
	// Malformed indicates an internal inconsistency: an offset table that
	// doesn't fit, a length that implies a negative span, a missing
	// terminator.
	Malformed Code = "MALFORMED"
	// InvalidEncoding indicates a UTF-8 or UTF-16 decode failure.
	InvalidEncoding Code = "INVALID_ENCODING"
	// Unsupported indicates a feature the decoder deliberately does not
	// implement, such as styled-string spans.
	Unsupported Code = "UNSUPPORTED"
	// UnknownChunk indicates a chunk type that is neither recognised nor
	// safely skippable given the framing discipline in effect.
	UnknownChunk Code = "UNKNOWN_CHUNK"
	// UndefinedAttr indicates an attribute-name recovery attempt addressed
	// an out-of-range slot in the built-in framework attribute table.
	UndefinedAttr Code = "UNDEFINED_ATTR"
)

// ErrMagicMismatch is the sentinel callers match against with errors.Is to
// detect the one control-flow-relevant error kind (see Error.Is).
var ErrMagicMismatch = errors.New("axml: outer chunk is not RES_XML_TYPE")

// Error is a single decode fault. It is always fatal: the decoder does not
// retry or accumulate a second fault once one is returned.
type Error struct {
	Code Code
	// Message is a human-readable description of the fault.
	Message string
	// ChunkType is the type field of the chunk being processed when the
	// fault was detected, or 0 if no chunk header had been read yet.
	ChunkType uint16
	// Offset is the byte offset into the input buffer at which the fault
	// was detected.
	Offset int
	// Index is the offending string-pool/resource-map/attribute index, or
	// -1 if the fault is not indexed.
	Index int64
	// Err is an optional wrapped cause, attached with WithCause. The
	// decoder's own errors, InvalidEncoding included, leave it nil.
	Err error
}

// New builds an Error with no chunk/offset/index context.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message, Index: -1}
}

// Newf builds an Error from a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// WithChunk returns a copy of e annotated with the chunk type and byte
// offset at which it was detected.
func (e *Error) WithChunk(chunkType uint16, offset int) *Error {
	cp := *e
	cp.ChunkType = chunkType
	cp.Offset = offset
	return &cp
}

// WithIndex returns a copy of e annotated with the offending index.
func (e *Error) WithIndex(index int64) *Error {
	cp := *e
	cp.Index = index
	return &cp
}

// WithCause returns a copy of e wrapping the given cause.
func (e *Error) WithCause(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

// Error formats the fault for display: code, message, and whatever chunk /
// offset / index context was attached.
func (e *Error) Error() string {
	if e == nil {
		return "axml: <nil error>"
	}
	msg := fmt.Sprintf("axml: [%s] %s", e.Code, e.Message)
	if e.ChunkType != 0 {
		msg += fmt.Sprintf(" (chunk 0x%04x)", e.ChunkType)
	}
	if e.Offset != 0 {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	if e.Index >= 0 {
		msg += fmt.Sprintf(" (index %d)", e.Index)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap exposes the wrapped cause, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is the MagicMismatch sentinel and e carries
// that code, so callers can write errors.Is(err, axmlerr.ErrMagicMismatch)
// without a type assertion.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	return target == ErrMagicMismatch && e.Code == MagicMismatch
}

// As extracts the structured *Error from a wrapped error, mirroring the
// teacher's errors.AsValidations helper.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
