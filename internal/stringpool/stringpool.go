// Package stringpool materialises the global, indexed string table shared
// by every chunk that follows a RES_STRING_POOL chunk in an AXML stream.
package stringpool

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/jacoelho/axmldecode/axmlerr"
	"github.com/jacoelho/axmldecode/internal/chunktype"
	"github.com/jacoelho/axmldecode/internal/cursor"
)

// Absent is the sentinel string-pool index meaning "no string", used
// throughout AXML wherever an index is optional.
const Absent = 0xFFFFFFFF

// utf8Flag is bit 8 of the string-pool flags word.
const utf8Flag = 1 << 8

// Pool is the decoded, ordered string table. Indexing is zero-based.
type Pool struct {
	strings []string
}

// Len reports the number of strings in the pool.
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.strings)
}

// Get resolves a string-pool index. Absent (0xFFFFFFFF) resolves to ("",
// false) without error; any other out-of-range index is a MALFORMED error,
// since every index actually read off the wire must satisfy i < string_count
// per the decoder's invariants.
func (p *Pool) Get(idx uint32) (string, bool, error) {
	if idx == Absent {
		return "", false, nil
	}
	if p == nil || idx >= uint32(len(p.strings)) {
		return "", false, axmlerr.Newf(axmlerr.Malformed, "string pool index %d out of range [0, %d)", idx, p.Len()).WithIndex(int64(idx))
	}
	return p.strings[idx], true, nil
}

// MustGet resolves a string-pool index the way attribute-value rendering
// needs to: Absent resolves to "", any other out-of-range index is an
// error. It never distinguishes "absent" from "empty string".
func (p *Pool) MustGet(idx uint32) (string, error) {
	s, _, err := p.Get(idx)
	return s, err
}

// Decode consumes a RES_STRING_POOL chunk at the cursor's current position
// (the cursor must be positioned at the start of the chunk header) and
// returns the materialised pool. On return the cursor is left inside the
// chunk, after whatever the last read consumed (the end of the last string
// payload, or the offset table for an empty pool); the caller (the chunk
// walker) owns restoring position and advancing by the chunk's declared
// size.
func Decode(c *cursor.Cursor) (*Pool, error) {
	chunkStart := c.Position()
	header, err := chunktype.Read(c)
	if err != nil {
		return nil, err
	}
	if header.Type != chunktype.StringPool {
		return nil, axmlerr.Newf(axmlerr.Malformed, "expected string pool chunk, got 0x%04x", header.Type).WithChunk(uint16(header.Type), chunkStart)
	}

	stringCount, err := c.GetU32()
	if err != nil {
		return nil, err
	}
	styleCount, err := c.GetU32()
	if err != nil {
		return nil, err
	}
	flags, err := c.GetU32()
	if err != nil {
		return nil, err
	}
	stringsStart, err := c.GetU32()
	if err != nil {
		return nil, err
	}
	if _, err := c.GetU32(); err != nil { // styles_start, unused: styles are unsupported
		return nil, err
	}

	if styleCount != 0 {
		return nil, axmlerr.New(axmlerr.Unsupported, "styled strings (style_count != 0) are not supported").WithChunk(uint16(header.Type), chunkStart)
	}

	offsets := make([]uint32, stringCount)
	for i := range offsets {
		off, err := c.GetU32()
		if err != nil {
			return nil, err
		}
		offsets[i] = off
	}

	isUTF8 := flags&utf8Flag != 0
	pool := &Pool{strings: make([]string, stringCount)}
	for i, off := range offsets {
		pos := chunkStart + int(stringsStart) + int(off)
		if err := c.MoveTo(pos); err != nil {
			return nil, axmlerr.Newf(axmlerr.Malformed, "string %d offset %d is out of bounds", i, off).WithChunk(uint16(header.Type), chunkStart).WithIndex(int64(i))
		}
		var s string
		if isUTF8 {
			s, err = decodeUTF8String(c)
		} else {
			s, err = decodeUTF16String(c)
		}
		if err != nil {
			return nil, err
		}
		pool.strings[i] = s
	}

	return pool, nil
}

// decodeUTF8String reads one UTF-8-encoded string record: a character
// count byte (ignored), a length byte (possibly extended), the payload,
// and a trailing NUL.
//
// The platform's true encoding treats a high-bit-set length byte as the
// high 7 bits of a 15-bit big-endian length: n = ((b0&0x7F)<<8) | b1. This
// differs from a shortcut some C++ ports take of reading and discarding a
// second byte; this decoder follows the platform behavior (see SPEC_FULL.md
// and DESIGN.md for the two readings and why this one was chosen).
func decodeUTF8String(c *cursor.Cursor) (string, error) {
	if _, err := c.GetU8(); err != nil { // character count, not needed to decode
		return "", err
	}
	b0, err := c.GetU8()
	if err != nil {
		return "", err
	}
	length := int(b0)
	if b0&0x80 != 0 {
		b1, err := c.GetU8()
		if err != nil {
			return "", err
		}
		length = (int(b0&0x7F) << 8) | int(b1)
	}
	raw, err := c.GetBytes(length)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", axmlerr.New(axmlerr.InvalidEncoding, "string is not valid UTF-8")
	}
	return string(raw), nil
}

// decodeUTF16String reads one UTF-16LE-encoded string record: a
// character-count code unit (possibly extended to 31 bits), the payload as
// UTF-16 code units, and a trailing 0x0000 terminator.
func decodeUTF16String(c *cursor.Cursor) (string, error) {
	u0, err := c.GetU16()
	if err != nil {
		return "", err
	}
	length := int(u0)
	if u0&0x8000 != 0 {
		u1, err := c.GetU16()
		if err != nil {
			return "", err
		}
		length = (int(u0&0x7FFF) << 16) | int(u1)
	}
	units := make([]uint16, length)
	for i := range units {
		u, err := c.GetU16()
		if err != nil {
			return "", err
		}
		units[i] = u
	}
	runes := utf16.Decode(units)
	for _, r := range runes {
		if r == utf8.RuneError {
			return "", axmlerr.New(axmlerr.InvalidEncoding, "string is not valid UTF-16")
		}
	}
	return string(runes), nil
}
