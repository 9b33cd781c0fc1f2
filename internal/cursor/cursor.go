// Package cursor implements a bounded, random-access byte reader over a
// fixed [begin, end) range. Every primitive read is bounds-checked against
// that range; nothing in this package trusts the caller to have validated
// an offset first.
package cursor

import (
	"encoding/binary"

	"github.com/jacoelho/axmldecode/axmlerr"
)

// Cursor is a movable read head over a byte slice. The zero value is not
// usable; construct with New.
type Cursor struct {
	buf   []byte
	begin int
	end   int
	pos   int
}

// New returns a Cursor over buf[begin:end]. begin and end are clamped into
// [0, len(buf)] and the head starts at begin.
func New(buf []byte, begin, end int) Cursor {
	if begin < 0 {
		begin = 0
	}
	if begin > len(buf) {
		begin = len(buf)
	}
	if end > len(buf) {
		end = len(buf)
	}
	if end < begin {
		end = begin
	}
	return Cursor{buf: buf, begin: begin, end: end, pos: begin}
}

// Position returns the current head offset.
func (c *Cursor) Position() int {
	return c.pos
}

// Begin returns the lower bound of the cursor's range.
func (c *Cursor) Begin() int {
	return c.begin
}

// End returns the upper (exclusive) bound of the cursor's range.
func (c *Cursor) End() int {
	return c.end
}

// Remaining reports how many bytes lie between the head and End.
func (c *Cursor) Remaining() int {
	return c.end - c.pos
}

// Snapshot is a cheap, copy-on-stack capture of the head position. Saving
// and restoring one never touches the underlying buffer.
type Snapshot struct {
	pos int
}

// Save captures the current head position.
func (c *Cursor) Save() Snapshot {
	return Snapshot{pos: c.pos}
}

// Restore moves the head back to a previously captured position. The
// snapshot is not validated against the current range: a snapshot taken
// from this same Cursor is always within range by construction.
func (c *Cursor) Restore(s Snapshot) {
	c.pos = s.pos
}

// MoveTo sets the head to an absolute offset, relative to the start of the
// underlying buffer (not the cursor's begin).
func (c *Cursor) MoveTo(pos int) error {
	if pos < c.begin || pos > c.end {
		return axmlerr.Newf(axmlerr.Truncated, "seek to %d outside range [%d, %d)", pos, c.begin, c.end).WithChunk(0, pos)
	}
	c.pos = pos
	return nil
}

// Advance moves the head forward by n bytes (n may be negative).
func (c *Cursor) Advance(n int) error {
	return c.MoveTo(c.pos + n)
}

func (c *Cursor) checkRange(n int) error {
	if n < 0 || c.pos+n > c.end || c.pos+n < c.begin {
		return axmlerr.Newf(axmlerr.Truncated, "read of %d bytes at offset %d exceeds range [%d, %d)", n, c.pos, c.begin, c.end).WithChunk(0, c.pos)
	}
	return nil
}

// PeekBytes returns n bytes starting at the head without advancing it.
func (c *Cursor) PeekBytes(n int) ([]byte, error) {
	if err := c.checkRange(n); err != nil {
		return nil, err
	}
	return c.buf[c.pos : c.pos+n], nil
}

// GetBytes returns n bytes starting at the head and advances past them.
func (c *Cursor) GetBytes(n int) ([]byte, error) {
	b, err := c.PeekBytes(n)
	if err != nil {
		return nil, err
	}
	c.pos += n
	return b, nil
}

// PeekU8 reads a byte without advancing.
func (c *Cursor) PeekU8() (uint8, error) {
	b, err := c.PeekBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// GetU8 reads and advances past a byte.
func (c *Cursor) GetU8() (uint8, error) {
	v, err := c.PeekU8()
	if err != nil {
		return 0, err
	}
	c.pos++
	return v, nil
}

// PeekU16 reads a little-endian uint16 without advancing.
func (c *Cursor) PeekU16() (uint16, error) {
	b, err := c.PeekBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// GetU16 reads and advances past a little-endian uint16.
func (c *Cursor) GetU16() (uint16, error) {
	v, err := c.PeekU16()
	if err != nil {
		return 0, err
	}
	c.pos += 2
	return v, nil
}

// PeekU32 reads a little-endian uint32 without advancing.
func (c *Cursor) PeekU32() (uint32, error) {
	b, err := c.PeekBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// GetU32 reads and advances past a little-endian uint32.
func (c *Cursor) GetU32() (uint32, error) {
	v, err := c.PeekU32()
	if err != nil {
		return 0, err
	}
	c.pos += 4
	return v, nil
}

// GetCStr returns the bytes up to (exclusive) the next 0x00 byte and
// advances past the terminator. It fails with Truncated if no terminator
// is found before End.
func (c *Cursor) GetCStr() ([]byte, error) {
	for i := c.pos; i < c.end; i++ {
		if c.buf[i] == 0x00 {
			s := c.buf[c.pos:i]
			c.pos = i + 1
			return s, nil
		}
	}
	return nil, axmlerr.Newf(axmlerr.Truncated, "c-string has no terminator before offset %d", c.end).WithChunk(0, c.pos)
}
