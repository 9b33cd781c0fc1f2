// Package chunktype names the AXML chunk types and the fixed 8-byte chunk
// header layout shared by every chunk in the stream.
package chunktype

import "github.com/jacoelho/axmldecode/internal/cursor"

// Type identifies a chunk's kind, per the values in the AXML wire format.
type Type uint16

const (
	// XML is the outer document chunk type; RES_XML_TYPE in the platform
	// headers.
	XML Type = 0x0003
	// StringPool introduces a RES_STRING_POOL chunk.
	StringPool Type = 0x0001
	// ResourceMap introduces a RES_XML_RESOURCE_MAP chunk.
	ResourceMap Type = 0x0180
	// StartNamespace introduces a RES_XML_START_NAMESPACE chunk.
	StartNamespace Type = 0x0100
	// EndNamespace introduces a RES_XML_END_NAMESPACE chunk.
	EndNamespace Type = 0x0101
	// StartElement introduces a RES_XML_START_ELEMENT chunk.
	StartElement Type = 0x0102
	// EndElement introduces a RES_XML_END_ELEMENT chunk.
	EndElement Type = 0x0103
	// CData introduces a RES_XML_CDATA chunk.
	CData Type = 0x0104
)

// HeaderSize is the fixed size in bytes of a chunk header.
const HeaderSize = 8

// Header is the 8-byte little-endian chunk framing prefix common to every
// chunk: type, header size, and total chunk size (including the header).
type Header struct {
	Type       Type
	HeaderSize uint16
	Size       uint32
}

// Read consumes a Header at the cursor's current position, advancing past
// it, without any further chunk-specific validation.
func Read(c *cursor.Cursor) (Header, error) {
	typ, err := c.GetU16()
	if err != nil {
		return Header{}, err
	}
	headerSize, err := c.GetU16()
	if err != nil {
		return Header{}, err
	}
	size, err := c.GetU32()
	if err != nil {
		return Header{}, err
	}
	return Header{Type: Type(typ), HeaderSize: headerSize, Size: size}, nil
}

// Peek reads a Header at the cursor's current position without advancing.
func Peek(c *cursor.Cursor) (Header, error) {
	snap := c.Save()
	h, err := Read(c)
	c.Restore(snap)
	return h, err
}
