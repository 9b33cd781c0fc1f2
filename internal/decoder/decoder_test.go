package decoder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/jacoelho/axmldecode/axmlerr"
	"github.com/jacoelho/axmldecode/internal/attrtable"
	"github.com/jacoelho/axmldecode/internal/chunktype"
	"github.com/jacoelho/axmldecode/internal/tree"
)

// axmlBuilder assembles a minimal AXML byte stream for tests: a
// RES_STRING_POOL chunk, an optional RES_XML_RESOURCE_MAP chunk, and a
// sequence of raw inner chunks, all wrapped in the outer RES_XML_TYPE
// header.
type axmlBuilder struct {
	strings    []string
	resMap     []uint32
	innerChunk bytes.Buffer
}

func (b *axmlBuilder) stringIndex(s string) uint32 {
	for i, existing := range b.strings {
		if existing == s {
			return uint32(i)
		}
	}
	b.strings = append(b.strings, s)
	return uint32(len(b.strings) - 1)
}

func (b *axmlBuilder) writeChunkHeader(typ chunktype.Type, headerSize uint16, size uint32) {
	binary.Write(&b.innerChunk, binary.LittleEndian, uint16(typ))
	binary.Write(&b.innerChunk, binary.LittleEndian, headerSize)
	binary.Write(&b.innerChunk, binary.LittleEndian, size)
}

func (b *axmlBuilder) u32(v uint32) { binary.Write(&b.innerChunk, binary.LittleEndian, v) }
func (b *axmlBuilder) u16(v uint16) { binary.Write(&b.innerChunk, binary.LittleEndian, v) }

func (b *axmlBuilder) startNamespace(prefix, uri string) {
	b.writeChunkHeader(chunktype.StartNamespace, 24, 24)
	b.u32(0) // line_num
	b.u32(0xFFFFFFFF)
	b.u32(b.stringIndex(prefix))
	b.u32(b.stringIndex(uri))
}

func (b *axmlBuilder) endNamespace(prefix, uri string) {
	b.writeChunkHeader(chunktype.EndNamespace, 24, 24)
	b.u32(0)
	b.u32(0xFFFFFFFF)
	b.u32(b.stringIndex(prefix))
	b.u32(b.stringIndex(uri))
}

type attrSpec struct {
	ns, name string
	noNS     bool
	rawValue string
	hasRaw   bool
	intValue uint32
}

func (b *axmlBuilder) startElement(ns, name string, attrs []attrSpec) {
	const headerSize = 36
	const attrSize = 20
	size := uint32(headerSize + len(attrs)*attrSize)
	b.writeChunkHeader(chunktype.StartElement, headerSize, size)
	b.u32(0) // line_num
	b.u32(0xFFFFFFFF)
	if ns == "" {
		b.u32(0xFFFFFFFF)
	} else {
		b.u32(b.stringIndex(ns))
	}
	b.u32(b.stringIndex(name))
	b.u32(attrSize)
	b.u16(uint16(len(attrs)))
	b.u16(0xFFFF) // id_index
	b.u16(0xFFFF) // class_index
	b.u16(0xFFFF) // style_index
	for _, a := range attrs {
		if a.noNS {
			b.u32(0xFFFFFFFF)
		} else {
			b.u32(b.stringIndex(a.ns))
		}
		b.u32(b.stringIndex(a.name))
		if a.hasRaw {
			b.u32(b.stringIndex(a.rawValue))
		} else {
			b.u32(0xFFFFFFFF)
		}
		// Res_value: size(u16)=8, res0(u8)=0, data_type(u8)=INT_DEC, data(u32)
		b.u16(8)
		b.innerChunk.WriteByte(0)
		b.innerChunk.WriteByte(0x10)
		b.u32(a.intValue)
	}
}

func (b *axmlBuilder) endElement() {
	b.writeChunkHeader(chunktype.EndElement, 24, 24)
	b.u32(0)          // line_num
	b.u32(0xFFFFFFFF) // comment
	b.u32(0xFFFFFFFF) // ns
	b.u32(0xFFFFFFFF) // name
}

func (b *axmlBuilder) cdata(text string) {
	b.writeChunkHeader(chunktype.CData, 28, 28)
	b.u32(0)
	b.u32(0xFFFFFFFF)
	b.u32(b.stringIndex(text))
	b.u32(0)
	b.u32(0)
}

func (b *axmlBuilder) build() []byte {
	var stringPool bytes.Buffer
	var payload bytes.Buffer
	offsets := make([]uint32, len(b.strings))
	for i, s := range b.strings {
		offsets[i] = uint32(payload.Len())
		payload.WriteByte(byte(len(s)))
		payload.WriteByte(byte(len(s)))
		payload.WriteString(s)
		payload.WriteByte(0x00)
	}
	const poolHeaderSize = 28
	stringsStart := uint32(poolHeaderSize + 4*len(b.strings))
	binary.Write(&stringPool, binary.LittleEndian, uint16(chunktype.StringPool))
	binary.Write(&stringPool, binary.LittleEndian, uint16(poolHeaderSize))
	binary.Write(&stringPool, binary.LittleEndian, stringsStart+uint32(payload.Len()))
	binary.Write(&stringPool, binary.LittleEndian, uint32(len(b.strings)))
	binary.Write(&stringPool, binary.LittleEndian, uint32(0))
	binary.Write(&stringPool, binary.LittleEndian, uint32(1<<8)) // utf8 flag
	binary.Write(&stringPool, binary.LittleEndian, stringsStart)
	binary.Write(&stringPool, binary.LittleEndian, uint32(0))
	for _, off := range offsets {
		binary.Write(&stringPool, binary.LittleEndian, off)
	}
	stringPool.Write(payload.Bytes())

	var resMapChunk bytes.Buffer
	if len(b.resMap) > 0 {
		binary.Write(&resMapChunk, binary.LittleEndian, uint16(chunktype.ResourceMap))
		binary.Write(&resMapChunk, binary.LittleEndian, uint16(8))
		binary.Write(&resMapChunk, binary.LittleEndian, uint32(8+4*len(b.resMap)))
		for _, id := range b.resMap {
			binary.Write(&resMapChunk, binary.LittleEndian, id)
		}
	}

	var out bytes.Buffer
	totalSize := uint32(8 + stringPool.Len() + resMapChunk.Len() + b.innerChunk.Len())
	binary.Write(&out, binary.LittleEndian, uint16(chunktype.XML))
	binary.Write(&out, binary.LittleEndian, uint16(8))
	binary.Write(&out, binary.LittleEndian, totalSize)
	out.Write(stringPool.Bytes())
	out.Write(resMapChunk.Bytes())
	out.Write(b.innerChunk.Bytes())
	return out.Bytes()
}

func TestMinimalDocument(t *testing.T) {
	b := &axmlBuilder{}
	b.startElement("", "manifest", nil)
	b.endElement()
	data := b.build()

	doc := tree.NewDocument()
	if err := Decode(data, doc, Options{}); err != nil {
		t.Fatal(err)
	}
	doc.Finalize()

	root := doc.Root()
	if doc.Name(root) != "manifest" {
		t.Fatalf("root name = %q, want manifest", doc.Name(root))
	}
	if len(doc.Children(root)) != 0 {
		t.Fatalf("expected no children, got %d", len(doc.Children(root)))
	}
}

func TestNamespacedAttribute(t *testing.T) {
	const androidNS = "http://schemas.android.com/apk/res/android"
	b := &axmlBuilder{}
	b.startNamespace("android", androidNS)
	b.startElement("", "manifest", []attrSpec{
		{ns: androidNS, name: "label", hasRaw: true, rawValue: "My App"},
	})
	b.endElement()
	b.endNamespace("android", androidNS)
	data := b.build()

	doc := tree.NewDocument()
	if err := Decode(data, doc, Options{}); err != nil {
		t.Fatal(err)
	}
	doc.Finalize()

	root := doc.Root()
	if v, ok := doc.GetAttribute(root, "android:label"); !ok || v != "My App" {
		t.Fatalf("GetAttribute(android:label) = %q, %v", v, ok)
	}
	if v, ok := doc.GetAttribute(root, "xmlns:android"); !ok || v != androidNS {
		t.Fatalf("GetAttribute(xmlns:android) = %q, %v", v, ok)
	}
}

func TestAttributeNameRecoveryFromResourceMap(t *testing.T) {
	b := &axmlBuilder{}
	b.stringIndex("manifest")
	emptyIdx := b.stringIndex("") // attribute name slot, empty in the pool
	b.resMap = []uint32{0, attrtable.BaseResourceID}
	if emptyIdx != 1 {
		t.Fatalf("test setup: expected empty string at index 1, got %d", emptyIdx)
	}
	b.startElement("", "manifest", []attrSpec{
		{noNS: true, name: "", intValue: 1},
	})
	b.endElement()
	data := b.build()

	doc := tree.NewDocument()
	if err := Decode(data, doc, Options{}); err != nil {
		t.Fatal(err)
	}
	doc.Finalize()

	if v, ok := doc.GetAttribute(doc.Root(), "theme"); !ok || v != "1" {
		t.Fatalf("GetAttribute(theme) = %q, %v, want recovered name with value 1", v, ok)
	}
}

func TestCData(t *testing.T) {
	b := &axmlBuilder{}
	b.startElement("", "string", nil)
	b.cdata("hello world")
	b.endElement()
	data := b.build()

	doc := tree.NewDocument()
	if err := Decode(data, doc, Options{}); err != nil {
		t.Fatal(err)
	}
	doc.Finalize()

	if got := doc.TextContent(doc.Root()); got != "hello world" {
		t.Fatalf("TextContent() = %q", got)
	}
}

func TestMagicMismatch(t *testing.T) {
	data := []byte{0x00, 0x00, 0x08, 0x00, 0x08, 0x00, 0x00, 0x00}
	doc := tree.NewDocument()
	err := Decode(data, doc, Options{})
	if err == nil {
		t.Fatal("expected MAGIC_MISMATCH error")
	}
	if !errors.Is(err, axmlerr.ErrMagicMismatch) {
		t.Fatalf("got %v, want MagicMismatch", err)
	}
}

func TestTruncatedInput(t *testing.T) {
	data := []byte{0x03, 0x00, 0x08, 0x00}
	doc := tree.NewDocument()
	err := Decode(data, doc, Options{})
	if err == nil {
		t.Fatal("expected TRUNCATED error")
	}
	var axErr *axmlerr.Error
	if !errors.As(err, &axErr) || axErr.Code != axmlerr.Truncated {
		t.Fatalf("got %v, want Truncated", err)
	}
}

func TestUnknownChunkFailsByDefault(t *testing.T) {
	b := &axmlBuilder{}
	b.writeChunkHeader(0x9999, 8, 8)
	data := b.build()

	doc := tree.NewDocument()
	err := Decode(data, doc, Options{})
	if err == nil {
		t.Fatal("expected UNKNOWN_CHUNK error")
	}
	var axErr *axmlerr.Error
	if !errors.As(err, &axErr) || axErr.Code != axmlerr.UnknownChunk {
		t.Fatalf("got %v, want UnknownChunk", err)
	}
}

func TestUnknownChunkSkippedWhenAllowed(t *testing.T) {
	b := &axmlBuilder{}
	b.writeChunkHeader(0x9999, 8, 8)
	b.startElement("", "manifest", nil)
	b.endElement()
	data := b.build()

	doc := tree.NewDocument()
	err := Decode(data, doc, Options{AllowUnknownChunks: true})
	if err != nil {
		t.Fatal(err)
	}
	doc.Finalize()
	if doc.Name(doc.Root()) != "manifest" {
		t.Fatalf("root name = %q", doc.Name(doc.Root()))
	}
}

func TestMaxElementDepthRejected(t *testing.T) {
	b := &axmlBuilder{}
	b.startElement("", "a", nil)
	b.startElement("", "b", nil)
	b.startElement("", "c", nil)
	b.endElement()
	b.endElement()
	b.endElement()
	data := b.build()

	doc := tree.NewDocument()
	err := Decode(data, doc, Options{MaxElementDepth: 2})
	if err == nil {
		t.Fatal("expected depth-exceeded error")
	}
	var axErr *axmlerr.Error
	if !errors.As(err, &axErr) || axErr.Code != axmlerr.Malformed {
		t.Fatalf("got %v, want Malformed", err)
	}
}

func TestNestedNamespaceRebinding(t *testing.T) {
	// "b" rebinds the same URI as "a" one scope deeper; inner must resolve
	// against the nearer (innermost) binding, not the outer one.
	const uriA = "urn:a"
	b := &axmlBuilder{}
	b.startNamespace("a", uriA)
	b.startElement("", "outer", nil)
	b.startNamespace("b", uriA)
	b.startElement(uriA, "inner", nil)
	b.endElement()
	b.endNamespace("b", uriA)
	b.endElement()
	b.endNamespace("a", uriA)
	data := b.build()

	doc := tree.NewDocument()
	if err := Decode(data, doc, Options{}); err != nil {
		t.Fatal(err)
	}
	doc.Finalize()

	outer := doc.Root()
	children := doc.Children(outer)
	if len(children) != 1 {
		t.Fatalf("expected one child, got %d", len(children))
	}
	inner := children[0].Element
	if doc.Name(inner) != "b:inner" {
		t.Fatalf("inner name = %q, want b:inner (nearest enclosing binding wins)", doc.Name(inner))
	}
	if v, ok := doc.GetAttribute(inner, "xmlns:b"); !ok || v != uriA {
		t.Fatalf("GetAttribute(xmlns:b) = %q, %v", v, ok)
	}
	if _, ok := doc.GetAttribute(inner, "xmlns:a"); ok {
		t.Fatal("inner should only carry its immediate parent's xmlns binding, not the grandparent's")
	}
}
