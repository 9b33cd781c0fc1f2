// Package decoder implements the chunk walker / tree builder: the
// top-level state machine that reads the outer RES_XML_TYPE chunk,
// dispatches each inner chunk by type, and reconstructs a namespace-scoped
// XML element tree into a tree.Sink.
package decoder

import (
	"github.com/jacoelho/axmldecode/axmlerr"
	"github.com/jacoelho/axmldecode/internal/chunktype"
	"github.com/jacoelho/axmldecode/internal/cursor"
	"github.com/jacoelho/axmldecode/internal/stringpool"
	"github.com/jacoelho/axmldecode/internal/tree"
)

type decoder struct {
	cur     *cursor.Cursor
	sink    tree.Sink
	pool    *stringpool.Pool
	resMap  []uint32
	stack   []frame
	opts    Options
}

// Decode reads an AXML document from data and emits it into sink.
func Decode(data []byte, sink tree.Sink, opts Options) error {
	c := cursor.New(data, 0, len(data))
	d := &decoder{
		cur:  &c,
		sink: sink,
		opts: opts,
		// The bottom frame represents the document root: its element is
		// the sink's implicit root (tree.NoElement), and it is the only
		// frame whose bindings accumulate document-level xmlns:* decls.
		stack: []frame{{element: tree.NoElement}},
	}
	return d.run()
}

func (d *decoder) run() error {
	docStart := d.cur.Position()
	outer, err := chunktype.Read(d.cur)
	if err != nil {
		return err
	}
	if outer.Type != chunktype.XML {
		return axmlerr.New(axmlerr.MagicMismatch, "outer chunk is not RES_XML_TYPE").WithChunk(uint16(outer.Type), docStart)
	}
	if err := d.checkChunkSize(outer, docStart); err != nil {
		return err
	}
	end := docStart + int(outer.Size)

	for d.cur.Position() < end {
		if err := d.step(); err != nil {
			return err
		}
	}

	if len(d.stack) != 1 {
		return newMalformed("document ended with unclosed elements")
	}
	return nil
}

// step handles exactly one inner chunk: snapshot, dispatch, restore,
// advance by the chunk's declared size. Restoring and advancing
// unconditionally (regardless of what the handler did to the cursor) is
// what keeps unknown trailing bytes inside a chunk from desyncing the
// walker.
func (d *decoder) step() error {
	chunkStart := d.cur.Position()
	header, err := chunktype.Peek(d.cur)
	if err != nil {
		return err
	}
	if err := d.checkChunkSize(header, chunkStart); err != nil {
		return err
	}

	snap := d.cur.Save()
	dispatchErr := d.dispatch(header, chunkStart)
	d.cur.Restore(snap)
	if dispatchErr != nil {
		return dispatchErr
	}

	return d.cur.MoveTo(chunkStart + int(header.Size))
}

func (d *decoder) checkChunkSize(h chunktype.Header, chunkStart int) error {
	if h.HeaderSize < chunktype.HeaderSize || int(h.Size) < int(h.HeaderSize) {
		return newMalformed("chunk header/size fields are inconsistent").WithChunk(uint16(h.Type), chunkStart)
	}
	if chunkStart+int(h.Size) > d.cur.End() {
		return axmlerr.Newf(axmlerr.Truncated, "chunk of size %d at offset %d exceeds buffer", h.Size, chunkStart).WithChunk(uint16(h.Type), chunkStart)
	}
	return nil
}

func (d *decoder) dispatch(header chunktype.Header, chunkStart int) error {
	switch header.Type {
	case chunktype.StringPool:
		pool, err := stringpool.Decode(d.cur)
		if err != nil {
			return err
		}
		d.pool = pool
		return nil
	case chunktype.ResourceMap:
		return d.decodeResourceMap(header)
	case chunktype.StartNamespace:
		return d.decodeNamespace(header, true)
	case chunktype.EndNamespace:
		return d.decodeNamespace(header, false)
	case chunktype.StartElement:
		return d.decodeStartElement(header, chunkStart)
	case chunktype.EndElement:
		return d.decodeEndElement()
	case chunktype.CData:
		return d.decodeCData()
	default:
		if d.opts.AllowUnknownChunks {
			return nil
		}
		return axmlerr.Newf(axmlerr.UnknownChunk, "unrecognised chunk type 0x%04x", header.Type).WithChunk(uint16(header.Type), chunkStart)
	}
}

func (d *decoder) decodeResourceMap(header chunktype.Header) error {
	if _, err := chunktype.Read(d.cur); err != nil {
		return err
	}
	count := (int(header.Size) - int(header.HeaderSize)) / 4
	d.resMap = make([]uint32, count)
	for i := range d.resMap {
		v, err := d.cur.GetU32()
		if err != nil {
			return err
		}
		d.resMap[i] = v
	}
	return nil
}

func (d *decoder) decodeNamespace(header chunktype.Header, start bool) error {
	if _, err := chunktype.Read(d.cur); err != nil {
		return err
	}
	if _, err := d.cur.GetU32(); err != nil { // line_num
		return err
	}
	if _, err := d.cur.GetU32(); err != nil { // comment
		return err
	}
	prefix, err := d.cur.GetU32()
	if err != nil {
		return err
	}
	uri, err := d.cur.GetU32()
	if err != nil {
		return err
	}
	if start {
		d.pushNamespace(uri, prefix)
		return nil
	}
	return d.popNamespace()
}

func (d *decoder) decodeCData() error {
	if _, err := chunktype.Read(d.cur); err != nil {
		return err
	}
	if _, err := d.cur.GetU32(); err != nil { // line_num
		return err
	}
	if _, err := d.cur.GetU32(); err != nil { // comment
		return err
	}
	textIdx, err := d.cur.GetU32()
	if err != nil {
		return err
	}
	if _, err := d.cur.GetU32(); err != nil { // trailing word, unused
		return err
	}
	if _, err := d.cur.GetU32(); err != nil { // trailing word, unused
		return err
	}
	text, err := d.resolveString(textIdx)
	if err != nil {
		return err
	}
	d.sink.AddText(d.currentFrame().element, text)
	return nil
}

func (d *decoder) decodeEndElement() error {
	if _, err := chunktype.Read(d.cur); err != nil {
		return err
	}
	if _, err := d.cur.GetU32(); err != nil { // line_num
		return err
	}
	if _, err := d.cur.GetU32(); err != nil { // comment
		return err
	}
	if _, err := d.cur.GetU32(); err != nil { // ns
		return err
	}
	if _, err := d.cur.GetU32(); err != nil { // name
		return err
	}
	if len(d.stack) <= 1 {
		return newMalformed("END_ELEMENT with no matching START_ELEMENT")
	}
	d.stack = d.stack[:len(d.stack)-1]
	return nil
}

func (d *decoder) resolveString(idx uint32) (string, error) {
	s, _, err := d.pool.Get(idx)
	return s, err
}

func newMalformed(msg string) *axmlerr.Error {
	return axmlerr.New(axmlerr.Malformed, msg)
}
