package decoder

import (
	"github.com/jacoelho/axmldecode/axmlerr"
	"github.com/jacoelho/axmldecode/internal/attrtable"
	"github.com/jacoelho/axmldecode/internal/chunktype"
	"github.com/jacoelho/axmldecode/internal/resvalue"
	"github.com/jacoelho/axmldecode/internal/stringpool"
	"github.com/jacoelho/axmldecode/internal/tree"
)

// attributeRecordSize is the on-wire size of a START_ELEMENT attribute
// record under the layout this decoder knows about: ns, name, raw_value
// (each a uint32) plus an 8-byte Res_value. The decoder walks records by
// the chunk's own declared attrSize rather than this constant, so a
// producer that pads records with extra trailing fields still decodes.
const attributeRecordSize = 4 + 4 + 4 + resvalue.Size

func (d *decoder) decodeStartElement(header chunktype.Header, chunkStart int) error {
	if _, err := chunktype.Read(d.cur); err != nil {
		return err
	}
	if _, err := d.cur.GetU32(); err != nil { // line_num
		return err
	}
	if _, err := d.cur.GetU32(); err != nil { // comment
		return err
	}
	ns, err := d.cur.GetU32()
	if err != nil {
		return err
	}
	nameIdx, err := d.cur.GetU32()
	if err != nil {
		return err
	}
	// attrSize is the stride, in bytes, of each attribute record that
	// follows; the decoder walks records by this declared stride rather
	// than assuming attributeRecordSize, so a producer that pads records
	// with extra trailing fields still decodes correctly.
	attrSize, err := d.cur.GetU32()
	if err != nil {
		return err
	}
	attributeCount, err := d.cur.GetU16()
	if err != nil {
		return err
	}
	if _, err := d.cur.GetU16(); err != nil { // id_index
		return err
	}
	if _, err := d.cur.GetU16(); err != nil { // class_index
		return err
	}
	if _, err := d.cur.GetU16(); err != nil { // style_index
		return err
	}

	// The stack holds the root frame plus one frame per open element, so
	// the new element's nesting depth is len(d.stack).
	if len(d.stack) > d.opts.maxElementDepth() {
		return axmlerr.Newf(axmlerr.Malformed, "element nesting exceeds the configured limit (%d)", d.opts.maxElementDepth()).WithChunk(uint16(header.Type), chunkStart)
	}

	localName, err := d.resolveString(nameIdx)
	if err != nil {
		return err
	}
	// The tag's own namespace resolves against the stack as it stands
	// before this element's frame is pushed: any START_NAMESPACE chunks
	// preceding this START_ELEMENT already landed on the current (parent)
	// frame, so no self-exclusion is needed here.
	tagName, err := d.qualify(len(d.stack), ns, localName)
	if err != nil {
		return err
	}

	parent := d.currentFrame().element
	child := d.sink.AddChildElement(parent, tagName)
	d.stack = append(d.stack, frame{element: child})
	newFrameIdx := len(d.stack) - 1

	if err := d.emitInheritedNamespaces(newFrameIdx); err != nil {
		return err
	}

	// Attribute records tile contiguously starting at the cursor's current
	// position (immediately after the fixed start-element header fields).
	attrBase := d.cur.Position()
	for i := 0; i < int(attributeCount); i++ {
		if err := d.cur.MoveTo(attrBase + i*int(attrSize)); err != nil {
			return err
		}
		if err := d.decodeAttribute(newFrameIdx, child); err != nil {
			return err
		}
	}

	return nil
}

func (d *decoder) decodeAttribute(frameIdx int, element tree.Element) error {
	attrNS, err := d.cur.GetU32()
	if err != nil {
		return err
	}
	nameIdx, err := d.cur.GetU32()
	if err != nil {
		return err
	}
	rawValueIdx, err := d.cur.GetU32()
	if err != nil {
		return err
	}
	typed, err := resvalue.Read(d.cur)
	if err != nil {
		return err
	}

	localName, _, err := d.pool.Get(nameIdx)
	if err != nil {
		return err
	}
	if localName == "" {
		localName, err = d.recoverAttrName(nameIdx)
		if err != nil {
			return err
		}
	}
	qualifiedName, err := d.qualify(frameIdx, attrNS, localName)
	if err != nil {
		return err
	}

	value, err := d.attributeValue(rawValueIdx, typed)
	if err != nil {
		return err
	}

	d.sink.AddAttribute(element, qualifiedName, value)
	return nil
}

// attributeValue prefers the raw pre-formatted string-pool value when one
// is present, falling back to formatting the typed Res_value.
func (d *decoder) attributeValue(rawValueIdx uint32, typed resvalue.Value) (string, error) {
	if rawValueIdx != stringpool.Absent {
		return d.pool.MustGet(rawValueIdx)
	}
	return resvalue.Format(typed, d.resolveString)
}

// recoverAttrName resolves an attribute whose own string-pool name is
// empty via the resource map: nameIdx indexes into the resource map
// (parallel to the string pool) to get a framework resource ID, which is
// then looked up in the built-in android.R.attr name table.
func (d *decoder) recoverAttrName(nameIdx uint32) (string, error) {
	if d.resMap == nil || nameIdx >= uint32(len(d.resMap)) {
		return "", axmlerr.Newf(axmlerr.UndefinedAttr, "attribute name index %d has no resource map entry", nameIdx).WithIndex(int64(nameIdx))
	}
	resourceID := d.resMap[nameIdx]
	name, ok := attrtable.Lookup(resourceID)
	if !ok {
		return "", axmlerr.Newf(axmlerr.UndefinedAttr, "resource id 0x%08x is outside the framework attribute table", resourceID)
	}
	return name, nil
}

// emitInheritedNamespaces emits every xmlns:* binding recorded on the new
// frame's parent frame onto the element at newFrameIdx, without
// deduplicating against bindings already emitted on an ancestor. Bindings
// recorded on frames further out than the parent are not repeated.
func (d *decoder) emitInheritedNamespaces(newFrameIdx int) error {
	element := d.stack[newFrameIdx].element
	parentIdx := newFrameIdx - 1
	if parentIdx >= 0 {
		for _, b := range d.stack[parentIdx].bindings {
			qname, err := d.namespaceAttrName(b.prefix)
			if err != nil {
				return err
			}
			uri, err := d.resolveString(b.uri)
			if err != nil {
				return err
			}
			d.sink.AddAttribute(element, qname, uri)
		}
	}
	return nil
}

func (d *decoder) namespaceAttrName(prefixIdx uint32) (string, error) {
	if prefixIdx == stringpool.Absent {
		return "xmlns", nil
	}
	prefix, err := d.resolveString(prefixIdx)
	if err != nil {
		return "", err
	}
	if prefix == "" {
		return "xmlns", nil
	}
	return "xmlns:" + prefix, nil
}

// qualify resolves a namespace uri index (Absent meaning unqualified)
// against the stack, searching from fromIdx outward per §4.4.a, and
// prefixes localName accordingly. An unresolvable uri still yields
// localName unqualified rather than failing the decode: a dangling
// namespace reference does not prevent the element from being named.
func (d *decoder) qualify(fromIdx int, uriIdx uint32, localName string) (string, error) {
	if uriIdx == stringpool.Absent {
		return localName, nil
	}
	prefixIdx, found := d.resolvePrefix(fromIdx, uriIdx)
	if !found {
		return localName, nil
	}
	prefix, err := d.resolveString(prefixIdx)
	if err != nil {
		return "", err
	}
	if prefix == "" {
		return localName, nil
	}
	return prefix + ":" + localName, nil
}
