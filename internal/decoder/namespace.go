package decoder

import "github.com/jacoelho/axmldecode/internal/tree"

// binding is a single (uri, prefix) namespace declaration: both string-pool
// indices, as pushed by a START_NAMESPACE chunk.
type binding struct {
	uri    uint32
	prefix uint32
}

// frame is one entry of the element stack: a reference to the tree node
// being built (or the sink's implicit root, for the bottom frame) plus the
// namespace bindings declared while this frame was on top of the stack.
type frame struct {
	element  tree.Element
	bindings []binding
}

func (d *decoder) currentFrame() *frame {
	return &d.stack[len(d.stack)-1]
}

// pushNamespace records a binding on the current (topmost) frame.
func (d *decoder) pushNamespace(uri, prefix uint32) {
	f := d.currentFrame()
	f.bindings = append(f.bindings, binding{uri: uri, prefix: prefix})
}

// popNamespace drops the most recently pushed binding on the current
// frame, matching a START_NAMESPACE with its END_NAMESPACE.
func (d *decoder) popNamespace() error {
	f := d.currentFrame()
	if len(f.bindings) == 0 {
		return newMalformed("END_NAMESPACE with no matching START_NAMESPACE on the current element")
	}
	f.bindings = f.bindings[:len(f.bindings)-1]
	return nil
}

// resolvePrefix implements §4.4.a prefix resolution: walk the element stack
// from the frame enclosing the given one outward toward the root,
// searching each frame's bindings newest-to-oldest for one whose uri
// matches. The frame at fromIdx itself is excluded (self-exclusion), so a
// START_NAMESPACE declared inside the new element never resolves an
// attribute prefix on that same element's own start tag.
func (d *decoder) resolvePrefix(fromIdx int, uri uint32) (prefix uint32, found bool) {
	for i := fromIdx - 1; i >= 0; i-- {
		bindings := d.stack[i].bindings
		for j := len(bindings) - 1; j >= 0; j-- {
			if bindings[j].uri == uri {
				return bindings[j].prefix, true
			}
		}
	}
	return 0, false
}
