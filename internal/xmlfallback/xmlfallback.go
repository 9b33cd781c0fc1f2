// Package xmlfallback parses ordinary textual XML into the same tree.Sink
// contract the binary decoder targets, so the two paths converge on a
// single representation before serialisation. This is the "textual XML
// fallback" collaborator: taken when the input does not carry the AXML
// magic and is presumed to be a plain XML document already.
package xmlfallback

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/jacoelho/axmldecode/internal/tree"
)

// Decode reads r as textual XML and emits it into sink.
func Decode(r io.Reader, sink tree.Sink) error {
	dec := xml.NewDecoder(r)
	var stack []tree.Element
	current := func() tree.Element {
		if len(stack) == 0 {
			return tree.NoElement
		}
		return stack[len(stack)-1]
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("parse textual xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := sink.AddChildElement(current(), qualifiedName(t.Name))
			for _, a := range t.Attr {
				sink.AddAttribute(el, qualifiedName(a.Name), a.Value)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return fmt.Errorf("parse textual xml: unmatched end element %s", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				sink.AddText(current(), string(t))
			}
		}
	}
	return nil
}

// qualifiedName renders an xml.Name the way the AXML decoder would: a
// prefix carried in Space, joined with ':' when present. encoding/xml
// resolves namespace URIs rather than preserving source prefixes, so this
// is an approximation good enough for a fallback path that spec.md treats
// as an external collaborator, not core decoder behaviour.
func qualifiedName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}
