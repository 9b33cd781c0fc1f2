// Package xmlwrite serialises a decoded tree.Document back to textual XML,
// the final collaborator in the pipeline described as "serialisation of the
// reconstructed tree to textual XML".
package xmlwrite

import (
	"fmt"
	"io"
	"strings"

	"github.com/jacoelho/axmldecode/internal/tree"
)

// Write serialises doc starting at its root to w as indented textual XML.
// Attribute ordering and xmlns placement follow emission order, not any
// canonical sort — matching the round-trip law's stated tolerance for
// attribute ordering and xmlns placement.
func Write(w io.Writer, doc *tree.Document) error {
	root := doc.Root()
	if root == tree.NoElement {
		return nil
	}
	return writeElement(w, doc, root, 0)
}

func writeElement(w io.Writer, doc *tree.Document, e tree.Element, depth int) error {
	indent := strings.Repeat("  ", depth)
	name := doc.Name(e)
	attrs := doc.Attributes(e)
	children := doc.Children(e)

	if _, err := fmt.Fprintf(w, "%s<%s", indent, name); err != nil {
		return err
	}
	for _, a := range attrs {
		if _, err := fmt.Fprintf(w, " %s=%q", a.Name, escapeAttr(a.Value)); err != nil {
			return err
		}
	}
	if len(children) == 0 {
		_, err := fmt.Fprintf(w, "/>\n")
		return err
	}
	if _, err := fmt.Fprintf(w, ">"); err != nil {
		return err
	}

	onlyText := allText(children)
	if !onlyText {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	for _, c := range children {
		if c.IsText {
			if _, err := io.WriteString(w, escapeText(c.Text)); err != nil {
				return err
			}
			continue
		}
		if err := writeElement(w, doc, c.Element, depth+1); err != nil {
			return err
		}
	}
	if !onlyText {
		if _, err := fmt.Fprint(w, indent); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "</%s>\n", name)
	return err
}

func allText(children []tree.Child) bool {
	for _, c := range children {
		if !c.IsText {
			return false
		}
	}
	return len(children) > 0
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func escapeAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", "\"", "&quot;")
	return r.Replace(s)
}
