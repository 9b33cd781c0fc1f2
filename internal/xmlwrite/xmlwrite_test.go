package xmlwrite

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jacoelho/axmldecode/internal/tree"
)

func TestWriteSelfClosingElement(t *testing.T) {
	doc := tree.NewDocument()
	root := doc.AddChildElement(tree.NoElement, "manifest")
	doc.AddAttribute(root, "android:versionCode", "1")
	doc.Finalize()

	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if !strings.Contains(got, `<manifest android:versionCode="1"/>`) {
		t.Fatalf("Write() = %q", got)
	}
}

func TestWriteNestedElements(t *testing.T) {
	doc := tree.NewDocument()
	root := doc.AddChildElement(tree.NoElement, "manifest")
	doc.AddChildElement(root, "application")
	doc.Finalize()

	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if !strings.Contains(got, "<manifest>\n") || !strings.Contains(got, "  <application/>\n") {
		t.Fatalf("Write() = %q", got)
	}
}

func TestWriteInlineText(t *testing.T) {
	doc := tree.NewDocument()
	root := doc.AddChildElement(tree.NoElement, "string")
	doc.AddText(root, "hello & goodbye")
	doc.Finalize()

	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "<string>hello &amp; goodbye</string>\n" {
		t.Fatalf("Write() = %q", got)
	}
}

func TestWriteEmptyDocument(t *testing.T) {
	doc := tree.NewDocument()
	doc.Finalize()

	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Fatalf("Write() on empty document produced %q", buf.String())
	}
}
