package tree

import "testing"

func TestDocumentBuildAndRead(t *testing.T) {
	doc := NewDocument()
	root := doc.AddChildElement(NoElement, "manifest")
	doc.AddAttribute(root, "android:label", "App")
	child := doc.AddChildElement(root, "application")
	doc.AddText(child, "hello")
	doc.Finalize()

	if doc.Root() != root {
		t.Fatalf("Root() = %v, want %v", doc.Root(), root)
	}
	if doc.Name(root) != "manifest" {
		t.Fatalf("Name(root) = %q", doc.Name(root))
	}
	if v, ok := doc.GetAttribute(root, "android:label"); !ok || v != "App" {
		t.Fatalf("GetAttribute() = %q, %v", v, ok)
	}
	children := doc.Children(root)
	if len(children) != 1 || children[0].Element != child {
		t.Fatalf("Children(root) = %+v", children)
	}
	if doc.TextContent(child) != "hello" {
		t.Fatalf("TextContent(child) = %q", doc.TextContent(child))
	}
}

func TestEmptyDocument(t *testing.T) {
	doc := NewDocument()
	doc.Finalize()
	if doc.Root() != NoElement {
		t.Fatalf("Root() on empty document = %v, want NoElement", doc.Root())
	}
}

func TestDuplicateAttributesNotDeduplicated(t *testing.T) {
	doc := NewDocument()
	root := doc.AddChildElement(NoElement, "manifest")
	doc.AddAttribute(root, "xmlns:a", "urn:a")
	doc.AddAttribute(root, "xmlns:a", "urn:a")
	doc.Finalize()

	attrs := doc.Attributes(root)
	if len(attrs) != 2 {
		t.Fatalf("Attributes() len = %d, want 2 (duplicates not deduped)", len(attrs))
	}
}
