// Package classify implements the input-format sniff described as the
// input classifier collaborator: byte 0x03 at offset 0 signals AXML, ASCII
// 'P' (the start of a ZIP local-file-header magic) signals an archive,
// anything else is routed to textual XML.
package classify

// Format identifies how an input buffer should be handled.
type Format int

const (
	// FormatAXML is Android binary XML.
	FormatAXML Format = iota
	// FormatZip is a ZIP archive expected to contain AndroidManifest.xml.
	FormatZip
	// FormatTextXML is ordinary textual XML.
	FormatTextXML
)

// String names a Format for diagnostic output.
func (f Format) String() string {
	switch f {
	case FormatAXML:
		return "axml"
	case FormatZip:
		return "zip"
	case FormatTextXML:
		return "text-xml"
	default:
		return "unknown"
	}
}

// Detect sniffs the leading bytes of data to decide how it should be
// decoded. An empty buffer is routed to textual XML, whose parser accepts
// it without error as a document with no root element.
func Detect(data []byte) Format {
	if len(data) == 0 {
		return FormatTextXML
	}
	switch data[0] {
	case 0x03:
		return FormatAXML
	case 'P':
		return FormatZip
	default:
		return FormatTextXML
	}
}
