// Command axmldump decodes an Android binary XML file — a bare AXML blob,
// or an APK from which AndroidManifest.xml is extracted — and prints the
// reconstructed document as textual XML.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/axmldecode"
	"github.com/jacoelho/axmldecode/axmlerr"
	"github.com/jacoelho/axmldecode/internal/archive"
	"github.com/jacoelho/axmldecode/internal/classify"
	"github.com/jacoelho/axmldecode/internal/tree"
	"github.com/jacoelho/axmldecode/internal/xmlfallback"
	"github.com/jacoelho/axmldecode/internal/xmlwrite"
)

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdout, os.Stderr)
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("axmldump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	allowUnknownChunks := fs.Bool("allow-unknown-chunks", false, "skip unrecognised chunk types instead of failing")
	maxDepth := fs.Int("max-depth", 0, "maximum element nesting depth (0 = default)")
	fs.Usage = func() {
		_ = writef(stderr, "Usage: %s [options] <file>\n\n", os.Args[0])
		_ = writeln(stderr, "Decodes an AXML file or APK manifest to textual XML on stdout.")
		_ = writeln(stderr)
		_ = writeln(stderr, "Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	remaining := fs.Args()
	if len(remaining) != 1 {
		if err := writeln(stderr, "error: exactly one input file argument is required"); err != nil {
			return 1
		}
		fs.Usage()
		return 2
	}

	data, err := os.ReadFile(remaining[0])
	if err != nil {
		_ = writef(stderr, "error reading %s: %v\n", remaining[0], err)
		return 1
	}

	doc, err := decodeAny(data, axmldecode.Options{
		AllowUnknownChunks: *allowUnknownChunks,
		MaxElementDepth:    *maxDepth,
	})
	if err != nil {
		_ = writef(stderr, "error decoding %s: %v\n", remaining[0], err)
		return 1
	}

	if err := xmlwrite.Write(stdout, doc); err != nil {
		_ = writef(stderr, "error writing output: %v\n", err)
		return 1
	}
	return 0
}

// decodeAny routes data through the input classifier: AXML goes straight to
// the binary decoder, a ZIP has AndroidManifest.xml extracted first, and
// anything else is parsed as textual XML directly.
func decodeAny(data []byte, opts axmldecode.Options) (*tree.Document, error) {
	switch classify.Detect(data) {
	case classify.FormatZip:
		manifest, err := archive.ExtractManifest(data)
		if err != nil {
			return nil, fmt.Errorf("extract manifest: %w", err)
		}
		return decodeAny(manifest, opts)
	case classify.FormatAXML:
		doc, err := axmldecode.DecodeWithOptions(data, opts)
		if err != nil {
			if errors.Is(err, axmlerr.ErrMagicMismatch) {
				return parseTextXML(data)
			}
			return nil, err
		}
		return doc, nil
	default:
		return parseTextXML(data)
	}
}

func parseTextXML(data []byte) (*tree.Document, error) {
	doc := tree.NewDocument()
	if err := xmlfallback.Decode(bytes.NewReader(data), doc); err != nil {
		return nil, err
	}
	doc.Finalize()
	return doc, nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
