// Package axmldecode decodes Android's compressed binary XML encoding (the
// format AndroidManifest.xml and compiled resource layouts take inside an
// APK) into a conventional XML element tree.
package axmldecode

import (
	"fmt"

	"github.com/jacoelho/axmldecode/internal/decoder"
	"github.com/jacoelho/axmldecode/internal/tree"
)

// Options configures a Decode call.
type Options struct {
	// MaxElementDepth bounds nested START_ELEMENT chunks. Zero selects the
	// package default (128).
	MaxElementDepth int
	// AllowUnknownChunks, when set, skips an inner chunk of a type the
	// decoder doesn't recognise instead of failing. Off by default.
	AllowUnknownChunks bool
}

func (o Options) toDecoderOptions() decoder.Options {
	return decoder.Options{
		MaxElementDepth:    o.MaxElementDepth,
		AllowUnknownChunks: o.AllowUnknownChunks,
	}
}

// Decode parses an AXML buffer into a *tree.Document.
func Decode(data []byte) (*tree.Document, error) {
	return DecodeWithOptions(data, Options{})
}

// DecodeWithOptions parses an AXML buffer into a *tree.Document using
// explicit configuration.
func DecodeWithOptions(data []byte, opts Options) (*tree.Document, error) {
	doc := tree.NewDocument()
	if err := DecodeInto(data, doc, opts); err != nil {
		return nil, err
	}
	return doc, nil
}

// DecodeInto parses an AXML buffer, emitting into an arbitrary tree.Sink
// rather than the package's own Document arena. If sink is a *tree.Document,
// callers must not call Finalize themselves; DecodeInto does so on success.
func DecodeInto(data []byte, sink tree.Sink, opts Options) error {
	if err := decoder.Decode(data, sink, opts.toDecoderOptions()); err != nil {
		return fmt.Errorf("decode axml: %w", err)
	}
	if doc, ok := sink.(*tree.Document); ok {
		doc.Finalize()
	}
	return nil
}
