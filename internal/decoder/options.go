package decoder

// Options configures a Decode call. The zero value is the decoder's
// default behaviour.
type Options struct {
	// MaxElementDepth bounds how deeply START_ELEMENT chunks may nest
	// before the decoder gives up with a MALFORMED error. Zero selects the
	// default (128). A hostile input can otherwise nest elements without
	// bound, growing the element stack unboundedly.
	MaxElementDepth int
	// AllowUnknownChunks relaxes the default: an unrecognised inner chunk
	// type is fatal (UnknownChunk) unless this is set, in which case it is
	// skipped. Skipping is safe because the walker always restores the
	// cursor and advances by the chunk's declared size regardless of
	// handler behaviour, so an unrecognised chunk never desyncs the
	// stream — but the decoder still fails by default, matching real AXML
	// producers that never emit a type this decoder doesn't know.
	AllowUnknownChunks bool
}

const defaultMaxElementDepth = 128

func (o Options) maxElementDepth() int {
	if o.MaxElementDepth > 0 {
		return o.MaxElementDepth
	}
	return defaultMaxElementDepth
}
