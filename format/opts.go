package format

type EncodeOption func(*encState)

func EncodeFormat(f Format) EncodeOption {
	return func(es *encState) { es.format = f }
}

// EncodeIndent sets the indentation width. Zero writes a compact document.
func EncodeIndent(n int) EncodeOption {
	return func(es *encState) { es.indent = n }
}

// EncodeHeader controls the XML declaration line.
func EncodeHeader(v bool) EncodeOption {
	return func(es *encState) { es.header = v }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *encState) { es.colors = c }
}

// FormatFromOpts extracts the format from encode options.
func FormatFromOpts(opts ...EncodeOption) Format {
	es := newEncState()
	for _, opt := range opts {
		opt(es)
	}
	return es.format
}
