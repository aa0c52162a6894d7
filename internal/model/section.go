package model

// DisplaySection is one titled block of a parsed analysis. Sections are
// derived on every render and never stored.
type DisplaySection struct {
	// Title is the text found between a pair of title delimiters. It is
	// empty for input that carries no delimiters at all.
	Title string

	// IsList reports whether at least one bullet line was found.
	IsList bool

	// Items holds bullet lines with the glyph stripped, in order.
	Items []string

	// Paragraphs holds the remaining non-empty lines, in order.
	Paragraphs []string
}

// Empty reports whether the section has a title but no body.
func (s DisplaySection) Empty() bool {
	return len(s.Items) == 0 && len(s.Paragraphs) == 0
}
