package model

import "strings"

// RawBlock is one page's structurally-grouped span cluster. RawBlocks exist
// only inside a single page's processing: they are created from native span
// groups, mutated once to assign heading level and score, consumed by the
// merger and chunker, and then discarded.
type RawBlock struct {
	// Page is the 1-indexed page number.
	Page int

	// BBox is the block's bounding box.
	BBox BBox

	// Text is the raw concatenated span text.
	Text string

	// NormalizedText is Text after Unicode normalization.
	NormalizedText string

	// HeadingLevel is 0 for body text, 1-3 for headings (1 = highest rank).
	HeadingLevel int

	// HeadingScore is the scorer's confidence in [0,1].
	HeadingScore float64

	// Spans are the contributing spans.
	Spans []Span
}

// IsHeading reports whether the block was classified as a heading.
func (b *RawBlock) IsHeading() bool {
	return b.HeadingLevel > 0
}

// SemanticChunk groups one optional heading block with the body blocks that
// follow it, up to the next heading. It is the intermediate form between the
// chunker and final output chunk construction.
type SemanticChunk struct {
	// Page is the 1-indexed page number.
	Page int

	// BBox is the union bounding box of all contributing blocks.
	BBox BBox

	// HeadingText is the heading block's normalized text, empty for a
	// headless preamble chunk.
	HeadingText string

	// HeadingLevel is the heading block's level, 0 for a preamble chunk.
	HeadingLevel int

	// BodyTexts are the normalized texts of the body blocks in order.
	BodyTexts []string

	// Spans are the concatenated spans of all contributing blocks.
	Spans []Span
}

// Text returns the chunk's full text: the heading (if any) followed by the
// body segments, joined with newlines.
func (c *SemanticChunk) Text() string {
	parts := make([]string, 0, len(c.BodyTexts)+1)
	if c.HeadingText != "" {
		parts = append(parts, c.HeadingText)
	}
	parts = append(parts, c.BodyTexts...)
	return strings.Join(parts, "\n")
}
