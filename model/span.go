package model

// StyleFlags is a bitmask of typographic style indicators for a span.
// Bit positions follow the PDF span-flag convention used by common
// page-geometry extractors.
type StyleFlags int

const (
	// FlagItalic marks italic or oblique text.
	FlagItalic StyleFlags = 1 << 1
	// FlagMonospace marks fixed-pitch text.
	FlagMonospace StyleFlags = 1 << 3
	// FlagBold marks bold text.
	FlagBold StyleFlags = 1 << 4
)

// Bold reports whether the bold bit is set.
func (f StyleFlags) Bold() bool { return f&FlagBold != 0 }

// Italic reports whether the italic bit is set.
func (f StyleFlags) Italic() bool { return f&FlagItalic != 0 }

// Monospace reports whether the monospace bit is set.
func (f StyleFlags) Monospace() bool { return f&FlagMonospace != 0 }

// Span is the atomic unit of extracted text: a run of characters sharing
// position and typography, as supplied by the upstream page-geometry source.
type Span struct {
	// Text is the raw span text.
	Text string `json:"text"`

	// BBox is the span's bounding box in page coordinates.
	BBox BBox `json:"bbox"`

	// FontSize is the span's font size in page units (pt).
	FontSize float64 `json:"size"`

	// FontName is the font family name, if known.
	FontName string `json:"font,omitempty"`

	// Flags is the style-flag bitmask.
	Flags StyleFlags `json:"flags,omitempty"`

	// Block is the index of the source's native block grouping on the page.
	// Spans sharing a Block value are aggregated into one RawBlock.
	Block int `json:"block"`
}

// Page is one page of input: dimensions plus the raw spans found on it.
type Page struct {
	// Number is the 1-indexed page number.
	Number int `json:"number"`

	// Width and Height are the page dimensions in page units.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Spans are the page's text spans in source order.
	Spans []Span `json:"spans"`
}
