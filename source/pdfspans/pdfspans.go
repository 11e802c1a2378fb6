// Package pdfspans adapts a PDF file into the page-geometry source
// contract using github.com/ledongthuc/pdf.
//
// The library yields character-level text fragments with baseline
// positions in bottom-up PDF coordinates. This package assembles them
// into line spans, flips the coordinates top-down, derives style flags
// from font names, and groups lines into native blocks by vertical gap.
// It is a best-effort adapter: a dedicated geometry extractor producing
// a span dump gives better fidelity.
package pdfspans

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/tsawler/semchunk/model"
	"github.com/tsawler/semchunk/source"
)

// rowTolerance is the baseline Y distance (pt) within which fragments are
// treated as the same line.
const rowTolerance = 2.0

// wordGapFactor is the fraction of font size above which a horizontal gap
// between fragments becomes a space.
const wordGapFactor = 0.3

// blockGapFactor is the fraction of font size above which a vertical gap
// between lines starts a new native block.
const blockGapFactor = 0.8

// Default page dimensions (A4, pt) when the media box is unreadable.
const (
	defaultPageWidth  = 595.0
	defaultPageHeight = 842.0
)

// File is an open PDF acting as a page-geometry source.
type File struct {
	f      *os.File
	reader *pdflib.Reader
	docID  string
	path   string
}

var _ source.Source = (*File)(nil)

// Open opens a PDF file for span extraction.
func Open(path string) (*File, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	return &File{
		f:      f,
		reader: reader,
		docID:  source.DeriveDocumentID(path),
		path:   path,
	}, nil
}

// DocumentID returns the identifier derived from the PDF filename.
func (p *File) DocumentID() string { return p.docID }

// SourcePath returns the PDF file path.
func (p *File) SourcePath() string { return p.path }

// PageCount returns the number of pages in the PDF.
func (p *File) PageCount() int { return p.reader.NumPage() }

// Close closes the underlying file.
func (p *File) Close() error { return p.f.Close() }

// Page extracts page n (1-indexed) as positioned spans in top-down
// coordinates. A null or empty page yields a page with no spans.
func (p *File) Page(n int) (*model.Page, error) {
	if n < 1 || n > p.reader.NumPage() {
		return nil, fmt.Errorf("page %d out of range 1..%d", n, p.reader.NumPage())
	}

	page := p.reader.Page(n)
	width, height := pageSize(page)
	out := &model.Page{Number: n, Width: width, Height: height}
	if page.V.IsNull() {
		return out, nil
	}

	content := page.Content()
	frags := make([]pdflib.Text, 0, len(content.Text))
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) != "" {
			frags = append(frags, t)
		}
	}
	if len(frags) == 0 {
		return out, nil
	}

	lines := assembleLines(frags, height)
	out.Spans = groupIntoBlocks(lines)
	return out, nil
}

// pageSize reads the media box, falling back to A4.
func pageSize(page pdflib.Page) (w, h float64) {
	w, h = defaultPageWidth, defaultPageHeight
	if page.V.IsNull() {
		return w, h
	}
	box := page.V.Key("MediaBox")
	if box.Kind() != pdflib.Array || box.Len() != 4 {
		return w, h
	}
	x0 := box.Index(0).Float64()
	y0 := box.Index(1).Float64()
	x1 := box.Index(2).Float64()
	y1 := box.Index(3).Float64()
	if x1 > x0 && y1 > y0 {
		w, h = x1-x0, y1-y0
	}
	return w, h
}

// line is an assembled row of fragments sharing a baseline.
type line struct {
	baseline float64 // bottom-up baseline Y
	frags    []pdflib.Text
}

// assembleLines buckets fragments by baseline, sorts each line by X, and
// renders each as one span in top-down coordinates.
func assembleLines(frags []pdflib.Text, pageHeight float64) []model.Span {
	var lines []*line
	for _, t := range frags {
		placed := false
		for _, ln := range lines {
			if math.Abs(t.Y-ln.baseline) <= rowTolerance {
				ln.frags = append(ln.frags, t)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, &line{baseline: t.Y, frags: []pdflib.Text{t}})
		}
	}

	// Top of page first: higher bottom-up Y is higher on the page.
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].baseline > lines[j].baseline
	})

	spans := make([]model.Span, 0, len(lines))
	for _, ln := range lines {
		spans = append(spans, renderLine(ln, pageHeight))
	}
	return spans
}

// renderLine joins a line's fragments left to right, inserting spaces at
// word gaps, and computes the line bbox in top-down coordinates.
func renderLine(ln *line, pageHeight float64) model.Span {
	sort.SliceStable(ln.frags, func(i, j int) bool {
		return ln.frags[i].X < ln.frags[j].X
	})

	var b strings.Builder
	first := ln.frags[0]
	x0 := first.X
	x1 := first.X + first.W
	size := first.FontSize
	font := first.Font

	b.WriteString(first.S)
	for _, t := range ln.frags[1:] {
		gap := t.X - x1
		threshold := t.FontSize * wordGapFactor
		if threshold <= 0 {
			threshold = 3.0
		}
		if gap > threshold && !strings.HasSuffix(b.String(), " ") {
			b.WriteByte(' ')
		}
		b.WriteString(t.S)
		if t.X+t.W > x1 {
			x1 = t.X + t.W
		}
		if t.FontSize > size {
			size = t.FontSize
		}
	}

	// Baseline to box edges: ascent approximated by the font size.
	y1 := pageHeight - ln.baseline
	y0 := y1 - size

	return model.Span{
		Text:     b.String(),
		BBox:     model.BBox{X0: x0, Y0: y0, X1: x1, Y1: y1},
		FontSize: size,
		FontName: font,
		Flags:    flagsFromFont(font),
	}
}

// groupIntoBlocks assigns block indices to line spans: a vertical gap
// larger than blockGapFactor of the font size starts a new block.
func groupIntoBlocks(spans []model.Span) []model.Span {
	block := 0
	for i := range spans {
		if i > 0 {
			gap := spans[i].BBox.Y0 - spans[i-1].BBox.Y1
			size := spans[i].FontSize
			if size <= 0 {
				size = 12.0
			}
			if gap > size*blockGapFactor {
				block++
			}
		}
		spans[i].Block = block
	}
	return spans
}

// flagsFromFont derives style flags from a font family name.
func flagsFromFont(font string) model.StyleFlags {
	var flags model.StyleFlags
	lower := strings.ToLower(font)
	if strings.Contains(lower, "bold") || strings.Contains(lower, "black") || strings.Contains(lower, "heavy") {
		flags |= model.FlagBold
	}
	if strings.Contains(lower, "italic") || strings.Contains(lower, "oblique") {
		flags |= model.FlagItalic
	}
	if strings.Contains(lower, "mono") || strings.Contains(lower, "courier") {
		flags |= model.FlagMonospace
	}
	return flags
}
