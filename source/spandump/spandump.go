// Package spandump reads page geometry from a JSON span dump: the
// interchange format produced by an external PDF geometry extractor.
//
// The dump is a single JSON document:
//
//	{
//	  "pages": [
//	    {
//	      "number": 1,
//	      "width": 595.3,
//	      "height": 841.9,
//	      "spans": [
//	        {"text": "1. Overview", "bbox": [72, 88, 210, 106],
//	         "size": 18.0, "font": "NotoSans-Bold", "flags": 16, "block": 0},
//	        ...
//	      ]
//	    },
//	    ...
//	  ]
//	}
//
// Span flags use the PDF convention: bit 1 italic, bit 3 monospace,
// bit 4 bold. The block index groups spans into native layout blocks.
package spandump

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/tsawler/semchunk/model"
	"github.com/tsawler/semchunk/source"
)

type dump struct {
	Pages []*model.Page `json:"pages"`
}

// Dump is a fully-loaded span dump acting as a page-geometry source.
type Dump struct {
	docID string
	path  string
	pages map[int]*model.Page
	count int
}

var _ source.Source = (*Dump)(nil)

// Open reads and decodes a span dump file.
func Open(path string) (*Dump, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening span dump: %w", err)
	}
	d, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parsing span dump %s: %w", path, err)
	}
	d.path = path
	d.docID = source.DeriveDocumentID(path)
	return d, nil
}

// Parse decodes a span dump from raw JSON.
func Parse(b []byte) (*Dump, error) {
	var raw dump
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	if len(raw.Pages) == 0 {
		return nil, fmt.Errorf("span dump has no pages")
	}

	pages := make(map[int]*model.Page, len(raw.Pages))
	maxPage := 0
	for i, p := range raw.Pages {
		if p.Number < 1 {
			return nil, fmt.Errorf("page %d: number must be >= 1, got %d", i, p.Number)
		}
		if _, dup := pages[p.Number]; dup {
			return nil, fmt.Errorf("duplicate page number %d", p.Number)
		}
		pages[p.Number] = p
		if p.Number > maxPage {
			maxPage = p.Number
		}
	}

	return &Dump{pages: pages, count: maxPage, docID: "document"}, nil
}

// DocumentID returns the identifier derived from the dump filename.
func (d *Dump) DocumentID() string { return d.docID }

// SourcePath returns the dump file path.
func (d *Dump) SourcePath() string { return d.path }

// PageCount returns the highest page number present in the dump.
func (d *Dump) PageCount() int { return d.count }

// Page returns page n. A page number inside the document range but absent
// from the dump yields an empty page rather than an error, so sparse dumps
// behave like documents with blank pages.
func (d *Dump) Page(n int) (*model.Page, error) {
	if n < 1 || n > d.count {
		return nil, fmt.Errorf("page %d out of range 1..%d", n, d.count)
	}
	if p, ok := d.pages[n]; ok {
		return p, nil
	}
	return &model.Page{Number: n}, nil
}

// Close is a no-op: the dump is fully loaded at Open time.
func (d *Dump) Close() error { return nil }

// PageNumbers returns the page numbers present in the dump, sorted.
func (d *Dump) PageNumbers() []int {
	nums := make([]int, 0, len(d.pages))
	for n := range d.pages {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}
