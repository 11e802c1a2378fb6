// Package semchunk provides a fluent API for extracting contract-stable
// semantic chunks from paginated documents.
//
// The pipeline normalizes raw text spans, scores blocks for heading
// structure, merges vertically adjacent body blocks, groups them into
// heading-led semantic chunks, and relabels repeated page furniture as
// headers and footers. The result is a versioned JSON document validated
// by the contract package.
//
// Basic usage:
//
//	doc, warnings, err := semchunk.Open("report.pdf").Document()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", semchunk.FormatWarnings(warnings))
//	}
//
// With options:
//
//	doc, _, err := semchunk.Open("report.pdf").
//	    NoFurniture().
//	    MergeGap(6.0).
//	    Document()
//
// Input can be a PDF or a JSON span dump produced by an external
// page-geometry extractor; the format is detected from the file extension,
// falling back to the leading file bytes when the extension is unrecognized.
package semchunk

import (
	"errors"

	"github.com/tsawler/semchunk/source"
)

// ErrNoText is returned when a document yields no chunks at all, e.g. a
// scanned or image-only input. No partial document accompanies it.
var ErrNoText = errors.New("no extractable text found; input may be scanned or image-only")

// Open prepares an Extractor for the given file. The file is not opened
// until a terminal operation runs; open errors surface there.
//
// Example:
//
//	doc, warnings, err := semchunk.Open("report.pdf").Document()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromSource creates an Extractor over an already-open page-geometry
// source. The caller remains responsible for closing the source.
//
// Example:
//
//	src, err := spandump.Open("report.spans.json")
//	if err != nil {
//	    // handle error
//	}
//	defer src.Close()
//	doc, warnings, err := semchunk.FromSource(src).Document()
func FromSource(src source.Source) *Extractor {
	return &Extractor{
		src:          src,
		ownsSource:   false,
		sourceOpened: true,
		options:      defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := semchunk.Must(semchunk.Open("report.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustDocument is a helper that wraps a terminal operation returning
// (T, []Warning, error) and panics if the error is non-nil. It discards
// warnings and returns just the value.
//
// Example:
//
//	doc := semchunk.MustDocument(semchunk.Open("report.pdf").Document())
func MustDocument[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
