// Package source defines the page-geometry input contract for extraction.
//
// A Source yields pages of positioned text spans. Concrete sources live in
// the subpackages: spandump reads a JSON span dump, pdfspans reads a PDF
// directly.
package source

import (
	"path/filepath"
	"strings"

	"github.com/tsawler/semchunk/model"
)

// Source is a read-once provider of page geometry for one document.
type Source interface {
	// DocumentID returns the identifier derived from the source filename.
	DocumentID() string

	// SourcePath returns the path the document was opened from.
	SourcePath() string

	// PageCount returns the total number of pages.
	PageCount() int

	// Page returns page n (1-indexed) with its spans in reading order.
	Page(n int) (*model.Page, error)

	// Close releases any underlying resources.
	Close() error
}

// DeriveDocumentID turns a source path into a contract-safe document
// identifier: runs of disallowed runes in the file stem collapse to a
// single underscore, leading and trailing underscores are stripped, and
// the result is truncated to 64 bytes. An empty stem becomes "document".
func DeriveDocumentID(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var b strings.Builder
	pendingSep := false
	for _, r := range stem {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}
	id := b.String()
	if id == "" {
		id = "document"
	}
	if len(id) > 64 {
		id = id[:64]
	}
	return id
}
