package semchunk

import (
	"fmt"
	"strings"
)

// WarningCode identifies a class of non-fatal extraction issue.
type WarningCode string

const (
	// WarnPageFallback indicates a page had no structured blocks and its
	// whole text was emitted as a single chunk.
	WarnPageFallback WarningCode = "page_fallback"

	// WarnEmptyPage indicates a page yielded no text at all.
	WarnEmptyPage WarningCode = "empty_page"

	// WarnNoPageHeight indicates a page reported no height; header/footer
	// classification assumed A4.
	WarnNoPageHeight WarningCode = "no_page_height"

	// WarnFurnitureSkipped indicates header/footer isolation was skipped
	// because the document has fewer than two pages; repeated-element
	// detection needs recurrence across pages.
	WarnFurnitureSkipped WarningCode = "furniture_skipped"
)

// Warning describes a non-fatal issue encountered during extraction.
// Extraction succeeded but the results for the named page may be degraded.
type Warning struct {
	// Code classifies the warning.
	Code WarningCode

	// Page is the 1-indexed page the warning applies to, 0 if document-wide.
	Page int

	// Message is a human-readable description.
	Message string
}

// String returns a formatted representation of the warning.
func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("[%s] page %d: %s", w.Code, w.Page, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}

// FormatWarnings joins warnings into a single semicolon-separated string,
// suitable for logging.
//
// Example:
//
//	doc, warnings, err := semchunk.Open("report.pdf").Document()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", semchunk.FormatWarnings(warnings))
//	}
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
