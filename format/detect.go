// Package format provides input format detection for semchunk.
package format

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// SpanDump indicates a JSON span dump produced by an external
	// page-geometry extractor.
	SpanDump
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case SpanDump:
		return "SpanDump"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case SpanDump:
		return ".json"
	default:
		return ""
	}
}

// Detect determines input format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF
	case ".json":
		return SpanDump
	default:
		return Unknown
	}
}

// DetectFromMagic checks leading bytes to determine format. This is more
// reliable than extension-based detection. Returns Unknown if the content
// is neither a PDF nor a JSON object.
func DetectFromMagic(data []byte) Format {
	if len(data) >= 4 && data[0] == '%' && data[1] == 'P' && data[2] == 'D' && data[3] == 'F' {
		return PDF
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return SpanDump
	}

	return Unknown
}
