// Package heading scores text blocks for heading-likelihood using
// typographic and textual signals.
//
// Score is a pure, stateless classifier: identical inputs always produce
// identical output, every well-typed input (including empty text) is
// accepted, and the returned confidence is clamped to [0,1].
package heading

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/semchunk/model"
)

// Marker pairs a compiled heading-marker pattern with a name so individual
// patterns can be unit-tested and reported on.
type Marker struct {
	// Name identifies the pattern in tests and diagnostics.
	Name string

	// Pattern matches at the start of a candidate heading.
	Pattern *regexp.Regexp
}

// Markers is the fixed, ordered library of heading-marker patterns. The
// scorer awards the marker bonus for the first match only, so order is
// priority. CJK patterns come first: the weights were tuned on Japanese
// business and technical decks.
var Markers = []Marker{
	{"jp-chapter", regexp.MustCompile(`^第\s*[\d一二三四五六七八九十百千]+\s*[章節部編]`)},
	{"jp-enumeration", regexp.MustCompile(`^[一二三四五六七八九十]+[、．.]\s*\S`)},
	{"jp-bracketed", regexp.MustCompile(`^【.{1,20}】`)},
	{"jp-square-marker", regexp.MustCompile(`^■\s*\S`)},
	{"jp-triangle-marker", regexp.MustCompile(`^▼\s*\S`)},
	{"numbered-subsection", regexp.MustCompile(`^\d{1,2}\.\d{1,2}\s+\S`)},
	{"numbered-section", regexp.MustCompile(`^\d{1,2}\.\s+[A-Z\x{30A0}-\x{30FF}\x{4E00}-\x{9FFF}]`)},
	{"chapter", regexp.MustCompile(`(?i)^Chapter\s+\d+`)},
	{"section", regexp.MustCompile(`(?i)^Section\s+\d+`)},
	{"part", regexp.MustCompile(`(?i)^Part\s+\d+`)},
	{"roman-numeral", regexp.MustCompile(`(?i)^[IVXLCDM]{1,6}\.\s+\S`)},
}

// MatchMarker returns the first marker whose pattern matches the text, and
// whether any matched.
func MatchMarker(text string) (Marker, bool) {
	for _, m := range Markers {
		if m.Pattern.MatchString(text) {
			return m, true
		}
	}
	return Marker{}, false
}

// sentence-terminal punctuation that marks body text
var terminalPunct = []string{"。", ".", "!", "?", "！", "？"}

// Score rates a text block for heading-likelihood and assigns a heading
// level.
//
// Arguments:
//
//	text       normalized block text
//	size       maximum span font size in the block (pt)
//	bodySize   median span font size across the page (pt)
//	flags      OR of all span style flags in the block
//	y0         block top coordinate (pt from page top)
//	pageHeight page height (pt)
//
// It returns (level, score): level 0 is body text, 1-3 are headings with 1
// the highest rank; score is the accumulated confidence in [0,1].
func Score(text string, size, bodySize float64, flags model.StyleFlags, y0, pageHeight float64) (int, float64) {
	t := strings.TrimSpace(text)
	if t == "" {
		return 0, 0.0
	}

	score := 0.0

	// Font-size ratio against the page body size.
	ratio := 1.0
	if bodySize > 0 {
		ratio = size / bodySize
	}
	switch {
	case ratio >= 1.5:
		score += 0.50
	case ratio >= 1.25:
		score += 0.35
	case ratio >= 1.10:
		score += 0.20
	case ratio < 0.85:
		// Smaller than body text is almost never a heading.
		score -= 0.15
	}

	if flags.Bold() {
		score += 0.25
	}

	// Shorter text is more heading-like; very long text is body.
	switch n := utf8.RuneCountInString(t); {
	case n <= 15:
		score += 0.25
	case n <= 30:
		score += 0.15
	case n <= 50:
		score += 0.05
	case n > 120:
		score -= 0.20
	case n > 80:
		score -= 0.10
	}

	// Top of page is slightly more heading-likely.
	if pageHeight > 0 && y0 < pageHeight*0.12 {
		score += 0.05
	}

	if flags.Monospace() {
		score -= 0.30
	}

	for _, p := range terminalPunct {
		if strings.HasSuffix(t, p) {
			score -= 0.15
			break
		}
	}

	if _, ok := MatchMarker(t); ok {
		score += 0.30
	}

	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}

	return level(score, size, ratio), score
}

// level maps a clamped score plus size context to a heading level.
func level(score, size, ratio float64) int {
	switch {
	case score >= 0.60:
		switch {
		case size >= 20 || ratio >= 1.50:
			return 1
		case size >= 14 || ratio >= 1.25:
			return 2
		default:
			return 3
		}
	case score >= 0.35:
		return 3
	default:
		return 0
	}
}
