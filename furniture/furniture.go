// Package furniture reclassifies repeated page furniture: chunks whose
// text recurs across many pages at a consistent vertical position are
// relabeled as headers or footers.
//
// The isolator is a pure relabeling pass. It never deletes or reorders
// chunks, and the only field it touches is BlockType.
package furniture

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/semchunk/model"
)

// defaultPageHeight is assumed for pages with no recorded height (A4, pt).
const defaultPageHeight = 842.0

// pageNumberRe matches short digit/punctuation-only tokens such as "3",
// "- 12 -", or "4/10" that behave like page numbers.
var pageNumberRe = regexp.MustCompile(`^[\d\s\-–—|/\\·•]+$`)

// Config holds the thresholds for repeated-element detection. The defaults
// are empirically tuned policy values; treat them as replaceable, not as
// part of the output contract.
type Config struct {
	// MinPageFraction is the fraction of pages a text must recur on to be
	// a repeated-element candidate.
	// Default: 0.40
	MinPageFraction float64 `yaml:"min_page_fraction"`

	// TopThreshold is the fraction of page height defining "near top".
	// Default: 0.12
	TopThreshold float64 `yaml:"top_threshold"`

	// BottomThreshold is the fraction of page height defining "near bottom".
	// Default: 0.12
	BottomThreshold float64 `yaml:"bottom_threshold"`

	// AgreeFraction is the fraction of a group's occurrences that must
	// agree on one position class before the group is relabeled.
	// Default: 0.70
	AgreeFraction float64 `yaml:"agree_fraction"`

	// PageNumberFraction is the lower recurrence bar for short
	// page-number-like tokens.
	// Default: 0.25
	PageNumberFraction float64 `yaml:"page_number_fraction"`

	// PageNumberMaxLen is the maximum length of a page-number-like token.
	// Default: 6
	PageNumberMaxLen int `yaml:"page_number_max_len"`
}

// DefaultConfig returns the tuned default thresholds.
func DefaultConfig() Config {
	return Config{
		MinPageFraction:    0.40,
		TopThreshold:       0.12,
		BottomThreshold:    0.12,
		AgreeFraction:      0.70,
		PageNumberFraction: 0.25,
		PageNumberMaxLen:   6,
	}
}

// Isolator detects and relabels repeated headers and footers across a
// document's chunks.
type Isolator struct {
	config Config
}

// NewIsolator creates an Isolator with default configuration.
func NewIsolator() *Isolator {
	return &Isolator{config: DefaultConfig()}
}

// NewIsolatorWithConfig creates an Isolator with custom configuration.
func NewIsolatorWithConfig(config Config) *Isolator {
	return &Isolator{config: config}
}

// position classes for a chunk occurrence
type position int

const (
	posMiddle position = iota
	posTop
	posBottom
)

// Isolate relabels repeated top/bottom chunks as headers or footers.
// Chunks are mutated in place (BlockType only) and the same slice is
// returned for chaining. pageHeights maps page number to page height;
// missing pages assume A4.
//
// The pass is two-phase: group chunk indices by exact normalized text,
// then classify each qualifying group by where its occurrences sit on
// their pages.
func (iso *Isolator) Isolate(chunks []*model.Chunk, pageCount int, pageHeights map[int]float64) []*model.Chunk {
	if len(chunks) == 0 || pageCount < 2 {
		return chunks
	}

	minPages := max(2, int(float64(pageCount)*iso.config.MinPageFraction))
	minNumPages := max(2, int(float64(pageCount)*iso.config.PageNumberFraction))

	byText := make(map[string][]int)
	order := make([]string, 0)
	for i, ch := range chunks {
		nt := strings.TrimSpace(ch.NormalizedText)
		if nt == "" {
			continue
		}
		if _, seen := byText[nt]; !seen {
			order = append(order, nt)
		}
		byText[nt] = append(byText[nt], i)
	}

	for _, nt := range order {
		indices := byText[nt]
		if len(indices) < minPages {
			// Short page-number-like tokens qualify at a lower bar.
			if !iso.pageNumberLike(nt) || len(indices) < minNumPages {
				continue
			}
		}

		topCount, botCount := 0, 0
		for _, i := range indices {
			switch iso.classify(chunks[i], pageHeights) {
			case posTop:
				topCount++
			case posBottom:
				botCount++
			}
		}

		need := float64(len(indices)) * iso.config.AgreeFraction
		switch {
		case float64(topCount) >= need:
			for _, i := range indices {
				chunks[i].BlockType = model.BlockHeader
			}
		case float64(botCount) >= need:
			for _, i := range indices {
				chunks[i].BlockType = model.BlockFooter
			}
		}
	}

	return chunks
}

// pageNumberLike reports whether the text is a short digit/punctuation-only
// token. Length is counted in runes: the token set admits multibyte glyphs
// like dashes and middle dots.
func (iso *Isolator) pageNumberLike(text string) bool {
	return utf8.RuneCountInString(text) <= iso.config.PageNumberMaxLen && pageNumberRe.MatchString(text)
}

// classify buckets one occurrence by its vertical position on the page.
func (iso *Isolator) classify(ch *model.Chunk, pageHeights map[int]float64) position {
	ph, ok := pageHeights[ch.PageNo]
	if !ok || ph <= 0 {
		ph = defaultPageHeight
	}
	if ch.BBox.Y0 < ph*iso.config.TopThreshold {
		return posTop
	}
	if ch.BBox.Y1 > ph*(1.0-iso.config.BottomThreshold) {
		return posBottom
	}
	return posMiddle
}
