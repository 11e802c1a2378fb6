// Package normalize canonicalizes raw extracted text: Unicode
// compatibility folding, whitespace collapse, bullet stripping, and
// numeric-token extraction.
//
// All functions are pure and total; they accept any string, including the
// empty string, and Normalize is idempotent.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// Bullet glyphs: ASCII markers, Unicode general bullets, CJK middle
	// dot, dashes, and corner brackets used as list markers.
	bulletRe = regexp.MustCompile(`^[\x{2022}\x{2023}\x{25E6}\x{2043}\x{2219}\x{25CF}\x{25CB}\x{25AA}\x{25AB}` +
		`\x{30FB}\x{2024}\x{2025}\x{2026}\-\x{2013}\x{2014}\x{300C}\x{300D}*]\s*`)

	horizWSRe  = regexp.MustCompile(`[ \t\x{3000}\x{2003}\x{2002}]+`)
	excessNLRe = regexp.MustCompile(`\n{3,}`)
	numberRe   = regexp.MustCompile(`\d[\d,]*\.?\d*(?:\s*%)?`)
)

// Normalize applies the full normalization pipeline:
//
//  1. NFKC folding (fullwidth forms, ligatures, compatibility characters)
//  2. non-breaking and ideographic spaces become ordinary spaces
//  3. runs of horizontal whitespace collapse to one space
//  4. trailing whitespace is stripped per line
//  5. runs of 3+ newlines collapse to exactly one blank line
//  6. leading/trailing whitespace is trimmed
func Normalize(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ReplaceAll(text, " ", " ")
	text = strings.ReplaceAll(text, "　", " ")
	text = horizWSRe.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	text = strings.Join(lines, "\n")

	text = excessNLRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// StripBullet removes a single leading bullet glyph from one line of text.
func StripBullet(line string) string {
	return bulletRe.ReplaceAllString(strings.TrimLeft(line, " \t"), "")
}

// StripBullets applies StripBullet to every line of a multi-line string.
func StripBullets(text string) string {
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = StripBullet(lines[i])
	}
	return strings.Join(lines, "\n")
}

// ExtractNumbers returns all numeric tokens in text, in order of
// appearance. Tokens may be comma-grouped, carry a decimal part, and end
// with a percent sign.
func ExtractNumbers(text string) []string {
	tokens := numberRe.FindAllString(text, -1)
	for i, tok := range tokens {
		tokens[i] = strings.Join(strings.Fields(tok), "")
	}
	return tokens
}
