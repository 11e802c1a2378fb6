package normalize

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "hello world", "hello world"},
		{"fullwidth to ascii", "ＡＢＣ１２３", "ABC123"},
		{"ligature", "ﬁle", "file"},
		{"nbsp", "a b", "a b"},
		{"ideographic space", "a　b", "a b"},
		{"tab runs", "a\t\t  b", "a b"},
		{"trailing spaces per line", "a  \nb\t\n", "a\nb"},
		{"collapse blank lines", "a\n\n\n\n\nb", "a\n\nb"},
		{"two newlines preserved", "a\n\nb", "a\n\nb"},
		{"outer trim", "  centered  ", "centered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"ＡＢＣ　ｄｅｆ",
		"line one   \n\n\n\nline two\t",
		"• bullet\n・another",
		"1. Overview\nBody text.",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestStripBullet(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"round bullet", "• item", "item"},
		{"cjk middle dot", "・項目", "項目"},
		{"dash", "- item", "item"},
		{"em dash", "— item", "item"},
		{"asterisk", "* item", "item"},
		{"leading indent", "   • item", "item"},
		{"only one glyph removed", "•• item", "• item"},
		{"no bullet", "plain", "plain"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripBullet(tt.input); got != tt.want {
				t.Errorf("StripBullet(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripBullets(t *testing.T) {
	input := "• first\n- second\nthird"
	want := "first\nsecond\nthird"
	if got := StripBullets(input); got != want {
		t.Errorf("StripBullets() = %q, want %q", got, want)
	}
}

func TestExtractNumbers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"no numbers", "hello world", nil},
		{"integer", "there are 42 items", []string{"42"}},
		{"decimal", "pi is 3.14", []string{"3.14"}},
		{"comma grouped", "revenue of 1,234,567 yen", []string{"1,234,567"}},
		{"percent", "growth of 12.5% this year", []string{"12.5%"}},
		{"spaced percent", "about 30 % done", []string{"30%"}},
		{"order preserved", "10 before 2.5 before 99%", []string{"10", "2.5", "99%"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractNumbers(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractNumbers(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
