package pdfspans

import (
	"testing"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/tsawler/semchunk/model"
)

func frag(s string, x, y, w, size float64, font string) pdflib.Text {
	return pdflib.Text{S: s, X: x, Y: y, W: w, FontSize: size, Font: font}
}

func TestFlagsFromFont(t *testing.T) {
	tests := []struct {
		font string
		want model.StyleFlags
	}{
		{"NotoSans-Bold", model.FlagBold},
		{"Roboto-Black", model.FlagBold},
		{"Helvetica-BoldOblique", model.FlagBold | model.FlagItalic},
		{"Times-Italic", model.FlagItalic},
		{"Courier", model.FlagMonospace},
		{"JetBrainsMono-Regular", model.FlagMonospace},
		{"Helvetica", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := flagsFromFont(tt.font); got != tt.want {
			t.Errorf("flagsFromFont(%q) = %v, want %v", tt.font, got, tt.want)
		}
	}
}

func TestAssembleLinesJoinsWords(t *testing.T) {
	// Two fragments on one baseline with a word-sized gap, one fragment on
	// the line below. Page height 842, baselines bottom-up.
	frags := []pdflib.Text{
		frag("Hello", 72, 750, 30, 12, "Helvetica"),
		frag("world", 110, 750, 30, 12, "Helvetica"),
		frag("Second line", 72, 730, 66, 12, "Helvetica"),
	}

	spans := assembleLines(frags, 842)
	if len(spans) != 2 {
		t.Fatalf("line count = %d, want 2", len(spans))
	}
	if spans[0].Text != "Hello world" {
		t.Errorf("line 1 text = %q, want %q", spans[0].Text, "Hello world")
	}
	if spans[1].Text != "Second line" {
		t.Errorf("line 2 text = %q", spans[1].Text)
	}

	// Top-down: the higher baseline (750) maps to the smaller y.
	if spans[0].BBox.Y0 >= spans[1].BBox.Y0 {
		t.Errorf("lines not in top-down order: y0=%v then %v", spans[0].BBox.Y0, spans[1].BBox.Y0)
	}
	if spans[0].BBox.Y1 != 842-750 {
		t.Errorf("line 1 y1 = %v, want %v", spans[0].BBox.Y1, 842-750)
	}
	if spans[0].BBox.X0 != 72 || spans[0].BBox.X1 != 140 {
		t.Errorf("line 1 x extent = [%v, %v], want [72, 140]", spans[0].BBox.X0, spans[0].BBox.X1)
	}
}

func TestAssembleLinesNoSpaceForTightFragments(t *testing.T) {
	// Adjacent glyph runs with no real gap must not grow a space.
	frags := []pdflib.Text{
		frag("Over", 72, 700, 24, 12, "Helvetica"),
		frag("view", 96.5, 700, 24, 12, "Helvetica"),
	}
	spans := assembleLines(frags, 842)
	if len(spans) != 1 || spans[0].Text != "Overview" {
		t.Errorf("got %+v, want single span %q", spans, "Overview")
	}
}

func TestAssembleLinesBaselineTolerance(t *testing.T) {
	// Baselines 1.5pt apart count as one line; 5pt apart do not.
	same := assembleLines([]pdflib.Text{
		frag("a", 72, 700, 6, 12, ""),
		frag("b", 90, 701.5, 6, 12, ""),
	}, 842)
	if len(same) != 1 {
		t.Errorf("1.5pt baseline delta: %d lines, want 1", len(same))
	}

	split := assembleLines([]pdflib.Text{
		frag("a", 72, 700, 6, 12, ""),
		frag("b", 90, 695, 6, 12, ""),
	}, 842)
	if len(split) != 2 {
		t.Errorf("5pt baseline delta: %d lines, want 2", len(split))
	}
}

func TestGroupIntoBlocks(t *testing.T) {
	// Three lines: two tightly leaded, then a paragraph gap.
	spans := []model.Span{
		{Text: "line 1", BBox: model.BBox{X0: 72, Y0: 100, X1: 300, Y1: 112}, FontSize: 12},
		{Text: "line 2", BBox: model.BBox{X0: 72, Y0: 114, X1: 300, Y1: 126}, FontSize: 12},
		{Text: "line 3", BBox: model.BBox{X0: 72, Y0: 150, X1: 300, Y1: 162}, FontSize: 12},
	}

	got := groupIntoBlocks(spans)
	if got[0].Block != 0 || got[1].Block != 0 {
		t.Errorf("tightly leaded lines split: blocks %d, %d", got[0].Block, got[1].Block)
	}
	if got[2].Block != 1 {
		t.Errorf("paragraph gap not split: block %d, want 1", got[2].Block)
	}
}

func TestGroupIntoBlocksEmpty(t *testing.T) {
	if got := groupIntoBlocks(nil); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open("/no/such/file.pdf"); err == nil {
		t.Error("expected error for missing file")
	}
}
