// Package chunker fuses a page's scored blocks into larger body blocks and
// groups them into semantic chunks at heading boundaries.
//
// Both passes are single left-to-right scans over page-ordered input:
// order-preserving and O(n).
package chunker

import (
	"github.com/tsawler/semchunk/model"
)

// DefaultMaxGap is the default maximum vertical gap, in page units, between
// two blocks that may still be merged. An empirically tuned policy value,
// not part of the output contract.
const DefaultMaxGap = 4.0

// overlapFloor is the largest visual overlap (negative gap) still treated
// as adjacency. Blocks overlapping more than this are distinct regions
// stacked by the source and are left alone.
const overlapFloor = -20.0

// MergeBlocks fuses vertically adjacent non-heading blocks whose gap lies
// in (overlapFloor, maxGap]. Merging unions the bounding boxes, joins the
// texts with a newline, concatenates the span lists, and resets heading
// fields to body defaults. Heading blocks never merge, and blocks on
// different pages never merge.
func MergeBlocks(blocks []model.RawBlock, maxGap float64) []model.RawBlock {
	if len(blocks) == 0 {
		return nil
	}

	merged := make([]model.RawBlock, 0, len(blocks))
	merged = append(merged, blocks[0])

	for _, blk := range blocks[1:] {
		prev := &merged[len(merged)-1]

		if blk.IsHeading() || prev.IsHeading() || blk.Page != prev.Page {
			merged = append(merged, blk)
			continue
		}

		// Negative gap means visual overlap; large positive gap means an
		// unrelated region further down the page.
		gap := blk.BBox.Y0 - prev.BBox.Y1
		if gap > overlapFloor && gap <= maxGap {
			prev.BBox = prev.BBox.Union(blk.BBox)
			prev.Text = prev.Text + "\n" + blk.Text
			prev.NormalizedText = prev.NormalizedText + "\n" + blk.NormalizedText
			prev.Spans = append(prev.Spans, blk.Spans...)
			prev.HeadingLevel = 0
			prev.HeadingScore = 0
		} else {
			merged = append(merged, blk)
		}
	}

	return merged
}

// BuildSemanticChunks groups merged blocks into semantic chunks. A new
// chunk starts at every heading block; body blocks accumulate under the
// current heading, or under a headless preamble chunk when no heading has
// been seen yet. Every returned chunk has at least one contributing block.
func BuildSemanticChunks(blocks []model.RawBlock) []model.SemanticChunk {
	if len(blocks) == 0 {
		return nil
	}

	var (
		chunks  []model.SemanticChunk
		heading *model.RawBlock
		body    []model.RawBlock
	)

	flush := func() {
		var all []model.RawBlock
		if heading != nil {
			all = append(all, *heading)
		}
		all = append(all, body...)
		if len(all) == 0 {
			return
		}

		bbox := all[0].BBox
		var spans []model.Span
		for i, b := range all {
			if i > 0 {
				bbox = bbox.Union(b.BBox)
			}
			spans = append(spans, b.Spans...)
		}

		sc := model.SemanticChunk{
			Page:  all[0].Page,
			BBox:  bbox,
			Spans: spans,
		}
		if heading != nil {
			sc.HeadingText = heading.NormalizedText
			sc.HeadingLevel = heading.HeadingLevel
		}
		for _, b := range body {
			sc.BodyTexts = append(sc.BodyTexts, b.NormalizedText)
		}

		chunks = append(chunks, sc)
		heading = nil
		body = nil
	}

	for i := range blocks {
		if blocks[i].IsHeading() {
			flush()
			heading = &blocks[i]
		} else {
			body = append(body, blocks[i])
		}
	}
	flush()

	return chunks
}
