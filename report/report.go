// Package report aggregates an extraction document into quality metrics
// and a list of suspicious-chunk flags for human triage.
//
// The report is descriptive, not a pass/fail verdict: its flag checks
// overlap with the contract validator but run independently, so a report
// can be built over a document that would fail validation.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tsawler/semchunk/model"
)

// Flag records one suspicious chunk and why it was flagged.
type Flag struct {
	ChunkID string `json:"chunk_id"`
	PageNo  int    `json:"page_no"`
	Reason  string `json:"reason"`
}

// Metrics holds the aggregate counts for a document.
type Metrics struct {
	TotalChunks          int            `json:"total_chunks"`
	ChunksByBlockType    map[string]int `json:"chunks_by_block_type"`
	ChunksByHeadingLevel map[string]int `json:"chunks_by_heading_level"`
	AvgChunksPerPage     float64        `json:"avg_chunks_per_page"`
	PagesWithHeaders     int            `json:"pages_with_headers"`
	PagesWithFooters     int            `json:"pages_with_footers"`
}

// Report is the persisted quality report for one extraction run.
type Report struct {
	Extractor       string  `json:"extractor"`
	SchemaVersion   string  `json:"schema_version"`
	DocumentID      string  `json:"document_id"`
	SourcePath      string  `json:"source_path"`
	PageCount       int     `json:"page_count"`
	GeneratedAt     string  `json:"generated_at"`
	Metrics         Metrics `json:"metrics"`
	SuspiciousFlags []Flag  `json:"suspicious_flags"`
}

// Build aggregates a document into a Report. The document does not need to
// pass contract validation first.
func Build(doc *model.Document) *Report {
	byType := make(map[string]int)
	byLevel := make(map[string]int)
	headerPages := make(map[int]bool)
	footerPages := make(map[int]bool)

	for _, ch := range doc.Chunks {
		byType[string(ch.BlockType)]++
		byLevel[strconv.Itoa(ch.HeadingLevel)]++
		switch ch.BlockType {
		case model.BlockHeader:
			headerPages[ch.PageNo] = true
		case model.BlockFooter:
			footerPages[ch.PageNo] = true
		}
	}

	avg := 0.0
	if doc.Info.PageCount > 0 {
		avg = math.Round(float64(len(doc.Chunks))/float64(doc.Info.PageCount)*1000) / 1000
	}

	return &Report{
		Extractor:     "semchunk",
		SchemaVersion: model.SchemaVersion,
		DocumentID:    doc.Info.DocumentID,
		SourcePath:    doc.Info.SourcePath,
		PageCount:     doc.Info.PageCount,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Metrics: Metrics{
			TotalChunks:          len(doc.Chunks),
			ChunksByBlockType:    byType,
			ChunksByHeadingLevel: byLevel,
			AvgChunksPerPage:     avg,
			PagesWithHeaders:     len(headerPages),
			PagesWithFooters:     len(footerPages),
		},
		SuspiciousFlags: collectFlags(doc.Chunks),
	}
}

// collectFlags re-derives the suspicious-chunk list. Each check is
// independent: one chunk can produce several flags.
func collectFlags(chunks []*model.Chunk) []Flag {
	flags := []Flag{}
	seenIDs := make(map[string]bool)
	seenOrders := make(map[int]bool)

	for _, ch := range chunks {
		cid := ch.ChunkID
		if cid == "" {
			cid = "<missing>"
			flags = append(flags, Flag{ChunkID: cid, PageNo: ch.PageNo, Reason: "missing field 'chunk_id'"})
		} else if !model.ChunkIDPattern.MatchString(ch.ChunkID) {
			flags = append(flags, Flag{ChunkID: cid, PageNo: ch.PageNo, Reason: "chunk_id fails pattern ^[A-Za-z0-9_-]{1,64}$"})
		}

		if ch.ChunkID != "" {
			if seenIDs[ch.ChunkID] {
				flags = append(flags, Flag{ChunkID: cid, PageNo: ch.PageNo, Reason: "duplicate chunk_id"})
			}
			seenIDs[ch.ChunkID] = true
		}

		if seenOrders[ch.Order] {
			flags = append(flags, Flag{ChunkID: cid, PageNo: ch.PageNo, Reason: fmt.Sprintf("duplicate order=%d", ch.Order)})
		}
		seenOrders[ch.Order] = true

		if !ch.BlockType.Valid() {
			flags = append(flags, Flag{ChunkID: cid, PageNo: ch.PageNo, Reason: fmt.Sprintf("unknown block_type %q", ch.BlockType)})
		}

		if strings.TrimSpace(ch.NormalizedText) == "" {
			flags = append(flags, Flag{ChunkID: cid, PageNo: ch.PageNo, Reason: "empty normalized_text"})
		}

		w := ch.BBox.Width()
		h := ch.BBox.Height()
		switch {
		case w < 0 || h < 0:
			flags = append(flags, Flag{ChunkID: cid, PageNo: ch.PageNo, Reason: fmt.Sprintf("degenerate bbox (w=%.1f, h=%.1f)", w, h)})
		case w > 3000 || h > 3000:
			flags = append(flags, Flag{ChunkID: cid, PageNo: ch.PageNo, Reason: fmt.Sprintf("suspiciously large bbox (w=%.1f, h=%.1f)", w, h)})
		case w < 1 || h < 1:
			flags = append(flags, Flag{ChunkID: cid, PageNo: ch.PageNo, Reason: fmt.Sprintf("suspiciously small bbox (w=%.2f, h=%.2f)", w, h)})
		}
	}

	return flags
}

// WriteFile writes the report as indented JSON.
func (r *Report) WriteFile(path string) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
