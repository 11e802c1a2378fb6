package semchunk

import (
	"crypto/sha256"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/tsawler/semchunk/chunker"
	"github.com/tsawler/semchunk/format"
	"github.com/tsawler/semchunk/furniture"
	"github.com/tsawler/semchunk/heading"
	"github.com/tsawler/semchunk/model"
	"github.com/tsawler/semchunk/normalize"
	"github.com/tsawler/semchunk/source"
	"github.com/tsawler/semchunk/source/pdfspans"
	"github.com/tsawler/semchunk/source/spandump"
)

// defaultBodySize is assumed when a page has no sized spans.
const defaultBodySize = 12.0

// Extractor provides a fluent interface for extracting semantic chunks
// from PDFs and span dumps. Each configuration method returns a new
// Extractor instance, making it safe for concurrent use and allowing
// method chaining.
type Extractor struct {
	// Source
	filename string

	src          source.Source
	ownsSource   bool // true if we opened the source and should close it
	sourceOpened bool

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during processing
	warnings []Warning
}

// clone creates a shallow copy of the Extractor with a copy of options.
// This ensures immutability: each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:     e.filename,
		src:          e.src,
		ownsSource:   e.ownsSource,
		sourceOpened: e.sourceOpened,
		options:      e.options.clone(),
		err:          e.err,
		warnings:     append([]Warning(nil), e.warnings...),
	}
}

// ensureSource opens the page-geometry source if not already open.
func (e *Extractor) ensureSource() error {
	if e.sourceOpened {
		return nil
	}
	if e.filename == "" {
		return fmt.Errorf("no filename specified")
	}

	kind := format.Detect(e.filename)
	if kind == format.Unknown {
		kind = sniffFormat(e.filename)
	}

	switch kind {
	case format.SpanDump:
		d, err := spandump.Open(e.filename)
		if err != nil {
			return fmt.Errorf("failed to open span dump: %w", err)
		}
		e.src = d
	case format.PDF:
		p, err := pdfspans.Open(e.filename)
		if err != nil {
			return fmt.Errorf("failed to open PDF: %w", err)
		}
		e.src = p
	default:
		return fmt.Errorf("unsupported input format: %s", e.filename)
	}

	e.ownsSource = true
	e.sourceOpened = true
	return nil
}

// sniffFormat detects the input format from leading file bytes, for inputs
// whose extension is missing or unrecognized.
func sniffFormat(path string) format.Format {
	f, err := os.Open(path)
	if err != nil {
		return format.Unknown
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	return format.DetectFromMagic(buf[:n])
}

// Close releases resources associated with the Extractor.
// It is safe to call Close multiple times.
func (e *Extractor) Close() error {
	if e.ownsSource && e.src != nil {
		err := e.src.Close()
		e.src = nil
		e.ownsSource = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// MergeGap sets the maximum vertical gap (in page units) across which
// adjacent body blocks are merged. The default is chunker.DefaultMaxGap.
//
// Example:
//
//	doc, _, err := semchunk.Open("report.pdf").MergeGap(6.0).Document()
func (e *Extractor) MergeGap(gap float64) *Extractor {
	newExt := e.clone()
	newExt.options.mergeGap = gap
	return newExt
}

// NoMerge disables block merging: every native block becomes its own unit
// for semantic grouping.
//
// Example:
//
//	doc, _, err := semchunk.Open("report.pdf").NoMerge().Document()
func (e *Extractor) NoMerge() *Extractor {
	newExt := e.clone()
	newExt.options.merge = false
	return newExt
}

// NoFurniture disables header/footer isolation: all chunks keep block
// type "text".
//
// Example:
//
//	doc, _, err := semchunk.Open("report.pdf").NoFurniture().Document()
func (e *Extractor) NoFurniture() *Extractor {
	newExt := e.clone()
	newExt.options.isolateFurniture = false
	return newExt
}

// FurnitureConfig replaces the header/footer detection thresholds.
//
// Example:
//
//	cfg := furniture.DefaultConfig()
//	cfg.MinPageFraction = 0.5
//	doc, _, err := semchunk.Open("report.pdf").FurnitureConfig(cfg).Document()
func (e *Extractor) FurnitureConfig(cfg furniture.Config) *Extractor {
	newExt := e.clone()
	newExt.options.furnitureConfig = cfg
	return newExt
}

// IncludeSpans embeds per-span detail in each chunk's meta. Output grows
// considerably.
//
// Example:
//
//	doc, _, err := semchunk.Open("report.pdf").IncludeSpans().Document()
func (e *Extractor) IncludeSpans() *Extractor {
	newExt := e.clone()
	newExt.options.includeSpans = true
	return newExt
}

// DocumentID overrides the document identifier derived from the source
// filename. The id must match the chunk identifier pattern.
//
// Example:
//
//	doc, _, err := semchunk.Open("in.pdf").DocumentID("q3-report").Document()
func (e *Extractor) DocumentID(id string) *Extractor {
	newExt := e.clone()
	newExt.options.documentID = id
	return newExt
}

// Concurrency sets the number of workers for per-page extraction. Pages
// are processed independently and reassembled in page order, so output is
// identical for any worker count. Values below 1 are treated as 1.
//
// Example:
//
//	doc, _, err := semchunk.Open("big.pdf").Concurrency(4).Document()
func (e *Extractor) Concurrency(n int) *Extractor {
	newExt := e.clone()
	if n < 1 {
		n = 1
	}
	newExt.options.concurrency = n
	return newExt
}

// ============================================================================
// Terminal Operations (execute extraction and return results)
// ============================================================================

// PageCount returns the total number of pages in the input.
// Note: This does NOT close the source, allowing further operations.
//
// Example:
//
//	ext := semchunk.Open("report.pdf")
//	defer ext.Close()
//	count, err := ext.PageCount()
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if err := e.ensureSource(); err != nil {
		return 0, err
	}
	return e.src.PageCount(), nil
}

// Document runs the full pipeline and returns the extraction result.
// This is a terminal operation that closes the underlying source when the
// Extractor owns it.
//
// Returns the document, any warnings encountered during processing, and
// an error if extraction failed. A document with zero chunks is a fatal
// condition reported as ErrNoText; no partial document is returned.
//
// Example:
//
//	doc, warnings, err := semchunk.Open("report.pdf").Document()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", semchunk.FormatWarnings(warnings))
//	}
func (e *Extractor) Document() (*model.Document, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if err := e.ensureSource(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	pageCount := e.src.PageCount()
	if pageCount < 1 {
		return nil, e.warnings, fmt.Errorf("source reports no pages")
	}

	docID := e.options.documentID
	if docID == "" {
		docID = e.src.DocumentID()
	}
	if !model.ChunkIDPattern.MatchString(docID) {
		return nil, e.warnings, fmt.Errorf("document id %q does not match the identifier pattern", docID)
	}
	// Chunk ids append "_pNNN_cNNNNN"; keep the full id inside the 64-char
	// pattern cap.
	if len(docID) > 52 {
		docID = strings.TrimRight(docID[:52], "_-")
	}

	results, err := e.extractPages(pageCount)
	if err != nil {
		return nil, e.warnings, err
	}

	// Single-threaded numbering pass over pages in order.
	asm := &assembler{docID: docID, includeSpans: e.options.includeSpans}
	var chunks []*model.Chunk
	pageHeights := make(map[int]float64, pageCount)

	for _, pr := range results {
		pageHeights[pr.page.Number] = pr.page.Height
		if pr.page.Height <= 0 {
			e.warn(WarnNoPageHeight, pr.page.Number, "page reports no height; assuming A4")
		}

		if len(pr.chunks) == 0 {
			if pr.fallback != "" {
				chunks = append(chunks, asm.fromPageText(pr.page, pr.fallback, pr.bodySize))
				e.warn(WarnPageFallback, pr.page.Number, "no structured blocks; emitted whole-page text")
			} else {
				e.warn(WarnEmptyPage, pr.page.Number, "no text found")
			}
			continue
		}

		for i := range pr.chunks {
			if c := asm.fromSemantic(&pr.chunks[i], pr.bodySize); c != nil {
				chunks = append(chunks, c)
			}
		}
	}

	if len(chunks) == 0 {
		return nil, e.warnings, fmt.Errorf("%s: %w", e.src.SourcePath(), ErrNoText)
	}

	if e.options.isolateFurniture {
		if pageCount < 2 {
			e.warn(WarnFurnitureSkipped, 0, "single-page document; header/footer isolation skipped")
		} else {
			iso := furniture.NewIsolatorWithConfig(e.options.furnitureConfig)
			chunks = iso.Isolate(chunks, pageCount, pageHeights)
		}
	}

	return &model.Document{
		Version: model.SchemaVersion,
		Info: model.DocumentInfo{
			DocumentID: docID,
			SourceType: "pdf",
			SourcePath: e.src.SourcePath(),
			PageCount:  pageCount,
		},
		Chunks: chunks,
	}, e.warnings, nil
}

// Chunks runs the pipeline and returns just the chunk list.
// This is a terminal operation that closes the underlying source when the
// Extractor owns it.
//
// Example:
//
//	chunks, warnings, err := semchunk.Open("report.pdf").Chunks()
func (e *Extractor) Chunks() ([]*model.Chunk, []Warning, error) {
	doc, warnings, err := e.Document()
	if err != nil {
		return nil, warnings, err
	}
	return doc.Chunks, warnings, nil
}

func (e *Extractor) warn(code WarningCode, page int, msg string) {
	e.warnings = append(e.warnings, Warning{Code: code, Page: page, Message: msg})
}

// ============================================================================
// Pipeline internals
// ============================================================================

// pageResult is one page's output before global numbering.
type pageResult struct {
	page     *model.Page
	chunks   []model.SemanticChunk
	bodySize float64

	// fallback carries the normalized whole-page text when no structured
	// blocks were found; empty when the page produced chunks or nothing.
	fallback string
}

// extractPages runs per-page extraction, sequentially or on a bounded
// worker pool, and returns results in page order.
func (e *Extractor) extractPages(pageCount int) ([]pageResult, error) {
	results := make([]pageResult, pageCount)

	if e.options.concurrency <= 1 {
		for n := 1; n <= pageCount; n++ {
			page, err := e.src.Page(n)
			if err != nil {
				return nil, fmt.Errorf("page %d: %w", n, err)
			}
			results[n-1] = extractPage(page, e.options)
		}
		return results, nil
	}

	// Page reads stay on this goroutine; sources are not required to be
	// safe for concurrent access. Only the pure per-page pipeline fans out.
	type job struct {
		index int
		page  *model.Page
	}
	jobs := make(chan job)
	var wg sync.WaitGroup
	for w := 0; w < e.options.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.index] = extractPage(j.page, e.options)
			}
		}()
	}

	var readErr error
	for n := 1; n <= pageCount; n++ {
		page, err := e.src.Page(n)
		if err != nil {
			readErr = fmt.Errorf("page %d: %w", n, err)
			break
		}
		jobs <- job{index: n - 1, page: page}
	}
	close(jobs)
	wg.Wait()

	if readErr != nil {
		return nil, readErr
	}
	return results, nil
}

// extractPage runs the per-page pipeline: group spans into blocks, score
// headings against the page body size, optionally merge, and build
// semantic chunks. It is pure and safe to run concurrently across pages.
func extractPage(page *model.Page, opts ExtractOptions) pageResult {
	blocks, bodySize := buildRawBlocks(page)

	if len(blocks) == 0 {
		return pageResult{
			page:     page,
			bodySize: bodySize,
			fallback: wholePageText(page),
		}
	}

	if opts.merge {
		blocks = chunker.MergeBlocks(blocks, opts.mergeGap)
	}

	return pageResult{
		page:     page,
		chunks:   chunker.BuildSemanticChunks(blocks),
		bodySize: bodySize,
	}
}

// buildRawBlocks groups a page's spans by native block index, computes the
// page body font size, and assigns heading levels.
func buildRawBlocks(page *model.Page) ([]model.RawBlock, float64) {
	type blockMeta struct {
		maxSize float64
		flags   model.StyleFlags
	}

	var blocks []model.RawBlock
	var metas []blockMeta
	var spanSizes []float64
	blockIndex := make(map[int]int)

	for _, span := range page.Spans {
		if strings.TrimSpace(span.Text) == "" {
			continue
		}
		if span.FontSize > 0 {
			spanSizes = append(spanSizes, span.FontSize)
		}

		idx, ok := blockIndex[span.Block]
		if !ok {
			idx = len(blocks)
			blockIndex[span.Block] = idx
			blocks = append(blocks, model.RawBlock{Page: page.Number, BBox: span.BBox})
			metas = append(metas, blockMeta{})
		}

		b := &blocks[idx]
		if len(b.Spans) == 0 {
			b.BBox = span.BBox
		} else {
			b.BBox = b.BBox.Union(span.BBox)
		}
		b.Spans = append(b.Spans, span)

		m := &metas[idx]
		if span.FontSize > m.maxSize {
			m.maxSize = span.FontSize
		}
		m.flags |= span.Flags
	}

	bodySize := median(spanSizes)

	// Second pass: render text and score. Blocks whose text normalizes to
	// nothing are dropped.
	out := blocks[:0]
	for i := range blocks {
		b := blocks[i]
		texts := make([]string, len(b.Spans))
		for j, s := range b.Spans {
			texts[j] = s.Text
		}
		b.Text = strings.Join(texts, " ")
		b.NormalizedText = normalize.Normalize(b.Text)
		if b.NormalizedText == "" {
			continue
		}
		b.HeadingLevel, b.HeadingScore = heading.Score(
			b.NormalizedText, metas[i].maxSize, bodySize, metas[i].flags, b.BBox.Y0, page.Height)
		out = append(out, b)
	}

	return out, bodySize
}

// wholePageText joins all raw span text on the page and normalizes it.
func wholePageText(page *model.Page) string {
	var lines []string
	for _, span := range page.Spans {
		if strings.TrimSpace(span.Text) != "" {
			lines = append(lines, span.Text)
		}
	}
	return normalize.Normalize(strings.Join(lines, "\n"))
}

// median returns the median of sizes, or defaultBodySize when empty.
func median(sizes []float64) float64 {
	if len(sizes) == 0 {
		return defaultBodySize
	}
	sorted := append([]float64(nil), sizes...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// ============================================================================
// Chunk assembly
// ============================================================================

// assembler assigns global order and identity to finished chunks. It is
// single-threaded: order must be monotonic across the whole document.
type assembler struct {
	docID        string
	includeSpans bool
	order        int
}

// fromSemantic converts one semantic chunk to an output chunk. Chunks whose
// text is blank are skipped and consume no order number.
func (a *assembler) fromSemantic(sc *model.SemanticChunk, bodySize float64) *model.Chunk {
	text := sc.Text()
	if strings.TrimSpace(text) == "" {
		return nil
	}

	a.order++
	meta := map[string]any{"body_font_size": round2(bodySize)}
	if len(sc.BodyTexts) > 0 {
		meta["body_line_count"] = len(sc.BodyTexts)
	}
	if a.includeSpans && len(sc.Spans) > 0 {
		meta["spans"] = sc.Spans
	}

	return &model.Chunk{
		ChunkID:        a.chunkID(sc.Page),
		BlockType:      model.BlockText,
		PageNo:         sc.Page,
		Order:          a.order,
		BBox:           sc.BBox.Round(),
		Text:           text,
		NormalizedText: text,
		HeadingLevel:   sc.HeadingLevel,
		Numbers:        normalize.ExtractNumbers(text),
		Hash:           contentHash(text, sc.Page),
		Meta:           meta,
	}
}

// fromPageText builds the degraded-mode chunk for a page with no
// structured blocks: the whole page text under the full-page bbox.
func (a *assembler) fromPageText(page *model.Page, text string, bodySize float64) *model.Chunk {
	a.order++
	bbox := model.BBox{X1: page.Width, Y1: page.Height}
	return &model.Chunk{
		ChunkID:        a.chunkID(page.Number),
		BlockType:      model.BlockText,
		PageNo:         page.Number,
		Order:          a.order,
		BBox:           bbox.Round(),
		Text:           text,
		NormalizedText: text,
		HeadingLevel:   0,
		Numbers:        normalize.ExtractNumbers(text),
		Hash:           contentHash(text, page.Number),
		Meta: map[string]any{
			"body_font_size": round2(bodySize),
			"fallback":       "page_text",
		},
	}
}

func (a *assembler) chunkID(pageNo int) string {
	return fmt.Sprintf("%s_p%03d_c%05d", a.docID, pageNo, a.order)
}

// contentHash is a short reproducibility fingerprint over page number and
// chunk text.
func contentHash(text string, pageNo int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d:%s", pageNo, text)))
	return fmt.Sprintf("%x", sum)[:16]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
