package model

import "regexp"

// SchemaVersion is the fixed version string of the output contract.
const SchemaVersion = "0.1"

// BlockType classifies an output chunk.
type BlockType string

const (
	BlockText   BlockType = "text"
	BlockHeader BlockType = "header"
	BlockFooter BlockType = "footer"
	BlockImage  BlockType = "image"
	BlockTable  BlockType = "table"
	BlockShape  BlockType = "shape"
)

// Valid reports whether the block type is a member of the closed enumeration.
func (t BlockType) Valid() bool {
	switch t {
	case BlockText, BlockHeader, BlockFooter, BlockImage, BlockTable, BlockShape:
		return true
	}
	return false
}

// BlockTypes lists every valid block type in a stable order.
func BlockTypes() []BlockType {
	return []BlockType{BlockText, BlockHeader, BlockFooter, BlockImage, BlockTable, BlockShape}
}

// ChunkIDPattern is the pattern every chunk_id must match.
var ChunkIDPattern = regexp.MustCompile(`^[A-Za-z0-9_\-]{1,64}$`)

// Chunk is the persisted unit of extraction output.
type Chunk struct {
	// ChunkID is globally unique across the document and matches
	// ChunkIDPattern.
	ChunkID string `json:"chunk_id"`

	// BlockType is the chunk's classification.
	BlockType BlockType `json:"block_type"`

	// PageNo is the 1-indexed page the chunk came from.
	PageNo int `json:"page_no"`

	// Order is the chunk's global emission index, unique and strictly
	// increasing across the document.
	Order int `json:"order"`

	// BBox is the chunk's bounding box, serialized as [x0,y0,x1,y1].
	BBox BBox `json:"bbox"`

	// Text is the raw chunk text.
	Text string `json:"text"`

	// NormalizedText is the normalized text; non-empty after trimming.
	NormalizedText string `json:"normalized_text"`

	// HeadingLevel is 0 (body) through 3.
	HeadingLevel int `json:"heading_level"`

	// Numbers are the numeric tokens extracted from the text, in order.
	Numbers []string `json:"numbers,omitempty"`

	// Hash is a short content fingerprint over page number + text.
	Hash string `json:"hash,omitempty"`

	// Meta carries auxiliary detail (body font size, fallback markers,
	// embedded spans).
	Meta map[string]any `json:"meta,omitempty"`
}

// DocumentInfo is the document-level metadata block.
type DocumentInfo struct {
	// DocumentID is derived from the source filename.
	DocumentID string `json:"document_id"`

	// SourceType records the kind of the ultimate source, e.g. "pdf".
	SourceType string `json:"source_type"`

	// SourcePath is the path the document was extracted from.
	SourcePath string `json:"source_path"`

	// PageCount is the total page count, at least 1.
	PageCount int `json:"page_count"`
}

// Document is a complete extraction result.
type Document struct {
	Version string       `json:"schema_version"`
	Info    DocumentInfo `json:"document"`
	Chunks  []*Chunk     `json:"chunks"`
}

// ChunksOnPage returns the chunks belonging to the given page, in order.
func (d *Document) ChunksOnPage(pageNo int) []*Chunk {
	var out []*Chunk
	for _, c := range d.Chunks {
		if c.PageNo == pageNo {
			out = append(out, c)
		}
	}
	return out
}

// HeadingChunks returns all chunks with a non-zero heading level, in order.
func (d *Document) HeadingChunks() []*Chunk {
	var out []*Chunk
	for _, c := range d.Chunks {
		if c.HeadingLevel > 0 {
			out = append(out, c)
		}
	}
	return out
}
