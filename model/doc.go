// Package model provides the data types shared by every stage of the
// semantic chunking pipeline.
//
// # Input side
//
// A [Page] carries the raw [Span] values supplied by the upstream
// page-geometry source. Spans are ephemeral: they exist only inside one
// page's processing, optionally surviving as detail inside a chunk's meta.
//
// # Intermediate forms
//
// A [RawBlock] is a page's native span cluster, annotated with a heading
// level and confidence once the page's body font size is known. A
// [SemanticChunk] is the chunker's unit: at most one heading plus the body
// blocks that follow it.
//
// # Output side
//
// A [Document] is the persisted result: document metadata plus an ordered
// list of [Chunk] values. The output contract constrains these types:
//
//   - chunk_id matches [ChunkIDPattern] and is globally unique
//   - order is globally unique and strictly increasing in emission order
//   - bbox serializes as exactly four numbers with non-negative extent
//   - block_type and heading_level are drawn from closed enumerations
//   - normalized_text is non-empty after trimming
//
// # Geometry
//
// [BBox] is stored in corner form (x0, y0, x1, y1) with Y growing downward,
// and marshals to a JSON array rather than an object.
package model
