package semchunk

import (
	"github.com/tsawler/semchunk/chunker"
	"github.com/tsawler/semchunk/furniture"
)

// ExtractOptions holds configuration for chunk extraction.
type ExtractOptions struct {
	// Block merging
	merge    bool
	mergeGap float64

	// Header/footer isolation
	isolateFurniture bool
	furnitureConfig  furniture.Config

	// Output shaping
	includeSpans bool
	documentID   string // overrides the source-derived id when non-empty

	// Worker pool size for per-page extraction
	concurrency int
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		merge:            true,
		mergeGap:         chunker.DefaultMaxGap,
		isolateFurniture: true,
		furnitureConfig:  furniture.DefaultConfig(),
		includeSpans:     false,
		concurrency:      1,
	}
}

// clone creates a copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	return o
}
