// Command semchunk extracts semantic chunks from a PDF or span dump and
// writes the versioned extraction document, optionally with a quality
// report. The output is validated against the chunk contract before it is
// written; violations fail the run.
//
// Usage:
//
//	semchunk [flags] input.pdf
//
// Flags:
//
//	-out FILE      write the extraction document as JSON
//	-report FILE   write the extraction quality report as JSON
//	-config FILE   load pipeline policy from a YAML file
//	-id ID         override the document identifier
//	-workers N     per-page extraction workers (default 1)
//	-no-merge      disable block merging
//	-no-furniture  disable header/footer isolation
//	-spans         embed span detail in chunk meta
//	-v             verbose (debug) logging
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/semchunk"
	"github.com/tsawler/semchunk/contract"
	"github.com/tsawler/semchunk/furniture"
	"github.com/tsawler/semchunk/model"
	"github.com/tsawler/semchunk/report"
)

// policy is the YAML pipeline configuration. Zero values fall back to the
// library defaults, so a partial file is fine.
type policy struct {
	Merge struct {
		Disabled bool    `yaml:"disabled"`
		MaxGap   float64 `yaml:"max_gap"`
	} `yaml:"merge"`
	Furniture struct {
		Disabled bool `yaml:"disabled"`
		furniture.Config `yaml:",inline"`
	} `yaml:"furniture"`
}

func loadPolicy(path string) (*policy, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := &policy{}
	p.Furniture.Config = furniture.DefaultConfig()
	if err := yaml.Unmarshal(b, p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return p, nil
}

func main() {
	var (
		outPath     = flag.String("out", "", "write the extraction document to this file")
		reportPath  = flag.String("report", "", "write the quality report to this file")
		configPath  = flag.String("config", "", "YAML pipeline policy file")
		docID       = flag.String("id", "", "override the document identifier")
		workers     = flag.Int("workers", 1, "per-page extraction workers")
		noMerge     = flag.Bool("no-merge", false, "disable block merging")
		noFurniture = flag.Bool("no-furniture", false, "disable header/footer isolation")
		withSpans   = flag.Bool("spans", false, "embed span detail in chunk meta")
		verbose     = flag.Bool("v", false, "verbose logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] input.pdf\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	input := flag.Arg(0)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(input, *outPath, *reportPath, *configPath, *docID,
		*workers, *noMerge, *noFurniture, *withSpans, logger); err != nil {
		logger.Error("extraction failed", "input", input, "error", err)
		os.Exit(1)
	}
}

func run(input, outPath, reportPath, configPath, docID string,
	workers int, noMerge, noFurniture, withSpans bool, logger *slog.Logger) error {

	ext := semchunk.Open(input)

	if configPath != "" {
		p, err := loadPolicy(configPath)
		if err != nil {
			return err
		}
		if p.Merge.Disabled {
			ext = ext.NoMerge()
		}
		if p.Merge.MaxGap > 0 {
			ext = ext.MergeGap(p.Merge.MaxGap)
		}
		if p.Furniture.Disabled {
			ext = ext.NoFurniture()
		} else {
			ext = ext.FurnitureConfig(p.Furniture.Config)
		}
		logger.Debug("loaded policy", "path", configPath)
	}

	if noMerge {
		ext = ext.NoMerge()
	}
	if noFurniture {
		ext = ext.NoFurniture()
	}
	if withSpans {
		ext = ext.IncludeSpans()
	}
	if docID != "" {
		ext = ext.DocumentID(docID)
	}
	if workers > 1 {
		ext = ext.Concurrency(workers)
	}

	doc, warnings, err := ext.Document()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn("extraction warning", "code", w.Code, "page", w.Page, "detail", w.Message)
	}

	if violations := contract.ValidateDocument(doc); len(violations) > 0 {
		for _, v := range violations {
			logger.Error("contract violation", "detail", v)
		}
		return fmt.Errorf("%d contract violation(s)", len(violations))
	}
	logger.Debug("contract validated", "chunks", len(doc.Chunks))

	printSummary(doc)

	if outPath != "" {
		if err := writeJSON(outPath, doc); err != nil {
			return fmt.Errorf("write document: %w", err)
		}
		logger.Info("wrote document", "path", outPath)
	}

	if reportPath != "" {
		rep := report.Build(doc)
		if err := rep.WriteFile(reportPath); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Info("wrote report", "path", reportPath,
			"suspicious_flags", len(rep.SuspiciousFlags))
	}

	return nil
}

func printSummary(doc *model.Document) {
	fmt.Printf("document_id: %s\n", doc.Info.DocumentID)
	fmt.Printf("pages:       %d\n", doc.Info.PageCount)
	fmt.Printf("chunks:      %d\n", len(doc.Chunks))

	byType := make(map[string]int)
	byLevel := make(map[int]int)
	for _, c := range doc.Chunks {
		byType[string(c.BlockType)]++
		byLevel[c.HeadingLevel]++
	}

	fmt.Println("block types:")
	for _, k := range sortedKeys(byType) {
		fmt.Printf("  %-8s %d\n", k, byType[k])
	}

	fmt.Println("heading levels:")
	levels := make([]int, 0, len(byLevel))
	for l := range byLevel {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	for _, l := range levels {
		fmt.Printf("  %-8s %d\n", strconv.Itoa(l), byLevel[l])
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0644)
}
