package contract

import (
	"strings"
	"testing"

	"github.com/tsawler/semchunk/model"
)

// conforming returns a minimal valid decoded document for mutation in tests.
func conforming() map[string]any {
	return map[string]any{
		"schema_version": "0.1",
		"document": map[string]any{
			"document_id": "sample",
			"source_type": "pdf",
			"source_path": "sample.pdf",
			"page_count":  float64(1),
		},
		"chunks": []any{
			map[string]any{
				"chunk_id":        "sample_p001_c00001",
				"block_type":      "text",
				"page_no":         float64(1),
				"order":           float64(1),
				"bbox":            []any{float64(10), float64(20), float64(100), float64(50)},
				"text":            "Hello",
				"normalized_text": "Hello",
				"heading_level":   float64(0),
			},
		},
	}
}

func hasViolation(t *testing.T, errs []string, substr string) {
	t.Helper()
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return
		}
	}
	t.Errorf("expected a violation containing %q, got %v", substr, errs)
}

func TestValidateConformingDocument(t *testing.T) {
	errs := Validate(conforming())
	if len(errs) != 0 {
		t.Errorf("conforming document produced violations: %v", errs)
	}
}

func TestValidateNilRoot(t *testing.T) {
	errs := Validate(nil)
	if len(errs) != 1 {
		t.Fatalf("expected 1 violation, got %v", errs)
	}
	hasViolation(t, errs, "root")
}

func TestValidateSchemaVersion(t *testing.T) {
	doc := conforming()
	doc["schema_version"] = "0.2"
	hasViolation(t, Validate(doc), "schema_version")

	delete(doc, "schema_version")
	hasViolation(t, Validate(doc), "schema_version")
}

func TestValidateDocumentObject(t *testing.T) {
	doc := conforming()
	delete(doc, "document")
	hasViolation(t, Validate(doc), "document: must be an object")

	doc = conforming()
	delete(doc["document"].(map[string]any), "document_id")
	hasViolation(t, Validate(doc), "document.document_id")

	doc = conforming()
	doc["document"].(map[string]any)["source_type"] = "docx"
	hasViolation(t, Validate(doc), "document.source_type")

	doc = conforming()
	doc["document"].(map[string]any)["page_count"] = float64(0)
	hasViolation(t, Validate(doc), "document.page_count")
}

func TestValidateChunksArray(t *testing.T) {
	doc := conforming()
	doc["chunks"] = "nope"
	hasViolation(t, Validate(doc), "chunks: must be an array")

	doc = conforming()
	doc["chunks"] = []any{}
	hasViolation(t, Validate(doc), "chunks: must not be empty")
}

func TestValidateMissingChunkFields(t *testing.T) {
	for _, field := range []string{"chunk_id", "page_no", "text", "normalized_text", "block_type", "heading_level", "order"} {
		t.Run(field, func(t *testing.T) {
			doc := conforming()
			ch := doc["chunks"].([]any)[0].(map[string]any)
			delete(ch, field)
			hasViolation(t, Validate(doc), field)
		})
	}
}

func TestValidateChunkFieldTypes(t *testing.T) {
	doc := conforming()
	ch := doc["chunks"].([]any)[0].(map[string]any)
	ch["page_no"] = "1"
	hasViolation(t, Validate(doc), `"page_no" must be an integer`)

	doc = conforming()
	ch = doc["chunks"].([]any)[0].(map[string]any)
	ch["heading_level"] = 1.5
	hasViolation(t, Validate(doc), `"heading_level" must be an integer`)

	doc = conforming()
	ch = doc["chunks"].([]any)[0].(map[string]any)
	ch["text"] = float64(42)
	hasViolation(t, Validate(doc), `"text" must be a string`)
}

func TestValidateChunkIDPattern(t *testing.T) {
	doc := conforming()
	ch := doc["chunks"].([]any)[0].(map[string]any)
	ch["chunk_id"] = "bad id!"
	hasViolation(t, Validate(doc), "does not match")
}

func TestValidateDuplicateIDAndOrder(t *testing.T) {
	doc := conforming()
	chunks := doc["chunks"].([]any)
	dup := map[string]any{}
	for k, v := range chunks[0].(map[string]any) {
		dup[k] = v
	}
	doc["chunks"] = append(chunks, dup)

	errs := Validate(doc)
	hasViolation(t, errs, "duplicate chunk_id")
	hasViolation(t, errs, "duplicate order")
}

func TestValidateBBoxShapes(t *testing.T) {
	tests := []struct {
		name string
		bbox any
		want string
	}{
		{"object form", map[string]any{"x0": 1.0, "y0": 2.0, "x1": 3.0, "y1": 4.0}, "got an object"},
		{"not an array", "10,20,30,40", "must be an array"},
		{"three elements", []any{1.0, 2.0, 3.0}, "exactly 4 elements"},
		{"string element", []any{1.0, 2.0, "3", 4.0}, "must be a number"},
		{"negative width", []any{100.0, 20.0, 10.0, 50.0}, "negative width"},
		{"negative height", []any{10.0, 700.0, 10.0, 690.0}, "negative height"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := conforming()
			doc["chunks"].([]any)[0].(map[string]any)["bbox"] = tt.bbox
			hasViolation(t, Validate(doc), tt.want)
		})
	}
}

func TestValidateBBoxZeroExtent(t *testing.T) {
	// Zero width and height are legal: the contract requires non-negative.
	doc := conforming()
	doc["chunks"].([]any)[0].(map[string]any)["bbox"] = []any{10.0, 20.0, 10.0, 20.0}
	if errs := Validate(doc); len(errs) != 0 {
		t.Errorf("zero-extent bbox should pass, got %v", errs)
	}
}

func TestValidateEnums(t *testing.T) {
	doc := conforming()
	doc["chunks"].([]any)[0].(map[string]any)["block_type"] = "paragraph"
	hasViolation(t, Validate(doc), "block_type")

	doc = conforming()
	doc["chunks"].([]any)[0].(map[string]any)["heading_level"] = float64(4)
	hasViolation(t, Validate(doc), "heading_level=4")
}

func TestValidateOrderAndPageBounds(t *testing.T) {
	doc := conforming()
	doc["chunks"].([]any)[0].(map[string]any)["order"] = float64(-1)
	hasViolation(t, Validate(doc), "order must be >= 0")

	doc = conforming()
	doc["chunks"].([]any)[0].(map[string]any)["page_no"] = float64(0)
	hasViolation(t, Validate(doc), "page_no must be >= 1")
}

func TestValidateBlankNormalizedText(t *testing.T) {
	doc := conforming()
	doc["chunks"].([]any)[0].(map[string]any)["normalized_text"] = "   \n\t"
	hasViolation(t, Validate(doc), "normalized_text is empty")
}

func TestValidateAccumulatesAll(t *testing.T) {
	doc := conforming()
	doc["schema_version"] = "9.9"
	ch := doc["chunks"].([]any)[0].(map[string]any)
	ch["block_type"] = "paragraph"
	ch["normalized_text"] = " "

	errs := Validate(doc)
	if len(errs) < 3 {
		t.Errorf("expected at least 3 accumulated violations, got %v", errs)
	}
}

func TestValidateBytes(t *testing.T) {
	errs := ValidateBytes([]byte(`{not json`))
	if len(errs) != 1 || !strings.Contains(errs[0], "invalid JSON") {
		t.Errorf("expected invalid JSON violation, got %v", errs)
	}

	good := []byte(`{
		"schema_version": "0.1",
		"document": {"document_id": "d", "source_type": "pdf", "source_path": "d.pdf", "page_count": 2},
		"chunks": [{
			"chunk_id": "d_p001_c00001", "block_type": "text", "page_no": 1, "order": 1,
			"bbox": [0, 0, 10, 10], "text": "x", "normalized_text": "x", "heading_level": 0
		}]
	}`)
	if errs := ValidateBytes(good); len(errs) != 0 {
		t.Errorf("conforming JSON produced violations: %v", errs)
	}
}

func TestValidateTypedDocument(t *testing.T) {
	doc := &model.Document{
		Version: model.SchemaVersion,
		Info: model.DocumentInfo{
			DocumentID: "report",
			SourceType: "pdf",
			SourcePath: "report.pdf",
			PageCount:  3,
		},
		Chunks: []*model.Chunk{
			{
				ChunkID:        "report_p001_c00001",
				BlockType:      model.BlockText,
				PageNo:         1,
				Order:          1,
				BBox:           model.BBox{X0: 10, Y0: 20, X1: 200, Y1: 60},
				Text:           "Quarterly results",
				NormalizedText: "Quarterly results",
				HeadingLevel:   0,
			},
		},
	}
	if errs := ValidateDocument(doc); len(errs) != 0 {
		t.Errorf("typed document produced violations: %v", errs)
	}
}
