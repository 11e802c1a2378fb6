// Package contract validates extraction documents against the fixed v0.1
// output contract: required fields, enumerations, uniqueness, and bbox shape.
//
// Violations are data, not errors. Every check runs and every failure is
// collected into a list of descriptive strings; an empty list is a pass.
// Callers decide whether a non-empty list is fatal.
package contract

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tsawler/semchunk/model"
)

// requiredChunkFields lists the seven always-required chunk fields and
// their expected JSON kinds, in check order.
var requiredChunkFields = []struct {
	name string
	kind string // "string" or "int"
}{
	{"chunk_id", "string"},
	{"page_no", "int"},
	{"text", "string"},
	{"normalized_text", "string"},
	{"block_type", "string"},
	{"heading_level", "int"},
	{"order", "int"},
}

// Validate checks a decoded extraction document against the contract and
// returns all violations found. An empty slice means the document conforms.
//
// Validation runs over the decoded JSON shape rather than typed structs so
// that structural problems a typed decode would silently repair (an
// object-shaped bbox, a string page number) are still caught.
func Validate(raw map[string]any) []string {
	var errs []string

	if raw == nil {
		return []string{"root: must be a JSON object"}
	}

	if sv, _ := raw["schema_version"].(string); sv != model.SchemaVersion {
		errs = append(errs, fmt.Sprintf("schema_version: expected %q, got %v", model.SchemaVersion, raw["schema_version"]))
	}

	doc, ok := raw["document"].(map[string]any)
	if !ok {
		errs = append(errs, "document: must be an object")
	} else {
		for _, f := range []string{"document_id", "source_type", "page_count"} {
			if _, present := doc[f]; !present {
				errs = append(errs, fmt.Sprintf("document.%s: required field missing", f))
			}
		}
		if st, _ := doc["source_type"].(string); st != "pdf" {
			errs = append(errs, fmt.Sprintf("document.source_type: expected \"pdf\", got %v", doc["source_type"]))
		}
		if pc, ok := asInt(doc["page_count"]); !ok || pc < 1 {
			errs = append(errs, fmt.Sprintf("document.page_count: must be int >= 1, got %v", doc["page_count"]))
		}
	}

	chunks, ok := raw["chunks"].([]any)
	if !ok {
		return append(errs, "chunks: must be an array")
	}
	if len(chunks) == 0 {
		return append(errs, "chunks: must not be empty")
	}

	seenIDs := make(map[string]bool)
	seenOrders := make(map[int]bool)

	for idx, elem := range chunks {
		ch, ok := elem.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("chunks[%d]: must be an object", idx))
			continue
		}

		cid, _ := ch["chunk_id"].(string)
		if cid == "" {
			cid = fmt.Sprintf("<chunk[%d]>", idx)
		}

		for _, f := range requiredChunkFields {
			val, present := ch[f.name]
			if !present || val == nil {
				errs = append(errs, fmt.Sprintf("%s: missing required field %q", cid, f.name))
				continue
			}
			switch f.kind {
			case "string":
				if _, ok := val.(string); !ok {
					errs = append(errs, fmt.Sprintf("%s: %q must be a string, got %v", cid, f.name, val))
				}
			case "int":
				if _, ok := asInt(val); !ok {
					errs = append(errs, fmt.Sprintf("%s: %q must be an integer, got %v", cid, f.name, val))
				}
			}
		}

		if id, ok := ch["chunk_id"].(string); ok {
			if !model.ChunkIDPattern.MatchString(id) {
				errs = append(errs, fmt.Sprintf("%s: chunk_id does not match ^[A-Za-z0-9_-]{1,64}$", cid))
			}
			if seenIDs[id] {
				errs = append(errs, fmt.Sprintf("%s: duplicate chunk_id", cid))
			}
			seenIDs[id] = true
		}

		if pn, ok := asInt(ch["page_no"]); ok && pn < 1 {
			errs = append(errs, fmt.Sprintf("%s: page_no must be >= 1, got %d", cid, pn))
		}

		errs = append(errs, checkBBox(cid, ch["bbox"])...)

		if bt, ok := ch["block_type"].(string); ok && !model.BlockType(bt).Valid() {
			errs = append(errs, fmt.Sprintf("%s: block_type=%q not in %v", cid, bt, blockTypeNames()))
		}

		if hl, ok := asInt(ch["heading_level"]); ok && (hl < 0 || hl > 3) {
			errs = append(errs, fmt.Sprintf("%s: heading_level=%d not in [0 1 2 3]", cid, hl))
		}

		if order, ok := asInt(ch["order"]); ok {
			if order < 0 {
				errs = append(errs, fmt.Sprintf("%s: order must be >= 0, got %d", cid, order))
			}
			if seenOrders[order] {
				errs = append(errs, fmt.Sprintf("%s: duplicate order=%d", cid, order))
			}
			seenOrders[order] = true
		}

		if nt, ok := ch["normalized_text"].(string); ok && strings.TrimSpace(nt) == "" {
			errs = append(errs, fmt.Sprintf("%s: normalized_text is empty or whitespace-only", cid))
		}
	}

	return errs
}

// ValidateBytes decodes raw JSON and validates it. A decode failure is
// itself reported as a violation.
func ValidateBytes(b []byte) []string {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return []string{fmt.Sprintf("root: invalid JSON: %v", err)}
	}
	return Validate(raw)
}

// ValidateDocument marshals a typed document and validates the resulting
// JSON, so typed output passes through exactly the same shape checks as
// documents read back from disk.
func ValidateDocument(doc *model.Document) []string {
	b, err := json.Marshal(doc)
	if err != nil {
		return []string{fmt.Sprintf("root: cannot marshal document: %v", err)}
	}
	return ValidateBytes(b)
}

// checkBBox validates that bbox is exactly a 4-element numeric array with
// non-negative width and height. An object-shaped bbox is rejected outright.
func checkBBox(cid string, bbox any) []string {
	var errs []string
	if _, isObj := bbox.(map[string]any); isObj {
		return []string{fmt.Sprintf("%s: bbox must be an array [x0,y0,x1,y1], got an object", cid)}
	}
	arr, ok := bbox.([]any)
	if !ok {
		return []string{fmt.Sprintf("%s: bbox must be an array [x0,y0,x1,y1], got %v", cid, bbox)}
	}
	if len(arr) != 4 {
		return []string{fmt.Sprintf("%s: bbox must have exactly 4 elements, got %d", cid, len(arr))}
	}
	vals := make([]float64, 4)
	for i, v := range arr {
		f, ok := v.(float64)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: bbox[%d] must be a number, got %v", cid, i, v))
			continue
		}
		vals[i] = f
	}
	if len(errs) == 0 {
		if w := vals[2] - vals[0]; w < 0 {
			errs = append(errs, fmt.Sprintf("%s: bbox has negative width (%.2f)", cid, w))
		}
		if h := vals[3] - vals[1]; h < 0 {
			errs = append(errs, fmt.Sprintf("%s: bbox has negative height (%.2f)", cid, h))
		}
	}
	return errs
}

// asInt reports whether a decoded JSON value is an integral number and
// returns it as an int. encoding/json decodes all numbers as float64.
func asInt(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func blockTypeNames() []string {
	types := model.BlockTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	sort.Strings(names)
	return names
}
