// Package writer implements the multi-stage product copy generation
// pipeline: a search query is generated from product attributes, web results
// are gathered and reflected on, a pool of culturally matched names is
// extracted, and final listing content is produced with an unused name.
package writer

import (
	"strings"
)

// RequiredNames is the default number of usable names the reflection stage
// demands before the pipeline proceeds to extraction.
const RequiredNames = 10

// ProductRow holds one product's raw attributes, keyed the way the catalog
// sheet names them.
type ProductRow map[string]string

func (r ProductRow) Get(key string) string {
	return strings.TrimSpace(r[key])
}

// First returns the first non-empty value among keys.
func (r ProductRow) First(keys ...string) string {
	for _, k := range keys {
		if v := r.Get(k); v != "" {
			return v
		}
	}
	return ""
}

// NameCandidate is one entry of the extracted name pool.
type NameCandidate struct {
	Name    string `json:"name"`
	Meaning string `json:"meaning"`
}

// JewelryType buckets the product line for prompt and keyword selection.
type JewelryType string

const (
	JewelryKundan    JewelryType = "kundan"
	JewelryCrystalAD JewelryType = "crystal_ad"
)

// ClassifyLine maps a product line label to its jewelry type. Crystal and
// american diamond variants go to the crystal bucket, everything else is
// treated as kundan.
func ClassifyLine(line string) JewelryType {
	l := strings.ToLower(line)
	if strings.Contains(l, "crystal") || strings.Contains(l, "american diamond") || strings.Contains(l, "ad") {
		return JewelryCrystalAD
	}
	return JewelryKundan
}

// State flows through the pipeline nodes. Nodes record failures in Err and
// return; routing decides whether a failed state is retried or salvaged.
type State struct {
	Row      ProductRow
	Keywords []KeywordRow

	// Name generation.
	JewelryType   JewelryType
	PrimaryColor  string
	SearchQuery   string
	SearchResults string
	NamePool      []NameCandidate
	RequiredNames int
	Reflection    Outcome
	RetryCount    int

	// Intermediate.
	Category         string
	Line             string
	Colors           string
	FilteredKeywords []string
	SelectedPrompt   PromptKind
	UsedNames        []string
	ImageURL         string

	// Output.
	Generated map[string]any
	Err       error
}

// Outcome is the tri-state result of the reflection stage. A failed
// reflection may carry a suggested replacement query; its absence routes back
// through query generation instead.
type Outcome struct {
	Passed     bool
	NamesFound int
	Suggestion string
}

// NewState builds a pipeline state for one product row.
func NewState(row ProductRow, keywords []KeywordRow, usedNames []string) *State {
	return &State{
		Row:           row,
		Keywords:      keywords,
		RequiredNames: RequiredNames,
		UsedNames:     usedNames,
	}
}
