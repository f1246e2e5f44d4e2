package writer

import (
	"fmt"
	"strings"
)

// PromptKind selects the content generation template for a product line.
type PromptKind string

const (
	PromptKundan  PromptKind = "kundan"
	PromptCrystal PromptKind = "crystal"
)

// SelectPromptKind picks the content template. Kundan and polki lines use
// the traditional template; everything else, including the default for
// unrecognized lines, uses the crystal template.
func SelectPromptKind(category, line string) PromptKind {
	c := strings.ToLower(category)
	l := strings.ToLower(line)
	if strings.Contains(c, "jewelry set") || strings.Contains(c, "jewellery set") {
		if strings.Contains(l, "kundan") || strings.Contains(l, "polki") {
			return PromptKundan
		}
	}
	return PromptCrystal
}

func searchQueryPrompt(jewelryType JewelryType, primaryColor, secondaryColor, category string) string {
	var b strings.Builder
	b.WriteString("You are a search query expert for finding elegant jewelry name inspirations with cultural and royal heritage.\n\n")
	fmt.Fprintf(&b, "INPUT:\n- Jewelry Type: %s\n- Primary Color: %s\n- Secondary Color: %s\n- Category: %s\n\n", jewelryType, primaryColor, secondaryColor, category)
	b.WriteString(`RULES:
- KUNDAN/POLKI jewelry uses Indian, Arabic and Muslim dynasty names ONLY.
- CRYSTAL/AD jewelry uses European dynasty names ONLY.
- NEVER mix cultures between the two.
- Pick one dynasty and century, then build a single 4-6 word search query
  such as "Mughal princess names 17th century" or "Habsburg princess names".
- Never include the words "crystal", "diamond", "kundan", "jewelry" or color
  names in the query.

OUTPUT (JSON only, no explanations):
{
  "action": "generate_search_query",
  "action_input": {
    "query": "your 4-6 word search query"
  }
}
`)
	return b.String()
}

func reflectionPrompt(s *State, searchResults string) string {
	row := s.Row
	var b strings.Builder
	b.WriteString("You are a jewelry name validator. Check if search results have enough usable names.\n\n")
	fmt.Fprintf(&b, "REQUIRED NAMES: %d\n\n", s.RequiredNames)
	fmt.Fprintf(&b, "PRODUCT:\n- Category: %s\n- Jewelry Line: %s\n- Finish: %s\n- Work: %s\n- Components: %s\n- Finding: %s\n- Primary Color: %s\n- Secondary Color: %s\n- Occasions: %s\n\n",
		row.Get("category"), row.Get("line"), row.Get("finish"), row.Get("work"),
		row.Get("components"), row.Get("finding"), row.Get("primary_color"),
		row.Get("secondary_color"), row.Get("occasions"))
	fmt.Fprintf(&b, "SEARCH RESULTS:\n%s\n\n", searchResults)
	b.WriteString(`TASK:
1. Count valid names: any female name with a meaning or origin mentioned.
2. Cultural check: KUNDAN/POLKI needs Indian/Arabic/Muslim names, CRYSTAL/AD
   needs European names.
3. PASS if count >= required AND culture matches, otherwise FAIL.

IF FAILED, also craft a new 4-6 word search query with a DIFFERENT dynasty or
century, using patterns like "[Dynasty] princess names [century]". Never use
"crystal", "diamond", "kundan", "jewelry" or color names in the query.

OUTPUT (JSON only):
PASS:
{
  "action": "reflection_complete",
  "action_input": {
    "passed": true,
    "extracted_names_count": <number>
  }
}
FAIL:
{
  "action": "update_search_query",
  "action_input": {
    "passed": false,
    "extracted_names_count": <number>,
    "suggested_search_term": "simple 4-6 word query here"
  }
}
`)
	return b.String()
}

func nameParserPrompt(searchResults string) string {
	var b strings.Builder
	b.WriteString("Extract jewelry name inspirations from these search results.\n\n")
	fmt.Fprintf(&b, "SEARCH RESULTS:\n%s\n\n", searchResults)
	b.WriteString(`TASK:
Find 10-15 names with cultural meanings suitable for jewelry products.

RULES:
1. Extract names with clear meanings.
2. Prefer names related to: gems, light, beauty, royalty, nature.
3. Each name must have a meaningful origin story.
4. Minimum 10 names, maximum 15 names.
5. Return ONLY one JSON object, no explanations and no markdown fences.
6. All property names in double quotes, no trailing commas, escape quotes
   within strings.

OUTPUT FORMAT (JSON):
{
  "action": "parse_names",
  "action_input": {
    "names": [
      {"name": "ExampleName", "meaning": "cultural meaning and origin"}
    ]
  }
}
`)
	return b.String()
}

// contentPrompt fills the generation template for the selected product line.
func contentPrompt(kind PromptKind, s *State, selected NameCandidate) string {
	row := s.Row
	var b strings.Builder

	if kind == PromptKundan {
		b.WriteString("You are a luxury jewelry copywriter for traditional Indian kundan and polki pieces. Write warm, regal product content grounded in heritage.\n\n")
	} else {
		b.WriteString("You are a luxury jewelry copywriter for contemporary american diamond and crystal pieces. Write modern, elegant product content with sparkle-forward language.\n\n")
	}

	fmt.Fprintf(&b, "PRODUCT:\n- Category: %s\n- Jewelry Line: %s\n- Finish: %s\n- Work: %s\n- Components: %s\n- Finding: %s\n- Primary Color: %s\n- Secondary Color: %s\n- Occasions: %s\n",
		row.Get("category"), row.Get("line"), row.Get("finish"), row.Get("work"),
		row.Get("components"), row.Get("finding"), row.Get("primary_color"),
		row.Get("secondary_color"), row.Get("occasions"))
	for _, design := range []string{"necklace_design", "bracelet_design", "earring_design", "ring_design"} {
		if v := row.Get(design); v != "" {
			fmt.Fprintf(&b, "- %s: %s\n", strings.ReplaceAll(design, "_", " "), v)
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "SUGGESTED NAME: %s\nNAME MEANING: %s\n\n", selected.Name, selected.Meaning)
	fmt.Fprintf(&b, "SEO KEYWORDS TO WEAVE IN:\n%s\n\n", strings.Join(s.FilteredKeywords, ", "))
	used := "None"
	if len(s.UsedNames) > 0 {
		used = strings.Join(s.UsedNames, ", ")
	}
	fmt.Fprintf(&b, "NAMES ALREADY USED (do not reuse): %s\n\n", used)

	b.WriteString(`REQUIREMENTS:
- Title is "<Name> Jewellery Set" using the suggested name.
- Description: plain text, 300-500 characters, no HTML, mentions components,
  finish, colors, the name's meaning and suitable necklines.
- seo_meta_title: 50-60 characters.
- seo_meta_description: 150-160 characters with a call to action.
- styling_tip: plain text styling advice of 100-200 words.

OUTPUT (JSON only, no markdown fences):
{
  "action": "generate_product_content",
  "action_input": {
    "title": "Product Name Set",
    "description": "...",
    "seo_meta_title": "...",
    "seo_meta_description": "...",
    "styling_tip": "..."
  }
}
`)
	return b.String()
}
