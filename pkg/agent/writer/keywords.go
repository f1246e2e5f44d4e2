package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// KeywordRow is one row of a Google Keyword Planner export.
type KeywordRow struct {
	Keyword          string
	MonthlySearches  int
	ThreeMonthChange float64
	YoYChange        float64
	Competition      float64
}

// ParseKeywordCSV reads a Keyword Planner CSV export. Thousands separators
// and percent signs are stripped; unparseable numbers default to zero.
func ParseKeywordCSV(r io.Reader) ([]KeywordRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	kwIdx, ok := col["Keyword"]
	if !ok {
		return nil, fmt.Errorf("missing Keyword column")
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []KeywordRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if kwIdx >= len(record) || strings.TrimSpace(record[kwIdx]) == "" {
			continue
		}
		rows = append(rows, KeywordRow{
			Keyword:          strings.TrimSpace(record[kwIdx]),
			MonthlySearches:  parseCount(field(record, "Avg. monthly searches")),
			ThreeMonthChange: parsePercent(field(record, "Three month change")),
			YoYChange:        parsePercent(field(record, "YoY change")),
			Competition:      parsePercent(field(record, "Competition (indexed value)")),
		})
	}
	return rows, nil
}

func parseCount(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parsePercent(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// Keyword vocabularies per product line.
var kundanPolkiTerms = map[string][]string{
	"primary":    {"kundan", "polki", "jadau"},
	"occasions":  {"bridal", "bride", "wedding", "engagement", "festive", "ceremony"},
	"types":      {"jewelry set", "jewellery set", "necklace set", "choker set", "set"},
	"styles":     {"traditional", "indian", "ethnic", "royal", "regal", "temple"},
	"techniques": {"meenakari", "antique"},
	"materials":  {"gold plated", "22k", "pearl"},
}

var crystalADTerms = map[string][]string{
	"primary":    {"american diamond", "crystal", "ad stones", "cubic zirconia", "cz"},
	"occasions":  {"bridal", "bride", "wedding", "engagement", "party", "evening", "cocktail", "festive"},
	"styles":     {"contemporary", "modern", "elegant", "sparkle", "dazzling", "fashion", "chic"},
	"types":      {"jewelry set", "jewellery set", "necklace set", "choker set", "pendant set", "set"},
	"finishes":   {"white gold", "rose gold", "gold plated", "rhodium", "14k", "silver plated"},
	"aesthetics": {"celestial", "radiant", "brilliant", "luxurious", "versatile"},
}

var excludeTerms = []string{
	"ring", "rings",
	"men", "mens", "man", "groom",
	"boys", "kids", "children", "baby",
	"diamond ring", "engagement ring", "solitaire",
	"gold coin", "gold bar", "bullion",
	"watch", "watches",
	"chain for men", "bracelet for men",
	"tattoo", "piercing",
	"repair", "cleaning", "box", "organizer",
}

// crystalExcludeTerms additionally drops traditional vocabulary so the
// contemporary line does not pick up kundan keywords.
var crystalExcludeTerms = append([]string{
	"kundan", "polki", "jadau", "meenakari",
	"temple", "south indian", "traditional",
}, excludeTerms...)

// KeywordFilter ranks Keyword Planner rows for a product, favoring high
// search volume and positive trend data.
type KeywordFilter struct {
	rows []KeywordRow
}

func NewKeywordFilter(rows []KeywordRow) *KeywordFilter {
	return &KeywordFilter{rows: rows}
}

// FilterKundanPolki returns the top keywords for the kundan-polki line.
func (f *KeywordFilter) FilterKundanPolki(productColor string, minSearches, topN int) []KeywordRow {
	terms := relevantTerms(kundanPolkiTerms, productColor, "")
	return f.filter(terms, excludeTerms, minSearches, topN, kundanBonus)
}

// FilterCrystalAD returns the top keywords for the american diamond and
// crystal line.
func (f *KeywordFilter) FilterCrystalAD(productColor, productStyle string, minSearches, topN int) []KeywordRow {
	terms := relevantTerms(crystalADTerms, productColor, productStyle)
	return f.filter(terms, crystalExcludeTerms, minSearches, topN, crystalBonus)
}

func (f *KeywordFilter) filter(terms, exclude []string, minSearches, topN int, bonus func(string) float64) []KeywordRow {
	matched := f.match(terms, exclude, minSearches)
	if len(matched) == 0 {
		// No high volume hits; retry with a lower threshold before giving up.
		matched = f.match(terms, exclude, 100)
	}

	type scored struct {
		row   KeywordRow
		score float64
	}
	ranked := make([]scored, 0, len(matched))
	for _, row := range matched {
		ranked = append(ranked, scored{row: row, score: relevanceScore(row, terms, bonus)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	out := make([]KeywordRow, len(ranked))
	for i, s := range ranked {
		out[i] = s.row
	}
	return out
}

func (f *KeywordFilter) match(terms, exclude []string, minSearches int) []KeywordRow {
	var out []KeywordRow
	for _, row := range f.rows {
		kw := strings.ToLower(row.Keyword)
		if !containsAny(kw, terms) || containsAny(kw, exclude) {
			continue
		}
		if row.MonthlySearches < minSearches {
			continue
		}
		out = append(out, row)
	}
	return out
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func relevantTerms(base map[string][]string, productColor, productStyle string) []string {
	seen := map[string]struct{}{}
	var terms []string
	add := func(ts ...string) {
		for _, t := range ts {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				terms = append(terms, t)
			}
		}
	}
	for _, ts := range base {
		add(ts...)
	}

	color := strings.ToLower(productColor)
	if strings.Contains(color, "green") || strings.Contains(color, "emerald") {
		add("green", "emerald")
	}
	if strings.Contains(color, "red") || strings.Contains(color, "ruby") {
		add("red", "ruby")
	}
	if strings.Contains(color, "blue") || strings.Contains(color, "sapphire") {
		add("blue", "sapphire")
	}
	if strings.Contains(color, "pink") || strings.Contains(color, "rose") {
		add("pink", "rose")
	}
	if strings.Contains(color, "pearl") || strings.Contains(color, "white") {
		add("pearl", "white")
	}

	style := strings.ToLower(productStyle)
	if strings.Contains(style, "contemporary") {
		add("contemporary", "modern", "current")
	}
	if strings.Contains(style, "elegant") {
		add("elegant", "sophisticate", "graceful")
	}
	if strings.Contains(style, "celestial") {
		add("celestial", "star", "sparkle", "radiant")
	}
	return terms
}

// trendBoost weights year-over-year growth at 70% and the recent three month
// movement at 30%.
func trendBoost(threeMonth, yoy float64) float64 {
	var yoyScore float64
	switch {
	case yoy >= 500:
		yoyScore = 10000
	case yoy >= 200:
		yoyScore = 7000
	case yoy >= 100:
		yoyScore = 5000
	case yoy >= 50:
		yoyScore = 3000
	case yoy >= 10:
		yoyScore = 1500
	case yoy >= 0:
		yoyScore = 500
	case yoy >= -20:
		yoyScore = -500
	default:
		yoyScore = -2000
	}

	var threeMonthScore float64
	switch {
	case threeMonth >= 500:
		threeMonthScore = 5000
	case threeMonth >= 200:
		threeMonthScore = 3500
	case threeMonth >= 100:
		threeMonthScore = 2500
	case threeMonth >= 50:
		threeMonthScore = 1500
	case threeMonth >= 10:
		threeMonthScore = 700
	case threeMonth >= 0:
		threeMonthScore = 200
	case threeMonth >= -20:
		threeMonthScore = -300
	default:
		threeMonthScore = -1000
	}

	return yoyScore*0.7 + threeMonthScore*0.3
}

// relevanceScore combines volume (40%), term matches (15%), line-specific
// bonuses (15%) and trend boost (30%).
func relevanceScore(row KeywordRow, terms []string, bonus func(string) float64) float64 {
	kw := strings.ToLower(row.Keyword)

	matchCount := 0
	for _, t := range terms {
		if strings.Contains(kw, t) {
			matchCount++
		}
	}

	return float64(row.MonthlySearches)*0.4 +
		float64(matchCount)*5000*0.15 +
		bonus(kw)*0.15 +
		trendBoost(row.ThreeMonthChange, row.YoYChange)*0.3
}

func kundanBonus(kw string) float64 {
	var b float64
	if strings.Contains(kw, "kundan") {
		b += 10000
	}
	if strings.Contains(kw, "polki") {
		b += 10000
	}
	if strings.Contains(kw, "bridal") || strings.Contains(kw, "bride") {
		b += 8000
	}
	if strings.Contains(kw, "wedding") {
		b += 6000
	}
	if strings.Contains(kw, "jewelry set") || strings.Contains(kw, "jewellery set") {
		b += 5000
	}
	return b
}

func crystalBonus(kw string) float64 {
	var b float64
	if strings.Contains(kw, "american diamond") {
		b += 10000
	}
	if strings.Contains(kw, "crystal") && !strings.Contains(kw, "kundan") {
		b += 8000
	}
	if strings.Contains(kw, "ad stone") {
		b += 7000
	}
	if strings.Contains(kw, "cubic zirconia") || strings.Contains(kw, "cz") {
		b += 6500
	}
	if strings.Contains(kw, "bridal") || strings.Contains(kw, "bride") {
		b += 9000
	}
	if strings.Contains(kw, "wedding") {
		b += 8500
	}
	if strings.Contains(kw, "engagement") {
		b += 7000
	}
	if strings.Contains(kw, "party") {
		b += 6000
	}
	if strings.Contains(kw, "contemporary") {
		b += 7500
	}
	if strings.Contains(kw, "modern") {
		b += 7000
	}
	if strings.Contains(kw, "elegant") {
		b += 6500
	}
	if strings.Contains(kw, "jewelry set") || strings.Contains(kw, "jewellery set") {
		b += 5000
	}
	if strings.Contains(kw, "necklace") {
		b += 4000
	}
	if strings.Contains(kw, "pendant") {
		b += 3500
	}
	return b
}
