package writer

import (
	"strings"
	"testing"
)

func sampleKeywords() []KeywordRow {
	return []KeywordRow{
		{Keyword: "kundan jewellery set", MonthlySearches: 12000, YoYChange: 120, ThreeMonthChange: 40},
		{Keyword: "kundan bridal set", MonthlySearches: 8000, YoYChange: 60, ThreeMonthChange: 10},
		{Keyword: "kundan ring", MonthlySearches: 9000, YoYChange: 200},
		{Keyword: "mens kundan chain", MonthlySearches: 7000},
		{Keyword: "american diamond necklace set", MonthlySearches: 15000, YoYChange: 90},
		{Keyword: "crystal pendant set", MonthlySearches: 4000, YoYChange: 30},
		{Keyword: "traditional kundan choker set", MonthlySearches: 5000},
		{Keyword: "gold coin", MonthlySearches: 50000},
		{Keyword: "low volume kundan set", MonthlySearches: 200},
	}
}

func TestFilterKundanPolkiExcludesAndRanks(t *testing.T) {
	f := NewKeywordFilter(sampleKeywords())
	rows := f.FilterKundanPolki("green emerald", 1000, 30)

	if len(rows) == 0 {
		t.Fatal("no keywords returned")
	}
	for _, r := range rows {
		kw := strings.ToLower(r.Keyword)
		if strings.Contains(kw, "ring") || strings.Contains(kw, "men") || strings.Contains(kw, "coin") {
			t.Errorf("excluded term survived: %q", r.Keyword)
		}
		if r.MonthlySearches < 1000 {
			t.Errorf("low volume keyword survived: %q (%d)", r.Keyword, r.MonthlySearches)
		}
	}
	// The double-primary-term, high volume, trending keyword ranks first.
	if rows[0].Keyword != "kundan jewellery set" {
		t.Errorf("top keyword = %q", rows[0].Keyword)
	}
}

func TestFilterCrystalADDropsTraditionalTerms(t *testing.T) {
	f := NewKeywordFilter(sampleKeywords())
	rows := f.FilterCrystalAD("white", "contemporary", 1000, 30)

	if len(rows) == 0 {
		t.Fatal("no keywords returned")
	}
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Keyword), "kundan") {
			t.Errorf("traditional keyword survived: %q", r.Keyword)
		}
	}
	if rows[0].Keyword != "american diamond necklace set" {
		t.Errorf("top keyword = %q", rows[0].Keyword)
	}
}

func TestFilterFallsBackToLowerVolume(t *testing.T) {
	f := NewKeywordFilter([]KeywordRow{
		{Keyword: "kundan choker set", MonthlySearches: 400},
	})
	rows := f.FilterKundanPolki("", 1000, 30)
	if len(rows) != 1 {
		t.Fatalf("want 1 keyword from the low volume fallback, got %d", len(rows))
	}
}

func TestFilterTopNLimit(t *testing.T) {
	var rows []KeywordRow
	for i := 0; i < 50; i++ {
		rows = append(rows, KeywordRow{Keyword: "kundan set " + strings.Repeat("x", i%5), MonthlySearches: 2000 + i})
	}
	f := NewKeywordFilter(rows)
	got := f.FilterKundanPolki("", 1000, 30)
	if len(got) != 30 {
		t.Errorf("len = %d, want 30", len(got))
	}
}

func TestParseKeywordCSV(t *testing.T) {
	csvData := `Keyword,Avg. monthly searches,Competition (indexed value),Three month change,YoY change
kundan jewellery set,"12,000",45,40%,120%
crystal necklace,5000,30,-10%,"1,200%"
,100,0,0%,0%
`
	rows, err := ParseKeywordCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2 (blank keyword skipped)", len(rows))
	}
	first := rows[0]
	if first.Keyword != "kundan jewellery set" || first.MonthlySearches != 12000 {
		t.Errorf("first row = %+v", first)
	}
	if first.ThreeMonthChange != 40 || first.YoYChange != 120 {
		t.Errorf("first row trends = %+v", first)
	}
	if rows[1].YoYChange != 1200 {
		t.Errorf("YoY with thousands separator = %v", rows[1].YoYChange)
	}
}

func TestParseKeywordCSVMissingKeywordColumn(t *testing.T) {
	_, err := ParseKeywordCSV(strings.NewReader("Foo,Bar\n1,2\n"))
	if err == nil {
		t.Fatal("expected error for missing Keyword column")
	}
}
