package nykaa

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
)

func sampleSources() []Source {
	return []Source{
		{
			SKU:             "MK-101",
			Title:           "MINAKI Royal Kundan Set",
			DescriptionHTML: "<p>Handcrafted kundan choker.</p>",
			Price:           "4999",
			Images: []string{
				"https://cdn.example.com/front.jpg",
				"https://cdn.example.com/back.jpg",
			},
		},
		{
			SKU:   "MK-102",
			Title: "Pearl Drop Earrings",
			Price: "1800",
			EAN:   "1234567890120",
		},
	}
}

func TestBuildRowsMintsMissingEANs(t *testing.T) {
	e := NewExporter(nil)
	rows, err := e.BuildRows(sampleSources())
	if err != nil {
		t.Fatalf("BuildRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	minted := rows[0]["Ean Codes"]
	if !ValidateEAN13(minted) {
		t.Errorf("minted ean %q fails validation", minted)
	}
	if got := rows[1]["Ean Codes"]; got != "1234567890120" {
		t.Errorf("provided ean replaced: got %q", got)
	}
}

func TestBuildRowsRejectsInvalidEAN(t *testing.T) {
	e := NewExporter(nil)
	_, err := e.BuildRows([]Source{{SKU: "MK-103", EAN: "not-an-ean"}})
	if err == nil {
		t.Fatal("expected error for invalid ean")
	}
	if !strings.Contains(err.Error(), "MK-103") {
		t.Errorf("error %q should name the sku", err)
	}
}

func TestExportWritesOrderedCSV(t *testing.T) {
	e := NewExporter(nil)
	var buf bytes.Buffer
	if err := e.Export(&buf, sampleSources()); err != nil {
		t.Fatalf("Export: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header plus 2 rows", len(records))
	}

	header := records[0]
	if len(header) != len(Columns) {
		t.Fatalf("header has %d columns, want %d", len(header), len(Columns))
	}
	for i, col := range Columns {
		if header[i] != col {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], col)
		}
	}

	first := records[1]
	if first[0] != "MK-101" {
		t.Errorf("first cell = %q, want sku", first[0])
	}
	if first[4] != "Royal Kundan Set" {
		t.Errorf("product name = %q, want brand stripped", first[4])
	}
	if first[2] != "MINAKI" {
		t.Errorf("brand = %q", first[2])
	}
}

func TestExporterReset(t *testing.T) {
	reg := NewRegistry()
	e := NewExporter(reg)
	if _, err := e.BuildRows(sampleSources()); err != nil {
		t.Fatalf("BuildRows: %v", err)
	}
	if reg.Len() == 0 {
		t.Fatal("registry should have issued a code")
	}
	e.Reset()
	if reg.Len() != 0 {
		t.Errorf("registry not cleared: %d codes", reg.Len())
	}
}
