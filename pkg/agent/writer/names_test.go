package writer

import (
	"testing"
)

func TestSelectUnusedName(t *testing.T) {
	pool := []NameCandidate{
		{Name: "Adelheid", Meaning: "noble"},
		{Name: "Amalia", Meaning: "industrious"},
		{Name: "Elisabeth", Meaning: "purity"},
	}

	tests := []struct {
		name string
		used []string
		want string
	}{
		{"nothing used", nil, "Adelheid"},
		{"first used", []string{"Adelheid"}, "Amalia"},
		{"case insensitive", []string{"ADELHEID", "amalia"}, "Elisabeth"},
		{"pool exhausted falls back to full pool", []string{"adelheid", "amalia", "elisabeth"}, "Adelheid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectUnusedName(pool, tt.used)
			if got.Name != tt.want {
				t.Errorf("SelectUnusedName() = %q, want %q", got.Name, tt.want)
			}
		})
	}
}

func TestSelectUnusedNameEmptyPool(t *testing.T) {
	got := SelectUnusedName(nil, []string{"x"})
	if got.Name != "" || got.Meaning != "" {
		t.Errorf("want zero candidate, got %+v", got)
	}
}

func TestTrimSetSuffix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Divyani Jewellery Set", "Divyani"},
		{"Amalia Jewelry Set", "Amalia"},
		{"Padmini Set", "Padmini"},
		{"Meera", "Meera"},
	}
	for _, tt := range tests {
		if got := TrimSetSuffix(tt.in); got != tt.want {
			t.Errorf("TrimSetSuffix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want JewelryType
	}{
		{"Kundan-Polki", JewelryKundan},
		{"Crystal Jewellery", JewelryCrystalAD},
		{"American Diamond", JewelryCrystalAD},
		{"AD Stones", JewelryCrystalAD},
		{"Temple", JewelryKundan},
	}
	for _, tt := range tests {
		if got := ClassifyLine(tt.line); got != tt.want {
			t.Errorf("ClassifyLine(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}
