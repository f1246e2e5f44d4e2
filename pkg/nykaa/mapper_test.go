package nykaa

import (
	"strings"
	"testing"
)

func TestRemoveBrand(t *testing.T) {
	tests := []struct {
		name  string
		title string
		brand string
		want  string
	}{
		{"prefix with separator", "MINAKI - Royal Kundan Set", "MINAKI", "Royal Kundan Set"},
		{"case insensitive", "Minaki Jhumka Earrings", "MINAKI", "Jhumka Earrings"},
		{"brand absent", "Royal Kundan Set", "MINAKI", "Royal Kundan Set"},
		{"empty brand", "MINAKI Set", "", "MINAKI Set"},
		{"empty title", "", "MINAKI", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RemoveBrand(tt.title, tt.brand); got != tt.want {
				t.Errorf("RemoveBrand(%q, %q) = %q, want %q", tt.title, tt.brand, got, tt.want)
			}
		})
	}
}

func TestCleanDescription(t *testing.T) {
	got := CleanDescription("<p>Handcrafted kundan set • antique finish</p>", 1000)
	want := "Handcrafted kundan set antique finish"
	if got != want {
		t.Errorf("CleanDescription = %q, want %q", got, want)
	}
}

func TestCleanDescriptionTruncatesAtWordBoundary(t *testing.T) {
	got := CleanDescription("A regal statement necklace for weddings", 20)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("truncated description %q should end with ellipsis", got)
	}
	if len(got) > 23 {
		t.Errorf("truncated description too long: %q", got)
	}
	if strings.Contains(got, "necklace") {
		t.Errorf("description %q not truncated", got)
	}
}

func TestClampName(t *testing.T) {
	long := strings.Repeat("Padmini ", 20)
	got := ClampName(long)
	if len(got) > MaxNameLen {
		t.Errorf("ClampName result too long: %d", len(got))
	}
	if short := ClampName("Noor"); short != "Noor" {
		t.Errorf("ClampName(short) = %q", short)
	}
}

func TestPackContains(t *testing.T) {
	tests := []struct {
		name       string
		components []string
		fallback   string
		want       string
	}{
		{"no components uses type", nil, "Necklace", "1 Necklace with Velvet Box"},
		{"no components no type", nil, "", "1 Piece with Velvet Box"},
		{"single earrings as pair", []string{"Earrings"}, "", "1 Pair of Earrings with Velvet Box"},
		{"single jhumka as pair", []string{"Jhumkas"}, "", "1 Pair of Earrings with Velvet Box"},
		{"single other item", []string{"Maang Tikka"}, "", "1 Maang Tikka with Velvet Box"},
		{"two items", []string{"Necklace", "Earrings"}, "", "2 Pieces: Necklace and Earrings with Velvet Box"},
		{"three items", []string{"Necklace", "Earrings", "Maang Tikka"}, "", "3 Pieces: Necklace, Earrings and Maang Tikka with Velvet Box"},
		{"ampersand cleaned", []string{"Necklace & Earrings"}, "", "1 Necklace and Earrings with Velvet Box"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PackContains(tt.components, tt.fallback); got != tt.want {
				t.Errorf("PackContains = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMultipackSet(t *testing.T) {
	if got := MultipackSet(nil); got != "Single" {
		t.Errorf("MultipackSet(nil) = %q", got)
	}
	if got := MultipackSet([]string{"Necklace"}); got != "Single" {
		t.Errorf("MultipackSet(one) = %q", got)
	}
	if got := MultipackSet([]string{"Necklace", "Earrings", "Ring"}); got != "Pack of 3" {
		t.Errorf("MultipackSet(three) = %q", got)
	}
}

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "Multi-Color"},
		{"Antique Gold", "Gold"},
		{"emerald green", "Green"},
		{"Multicolor", "Multi-Color"},
		{"Deep Maroon Red", "Red"},
		{"Turquoise", "Turquoise"},
	}

	for _, tt := range tests {
		if got := NormalizeColor(tt.in); got != tt.want {
			t.Errorf("NormalizeColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeOccasion(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty gets default", "", defaultOccasion},
		{"bridal maps to wedding", "Bridal", "Wedding"},
		{"custom wedding tags dedup", "Sangeet, Mehendi", "Wedding Wear"},
		{"multiple valid values", "Daily, Office", "Casual, Work"},
		{"keyword fallback", "Grand Celebration Night", "Party"},
		{"unmappable falls back", "Gym", "Party"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeOccasion(tt.in); got != tt.want {
				t.Errorf("NormalizeOccasion(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeStyle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "Contemporary"},
		{"kundan", "Kundan"},
		{"Traditional", "Temple"},
		{"minimalist", "Minimal"},
		{"Polki Fusion", "Polki Fusion"},
	}

	for _, tt := range tests {
		if got := NormalizeStyle(tt.in); got != tt.want {
			t.Errorf("NormalizeStyle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeSKU(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"mk-101/mc", "MK-101"},
		{"MK-202/RG", "MK-202"},
		{"MK-303GR", "MK-303"},
		{"MK-404", "MK-404"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeSKU(tt.in); got != tt.want {
			t.Errorf("NormalizeSKU(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMapAppliesDefaults(t *testing.T) {
	m := NewMapper()
	row := m.Map(Source{
		SKU:             "MK-101",
		Title:           "MINAKI Royal Kundan Set",
		DescriptionHTML: "<p>Handcrafted kundan choker.</p>",
		ProductType:     "Jewellery Set",
		Price:           "4999",
		Images: []string{
			"https://cdn.example.com/front.jpg",
			"https://cdn.example.com/back.jpg",
			"https://cdn.example.com/side.jpg",
		},
	})

	checks := map[string]string{
		"Vendor SKU Code":      "MK-101",
		"Style Code":           "MK-101",
		"Product Name":         "Royal Kundan Set",
		"Description":          "Handcrafted kundan choker.",
		"Gender":               "Women",
		"Brand Name":           "MINAKI",
		"Color":                "Multi-Color",
		"Country of Origin":    "India",
		"HSN Codes":            "711790",
		"return_available":     "NO",
		"brand size":           "One Size",
		"Multipack Set":        "Single",
		"Occasion":             defaultOccasion,
		"Material":             "Metal",
		"Plating":              "Not Applicable",
		"Styles of Jewellery":  "Contemporary",
		"Type of Jewellery":    "Jewellery Set",
		"Segment":              "Western",
		"Net Qty":              "1N",
		"Pack Contains":        "1 Jewellery Set with Velvet Box",
		"Front Image":          "https://cdn.example.com/front.jpg",
		"Back Image":           "https://cdn.example.com/back.jpg",
		"Additional Image 1":   "https://cdn.example.com/side.jpg",
		"Additional Image 2":   "",
	}
	for col, want := range checks {
		if got := row[col]; got != want {
			t.Errorf("row[%q] = %q, want %q", col, got, want)
		}
	}

	if len(row) != len(Columns) {
		t.Errorf("row has %d columns, want %d", len(row), len(Columns))
	}
}

func TestMapPrefersExplicitAttributes(t *testing.T) {
	m := NewMapper()
	row := m.Map(Source{
		SKU:         "MK-102",
		Title:       "Emerald Crystal Necklace",
		Price:       "2500",
		Color:       "Emerald Green",
		Occasion:    "Bridal",
		Material:    "Brass",
		Plating:     "Gold Plated",
		Style:       "kundan",
		JewelryType: "Necklace",
		Components:  []string{"Necklace", "Earrings"},
	})

	checks := map[string]string{
		"Color":               "Green",
		"Occasion":            "Wedding",
		"Material":            "Brass",
		"Plating":             "Gold Plated",
		"Styles of Jewellery": "Kundan",
		"Type of Jewellery":   "Necklace",
		"Multipack Set":       "Pack of 2",
		"Pack Contains":       "2 Pieces: Necklace and Earrings with Velvet Box",
	}
	for col, want := range checks {
		if got := row[col]; got != want {
			t.Errorf("row[%q] = %q, want %q", col, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	m := NewMapper()
	good := m.Map(Source{
		SKU:             "MK-103",
		Title:           "Pearl Drop Earrings",
		DescriptionHTML: "Freshwater pearl drops.",
		Price:           "1800",
		Images: []string{
			"https://cdn.example.com/a.jpg",
			"https://cdn.example.com/b.jpg",
		},
	})
	if errs := Validate(good); len(errs) != 0 {
		t.Fatalf("valid row produced errors: %v", errs)
	}

	bad := m.Map(Source{
		SKU:   strings.Repeat("X", 40),
		Title: "No Images",
		Price: "0",
	})
	errs := Validate(bad)
	if len(errs) == 0 {
		t.Fatal("expected validation errors")
	}
	joined := strings.Join(errs, "; ")
	for _, want := range []string{"missing: Description", "missing: Front Image", "sku too long", "price must be > 0"} {
		if !strings.Contains(joined, want) {
			t.Errorf("errors %q missing %q", joined, want)
		}
	}

	dup := m.Map(Source{
		SKU:             "MK-104",
		Title:           "Same Images",
		DescriptionHTML: "desc",
		Price:           "100",
		Images: []string{
			"https://cdn.example.com/a.jpg",
			"https://cdn.example.com/a.jpg",
		},
	})
	found := false
	for _, e := range Validate(dup) {
		if strings.Contains(e, "front and back images must be different") {
			found = true
		}
	}
	if !found {
		t.Error("identical front and back images not flagged")
	}
}
