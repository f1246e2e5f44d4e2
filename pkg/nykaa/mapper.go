// Package nykaa transforms store products into the Nykaa marketplace
// catalog format: a fixed 48 column sheet with strict dropdown values,
// plus EAN-13 barcode generation for listings that lack one.
package nykaa

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Company constants stamped onto every exported row.
const (
	BrandName           = "MINAKI"
	manufacturerName    = "MINAKI"
	manufacturerAddress = "Second Floor, Mckenzie Tower, C-97, Satguru Ram Singh Rd, Mayapuri Industrial Area Phase II, Delhi 110064"
	countryOfOrigin     = "India"
	hsnCode             = "711790"
	returnAvailable     = "NO"
	isReplaceable       = "NO"
	defaultShipsIn      = "5"
	warranty            = "No Warranty"
	careInstructions    = "Keep away from moisture, perfumes, and chemicals. Store in a dry place. Clean with soft cloth."
)

// Catalog-wide jewelry defaults.
const (
	defaultSegment   = "Western"
	defaultSeason    = "Autumn/Winter 2025"
	defaultBrandSize = "One Size"
	defaultMultipack = "Single"
	defaultNetQty    = "1N"
	defaultOccasion  = "Party, Wedding, Festive"
	defaultGender    = "Women"
	defaultStyle     = "Contemporary"
	defaultColor     = "Multi-Color"
)

// Rewriter output limits enforced before a row is assembled.
const (
	MaxNameLen        = 100
	MaxDescriptionLen = 500
)

// Field length caps from the Nykaa sheet template.
const (
	maxSKULen      = 30
	maxRowDescrLen = 1000
)

// Columns is the full Nykaa sheet header in upload order. The first 29
// are mandatory.
var Columns = []string{
	"Vendor SKU Code", "Gender", "Brand Name", "Style Code", "Product Name",
	"Description", "Price", "Color", "Country of Origin", "Manufacturer Name",
	"Manufacturer Address", "return_available", "Is Replaceable", "brand size",
	"Multipack Set", "Occasion", "Season", "Care Instruction", "Ships In",
	"HSN Codes", "Pack Contains", "Net Qty", "Material", "Plating",
	"Styles of Jewellery", "Type of Jewellery", "Segment", "Front Image", "Back Image",
	"Ean Codes", "Design Code", "Disclaimer", "Responsibility Criteria",
	"Collections Function", "Warranty", "Product Weight", "Dimensions", "Diameter",
	"Age", "Age Group",
	"Additional Image 1", "Additional Image 2", "Additional Image 3",
	"Additional Image 4", "Additional Image 5", "Additional Image 6",
	"Additional Image 7", "Additional Image 8",
}

const mandatoryColumns = 29

// Row is one product keyed by Nykaa column name.
type Row map[string]string

// Source carries everything the mapper needs for one product. Empty
// fields fall back to catalog defaults.
type Source struct {
	SKU             string
	Title           string
	DescriptionHTML string
	ProductType     string
	Vendor          string
	Price           string
	Color           string
	Gender          string
	Occasion        string
	Material        string
	Plating         string
	Style           string
	JewelryType     string
	Size            string
	Weight          string
	EAN             string
	Components      []string
	Images          []string
}

// Mapper assembles Nykaa rows. The zero value is not usable; construct
// with NewMapper.
type Mapper struct {
	brand string
}

func NewMapper() *Mapper {
	return &Mapper{brand: BrandName}
}

// Map builds a complete row for one product, applying defaults and
// value normalization so the result passes the marketplace dropdown
// validation.
func (m *Mapper) Map(src Source) Row {
	row := make(Row, len(Columns))
	for _, col := range Columns {
		row[col] = ""
	}

	vendor := src.Vendor
	if vendor == "" {
		vendor = m.brand
	}

	row["Vendor SKU Code"] = src.SKU
	row["Style Code"] = src.SKU
	row["Gender"] = orDefault(src.Gender, defaultGender)
	row["Brand Name"] = vendor
	row["Product Name"] = RemoveBrand(src.Title, m.brand)
	row["Description"] = CleanDescription(src.DescriptionHTML, maxRowDescrLen)
	row["Price"] = orDefault(src.Price, "0")
	row["Color"] = NormalizeColor(src.Color)
	row["Country of Origin"] = countryOfOrigin
	row["Manufacturer Name"] = manufacturerName
	row["Manufacturer Address"] = manufacturerAddress
	row["return_available"] = returnAvailable
	row["Is Replaceable"] = isReplaceable
	row["brand size"] = orDefault(src.Size, defaultBrandSize)
	row["Multipack Set"] = MultipackSet(src.Components)
	row["Occasion"] = NormalizeOccasion(src.Occasion)
	row["Season"] = defaultSeason
	row["Care Instruction"] = careInstructions
	row["Ships In"] = defaultShipsIn
	row["HSN Codes"] = hsnCode
	row["Pack Contains"] = PackContains(src.Components, orDefault(src.ProductType, "Jewelry"))
	row["Net Qty"] = defaultNetQty
	row["Material"] = orDefault(src.Material, "Metal")
	row["Plating"] = orDefault(src.Plating, "Not Applicable")
	row["Styles of Jewellery"] = NormalizeStyle(src.Style)
	row["Type of Jewellery"] = orDefault(src.JewelryType, orDefault(src.ProductType, "Jewelry Set"))
	row["Segment"] = defaultSegment
	row["Ean Codes"] = src.EAN
	row["Warranty"] = warranty
	row["Product Weight"] = src.Weight

	if len(src.Images) > 0 {
		row["Front Image"] = src.Images[0]
	}
	if len(src.Images) > 1 {
		row["Back Image"] = src.Images[1]
	}
	for i := 2; i < len(src.Images) && i < 10; i++ {
		row[fmt.Sprintf("Additional Image %d", i-1)] = src.Images[i]
	}

	return row
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// RemoveBrand strips the brand name from a product title along with
// leftover separator punctuation.
func RemoveBrand(title, brand string) string {
	if title == "" || brand == "" {
		return title
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(brand))
	cleaned := strings.TrimSpace(re.ReplaceAllString(title, ""))
	cleaned = strings.Trim(cleaned, "-|: \t")
	return strings.TrimSpace(cleaned)
}

var (
	tagRe       = regexp.MustCompile(`<[^>]+>`)
	bulletRe    = regexp.MustCompile(`[•●○■□▪▫◦‣⁃]`)
	listMarkRe  = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	spaceRe     = regexp.MustCompile(`\s+`)
	disallowRe  = regexp.MustCompile(`[^\w\s.,!?;:()\-'"]`)
	sepPrefixRe = regexp.MustCompile(`^[-|:\s]+`)
)

// CleanDescription converts HTML copy into the plain text Nykaa
// accepts: tags, bullets and special characters removed, whitespace
// collapsed, truncated at a word boundary when over max.
func CleanDescription(htmlText string, max int) string {
	if htmlText == "" {
		return ""
	}
	text := html.UnescapeString(htmlText)
	text = tagRe.ReplaceAllString(text, " ")
	text = bulletRe.ReplaceAllString(text, "")
	text = listMarkRe.ReplaceAllString(text, "")
	text = spaceRe.ReplaceAllString(text, " ")
	text = disallowRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	if max > 0 && len(text) > max {
		cut := text[:max]
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		text = cut + "..."
	}
	return text
}

// ClampName trims rewriter names to the marketplace limit.
func ClampName(name string) string {
	name = strings.TrimSpace(name)
	if len(name) <= MaxNameLen {
		return name
	}
	cut := name[:MaxNameLen]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}

// ClampDescription trims rewriter descriptions to the marketplace
// limit at a word boundary.
func ClampDescription(desc string) string {
	desc = strings.TrimSpace(desc)
	if len(desc) <= MaxDescriptionLen {
		return desc
	}
	cut := desc[:MaxDescriptionLen]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}

var earringTerms = map[string]bool{
	"earrings": true, "earring": true,
	"jhumkas": true, "jhumka": true,
	"studs": true, "stud": true,
}

// MultipackSet derives the multipack value from the component list.
func MultipackSet(components []string) string {
	if len(components) <= 1 {
		return defaultMultipack
	}
	return fmt.Sprintf("Pack of %d", len(components))
}

// PackContains builds the pack description. Earrings are sold as a
// pair, everything ships in a velvet box.
func PackContains(components []string, fallbackType string) string {
	if len(components) == 0 {
		if fallbackType != "" {
			return cleanPackContains(fmt.Sprintf("1 %s with Velvet Box", fallbackType))
		}
		return "1 Piece with Velvet Box"
	}
	if len(components) == 1 {
		item := components[0]
		if earringTerms[strings.ToLower(item)] {
			return "1 Pair of Earrings with Velvet Box"
		}
		return cleanPackContains(fmt.Sprintf("1 %s with Velvet Box", item))
	}

	var items string
	if len(components) == 2 {
		items = components[0] + " and " + components[1]
	} else {
		items = strings.Join(components[:len(components)-1], ", ") + " and " + components[len(components)-1]
	}
	return cleanPackContains(fmt.Sprintf("%d Pieces: %s with Velvet Box", len(components), items))
}

var packStripper = strings.NewReplacer(
	"&Amp;", "and", "&amp;", "and", "&AMP;", "and", "&", "and",
	"---", "", "#", "", "%", "", "*", "",
)

func cleanPackContains(text string) string {
	text = packStripper.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}

// colorMapping folds common catalog color names into the Nykaa
// dropdown values.
var colorMapping = map[string]string{
	"golden":        "Gold",
	"emerald":       "Green",
	"emerald green": "Green",
	"sky blue":      "Blue",
	"light blue":    "Blue",
	"dark blue":     "Navy Blue",
	"light pink":    "Pink",
	"dark pink":     "Magenta",
	"light green":   "Green",
	"dark green":    "Green",
	"lime green":    "Green",
	"neon":          "Multi-Color",
	"multicolor":    "Multi-Color",
	"multi color":   "Multi-Color",
	"rose":          "Rose Gold",
	"champagne":     "Beige",
	"antique gold":  "Gold",
}

// colorKeywords is the fallback scan order when no mapping matches.
var colorKeywords = []struct{ needle, value string }{
	{"gold", "Gold"}, {"silver", "Silver"}, {"rose", "Rose Gold"},
	{"green", "Green"}, {"emerald", "Green"}, {"blue", "Blue"},
	{"red", "Red"}, {"pink", "Pink"}, {"black", "Black"}, {"white", "White"},
}

// NormalizeColor maps a free-form color onto a valid dropdown value,
// falling back to Multi-Color.
func NormalizeColor(color string) string {
	color = strings.TrimSpace(color)
	if color == "" {
		return defaultColor
	}
	if mapped, ok := colorMapping[strings.ToLower(color)]; ok {
		return mapped
	}
	lower := strings.ToLower(color)
	for _, kw := range colorKeywords {
		if strings.Contains(lower, kw.needle) {
			return kw.value
		}
	}
	return color
}

var occasionMapping = map[string]string{
	"daily":               "Casual",
	"casual":              "Casual",
	"party":               "Party",
	"wedding":             "Wedding",
	"festive":             "Festive Wear",
	"office":              "Work",
	"formal":              "Formal",
	"bridal":              "Wedding",
	"anniversary":         "Special Occasion",
	"night out":           "Night Out",
	"day wear":            "Day Wear",
	"semi formal":         "Semi Formal",
	"evening":             "Evening Wear",
	"cocktail":            "Cocktail Wear",
	"date night":          "Date Night",
	"festive wear":        "Festive Wear",
	"wedding wear":        "Wedding Wear",
	"sporty":              "Sports",
	"any":                 "Any Occasion",
	"everyday":            "Everyday Essentials",
	"fusion":              "Fusion",
	"resort":              "Resort/Vacation",
	"vacation":            "Resort/Vacation",
	"lounge":              "Loungewear",
	"wedding tribe":       "Wedding",
	"sangeet":             "Wedding Wear",
	"mehendi":             "Wedding Wear",
	"haldi":               "Wedding Wear",
	"mehendi & haldi":     "Wedding Wear",
	"mehandi & haldi":     "Wedding Wear",
	"destination wedding": "Wedding",
	"celebration":         "Special Occasion",
}

// NormalizeOccasion maps a comma-separated occasion list onto valid
// dropdown values, deduplicated, with keyword fallbacks for custom
// wedding-adjacent tags. Unmappable values are dropped; an empty
// result falls back to Party.
func NormalizeOccasion(occasion string) string {
	occasion = strings.TrimSpace(occasion)
	if occasion == "" {
		return defaultOccasion
	}

	var mapped []string
	seen := make(map[string]bool)
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			mapped = append(mapped, v)
		}
	}

	for _, part := range strings.Split(occasion, ",") {
		lower := strings.ToLower(strings.TrimSpace(part))
		if lower == "" {
			continue
		}
		if v, ok := occasionMapping[lower]; ok {
			add(v)
			continue
		}
		switch {
		case strings.Contains(lower, "wedding"), strings.Contains(lower, "bridal"), strings.Contains(lower, "marriage"):
			add("Wedding")
		case strings.Contains(lower, "party"), strings.Contains(lower, "cocktail"), strings.Contains(lower, "celebration"):
			add("Party")
		case strings.Contains(lower, "festive"), strings.Contains(lower, "festival"), strings.Contains(lower, "mehendi"), strings.Contains(lower, "haldi"):
			add("Festive Wear")
		}
	}

	if len(mapped) == 0 {
		return "Party"
	}
	return strings.Join(mapped, ", ")
}

var styleMapping = map[string]string{
	"traditional":     "Temple",
	"ethnic":          "Temple",
	"modern":          "Contemporary",
	"classic":         "Contemporary",
	"kundan":          "Kundan",
	"temple":          "Temple",
	"meenakari":       "Meenakari",
	"minakari":        "Meenakari",
	"oxidised":        "Oxidised",
	"oxidized":        "Oxidised",
	"pearl":           "Pearl",
	"pearls":          "Pearl",
	"stones":          "Stones",
	"stone":           "Stones",
	"coloured stone":  "Coloured Stone",
	"colored stone":   "Coloured Stone",
	"white stones":    "White Stones",
	"dramatic":        "Dramatic",
	"minimal":         "Minimal",
	"minimalist":      "Minimal",
	"essential":       "Essential",
	"statement":       "Statement",
	"fusion":          "Fusion",
	"resort":          "Resort",
	"sterling silver": "Sterling Silver",
	"silver":          "Silver Jewellery",
	"tassel":          "Tassel",
	"delicate":        "Delicates",
	"delicates":       "Delicates",
	"contemporary":    "Contemporary",
	"evil eye":        "Evil Eye",
	"kaasu malai":     "Kaasu Malai",
	"rudraksha":       "Rudraksha Rakhi",
	"rakhi":           "Traditional Rakhi",
}

// NormalizeStyle maps a jewelry line onto the Styles of Jewellery
// dropdown, defaulting to Contemporary.
func NormalizeStyle(style string) string {
	style = strings.TrimSpace(style)
	if style == "" {
		return defaultStyle
	}
	if mapped, ok := styleMapping[strings.ToLower(style)]; ok {
		return mapped
	}
	return style
}

// skuSuffixes are variant markers stripped when matching a product
// across inventory systems.
var skuSuffixes = []string{"/MC", "/BK", "/WH", "/GD", "/SL", "/RG", "/GY", "GR", "Y"}

// NormalizeSKU uppercases and strips the first matching variant
// suffix.
func NormalizeSKU(sku string) string {
	normalized := strings.ToUpper(strings.TrimSpace(sku))
	for _, suffix := range skuSuffixes {
		if strings.HasSuffix(normalized, suffix) {
			return normalized[:len(normalized)-len(suffix)]
		}
	}
	return normalized
}

// Validate checks a row against the marketplace upload rules and
// returns every violation found.
func Validate(row Row) []string {
	var errs []string

	for _, field := range []string{
		"Vendor SKU Code", "Product Name", "Description", "Price",
		"Brand Name", "Manufacturer Name", "Manufacturer Address",
		"Front Image", "Back Image",
	} {
		if strings.TrimSpace(row[field]) == "" {
			errs = append(errs, "missing: "+field)
		}
	}

	if sku := row["Vendor SKU Code"]; len(sku) > maxSKULen {
		errs = append(errs, fmt.Sprintf("sku too long (%d/%d)", len(sku), maxSKULen))
	}

	if price, err := strconv.ParseFloat(row["Price"], 64); err != nil {
		errs = append(errs, "invalid price format")
	} else if price <= 0 {
		errs = append(errs, "price must be > 0")
	}

	front, back := row["Front Image"], row["Back Image"]
	for _, img := range []struct{ name, url string }{
		{"Front Image", front},
		{"Back Image", back},
	} {
		if img.url != "" && !strings.HasPrefix(img.url, "http://") && !strings.HasPrefix(img.url, "https://") {
			errs = append(errs, "invalid "+img.name+" URL")
		}
	}
	if front != "" && front == back {
		errs = append(errs, "front and back images must be different")
	}

	if desc := row["Description"]; len(desc) > maxRowDescrLen {
		errs = append(errs, fmt.Sprintf("description too long (%d/%d)", len(desc), maxRowDescrLen))
	}

	return errs
}
