package dto

// ExportNykaaRequest builds a marketplace catalog sheet from Shopify
// products. SKUs limits the export; empty means everything published.
type ExportNykaaRequest struct {
	SKUs      []string `json:"skus,omitempty"`
	EmailTo   string   `json:"email_to,omitempty" validate:"omitempty,email"`
	SkipDrive bool     `json:"skip_drive"`
}

type ExportRowError struct {
	SKU    string   `json:"sku"`
	Issues []string `json:"issues"`
}

type ExportNykaaResponse struct {
	TotalProducts int              `json:"total_products"`
	ExportedRows  int              `json:"exported_rows"`
	SkippedRows   []ExportRowError `json:"skipped_rows,omitempty"`
	CSV           string           `json:"csv,omitempty"`
	EmailedTo     string           `json:"emailed_to,omitempty"`
}
