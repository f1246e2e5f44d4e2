package dto

// RewriteProductsRequest selects Shopify products to rewrite. When
// ProductIds is empty the whole catalog is walked page by page.
type RewriteProductsRequest struct {
	ProductIds []string `json:"product_ids,omitempty"`
	Limit      int      `json:"limit,omitempty" validate:"omitempty,min=1,max=250"`
	DryRun     bool     `json:"dry_run"`
}

type RewrittenProduct struct {
	ProductId      string `json:"product_id"`
	SKU            string `json:"sku"`
	OldTitle       string `json:"old_title"`
	NewTitle       string `json:"new_title"`
	NewDescription string `json:"new_description"`
	EAN            string `json:"ean,omitempty"`
	Updated        bool   `json:"updated"`
	Error          string `json:"error,omitempty"`
}

type RewriteProductsResponse struct {
	Processed int                `json:"processed"`
	Updated   int                `json:"updated"`
	Failed    int                `json:"failed"`
	Products  []RewrittenProduct `json:"products"`
}
