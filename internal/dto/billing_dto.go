package dto

import (
	"time"

	"github.com/google/uuid"
)

type CartItemRequest struct {
	SKU       string  `json:"sku" validate:"required,max=30"`
	Name      string  `json:"name" validate:"required"`
	UnitPrice float64 `json:"unit_price" validate:"required,gt=0"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
}

type CreateCartRequest struct {
	CustomerName   string            `json:"customer_name" validate:"required"`
	CustomerPhone  string            `json:"customer_phone,omitempty"`
	CustomerEmail  string            `json:"customer_email,omitempty" validate:"omitempty,email"`
	Items          []CartItemRequest `json:"items" validate:"required,min=1,dive"`
	DiscountAmount float64           `json:"discount_amount" validate:"min=0"`
}

type UpdateCartRequest struct {
	Items          []CartItemRequest `json:"items" validate:"required,min=1,dive"`
	DiscountAmount float64           `json:"discount_amount" validate:"min=0"`
}

type CartItemResponse struct {
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

type CartResponse struct {
	Id             uuid.UUID          `json:"id"`
	CustomerName   string             `json:"customer_name"`
	CustomerPhone  string             `json:"customer_phone,omitempty"`
	CustomerEmail  string             `json:"customer_email,omitempty"`
	Status         string             `json:"status"`
	Items          []CartItemResponse `json:"items"`
	DiscountAmount float64            `json:"discount_amount"`
	TaxRatePercent float64            `json:"tax_rate_percent"`
	Subtotal       float64            `json:"subtotal"`
	TaxAmount      float64            `json:"tax_amount"`
	TotalAmount    float64            `json:"total_amount"`
	CreatedAt      time.Time          `json:"created_at"`
}

type CheckoutRequest struct {
	PaidAmount float64 `json:"paid_amount" validate:"min=0"`
}

type InvoiceResponse struct {
	Id             uuid.UUID `json:"id"`
	Number         string    `json:"number"`
	CartId         uuid.UUID `json:"cart_id"`
	CustomerName   string    `json:"customer_name"`
	Subtotal       float64   `json:"subtotal"`
	DiscountAmount float64   `json:"discount_amount"`
	TaxableAmount  float64   `json:"taxable_amount"`
	CGST           float64   `json:"cgst"`
	SGST           float64   `json:"sgst"`
	TaxAmount      float64   `json:"tax_amount"`
	TotalAmount    float64   `json:"total_amount"`
	PaidAmount     float64   `json:"paid_amount"`
	Outstanding    float64   `json:"outstanding"`
	PaymentStatus  string    `json:"payment_status"`
	PaymentLink    string    `json:"payment_link,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type RecordPaymentRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// PricingRequest recomputes a jewelry retail price from its bill of
// materials and labor.
type PricingRequest struct {
	GrossWeightG  float64 `json:"gross_weight_g" validate:"required,gt=0"`
	NetWeightG    float64 `json:"net_weight_g" validate:"required,gt=0"`
	MetalRatePerG float64 `json:"metal_rate_per_g" validate:"required,gt=0"`
	MakingPerG    float64 `json:"making_per_g" validate:"min=0"`
	MakingFlat    float64 `json:"making_flat" validate:"min=0"`
	StoneCarat    float64 `json:"stone_carat" validate:"min=0"`
	StonePerCarat float64 `json:"stone_per_carat" validate:"min=0"`
	MarginPercent float64 `json:"margin_percent" validate:"min=0"`
}

type PricingResponse struct {
	MetalValue  float64 `json:"metal_value"`
	MakingValue float64 `json:"making_value"`
	WastageCost float64 `json:"wastage_cost"`
	StoneValue  float64 `json:"stone_value"`
	FinalCost   float64 `json:"final_cost"`
	RetailPrice float64 `json:"retail_price"`
}
