package entity

import (
	"time"

	"github.com/google/uuid"
)

type CartStatus string
type PaymentStatus string

const (
	CartStatusOpen       CartStatus = "open"
	CartStatusCheckedOut CartStatus = "checked_out"
	CartStatusAbandoned  CartStatus = "abandoned"

	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type Cart struct {
	Id             uuid.UUID
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  string
	Status         CartStatus
	Items          []CartItem
	DiscountAmount float64
	TaxRatePercent float64
	Subtotal       float64
	TaxAmount      float64
	TotalAmount    float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CartItem struct {
	Id        uuid.UUID
	CartId    uuid.UUID
	SKU       string
	Name      string
	UnitPrice float64
	Quantity  int
	LineTotal float64
}

// PriceBreakdown is the tax-split view printed on invoices. GST on
// intra-state sales is halved into CGST and SGST.
type PriceBreakdown struct {
	Subtotal       float64
	DiscountAmount float64
	TaxableAmount  float64
	CGST           float64
	SGST           float64
	TaxAmount      float64
	TotalAmount    float64
}

type Invoice struct {
	Id            uuid.UUID
	Number        string
	CartId        uuid.UUID
	CustomerName  string
	Breakdown     PriceBreakdown
	PaidAmount    float64
	Outstanding   float64
	PaymentStatus PaymentStatus
	PaymentLink   string
	CreatedAt     time.Time
}
