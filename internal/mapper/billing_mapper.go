package mapper

import (
	"jewel-backoffice-be/internal/entity"
	"jewel-backoffice-be/internal/model"
)

type BillingMapper struct{}

func NewBillingMapper() *BillingMapper {
	return &BillingMapper{}
}

func (m *BillingMapper) CartToEntity(c *model.Cart) *entity.Cart {
	if c == nil {
		return nil
	}
	items := make([]entity.CartItem, len(c.Items))
	for idx, it := range c.Items {
		items[idx] = *m.ItemToEntity(&it)
	}
	return &entity.Cart{
		Id:             c.Id,
		CustomerName:   c.CustomerName,
		CustomerPhone:  c.CustomerPhone,
		CustomerEmail:  c.CustomerEmail,
		Status:         entity.CartStatus(c.Status),
		Items:          items,
		DiscountAmount: c.DiscountAmount,
		TaxRatePercent: c.TaxRatePercent,
		Subtotal:       c.Subtotal,
		TaxAmount:      c.TaxAmount,
		TotalAmount:    c.TotalAmount,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (m *BillingMapper) CartToModel(c *entity.Cart) *model.Cart {
	if c == nil {
		return nil
	}
	items := make([]model.CartItem, len(c.Items))
	for idx, it := range c.Items {
		items[idx] = *m.ItemToModel(&it)
	}
	return &model.Cart{
		Id:             c.Id,
		CustomerName:   c.CustomerName,
		CustomerPhone:  c.CustomerPhone,
		CustomerEmail:  c.CustomerEmail,
		Status:         string(c.Status),
		Items:          items,
		DiscountAmount: c.DiscountAmount,
		TaxRatePercent: c.TaxRatePercent,
		Subtotal:       c.Subtotal,
		TaxAmount:      c.TaxAmount,
		TotalAmount:    c.TotalAmount,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (m *BillingMapper) ItemToEntity(i *model.CartItem) *entity.CartItem {
	if i == nil {
		return nil
	}
	return &entity.CartItem{
		Id:        i.Id,
		CartId:    i.CartId,
		SKU:       i.SKU,
		Name:      i.Name,
		UnitPrice: i.UnitPrice,
		Quantity:  i.Quantity,
		LineTotal: i.LineTotal,
	}
}

func (m *BillingMapper) ItemToModel(i *entity.CartItem) *model.CartItem {
	if i == nil {
		return nil
	}
	return &model.CartItem{
		Id:        i.Id,
		CartId:    i.CartId,
		SKU:       i.SKU,
		Name:      i.Name,
		UnitPrice: i.UnitPrice,
		Quantity:  i.Quantity,
		LineTotal: i.LineTotal,
	}
}

func (m *BillingMapper) InvoiceToEntity(i *model.Invoice) *entity.Invoice {
	if i == nil {
		return nil
	}
	return &entity.Invoice{
		Id:           i.Id,
		Number:       i.Number,
		CartId:       i.CartId,
		CustomerName: i.CustomerName,
		Breakdown: entity.PriceBreakdown{
			Subtotal:       i.Subtotal,
			DiscountAmount: i.DiscountAmount,
			TaxableAmount:  i.TaxableAmount,
			CGST:           i.CGST,
			SGST:           i.SGST,
			TaxAmount:      i.TaxAmount,
			TotalAmount:    i.TotalAmount,
		},
		PaidAmount:    i.PaidAmount,
		Outstanding:   i.Outstanding,
		PaymentStatus: entity.PaymentStatus(i.PaymentStatus),
		PaymentLink:   i.PaymentLink,
		CreatedAt:     i.CreatedAt,
	}
}

func (m *BillingMapper) InvoiceToModel(i *entity.Invoice) *model.Invoice {
	if i == nil {
		return nil
	}
	return &model.Invoice{
		Id:             i.Id,
		Number:         i.Number,
		CartId:         i.CartId,
		CustomerName:   i.CustomerName,
		Subtotal:       i.Breakdown.Subtotal,
		DiscountAmount: i.Breakdown.DiscountAmount,
		TaxableAmount:  i.Breakdown.TaxableAmount,
		CGST:           i.Breakdown.CGST,
		SGST:           i.Breakdown.SGST,
		TaxAmount:      i.Breakdown.TaxAmount,
		TotalAmount:    i.Breakdown.TotalAmount,
		PaidAmount:     i.PaidAmount,
		Outstanding:    i.Outstanding,
		PaymentStatus:  string(i.PaymentStatus),
		PaymentLink:    i.PaymentLink,
		CreatedAt:      i.CreatedAt,
	}
}
