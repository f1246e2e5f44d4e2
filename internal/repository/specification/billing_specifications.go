package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByCartId struct {
	CartId uuid.UUID
}

func (s ByCartId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("cart_id = ?", s.CartId)
}

type ByInvoiceNumber struct {
	Number string
}

func (s ByInvoiceNumber) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("number = ?", s.Number)
}

type ByPaymentStatus struct {
	Status string
}

func (s ByPaymentStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("payment_status = ?", s.Status)
}
