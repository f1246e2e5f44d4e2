package model

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	Id             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerName   string     `gorm:"type:varchar(255);not null"`
	CustomerPhone  string     `gorm:"type:varchar(50)"`
	CustomerEmail  string     `gorm:"type:varchar(255)"`
	Status         string     `gorm:"type:varchar(50);not null;default:'open';index"`
	DiscountAmount float64    `gorm:"default:0"`
	TaxRatePercent float64    `gorm:"default:0"`
	Subtotal       float64    `gorm:"default:0"`
	TaxAmount      float64    `gorm:"default:0"`
	TotalAmount    float64    `gorm:"default:0"`
	Items          []CartItem `gorm:"foreignKey:CartId;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime"`
}

func (Cart) TableName() string {
	return "carts"
}

type CartItem struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CartId    uuid.UUID `gorm:"type:uuid;not null;index"`
	SKU       string    `gorm:"type:varchar(100);not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	UnitPrice float64   `gorm:"not null"`
	Quantity  int       `gorm:"not null;default:1"`
	LineTotal float64   `gorm:"not null"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

type Invoice struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Number         string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	CartId         uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerName   string    `gorm:"type:varchar(255)"`
	Subtotal       float64   `gorm:"default:0"`
	DiscountAmount float64   `gorm:"default:0"`
	TaxableAmount  float64   `gorm:"default:0"`
	CGST           float64   `gorm:"default:0"`
	SGST           float64   `gorm:"default:0"`
	TaxAmount      float64   `gorm:"default:0"`
	TotalAmount    float64   `gorm:"default:0"`
	PaidAmount     float64   `gorm:"default:0"`
	Outstanding    float64   `gorm:"default:0"`
	PaymentStatus  string    `gorm:"type:varchar(50);not null;default:'unpaid'"`
	PaymentLink    string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (Invoice) TableName() string {
	return "invoices"
}
