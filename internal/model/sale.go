package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an invoice issued at the till
type Sale struct {
	BaseModel
	Code       string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Date       time.Time       `gorm:"autoCreateTime" json:"date"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Discount   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"discount"`

	Details []SaleDetail `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE;" json:"details,omitempty"`
}

func (Sale) TableName() string {
	return "sales"
}

// SaleDetail is one sold line
type SaleDetail struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Product   *Product        `json:"product,omitempty"`
	SaleID    uint            `gorm:"not null;index" json:"sale_id"`
	Qty       int             `gorm:"not null" json:"qty"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Discount  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"discount"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
}

func (SaleDetail) TableName() string {
	return "sale_details"
}
