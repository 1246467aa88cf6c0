package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock is a purchase of goods from a supplier
type Stock struct {
	BaseModel
	Code      string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Date      time.Time       `gorm:"autoCreateTime" json:"date"`
	TotalCost decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_cost"`
	Discount  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"discount"`

	Details []StockDetail `gorm:"foreignKey:StockID;constraint:OnDelete:CASCADE;" json:"details,omitempty"`
}

func (Stock) TableName() string {
	return "stocks"
}

// StockDetail is one purchased line
type StockDetail struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Product   *Product        `json:"product,omitempty"`
	StockID   uint            `gorm:"not null;index" json:"stock_id"`
	Qty       int             `gorm:"not null" json:"qty"`
	Cost      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cost"`
	Discount  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"discount"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
}

func (StockDetail) TableName() string {
	return "stock_details"
}
