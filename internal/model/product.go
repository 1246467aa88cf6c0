package model

import "github.com/shopspring/decimal"

type Category struct {
	BaseModel
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

func (Category) TableName() string {
	return "categories"
}

type Product struct {
	BaseModel
	Name       string          `gorm:"type:varchar(200);not null" json:"name"`
	Cost       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cost"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Qty        int             `gorm:"not null;default:0" json:"qty"`
	CategoryID *uint           `gorm:"index" json:"category_id"`
	Category   *Category       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
	Image      *string         `gorm:"type:varchar(255)" json:"image,omitempty"`
	Barcode    *string         `gorm:"type:varchar(100);uniqueIndex" json:"barcode,omitempty"`

	// Stock and sale lines are removed together with the product
	StockDetails []StockDetail `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	SaleDetails  []SaleDetail  `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
