package form

import (
	"fmt"

	"pos-backoffice/internal/model"

	"github.com/shopspring/decimal"
)

// StockLine is one purchased product in a StockForm
type StockLine struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Qty       int             `json:"qty" validate:"gt=0"`
	Cost      decimal.Decimal `json:"cost"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
}

// StockForm is submitted as JSON: header amounts plus detail lines
type StockForm struct {
	Code      string          `json:"code" validate:"omitempty,max=50"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Discount  decimal.Decimal `json:"discount"`
	Details   []StockLine     `json:"details" validate:"required,min=1,dive"`
}

func (f *StockForm) Validate() error {
	errs := validateStruct(f)
	checkMoney(errs, "total_cost", f.TotalCost)
	checkMoney(errs, "discount", f.Discount)
	for i, line := range f.Details {
		prefix := fmt.Sprintf("details[%d].", i)
		checkMoney(errs, prefix+"cost", line.Cost)
		checkMoney(errs, prefix+"discount", line.Discount)
		checkMoney(errs, prefix+"total", line.Total)
	}
	return errs.OrNil()
}

// ProductIDs lists the distinct products referenced by the lines
func (f *StockForm) ProductIDs() []uint {
	ids := make([]uint, 0, len(f.Details))
	for _, line := range f.Details {
		ids = append(ids, line.ProductID)
	}
	return uniqueIDs(ids)
}

func (f *StockForm) Build() *model.Stock {
	stock := &model.Stock{
		Code:      f.Code,
		TotalCost: f.TotalCost,
		Discount:  f.Discount,
	}
	for _, line := range f.Details {
		stock.Details = append(stock.Details, model.StockDetail{
			ProductID: line.ProductID,
			Qty:       line.Qty,
			Cost:      line.Cost,
			Discount:  line.Discount,
			Total:     line.Total,
		})
	}
	return stock
}

// SaleLine is one sold product in a SaleForm
type SaleLine struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Qty       int             `json:"qty" validate:"gt=0"`
	Price     decimal.Decimal `json:"price"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
}

type SaleForm struct {
	Code       string          `json:"code" validate:"omitempty,max=50"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Discount   decimal.Decimal `json:"discount"`
	Details    []SaleLine      `json:"details" validate:"required,min=1,dive"`
}

func (f *SaleForm) Validate() error {
	errs := validateStruct(f)
	checkMoney(errs, "total_price", f.TotalPrice)
	checkMoney(errs, "discount", f.Discount)
	for i, line := range f.Details {
		prefix := fmt.Sprintf("details[%d].", i)
		checkMoney(errs, prefix+"price", line.Price)
		checkMoney(errs, prefix+"discount", line.Discount)
		checkMoney(errs, prefix+"total", line.Total)
	}
	return errs.OrNil()
}

func (f *SaleForm) ProductIDs() []uint {
	ids := make([]uint, 0, len(f.Details))
	for _, line := range f.Details {
		ids = append(ids, line.ProductID)
	}
	return uniqueIDs(ids)
}

func (f *SaleForm) Build() *model.Sale {
	sale := &model.Sale{
		Code:       f.Code,
		TotalPrice: f.TotalPrice,
		Discount:   f.Discount,
	}
	for _, line := range f.Details {
		sale.Details = append(sale.Details, model.SaleDetail{
			ProductID: line.ProductID,
			Qty:       line.Qty,
			Price:     line.Price,
			Discount:  line.Discount,
			Total:     line.Total,
		})
	}
	return sale
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
