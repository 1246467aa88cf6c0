package form

import (
	"strconv"

	"pos-backoffice/internal/model"

	"github.com/shopspring/decimal"
)

var maxMoney = decimal.New(9999999999, -2) // decimal(10,2)

type ProductForm struct {
	Name       string          `form:"name" json:"name" validate:"required,max=200"`
	Cost       decimal.Decimal `form:"cost" json:"cost"`
	Price      decimal.Decimal `form:"price" json:"price"`
	Qty        int             `form:"qty" json:"qty"`
	CategoryID *uint           `form:"category_id" json:"category_id,omitempty"`
	Barcode    string          `form:"barcode" json:"barcode,omitempty" validate:"max=100"`

	parseErrs Errors
}

func BindProduct(v Values) *ProductForm {
	f := &ProductForm{
		Name:    v.Get("name"),
		Barcode: v.Get("barcode"),
	}
	f.Cost = parseMoney(&f.parseErrs, "cost", v.Get("cost"))
	f.Price = parseMoney(&f.parseErrs, "price", v.Get("price"))
	if raw := v.Get("qty"); raw != "" {
		qty, err := strconv.Atoi(raw)
		if err != nil {
			f.parseErrs.Add("qty", "Enter a whole number.")
		}
		f.Qty = qty
	}
	if raw := v.Get("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			f.parseErrs.Add("category_id", "Select a valid choice.")
		} else {
			cid := uint(id)
			f.CategoryID = &cid
		}
	}
	return f
}

func InitialProduct(p *model.Product) *ProductForm {
	f := &ProductForm{
		Name:       p.Name,
		Cost:       p.Cost,
		Price:      p.Price,
		Qty:        p.Qty,
		CategoryID: p.CategoryID,
	}
	if p.Barcode != nil {
		f.Barcode = *p.Barcode
	}
	return f
}

func (f *ProductForm) Validate() error {
	errs := validateStruct(f)
	for field, msg := range f.parseErrs.Fields {
		errs.Add(field, msg)
	}
	return errs.OrNil()
}

// Apply copies the cleaned fields onto p. A blank barcode is stored as NULL
// so several products may go without one.
func (f *ProductForm) Apply(p *model.Product) {
	p.Name = f.Name
	p.Cost = f.Cost
	p.Price = f.Price
	p.Qty = f.Qty
	p.CategoryID = f.CategoryID
	if p.Category != nil && (f.CategoryID == nil || p.Category.ID != *f.CategoryID) {
		p.Category = nil
	}
	if f.Barcode == "" {
		p.Barcode = nil
	} else {
		barcode := f.Barcode
		p.Barcode = &barcode
	}
}

// parseMoney reads a required non-negative amount with at most two decimals
func parseMoney(errs *Errors, field, raw string) decimal.Decimal {
	if raw == "" {
		errs.Add(field, "This field is required.")
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		errs.Add(field, "Enter a number.")
		return decimal.Zero
	}
	checkMoney(errs, field, d)
	return d
}

func checkMoney(errs *Errors, field string, d decimal.Decimal) {
	switch {
	case d.IsNegative():
		errs.Add(field, "Enter a non-negative amount.")
	case d.Exponent() < -2 && !d.Equal(d.Round(2)):
		errs.Add(field, "Ensure that there are no more than 2 decimal places.")
	case d.GreaterThan(maxMoney):
		errs.Add(field, "Ensure that there are no more than 10 digits in total.")
	}
}
