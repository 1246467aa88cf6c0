package repository

import (
	"pos-backoffice/internal/model"

	"gorm.io/gorm"
)

type SaleRepository interface {
	FindByID(id uint) (*model.Sale, error)
	FindByCode(code string) (*model.Sale, error)
	List(search string) ([]model.Sale, error)
	Create(sale *model.Sale) error
	Delete(id uint) error
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) FindByID(id uint) (*model.Sale, error) {
	var sale model.Sale
	if err := r.db.Preload("Details").Preload("Details.Product").First(&sale, id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) FindByCode(code string) (*model.Sale, error) {
	var sale model.Sale
	if err := r.db.Where("code = ?", code).First(&sale).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) List(search string) ([]model.Sale, error) {
	var sales []model.Sale
	q := applySearch(r.db.Model(&model.Sale{}), search, "code")
	err := q.Order("date DESC").Order("id DESC").Find(&sales).Error
	return sales, err
}

// Create inserts the invoice header and its lines in one transaction
func (r *saleRepo) Create(sale *model.Sale) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(sale).Error
	})
}

// Delete removes the sale and all of its detail lines
func (r *saleRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", id).Delete(&model.SaleDetail{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Sale{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
