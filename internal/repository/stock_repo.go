package repository

import (
	"pos-backoffice/internal/model"

	"gorm.io/gorm"
)

type StockRepository interface {
	FindByID(id uint) (*model.Stock, error)
	FindByCode(code string) (*model.Stock, error)
	List(search string) ([]model.Stock, error)
	Create(stock *model.Stock) error
	Delete(id uint) error
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) StockRepository {
	return &stockRepo{db}
}

func (r *stockRepo) FindByID(id uint) (*model.Stock, error) {
	var stock model.Stock
	if err := r.db.Preload("Details").Preload("Details.Product").First(&stock, id).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepo) FindByCode(code string) (*model.Stock, error) {
	var stock model.Stock
	if err := r.db.Where("code = ?", code).First(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepo) List(search string) ([]model.Stock, error) {
	var stocks []model.Stock
	q := applySearch(r.db.Model(&model.Stock{}), search, "code")
	err := q.Order("date DESC").Order("id DESC").Find(&stocks).Error
	return stocks, err
}

// Create inserts the stock header and its lines in one transaction
func (r *stockRepo) Create(stock *model.Stock) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(stock).Error
	})
}

// Delete removes the stock and all of its detail lines
func (r *stockRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("stock_id = ?", id).Delete(&model.StockDetail{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Stock{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
