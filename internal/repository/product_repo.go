package repository

import (
	"pos-backoffice/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	FindByID(id uint) (*model.Product, error)
	FindByBarcode(barcode string) (*model.Product, error)
	List(search string) ([]model.Product, error)
	Create(product *model.Product) error
	Update(product *model.Product) error
	Delete(id uint) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("Category").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByBarcode(barcode string) (*model.Product, error) {
	var product model.Product
	if err := r.db.Where("barcode = ?", barcode).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) List(search string) ([]model.Product, error) {
	var products []model.Product
	q := applySearch(r.db.Model(&model.Product{}), search, "name", "barcode")
	err := q.Preload("Category").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Omit("Category").Create(product).Error
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Omit("Category").Save(product).Error
}

// Delete removes the product together with every stock and sale line
// that references it.
func (r *productRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.StockDetail{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.SaleDetail{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
