package service

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"pos-backoffice/internal/form"
	"pos-backoffice/internal/model"
	"pos-backoffice/internal/repository"
	"pos-backoffice/internal/storage"
	"pos-backoffice/internal/ws"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrStockNotFound   = errors.New("stock not found")
	ErrSaleNotFound    = errors.New("sale not found")
)

const (
	MsgBarcodeTaken    = "Product with this barcode already exists."
	MsgStockCodeTaken  = "Stock with this code already exists."
	MsgSaleCodeTaken   = "Sale with this code already exists."
	MsgUnknownProduct  = "Select a valid product."
	MsgUnknownCategory = "Select a valid choice. That choice is not one of the available choices."
)

// InventoryService covers products and the stock/sale records that
// reference them. Quantities on hand are stored as entered.
type InventoryService interface {
	ListProducts(search string) ([]model.Product, error)
	GetProduct(id uint) (*model.Product, error)
	CreateProduct(f *form.ProductForm, image *multipart.FileHeader, actor *model.User) (*model.Product, error)
	UpdateProduct(id uint, f *form.ProductForm, image *multipart.FileHeader, actor *model.User) (*model.Product, error)
	DeleteProduct(id uint, actor *model.User) (*model.Product, error)

	ListStocks(search string) ([]model.Stock, error)
	GetStock(id uint) (*model.Stock, error)
	CreateStock(f *form.StockForm, actor *model.User) (*model.Stock, error)
	DeleteStock(id uint, actor *model.User) (*model.Stock, error)

	ListSales(search string) ([]model.Sale, error)
	GetSale(id uint) (*model.Sale, error)
	CreateSale(f *form.SaleForm, actor *model.User) (*model.Sale, error)
	DeleteSale(id uint, actor *model.User) (*model.Sale, error)
}

type inventoryService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	stockRepo    repository.StockRepository
	saleRepo     repository.SaleRepository
	images       images
	activity     activity
}

func NewInventoryService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	stockRepo repository.StockRepository,
	saleRepo repository.SaleRepository,
	store storage.Provider,
	pub ws.Publisher,
) InventoryService {
	return &inventoryService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		stockRepo:    stockRepo,
		saleRepo:     saleRepo,
		images:       images{store: store},
		activity:     activity{pub: pub},
	}
}

// generateCode returns prefix plus a short random suffix, e.g. STK-1A2B3C4D
func generateCode(prefix string) string {
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// ---- Products ----

func (s *inventoryService) ListProducts(search string) ([]model.Product, error) {
	return s.productRepo.List(search)
}

func (s *inventoryService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *inventoryService) checkProduct(f *form.ProductForm, selfID uint) *form.Errors {
	errs := &form.Errors{}
	if f.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*f.CategoryID); err != nil {
			errs.Add("category_id", MsgUnknownCategory)
		}
	}
	if f.Barcode != "" {
		if existing, err := s.productRepo.FindByBarcode(f.Barcode); err == nil && existing.ID != selfID {
			errs.Add("barcode", MsgBarcodeTaken)
		}
	}
	return errs
}

func (s *inventoryService) CreateProduct(f *form.ProductForm, image *multipart.FileHeader, actor *model.User) (*model.Product, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if errs := s.checkProduct(f, 0); errs.Any() {
		return nil, errs
	}

	product := &model.Product{}
	f.Apply(product)
	product.Touch(actorName(actor))

	key, err := s.images.save(storage.FolderProducts, "image", image)
	if err != nil {
		return nil, err
	}
	product.Image = key

	if err := s.productRepo.Create(product); err != nil {
		s.images.discard(key)
		if isDuplicate(err) {
			return nil, fieldError("barcode", MsgBarcodeTaken)
		}
		return nil, err
	}

	s.activity.emit("product_created", "product", product.ID, actor, fmt.Sprintf("%s created product %s", actorName(actor), product.Name))
	return product, nil
}

func (s *inventoryService) UpdateProduct(id uint, f *form.ProductForm, image *multipart.FileHeader, actor *model.User) (*model.Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if errs := s.checkProduct(f, product.ID); errs.Any() {
		return nil, errs
	}

	f.Apply(product)
	product.Touch(actorName(actor))

	oldImage := product.Image
	key, err := s.images.save(storage.FolderProducts, "image", image)
	if err != nil {
		return nil, err
	}
	if key != nil {
		product.Image = key
	}

	if err := s.productRepo.Update(product); err != nil {
		s.images.discard(key)
		if isDuplicate(err) {
			return nil, fieldError("barcode", MsgBarcodeTaken)
		}
		return nil, err
	}
	if key != nil {
		s.images.discard(oldImage)
	}

	s.activity.emit("product_updated", "product", product.ID, actor, fmt.Sprintf("%s updated product %s", actorName(actor), product.Name))
	return s.GetProduct(product.ID)
}

// DeleteProduct removes the product and every stock/sale line using it
func (s *inventoryService) DeleteProduct(id uint, actor *model.User) (*model.Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Delete(product.ID); err != nil {
		if isNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	s.images.discard(product.Image)

	s.activity.emit("product_deleted", "product", product.ID, actor, fmt.Sprintf("%s deleted product %s", actorName(actor), product.Name))
	return product, nil
}

// checkLines verifies every referenced product exists
func (s *inventoryService) checkLines(ids []uint) *form.Errors {
	errs := &form.Errors{}
	for _, id := range ids {
		if _, err := s.productRepo.FindByID(id); err != nil {
			errs.Add("details", MsgUnknownProduct)
			break
		}
	}
	return errs
}

// ---- Stocks ----

func (s *inventoryService) ListStocks(search string) ([]model.Stock, error) {
	return s.stockRepo.List(search)
}

func (s *inventoryService) GetStock(id uint) (*model.Stock, error) {
	stock, err := s.stockRepo.FindByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrStockNotFound
		}
		return nil, err
	}
	return stock, nil
}

func (s *inventoryService) CreateStock(f *form.StockForm, actor *model.User) (*model.Stock, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if errs := s.checkLines(f.ProductIDs()); errs.Any() {
		return nil, errs
	}
	if f.Code != "" {
		if _, err := s.stockRepo.FindByCode(f.Code); err == nil {
			return nil, fieldError("code", MsgStockCodeTaken)
		}
	}

	stock := f.Build()
	if stock.Code == "" {
		stock.Code = generateCode("STK")
	}
	stock.Touch(actorName(actor))
	if err := s.stockRepo.Create(stock); err != nil {
		if isDuplicate(err) {
			return nil, fieldError("code", MsgStockCodeTaken)
		}
		return nil, err
	}

	s.activity.emit("stock_created", "stock", stock.ID, actor, fmt.Sprintf("%s recorded stock %s", actorName(actor), stock.Code))
	return s.GetStock(stock.ID)
}

// DeleteStock removes the stock and its detail lines
func (s *inventoryService) DeleteStock(id uint, actor *model.User) (*model.Stock, error) {
	stock, err := s.GetStock(id)
	if err != nil {
		return nil, err
	}
	if err := s.stockRepo.Delete(stock.ID); err != nil {
		if isNotFound(err) {
			return nil, ErrStockNotFound
		}
		return nil, err
	}

	s.activity.emit("stock_deleted", "stock", stock.ID, actor, fmt.Sprintf("%s deleted stock %s", actorName(actor), stock.Code))
	return stock, nil
}

// ---- Sales ----

func (s *inventoryService) ListSales(search string) ([]model.Sale, error) {
	return s.saleRepo.List(search)
}

func (s *inventoryService) GetSale(id uint) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return sale, nil
}

func (s *inventoryService) CreateSale(f *form.SaleForm, actor *model.User) (*model.Sale, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if errs := s.checkLines(f.ProductIDs()); errs.Any() {
		return nil, errs
	}
	if f.Code != "" {
		if _, err := s.saleRepo.FindByCode(f.Code); err == nil {
			return nil, fieldError("code", MsgSaleCodeTaken)
		}
	}

	sale := f.Build()
	if sale.Code == "" {
		sale.Code = generateCode("INV")
	}
	sale.Touch(actorName(actor))
	if err := s.saleRepo.Create(sale); err != nil {
		if isDuplicate(err) {
			return nil, fieldError("code", MsgSaleCodeTaken)
		}
		return nil, err
	}

	s.activity.emit("sale_created", "sale", sale.ID, actor, fmt.Sprintf("%s recorded sale %s", actorName(actor), sale.Code))
	return s.GetSale(sale.ID)
}

// DeleteSale removes the invoice and its detail lines
func (s *inventoryService) DeleteSale(id uint, actor *model.User) (*model.Sale, error) {
	sale, err := s.GetSale(id)
	if err != nil {
		return nil, err
	}
	if err := s.saleRepo.Delete(sale.ID); err != nil {
		if isNotFound(err) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}

	s.activity.emit("sale_deleted", "sale", sale.ID, actor, fmt.Sprintf("%s deleted sale %s", actorName(actor), sale.Code))
	return sale, nil
}
