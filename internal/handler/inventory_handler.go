package handler

import (
	"fmt"

	"pos-backoffice/internal/form"
	"pos-backoffice/internal/middleware"
	"pos-backoffice/internal/model"
	"pos-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	productsPath = "/products/"
	stocksPath   = "/stocks/"
	salesPath    = "/sales/"
)

type InventoryHandler struct {
	service    service.InventoryService
	categories service.CategoryService
}

func NewInventoryHandler(s service.InventoryService, categories service.CategoryService) *InventoryHandler {
	return &InventoryHandler{service: s, categories: categories}
}

func (h *InventoryHandler) productFormData(f *form.ProductForm, product *model.Product) (fiber.Map, error) {
	categories, err := h.categories.ListCategories("")
	if err != nil {
		return nil, err
	}
	data := fiber.Map{"form": f, "categories": categories}
	if product != nil {
		data["product"] = product
	}
	return data, nil
}

func (h *InventoryHandler) invalidProduct(c *fiber.Ctx, errs *form.Errors, f *form.ProductForm, product *model.Product) error {
	data, err := h.productFormData(f, product)
	if err != nil {
		return err
	}
	return renderInvalid(c, "product_form", errs, data)
}

// ---- Products ----

// GET /products/
func (h *InventoryHandler) ListProducts(c *fiber.Ctx) error {
	search := searchQuery(c)
	products, err := h.service.ListProducts(search)
	if err != nil {
		return err
	}
	return render(c, "product_list", fiber.Map{"products": products, "search": search})
}

// GET /products/create/
func (h *InventoryHandler) CreateProductPage(c *fiber.Ctx) error {
	data, err := h.productFormData(&form.ProductForm{}, nil)
	if err != nil {
		return err
	}
	return render(c, "product_form", data)
}

// POST /products/create/
func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	values, err := bindValues(c)
	if err != nil {
		return err
	}
	f := form.BindProduct(values)

	product, err := h.service.CreateProduct(f, uploadedFile(c, "image"), middleware.CurrentUser(c))
	if err != nil {
		if errs, ok := formErrors(err); ok {
			return h.invalidProduct(c, errs, f, nil)
		}
		return err
	}
	return redirect(c, productsPath, LevelSuccess, fmt.Sprintf("Product %s created successfully!", product.Name))
}

// GET /products/:id/update/
func (h *InventoryHandler) UpdateProductPage(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	product, err := h.service.GetProduct(id)
	if err != nil {
		return err
	}
	data, err := h.productFormData(form.InitialProduct(product), product)
	if err != nil {
		return err
	}
	return render(c, "product_form", data)
}

// POST /products/:id/update/
func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	values, err := bindValues(c)
	if err != nil {
		return err
	}
	f := form.BindProduct(values)

	product, err := h.service.UpdateProduct(id, f, uploadedFile(c, "image"), middleware.CurrentUser(c))
	if err != nil {
		if errs, ok := formErrors(err); ok {
			current, _ := h.service.GetProduct(id)
			return h.invalidProduct(c, errs, f, current)
		}
		return err
	}
	return redirect(c, productsPath, LevelSuccess, fmt.Sprintf("Product %s updated successfully!", product.Name))
}

// GET /products/:id/delete/
func (h *InventoryHandler) DeleteProductPage(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	product, err := h.service.GetProduct(id)
	if err != nil {
		return err
	}
	return render(c, "product_confirm_delete", fiber.Map{"product": product})
}

// POST /products/:id/delete/
func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	product, err := h.service.DeleteProduct(id, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return redirect(c, productsPath, LevelSuccess, fmt.Sprintf("Product %s deleted successfully!", product.Name))
}

// ---- Stocks ----

// GET /stocks/
func (h *InventoryHandler) ListStocks(c *fiber.Ctx) error {
	search := searchQuery(c)
	stocks, err := h.service.ListStocks(search)
	if err != nil {
		return err
	}
	return render(c, "stock_list", fiber.Map{"stocks": stocks, "search": search})
}

// GET /stocks/create/
func (h *InventoryHandler) CreateStockPage(c *fiber.Ctx) error {
	products, err := h.service.ListProducts("")
	if err != nil {
		return err
	}
	return render(c, "stock_form", fiber.Map{"form": form.StockForm{}, "products": products})
}

// POST /stocks/create/ (JSON body)
func (h *InventoryHandler) CreateStock(c *fiber.Ctx) error {
	var f form.StockForm
	if err := c.BodyParser(&f); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON")
	}

	stock, err := h.service.CreateStock(&f, middleware.CurrentUser(c))
	if err != nil {
		if errs, ok := formErrors(err); ok {
			return renderInvalid(c, "stock_form", errs, fiber.Map{"form": f})
		}
		return err
	}
	return redirect(c, stocksPath, LevelSuccess, fmt.Sprintf("Stock %s recorded successfully!", stock.Code))
}

// GET /stocks/:id/
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	stock, err := h.service.GetStock(id)
	if err != nil {
		return err
	}
	return render(c, "stock_detail", fiber.Map{"stock": stock})
}

// GET /stocks/:id/delete/
func (h *InventoryHandler) DeleteStockPage(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	stock, err := h.service.GetStock(id)
	if err != nil {
		return err
	}
	return render(c, "stock_confirm_delete", fiber.Map{"stock": stock})
}

// POST /stocks/:id/delete/
func (h *InventoryHandler) DeleteStock(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	stock, err := h.service.DeleteStock(id, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return redirect(c, stocksPath, LevelSuccess, fmt.Sprintf("Stock %s deleted successfully!", stock.Code))
}

// ---- Sales ----

// GET /sales/
func (h *InventoryHandler) ListSales(c *fiber.Ctx) error {
	search := searchQuery(c)
	sales, err := h.service.ListSales(search)
	if err != nil {
		return err
	}
	return render(c, "sale_list", fiber.Map{"sales": sales, "search": search})
}

// GET /sales/create/
func (h *InventoryHandler) CreateSalePage(c *fiber.Ctx) error {
	products, err := h.service.ListProducts("")
	if err != nil {
		return err
	}
	return render(c, "sale_form", fiber.Map{"form": form.SaleForm{}, "products": products})
}

// POST /sales/create/ (JSON body)
func (h *InventoryHandler) CreateSale(c *fiber.Ctx) error {
	var f form.SaleForm
	if err := c.BodyParser(&f); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON")
	}

	sale, err := h.service.CreateSale(&f, middleware.CurrentUser(c))
	if err != nil {
		if errs, ok := formErrors(err); ok {
			return renderInvalid(c, "sale_form", errs, fiber.Map{"form": f})
		}
		return err
	}
	return redirect(c, salesPath, LevelSuccess, fmt.Sprintf("Sale %s recorded successfully!", sale.Code))
}

// GET /sales/:id/
func (h *InventoryHandler) GetSale(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	sale, err := h.service.GetSale(id)
	if err != nil {
		return err
	}
	return render(c, "sale_detail", fiber.Map{"sale": sale})
}

// GET /sales/:id/delete/
func (h *InventoryHandler) DeleteSalePage(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	sale, err := h.service.GetSale(id)
	if err != nil {
		return err
	}
	return render(c, "sale_confirm_delete", fiber.Map{"sale": sale})
}

// POST /sales/:id/delete/
func (h *InventoryHandler) DeleteSale(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	sale, err := h.service.DeleteSale(id, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return redirect(c, salesPath, LevelSuccess, fmt.Sprintf("Sale %s deleted successfully!", sale.Code))
}
