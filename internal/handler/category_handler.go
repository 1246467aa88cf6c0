package handler

import (
	"fmt"

	"pos-backoffice/internal/form"
	"pos-backoffice/internal/middleware"
	"pos-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
)

const categoriesPath = "/categories/"

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// GET /categories/
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	search := searchQuery(c)
	categories, err := h.categoryService.ListCategories(search)
	if err != nil {
		return err
	}
	return render(c, "category_list", fiber.Map{
		"categories": categories,
		"search":     search,
	})
}

// GET /categories/create/
func (h *CategoryHandler) CreatePage(c *fiber.Ctx) error {
	return render(c, "category_form", fiber.Map{"form": form.CategoryForm{}})
}

// POST /categories/create/
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	values, err := bindValues(c)
	if err != nil {
		return err
	}
	f := form.BindCategory(values)

	category, err := h.categoryService.CreateCategory(f, middleware.CurrentUser(c))
	if err != nil {
		if errs, ok := formErrors(err); ok {
			return renderInvalid(c, "category_form", errs, fiber.Map{"form": f})
		}
		return err
	}

	return redirect(c, categoriesPath, LevelSuccess, fmt.Sprintf("Category %s created successfully!", category.Name))
}

// GET /categories/:id/update/
func (h *CategoryHandler) UpdatePage(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	category, err := h.categoryService.GetCategory(id)
	if err != nil {
		return err
	}
	return render(c, "category_form", fiber.Map{
		"form":     form.InitialCategory(category),
		"category": category,
	})
}

// POST /categories/:id/update/
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	values, err := bindValues(c)
	if err != nil {
		return err
	}
	f := form.BindCategory(values)

	category, err := h.categoryService.UpdateCategory(id, f, middleware.CurrentUser(c))
	if err != nil {
		if errs, ok := formErrors(err); ok {
			return renderInvalid(c, "category_form", errs, fiber.Map{"form": f})
		}
		return err
	}

	return redirect(c, categoriesPath, LevelSuccess, fmt.Sprintf("Category %s updated successfully!", category.Name))
}

// GET /categories/:id/delete/
func (h *CategoryHandler) DeletePage(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	category, err := h.categoryService.GetCategory(id)
	if err != nil {
		return err
	}
	return render(c, "category_confirm_delete", fiber.Map{"category": category})
}

// POST /categories/:id/delete/
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	category, err := h.categoryService.DeleteCategory(id, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return redirect(c, categoriesPath, LevelSuccess, fmt.Sprintf("Category %s deleted successfully!", category.Name))
}
