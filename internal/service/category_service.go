package service

import (
	"errors"
	"fmt"

	"pos-backoffice/internal/form"
	"pos-backoffice/internal/model"
	"pos-backoffice/internal/repository"
	"pos-backoffice/internal/ws"
)

var ErrCategoryNotFound = errors.New("category not found")

const MsgCategoryTaken = "Category with this name already exists."

type CategoryService interface {
	ListCategories(search string) ([]model.Category, error)
	GetCategory(id uint) (*model.Category, error)
	CreateCategory(f *form.CategoryForm, actor *model.User) (*model.Category, error)
	UpdateCategory(id uint, f *form.CategoryForm, actor *model.User) (*model.Category, error)
	DeleteCategory(id uint, actor *model.User) (*model.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	activity     activity
}

func NewCategoryService(categoryRepo repository.CategoryRepository, pub ws.Publisher) CategoryService {
	return &categoryService{categoryRepo: categoryRepo, activity: activity{pub: pub}}
}

func (s *categoryService) ListCategories(search string) ([]model.Category, error) {
	return s.categoryRepo.List(search)
}

func (s *categoryService) GetCategory(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) nameTaken(name string, selfID uint) bool {
	existing, err := s.categoryRepo.FindByName(name)
	return err == nil && existing.ID != selfID
}

func (s *categoryService) CreateCategory(f *form.CategoryForm, actor *model.User) (*model.Category, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if s.nameTaken(f.Name, 0) {
		return nil, fieldError("name", MsgCategoryTaken)
	}

	category := &model.Category{}
	f.Apply(category)
	category.Touch(actorName(actor))
	if err := s.categoryRepo.Create(category); err != nil {
		if isDuplicate(err) {
			return nil, fieldError("name", MsgCategoryTaken)
		}
		return nil, err
	}

	s.activity.emit("category_created", "category", category.ID, actor, fmt.Sprintf("%s created category %s", actorName(actor), category.Name))
	return category, nil
}

func (s *categoryService) UpdateCategory(id uint, f *form.CategoryForm, actor *model.User) (*model.Category, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if s.nameTaken(f.Name, category.ID) {
		return nil, fieldError("name", MsgCategoryTaken)
	}

	f.Apply(category)
	category.Touch(actorName(actor))
	if err := s.categoryRepo.Update(category); err != nil {
		if isDuplicate(err) {
			return nil, fieldError("name", MsgCategoryTaken)
		}
		return nil, err
	}

	s.activity.emit("category_updated", "category", category.ID, actor, fmt.Sprintf("%s updated category %s", actorName(actor), category.Name))
	return category, nil
}

// DeleteCategory removes the category; its products stay, uncategorised.
func (s *categoryService) DeleteCategory(id uint, actor *model.User) (*model.Category, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Delete(category.ID); err != nil {
		if isNotFound(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	s.activity.emit("category_deleted", "category", category.ID, actor, fmt.Sprintf("%s deleted category %s", actorName(actor), category.Name))
	return category, nil
}
