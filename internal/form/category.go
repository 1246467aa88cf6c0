package form

import "pos-backoffice/internal/model"

type CategoryForm struct {
	Name string `form:"name" json:"name" validate:"required,max=100"`
}

func BindCategory(v Values) *CategoryForm {
	return &CategoryForm{Name: v.Get("name")}
}

func InitialCategory(c *model.Category) *CategoryForm {
	return &CategoryForm{Name: c.Name}
}

func (f *CategoryForm) Validate() error {
	return validateStruct(f).OrNil()
}

func (f *CategoryForm) Apply(c *model.Category) {
	c.Name = f.Name
}
