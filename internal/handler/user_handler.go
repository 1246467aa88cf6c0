package handler

import (
	"errors"
	"fmt"

	"pos-backoffice/internal/form"
	"pos-backoffice/internal/middleware"
	"pos-backoffice/internal/model"
	"pos-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	usersPath = "/users/"

	MsgSelfDelete = "You cannot delete your own account!"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type roleChoice struct {
	Value model.Role `json:"value"`
	Label string     `json:"label"`
}

func roleChoices() []roleChoice {
	choices := make([]roleChoice, len(model.Roles))
	for i, r := range model.Roles {
		choices[i] = roleChoice{Value: r, Label: r.Label()}
	}
	return choices
}

func userFormData(f *form.UserForm, user *model.User) fiber.Map {
	data := fiber.Map{"form": f, "roles": roleChoices()}
	if user != nil {
		data["user"] = user.ToResponse()
	}
	return data
}

// ListUsers returns users, optionally filtered by ?search=
// GET /users/
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	search := searchQuery(c)
	users, err := h.userService.ListUsers(search)
	if err != nil {
		return err
	}
	return render(c, "user_list", fiber.Map{
		"users":  model.ToResponses(users),
		"search": search,
	})
}

// CreatePage
// GET /users/create/
func (h *UserHandler) CreatePage(c *fiber.Ctx) error {
	return render(c, "user_form", userFormData(&form.UserForm{}, nil))
}

// CreateUser handles user creation
// POST /users/create/
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	values, err := bindValues(c)
	if err != nil {
		return err
	}
	f := form.BindUser(values)

	user, err := h.userService.CreateUser(f, uploadedFile(c, "profile"), middleware.CurrentUser(c))
	if err != nil {
		if errs, ok := formErrors(err); ok {
			return renderInvalid(c, "user_form", errs, userFormData(f, nil))
		}
		return err
	}

	return redirect(c, usersPath, LevelSuccess, fmt.Sprintf("User %s created successfully!", user.FullName()))
}

// UpdatePage shows the form filled from the stored user
// GET /users/:id/update/
func (h *UserHandler) UpdatePage(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetUser(id)
	if err != nil {
		return err
	}
	return render(c, "user_form", userFormData(form.InitialUser(user), user))
}

// UpdateUser handles user update
// POST /users/:id/update/
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	values, err := bindValues(c)
	if err != nil {
		return err
	}
	uncheckedBoxes(c, values, "is_active")
	f := form.BindUser(values)

	user, err := h.userService.UpdateUser(id, f, uploadedFile(c, "profile"), middleware.CurrentUser(c))
	if err != nil {
		if errs, ok := formErrors(err); ok {
			current, _ := h.userService.GetUser(id)
			return renderInvalid(c, "user_form", errs, userFormData(f, current))
		}
		return err
	}

	return redirect(c, usersPath, LevelSuccess, fmt.Sprintf("User %s updated successfully!", user.FullName()))
}

// DeletePage asks for confirmation
// GET /users/:id/delete/
func (h *UserHandler) DeletePage(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetUser(id)
	if err != nil {
		return err
	}
	return render(c, "user_confirm_delete", fiber.Map{"user": user.ToResponse()})
}

// DeleteUser removes a user; requesters cannot remove themselves
// POST /users/:id/delete/
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	user, err := h.userService.DeleteUser(id, middleware.CurrentUser(c))
	if err != nil {
		if errors.Is(err, service.ErrSelfDelete) {
			return redirect(c, usersPath, LevelError, MsgSelfDelete)
		}
		return err
	}

	return redirect(c, usersPath, LevelSuccess, fmt.Sprintf("User %s deleted successfully!", user.FullName()))
}
