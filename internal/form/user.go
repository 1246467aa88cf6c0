package form

import "pos-backoffice/internal/model"

const MsgPasswordMismatch = "Passwords do not match"

type UserForm struct {
	FirstName       string `form:"f_name" json:"f_name" validate:"required,max=100"`
	LastName        string `form:"l_name" json:"l_name" validate:"required,max=100"`
	Username        string `form:"u_name" json:"u_name" validate:"required,max=100"`
	Email           string `form:"email" json:"email" validate:"required,email,max=254"`
	Role            string `form:"role" json:"role" validate:"omitempty,oneof=ADMIN MANAGER CASHIER GUEST"`
	IsActive        *bool  `form:"is_active" json:"is_active,omitempty"`
	Password        string `form:"password" json:"-"`
	ConfirmPassword string `form:"confirm_password" json:"-"`
}

func BindUser(v Values) *UserForm {
	return &UserForm{
		FirstName:       v.Get("f_name"),
		LastName:        v.Get("l_name"),
		Username:        v.Get("u_name"),
		Email:           v.Get("email"),
		Role:            v.Get("role"),
		IsActive:        v.Bool("is_active"),
		Password:        v.Raw("password"),
		ConfirmPassword: v.Raw("confirm_password"),
	}
}

// Initial pre-populates a form from an existing user for the update page
func InitialUser(u *model.User) *UserForm {
	active := u.IsActive
	return &UserForm{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		IsActive:  &active,
	}
}

// Validate checks field rules. A password is mandatory when creating; on
// update a blank password leaves the stored hash alone.
func (f *UserForm) Validate(creating bool) error {
	errs := validateStruct(f)
	if creating && f.Password == "" {
		errs.Add("password", "This field is required.")
	}
	if f.Password != "" && f.Password != f.ConfirmPassword {
		errs.AddNonField(MsgPasswordMismatch)
	}
	return errs.OrNil()
}

// Apply copies the cleaned fields onto u, hashing a newly supplied password
func (f *UserForm) Apply(u *model.User) error {
	u.FirstName = f.FirstName
	u.LastName = f.LastName
	u.Username = f.Username
	u.Email = f.Email
	if f.Role != "" {
		u.Role = model.Role(f.Role)
	} else if u.Role == "" {
		u.Role = model.RoleGuest
	}
	if f.IsActive != nil {
		u.IsActive = *f.IsActive
	} else if u.ID == 0 {
		u.IsActive = true
	}
	if f.Password != "" {
		return u.SetPassword(f.Password)
	}
	return nil
}
