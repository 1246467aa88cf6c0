package form

import "pos-backoffice/internal/model"

const (
	MsgInvalidLogin    = "Invalid username or password"
	MsgInactiveAccount = "This account is inactive"
)

// Authenticator resolves credentials to a user. Any error means the
// credentials were not accepted.
type Authenticator interface {
	Authenticate(username, password string) (*model.User, error)
}

type LoginForm struct {
	Username string `form:"username" json:"username" validate:"required,max=100"`
	Password string `form:"password" json:"-" validate:"required"`
}

func BindLogin(v Values) *LoginForm {
	return &LoginForm{
		Username: v.Get("username"),
		Password: v.Raw("password"),
	}
}

// Clean validates the fields and then the credentials themselves
func (f *LoginForm) Clean(auth Authenticator) (*model.User, error) {
	if errs := validateStruct(f); errs.Any() {
		return nil, errs
	}

	user, err := auth.Authenticate(f.Username, f.Password)
	if err != nil || user == nil {
		errs := &Errors{}
		errs.AddNonField(MsgInvalidLogin)
		return nil, errs
	}
	if !user.IsActive {
		errs := &Errors{}
		errs.AddNonField(MsgInactiveAccount)
		return nil, errs
	}
	return user, nil
}
