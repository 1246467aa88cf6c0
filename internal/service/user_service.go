package service

import (
	"errors"
	"fmt"
	"mime/multipart"

	"pos-backoffice/internal/form"
	"pos-backoffice/internal/model"
	"pos-backoffice/internal/repository"
	"pos-backoffice/internal/storage"
	"pos-backoffice/internal/ws"
)

var (
	ErrSelfDelete = errors.New("you cannot delete your own account")
)

const (
	MsgUsernameTaken = "User with this username already exists."
	MsgEmailTaken    = "User with this email already exists."
)

type UserService interface {
	ListUsers(search string) ([]model.User, error)
	GetUser(id uint) (*model.User, error)
	CreateUser(f *form.UserForm, profile *multipart.FileHeader, actor *model.User) (*model.User, error)
	UpdateUser(id uint, f *form.UserForm, profile *multipart.FileHeader, actor *model.User) (*model.User, error)
	// DeleteUser refuses to remove the requester's own account.
	DeleteUser(id uint, actor *model.User) (*model.User, error)
	EnsureAdmin(username, email, password string) (*model.User, bool, error)
}

type userService struct {
	userRepo repository.UserRepository
	images   images
	activity activity
}

func NewUserService(userRepo repository.UserRepository, store storage.Provider, pub ws.Publisher) UserService {
	return &userService{
		userRepo: userRepo,
		images:   images{store: store},
		activity: activity{pub: pub},
	}
}

func (s *userService) ListUsers(search string) ([]model.User, error) {
	return s.userRepo.List(search)
}

func (s *userService) GetUser(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// checkUnique reports username/email collisions with users other than selfID
func (s *userService) checkUnique(f *form.UserForm, selfID uint) *form.Errors {
	errs := &form.Errors{}
	if existing, err := s.userRepo.FindByUsername(f.Username); err == nil && existing.ID != selfID {
		errs.Add("u_name", MsgUsernameTaken)
	}
	if existing, err := s.userRepo.FindByEmail(f.Email); err == nil && existing.ID != selfID {
		errs.Add("email", MsgEmailTaken)
	}
	return errs
}

func duplicateUserError() error {
	errs := &form.Errors{}
	errs.AddNonField("User with this username or email already exists.")
	return errs
}

func (s *userService) CreateUser(f *form.UserForm, profile *multipart.FileHeader, actor *model.User) (*model.User, error) {
	// 1. Validate request
	if err := f.Validate(true); err != nil {
		return nil, err
	}

	// 2. Check uniqueness before touching storage
	if errs := s.checkUnique(f, 0); errs.Any() {
		return nil, errs
	}

	// 3. Build user, hashing the password
	user := &model.User{}
	if err := f.Apply(user); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.Touch(actorName(actor))

	// 4. Store profile image if provided
	key, err := s.images.save(storage.FolderProfiles, "profile", profile)
	if err != nil {
		return nil, err
	}
	user.Profile = key

	// 5. Save to database
	if err := s.userRepo.Create(user); err != nil {
		s.images.discard(key)
		if isDuplicate(err) {
			return nil, duplicateUserError()
		}
		return nil, err
	}

	s.activity.emit("user_created", "user", user.ID, actor, fmt.Sprintf("%s created user %s", actorName(actor), user.Username))
	return user, nil
}

func (s *userService) UpdateUser(id uint, f *form.UserForm, profile *multipart.FileHeader, actor *model.User) (*model.User, error) {
	// 1. Find existing user
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	// 2. Validate request; the stored record is untouched on failure
	if err := f.Validate(false); err != nil {
		return nil, err
	}
	if errs := s.checkUnique(f, user.ID); errs.Any() {
		return nil, errs
	}

	// 3. Update fields; a blank password keeps the current hash
	if err := f.Apply(user); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.Touch(actorName(actor))

	// 4. Replace profile image if a new one was uploaded
	oldProfile := user.Profile
	key, err := s.images.save(storage.FolderProfiles, "profile", profile)
	if err != nil {
		return nil, err
	}
	if key != nil {
		user.Profile = key
	}

	// 5. Save to database
	if err := s.userRepo.Update(user); err != nil {
		s.images.discard(key)
		if isDuplicate(err) {
			return nil, duplicateUserError()
		}
		return nil, err
	}
	if key != nil {
		s.images.discard(oldProfile)
	}

	s.activity.emit("user_updated", "user", user.ID, actor, fmt.Sprintf("%s updated user %s", actorName(actor), user.Username))
	return user, nil
}

func (s *userService) DeleteUser(id uint, actor *model.User) (*model.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if actor != nil && user.ID == actor.ID {
		return nil, ErrSelfDelete
	}

	if err := s.userRepo.Delete(user.ID); err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.images.discard(user.Profile)

	s.activity.emit("user_deleted", "user", user.ID, actor, fmt.Sprintf("%s deleted user %s", actorName(actor), user.Username))
	return user, nil
}

// EnsureAdmin creates the initial administrator unless a user with that
// username already exists. The bool reports whether a user was created.
func (s *userService) EnsureAdmin(username, email, password string) (*model.User, bool, error) {
	if existing, err := s.userRepo.FindByUsername(username); err == nil {
		return existing, false, nil
	} else if !isNotFound(err) {
		return nil, false, err
	}

	admin := &model.User{
		FirstName: "Admin",
		LastName:  "User",
		Username:  username,
		Email:     email,
		Role:      model.RoleAdmin,
		IsActive:  true,
		IsStaff:   true,
	}
	admin.Touch("system")
	if err := admin.SetPassword(password); err != nil {
		return nil, false, fmt.Errorf("hash admin password: %w", err)
	}
	if err := s.userRepo.Create(admin); err != nil {
		return nil, false, err
	}
	return admin, true, nil
}
