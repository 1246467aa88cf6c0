package service

import (
	"errors"
	"sync"

	"pos-backoffice/internal/model"
	"pos-backoffice/internal/repository"
	"pos-backoffice/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrInvalidSession     = errors.New("session is no longer valid")
)

type AuthService interface {
	// Authenticate never tells an unknown username from a wrong password.
	Authenticate(username, password string) (*model.User, error)
	GetUser(id uint) (*model.User, error)
	// Login starts a session for an already authenticated user.
	Login(user *model.User) (string, error)
	Logout(userID uint) error
	ResolveSession(token string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// burnCompare spends the same bcrypt work as a real check so response
// timing does not reveal whether the username exists.
func burnCompare(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

func (s *authService) Authenticate(username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		burnCompare(password)
		return nil, ErrInvalidCredentials
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) GetUser(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(user *model.User) (string, error) {
	// Single session: a fresh version invalidates earlier tokens
	version := uuid.New().String()
	if err := s.userRepo.UpdateTokenVersion(user.ID, version); err != nil {
		return "", errors.New("failed to update session")
	}
	user.TokenVersion = version

	token, err := s.tokens.GenerateToken(user.ID, user.Username, string(user.Role), version)
	if err != nil {
		return "", errors.New("failed to generate token")
	}
	return token, nil
}

func (s *authService) Logout(userID uint) error {
	return s.userRepo.UpdateTokenVersion(userID, uuid.New().String())
}

func (s *authService) ResolveSession(token string) (*model.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.GetUser(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user.TokenVersion == "" || user.TokenVersion != claims.TokenVersion {
		return nil, ErrInvalidSession
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return user, nil
}
