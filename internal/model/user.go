package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents a back-office account
type User struct {
	BaseModel
	FirstName    string    `gorm:"column:f_name;type:varchar(100);not null" json:"f_name"`
	LastName     string    `gorm:"column:l_name;type:varchar(100);not null" json:"l_name"`
	Username     string    `gorm:"column:u_name;type:varchar(100);uniqueIndex;not null" json:"u_name"`
	Email        string    `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	Profile      *string   `gorm:"type:varchar(255)" json:"profile,omitempty"`
	Role         Role      `gorm:"type:varchar(10);not null;default:GUEST" json:"role"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	IsStaff      bool      `gorm:"not null;default:false" json:"is_staff"`
	DateJoined   time.Time `gorm:"autoCreateTime" json:"date_joined"`
	TokenVersion string    `gorm:"type:varchar(64);default:''" json:"-"` // Rotated on login/logout
}

func (User) TableName() string {
	return "users"
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// FullName is "first last"
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID         uint      `json:"id"`
	FirstName  string    `json:"f_name"`
	LastName   string    `json:"l_name"`
	FullName   string    `json:"full_name"`
	Username   string    `json:"u_name"`
	Email      string    `json:"email"`
	Profile    *string   `json:"profile,omitempty"`
	Role       Role      `json:"role"`
	RoleLabel  string    `json:"role_label"`
	IsActive   bool      `json:"is_active"`
	IsStaff    bool      `json:"is_staff"`
	DateJoined time.Time `json:"date_joined"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		FullName:   u.FullName(),
		Username:   u.Username,
		Email:      u.Email,
		Profile:    u.Profile,
		Role:       u.Role,
		RoleLabel:  u.Role.Label(),
		IsActive:   u.IsActive,
		IsStaff:    u.IsStaff,
		DateJoined: u.DateJoined,
	}
}

// ToResponses converts a slice of users
func ToResponses(users []User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = users[i].ToResponse()
	}
	return responses
}
