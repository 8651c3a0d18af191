// internal/domain/user/service.go
package user

import (
	"errors"
	"strings"
	"time"

	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/pkg/apperror"
	"github.com/zonagamer/zonagamer-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles user business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// Register creates a new user account and signs the user in
func (s *Service) Register(req *RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existingUser User
	result := s.db.Where("email = ?", email).First(&existingUser)
	if result.Error == nil {
		return nil, apperror.New(apperror.CodeConflict, "email %s is already registered", email)
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperror.Wrap(result.Error, apperror.CodeInternal, "failed to look up user")
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.New(apperror.CodeValidation, "%s", err.Error())
	}

	user := User{
		Email:     email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		IsActive:  true,
		IsAdmin:   false,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to create user")
	}

	return s.issueToken(&user)
}

// Login authenticates a user. Inactive accounts fail the same way as
// bad credentials so account state is not probeable.
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user User
	result := s.db.Where("email = ? AND is_active = ?", email, true).First(&user)
	if result.Error != nil {
		return nil, apperror.New(apperror.CodeUnauthorized, "invalid email or password")
	}

	if err := s.passwordManager.VerifyPassword(req.Password, user.Password); err != nil {
		return nil, apperror.New(apperror.CodeUnauthorized, "invalid email or password")
	}

	return s.issueToken(&user)
}

func (s *Service) issueToken(user *User) (*AuthResponse, error) {
	token, err := s.jwtManager.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to generate token")
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	s.db.Model(user).Update("last_login_at", now)

	user.Password = ""
	return &AuthResponse{
		User:      user,
		Token:     token,
		ExpiresIn: int64(s.config.JWT.TokenExpiry.Seconds()),
	}, nil
}

// GetProfile gets user profile by ID
func (s *Service) GetProfile(userID uint) (*User, error) {
	var user User
	result := s.db.Where("id = ? AND is_active = ?", userID, true).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.CodeNotFound, "user %d not found", userID)
		}
		return nil, apperror.Wrap(result.Error, apperror.CodeInternal, "failed to load user")
	}

	user.Password = ""
	return &user, nil
}

// UpdateProfile updates the caller's own profile fields
func (s *Service) UpdateProfile(userID uint, req *UpdateProfileRequest) (*User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to update profile")
		}
	}

	user.Password = ""
	return user, nil
}

// ChangePassword changes the caller's password after verifying the
// current one
func (s *Service) ChangePassword(userID uint, req *ChangePasswordRequest) error {
	var user User
	result := s.db.Where("id = ? AND is_active = ?", userID, true).First(&user)
	if result.Error != nil {
		return apperror.New(apperror.CodeNotFound, "user %d not found", userID)
	}

	if err := s.passwordManager.VerifyPassword(req.CurrentPassword, user.Password); err != nil {
		return apperror.New(apperror.CodeUnauthorized, "current password is incorrect")
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.NewPassword)
	if err != nil {
		return apperror.New(apperror.CodeValidation, "%s", err.Error())
	}

	if err := s.db.Model(&user).Update("password", hashedPassword).Error; err != nil {
		return apperror.Wrap(err, apperror.CodeInternal, "failed to update password")
	}
	return nil
}

// GetActiveUser loads an active user by id, used by the identity
// middleware to resolve token claims into a live account.
func (s *Service) GetActiveUser(userID uint) (*User, error) {
	var user User
	result := s.db.Where("id = ? AND is_active = ?", userID, true).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.CodeNotFound, "user %d not found", userID)
		}
		return nil, apperror.Wrap(result.Error, apperror.CodeInternal, "failed to load user")
	}
	return &user, nil
}
