package services

import (
	"errors"

	"identity-api/internal/config"
	"identity-api/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrRoleNotFound       = errors.New("role not found")
)

type AuthService struct {
	cfg *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// HashPassword hashes a password using bcrypt
func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.Security.BcryptCost)
	return string(bytes), err
}

// VerifyPassword verifies a password against a hash
func (s *AuthService) VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// Authenticate verifies credentials and returns the user with roles loaded.
// Deactivated accounts fail regardless of password.
func (s *AuthService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	if err := models.DB.Preload("Roles").Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if user.PasswordHash == "" || !s.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// CreateDefaultSuperAdmin creates the bootstrap SuperAdmin account if the
// users table is empty.
func (s *AuthService) CreateDefaultSuperAdmin() error {
	var count int64
	models.DB.Model(&models.User{}).Count(&count)

	if count > 0 {
		return nil
	}

	hashedPassword, err := s.HashPassword(s.cfg.DefaultUser.Password)
	if err != nil {
		return err
	}

	var role models.Role
	if err := models.DB.Where("name = ?", models.RoleSuperAdmin).First(&role).Error; err != nil {
		return err
	}

	user := &models.User{
		Username:     s.cfg.DefaultUser.Username,
		Email:        s.cfg.DefaultUser.Email,
		IsActive:     true,
		PasswordHash: hashedPassword,
		Roles:        []models.Role{role},
	}

	return models.DB.Create(user).Error
}
