package services

import (
	"errors"

	"identity-api/internal/config"
	"identity-api/internal/models"
)

var (
	ErrPasswordMismatch   = errors.New("password and confirmation do not match")
	ErrPasswordAlreadySet = errors.New("password has already been set")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrPasswordReused     = errors.New("password was used recently and cannot be reused")
)

type PasswordService struct {
	cfg         *config.Config
	authService *AuthService
}

func NewPasswordService(cfg *config.Config) *PasswordService {
	return &PasswordService{
		cfg:         cfg,
		authService: NewAuthService(cfg),
	}
}

// SetPassword sets the first password on an account that has none yet.
func (s *PasswordService) SetPassword(targetID uint, password, confirmation string) error {
	if password != confirmation {
		return ErrPasswordMismatch
	}

	var user models.User
	if err := models.DB.First(&user, targetID).Error; err != nil {
		return ErrUserNotFound
	}

	if user.PasswordHash != "" {
		return ErrPasswordAlreadySet
	}

	hash, err := s.authService.HashPassword(password)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	if err := models.DB.Save(&user).Error; err != nil {
		return err
	}

	return s.appendHistory(user.ID, hash)
}

// UpdatePassword verifies the current password, rejects reuse of any
// password still held in history, then stores the new hash.
func (s *PasswordService) UpdatePassword(userID uint, current, newPassword, confirmation string) error {
	if newPassword != confirmation {
		return ErrPasswordMismatch
	}

	var user models.User
	if err := models.DB.First(&user, userID).Error; err != nil {
		return ErrUserNotFound
	}

	if user.PasswordHash == "" || !s.authService.VerifyPassword(user.PasswordHash, current) {
		return ErrWrongPassword
	}

	reused, err := s.isInHistory(userID, newPassword)
	if err != nil {
		return err
	}
	if reused {
		return ErrPasswordReused
	}

	hash, err := s.authService.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	if err := models.DB.Save(&user).Error; err != nil {
		return err
	}

	return s.appendHistory(user.ID, hash)
}

// GetHistory returns the user's stored history hashes, oldest first.
func (s *PasswordService) GetHistory(userID uint) ([]models.PasswordHistory, error) {
	var history []models.PasswordHistory
	if err := models.DB.Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

// isInHistory compares the candidate plaintext against every stored hash.
// Bcrypt hashes are salted, so comparison has to go through the verifier
// rather than hashing the candidate and matching strings.
func (s *PasswordService) isInHistory(userID uint, candidate string) (bool, error) {
	history, err := s.GetHistory(userID)
	if err != nil {
		return false, err
	}

	for _, entry := range history {
		if s.authService.VerifyPassword(entry.PasswordHash, candidate) {
			return true, nil
		}
	}
	return false, nil
}

// appendHistory inserts a hash and prunes the oldest entries beyond the cap.
func (s *PasswordService) appendHistory(userID uint, hash string) error {
	entry := &models.PasswordHistory{
		UserID:       userID,
		PasswordHash: hash,
	}
	if err := models.DB.Create(entry).Error; err != nil {
		return err
	}

	history, err := s.GetHistory(userID)
	if err != nil {
		return err
	}

	limit := s.cfg.Security.PasswordHistorySize
	if len(history) <= limit {
		return nil
	}

	for _, old := range history[:len(history)-limit] {
		if err := models.DB.Delete(&models.PasswordHistory{}, old.ID).Error; err != nil {
			return err
		}
	}
	return nil
}
