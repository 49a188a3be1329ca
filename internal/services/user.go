package services

import (
	"errors"

	"identity-api/internal/config"
	"identity-api/internal/models"

	"gorm.io/gorm"
)

type UserService struct {
	cfg *config.Config
}

func NewUserService(cfg *config.Config) *UserService {
	return &UserService{cfg: cfg}
}

// GetUsers returns one page of users with the total count.
func (s *UserService) GetUsers(page, pageSize int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := models.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	offset := (page - 1) * pageSize
	if err := models.DB.Preload("Roles").Order("id").Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// GetUser returns a specific user by ID with roles loaded.
func (s *UserService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := models.DB.Preload("Roles").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

type CreateUserData struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Role      string
}

// CreateUser creates an account without a password; the password is set
// afterwards through the password endpoints.
func (s *UserService) CreateUser(data *CreateUserData) (*models.User, error) {
	var existing models.User
	if err := models.DB.Where("username = ?", data.Username).First(&existing).Error; err == nil {
		return nil, ErrUserExists
	}

	user := &models.User{
		Username:  data.Username,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Email:     data.Email,
		Phone:     data.Phone,
		IsActive:  true,
	}

	if data.Role != "" {
		var role models.Role
		if err := models.DB.Where("name = ?", data.Role).First(&role).Error; err != nil {
			return nil, ErrRoleNotFound
		}
		user.Roles = []models.Role{role}
	}

	if err := models.DB.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

type UpdateUserData struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// UpdateUser updates profile fields (never password or roles).
func (s *UserService) UpdateUser(id uint, data *UpdateUserData) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	// Check if username is taken by another user
	if data.Username != "" && data.Username != user.Username {
		var existing models.User
		if err := models.DB.Where("username = ? AND id != ?", data.Username, id).First(&existing).Error; err == nil {
			return nil, ErrUserExists
		}
		user.Username = data.Username
	}

	if data.FirstName != "" {
		user.FirstName = data.FirstName
	}
	if data.LastName != "" {
		user.LastName = data.LastName
	}
	if data.Email != "" {
		user.Email = data.Email
	}
	if data.Phone != "" {
		user.Phone = data.Phone
	}

	if err := models.DB.Save(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser deletes a user. The last SuperAdmin cannot be removed.
func (s *UserService) DeleteUser(id uint) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}

	if user.HasRole(models.RoleSuperAdmin) {
		count, err := s.countUsersWithRole(models.RoleSuperAdmin)
		if err != nil {
			return err
		}
		if count <= 1 {
			return errors.New("cannot delete the last SuperAdmin user")
		}
	}

	if err := models.DB.Model(user).Association("Roles").Clear(); err != nil {
		return err
	}
	if err := models.DB.Where("user_id = ?", id).Delete(&models.PasswordHistory{}).Error; err != nil {
		return err
	}
	return models.DB.Delete(user).Error
}

// SetActive toggles the account-status flag.
func (s *UserService) SetActive(id uint, active bool) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	user.IsActive = active
	if err := models.DB.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// GetRoles returns all roles.
func (s *UserService) GetRoles() ([]models.Role, error) {
	var roles []models.Role
	if err := models.DB.Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// AssignRole adds the named role to the user; assigning an already-held
// role is a no-op.
func (s *UserService) AssignRole(id uint, roleName string) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if user.HasRole(roleName) {
		return user, nil
	}

	var role models.Role
	if err := models.DB.Where("name = ?", roleName).First(&role).Error; err != nil {
		return nil, ErrRoleNotFound
	}

	if err := models.DB.Model(user).Association("Roles").Append(&role); err != nil {
		return nil, err
	}

	return s.GetUser(id)
}

// RemoveRole removes the named role from the user. Stripping SuperAdmin
// from the last SuperAdmin is refused, mirroring DeleteUser.
func (s *UserService) RemoveRole(id uint, roleName string) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if roleName == models.RoleSuperAdmin && user.HasRole(models.RoleSuperAdmin) {
		count, err := s.countUsersWithRole(models.RoleSuperAdmin)
		if err != nil {
			return nil, err
		}
		if count <= 1 {
			return nil, errors.New("cannot remove the SuperAdmin role from the last SuperAdmin user")
		}
	}

	var role models.Role
	if err := models.DB.Where("name = ?", roleName).First(&role).Error; err != nil {
		return nil, ErrRoleNotFound
	}

	if err := models.DB.Model(user).Association("Roles").Delete(&role); err != nil {
		return nil, err
	}

	return s.GetUser(id)
}

func (s *UserService) countUsersWithRole(roleName string) (int64, error) {
	var count int64
	err := models.DB.Model(&models.User{}).
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.name = ?", roleName).
		Count(&count).Error
	return count, err
}
