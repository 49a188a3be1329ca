package models

import (
	"time"
)

// Role names form a fixed hierarchy: SuperAdmin > Admin > User.
const (
	RoleSuperAdmin = "SuperAdmin"
	RoleAdmin      = "Admin"
	RoleUser       = "User"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(255);uniqueIndex;not null"`
	FirstName    string    `json:"first_name" gorm:"type:varchar(255)"`
	LastName     string    `json:"last_name" gorm:"type:varchar(255)"`
	Email        string    `json:"email" gorm:"type:varchar(255)"`
	Phone        string    `json:"phone" gorm:"type:varchar(50)"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255)"`
	Roles        []Role    `json:"roles" gorm:"many2many:user_roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Role struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(50);uniqueIndex;not null"`
}

type PasswordHistory struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `json:"created_at"`
	User         User      `json:"-" gorm:"foreignKey:UserID"`
}

// RoleNames returns the names of the user's assigned roles.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// HasRole reports whether the user holds the named role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// HighestRole returns the user's highest role in the hierarchy, or ""
// when no role is assigned.
func (u *User) HighestRole() string {
	highest := ""
	for _, r := range u.Roles {
		if roleRank(r.Name) > roleRank(highest) {
			highest = r.Name
		}
	}
	return highest
}

func roleRank(name string) int {
	switch name {
	case RoleSuperAdmin:
		return 3
	case RoleAdmin:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}
