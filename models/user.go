package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Status    string    `gorm:"type:enum('Active','Disabled');default:'Active'" json:"status"`
	Roles     []Role    `gorm:"many2many:user_roles" json:"roles,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// HashPassword hashes the plaintext password before saving to database
func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// ValidatePassword checks if the provided password matches the hashed password
func (u *User) ValidatePassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

type Role struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	RoleKey     string       `gorm:"size:64;uniqueIndex;not null" json:"role_key"`
	RoleName    string       `gorm:"size:100;not null" json:"role_name"`
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
	CreatedAt   time.Time    `json:"-"`
}

func (Role) TableName() string {
	return "roles"
}

type Permission struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PermKey  string `gorm:"size:64;uniqueIndex;not null" json:"perm_key"`
	PermName string `gorm:"size:100;not null" json:"perm_name"`
}

func (Permission) TableName() string {
	return "permissions"
}

// GetUserByUsername retrieves an active user with roles and permissions preloaded.
func GetUserByUsername(db *gorm.DB, username string) (*User, error) {
	var user User
	err := db.Preload("Roles.Permissions").
		Where("username = ? AND status = ?", username, "Active").
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user with roles and permissions preloaded.
func GetUserByID(db *gorm.DB, id uint) (*User, error) {
	var user User
	if err := db.Preload("Roles.Permissions").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// RoleKeys flattens the user's roles into their keys.
func (u *User) RoleKeys() []string {
	keys := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		keys = append(keys, r.RoleKey)
	}
	return keys
}

// PermissionKeys flattens the user's role permissions, deduplicated.
func (u *User) PermissionKeys() []string {
	seen := map[string]bool{}
	var keys []string
	for _, r := range u.Roles {
		for _, p := range r.Permissions {
			if !seen[p.PermKey] {
				seen[p.PermKey] = true
				keys = append(keys, p.PermKey)
			}
		}
	}
	return keys
}
