package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role identifies which side of the operation a user works on
type Role string

const (
	RoleDriver     Role = "driver"     // moves vehicles between sites
	RolePreparator Role = "preparator" // readies vehicles before handover
)

// User represents a driver or preparator in the system
type User struct {
	gorm.Model

	UserID   string `json:"user_id" gorm:"uniqueIndex"`
	Name     string `json:"name"`
	Phone    string `json:"phone" gorm:"uniqueIndex"` // WhatsApp number - unique
	Role     Role   `json:"role" gorm:"index"`
	Depot    string `json:"depot"` // home depot / base site
	IsActive bool   `json:"is_active" gorm:"default:true"`
}

// BeforeCreate hook to auto-generate UserID and normalize data
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == "" {
		prefix := "DRV"
		if u.Role == RolePreparator {
			prefix = "PRP"
		}
		u.UserID = fmt.Sprintf("%s-%s", prefix, uuid.NewString())
	}

	// Normalize phone number (ensure it starts with a country code)
	if u.Phone != "" && !strings.HasPrefix(u.Phone, "+") {
		u.Phone = "+" + u.Phone
	}

	return nil
}

// ValidRole reports whether r is one of the known roles
func ValidRole(r Role) bool {
	return r == RoleDriver || r == RolePreparator
}
