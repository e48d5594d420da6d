// model/user.go
package model

import (
	"time"
)

type User struct {
	ID             string     `json:"id" gorm:"primaryKey"`
	Username       string     `json:"username" gorm:"uniqueIndex;not null"`
	Email          string     `json:"email" gorm:"uniqueIndex;not null"`
	Password       string     `json:"-" gorm:"not null"`
	Role           string     `json:"role" gorm:"default:user"`
	IsActive       bool       `json:"is_active" gorm:"default:true"`
	FailedAttempts int        `json:"failed_attempts" gorm:"default:0"`
	LockedUntil    *time.Time `json:"locked_until"`
	LastLoginAt    *time.Time `json:"last_login_at"`
	LastLoginIP    string     `json:"last_login_ip"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
