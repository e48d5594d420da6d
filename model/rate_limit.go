// model/rate_limit.go
package model

import (
	"time"
)

// RateLimit tracks request counts per identifier+endpoint window.
type RateLimit struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	Identifier   string     `json:"identifier" gorm:"index:idx_rate_identifier_endpoint;not null"` // IP or user ID
	EndpointType string     `json:"endpoint_type" gorm:"index:idx_rate_identifier_endpoint;not null"`
	RequestCount int        `json:"request_count" gorm:"default:0"`
	WindowStart  time.Time  `json:"window_start"`
	BlockedUntil *time.Time `json:"blocked_until"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
