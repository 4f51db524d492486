package model

import "time"

// Tenant is the root of isolation. Every other row in the system
// carries its ID and is scoped by it on every query.
type Tenant struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(150);not null"`
	Plan      string    `json:"plan" gorm:"type:varchar(50);not null;default:'free'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
