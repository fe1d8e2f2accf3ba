package models

import "time"

// BaseModel is gorm.Model without DeletedAt: rows are removed for real.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}
