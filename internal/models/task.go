package models

import (
	"time"

	"gorm.io/datatypes"
)

type Task struct {
	BaseModel

	OwnerID  uint   `gorm:"not null;index"`
	Title    string `gorm:"not null"`
	Done     bool   `gorm:"not null;default:false"`
	Priority int    `gorm:"not null;default:2;index"` // 1=high, 2=medium, 3=low
	Category string `gorm:"not null;default:general;index"`
	DueDate  *time.Time
	Tags     datatypes.JSONSlice[string]
}
