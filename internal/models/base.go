package models

import "time"

// BaseModel is gorm.Model without soft deletes. Deletes in this app are
// hard deletes so the database-level cascade and SET NULL rules fire.
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
