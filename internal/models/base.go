package models

import "time"

// Base contains the common columns shared by all tables. Primary keys are
// integer surrogates assigned by the database.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
