package models

import (
	"time"

	"asrama/internal/uuid"

	"gorm.io/gorm"
)

// Base contains the columns shared by every table. Ledger rows are never
// updated in place, so there is no updated_at, and deletes are hard deletes.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
