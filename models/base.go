package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UUIDModel provides a UUID primary key assigned on insert. Models embed it
// instead of inheriting from a base entity; capabilities compose by
// embedding independent field sets.
type UUIDModel struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
}

// BeforeCreate assigns a fresh UUID when the caller did not set one.
func (m *UUIDModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
