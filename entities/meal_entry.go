package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"time"
)

type MealEntry struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Name     string    `gorm:"not null" json:"name"`
	Category string    `gorm:"not null" json:"category"` // "breakfast", "lunch", "dinner", "snack"
	EatenOn  time.Time `gorm:"type:date;index" json:"eaten_on"`
	ImageURL *string   `json:"image_url,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}

func (m *MealEntry) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
