package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invitation is a tasting-party card shared through LINE. WineIDs keeps the
// selected bottle ids; the bottles themselves stay in their cellar.
type Invitation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HostID      uint      `gorm:"index" json:"host_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventTime   time.Time `json:"event_time"`
	Location    string    `json:"location"`

	ThemeImageURL *string `json:"theme_image_url"`

	WineIDs IDList `gorm:"type:jsonb;serializer:json" json:"wine_ids"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Host User `gorm:"foreignKey:HostID" json:"-"`
}

type IDList []uint

func (i *Invitation) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}

	return nil
}
