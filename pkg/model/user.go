package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	UUID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4()"`
	LineUserID  string    `gorm:"uniqueIndex"`
	DisplayName string
	PictureURL  *string
	StorageMode string `gorm:"default:simple"`
}
