package model

import (
	"gorm.io/gorm"
)

type WineCellar struct {
	gorm.Model
	Name          string `gorm:"uniqueIndex:idx_cellar_name_owner"`
	Description   string
	TotalCapacity int  `gorm:"default:50"`
	OwnerID       uint `gorm:"uniqueIndex:idx_cellar_name_owner"`

	Owner User `gorm:"foreignKey:OwnerID"`
}

// CellarStats is computed from active items only.
type CellarStats struct {
	CellarID      uint
	BottleCount   uint64
	UniqueCount   uint64
	UsedCapacity  float64
	TotalValue    float64
	UnopenedCount uint64
	OpenedCount   uint64
}
