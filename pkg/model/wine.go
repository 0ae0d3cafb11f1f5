package model

import (
	"time"

	"gorm.io/gorm"
)

// Bottle lifecycle states. Consumed, sold and gifted items drop out of
// default listings but stay queryable for history views.
const (
	StatusActive   = "active"
	StatusConsumed = "consumed"
	StatusSold     = "sold"
	StatusGifted   = "gifted"
	StatusArchived = "archived"
)

const (
	BottleUnopened = "unopened"
	BottleOpened   = "opened"
)

const (
	PreservationImmediate = "immediate"
	PreservationAging     = "aging"
)

// WineItem is one inventory entry for one or more physical bottles from the
// same purchase batch. Quantity counts physical bottles.
type WineItem struct {
	gorm.Model
	CellarID uint `gorm:"index" json:"cellar_id"`

	Name     string   `gorm:"index" json:"name"`
	WineType string   `json:"wine_type"`
	Brand    *string  `json:"brand"`
	Vintage  *int     `json:"vintage"`
	Region   *string  `json:"region"`
	Country  *string  `json:"country"`
	ABV      *float64 `json:"abv"`

	Quantity      int     `gorm:"default:1" json:"quantity"`
	SpaceUnits    float64 `gorm:"default:1" json:"space_units"`
	ContainerType string  `gorm:"default:瓶" json:"container_type"`

	BottleStatus     string     `gorm:"default:unopened" json:"bottle_status"`
	PreservationType string     `gorm:"default:immediate" json:"preservation_type"`
	RemainingAmount  string     `gorm:"default:full" json:"remaining_amount"`
	OpenedAt         *time.Time `json:"opened_at"`

	PurchasePrice *float64 `json:"purchase_price"`
	RetailPrice   *float64 `json:"retail_price"`

	PurchaseDate         *time.Time `json:"purchase_date"`
	ExpiryDate           *time.Time `json:"expiry_date"`
	OptimalDrinkingStart *time.Time `json:"optimal_drinking_start"`
	OptimalDrinkingEnd   *time.Time `json:"optimal_drinking_end"`

	StorageLocation *string `json:"storage_location"`
	StorageTemp     *string `json:"storage_temp"`
	ImageURL        *string `json:"image_url"`

	RecognizedByAI int `gorm:"default:0" json:"recognized_by_ai"`

	Status          string     `gorm:"index;default:active" json:"status"`
	StatusChangedAt *time.Time `json:"status_changed_at"`

	Notes        *string `json:"notes"`
	TastingNotes *string `json:"tasting_notes"`
	Rating       *int    `json:"rating"`

	Cellar WineCellar `gorm:"foreignKey:CellarID" json:"-"`
}

// TotalValue is purchase price times bottle count, zero when unpriced.
func (w *WineItem) TotalValue() float64 {
	if w.PurchasePrice == nil {
		return 0
	}

	quantity := w.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	return *w.PurchasePrice * float64(quantity)
}
