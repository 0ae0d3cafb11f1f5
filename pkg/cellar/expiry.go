package cellar

import (
	"fmt"
	"math"
	"time"

	"go.openly.dev/pointy"

	"cellaret.dev/Cellaret/pkg/model"
)

type ExpiryClass string

const (
	ClassExpired   ExpiryClass = "expired"
	ClassSoon      ExpiryClass = "soon"
	ClassNormal    ExpiryClass = "normal"
	ClassUntracked ExpiryClass = "untracked"
)

// Bottles within this many days of expiry (inclusive) count as expiring soon.
const soonWindowDays = 3

type ExpiryStatus struct {
	DaysRemaining *int        `json:"days_remaining"`
	Class         ExpiryClass `json:"class"`
}

// Classify derives the day count to expiry and its three-way class. The day
// difference rounds up, so a bottle expiring in a few hours still reads as
// having a day left; that ceiling decides where "today" flips to "tomorrow".
func Classify(expiry *time.Time, today time.Time) ExpiryStatus {
	if expiry == nil {
		return ExpiryStatus{Class: ClassUntracked}
	}

	days := int(math.Ceil(expiry.Sub(today).Hours() / 24))
	status := ExpiryStatus{DaysRemaining: pointy.Int(days)}

	switch {
	case days < 0:
		status.Class = ClassExpired
	case days <= soonWindowDays:
		status.Class = ClassSoon
	default:
		status.Class = ClassNormal
	}

	return status
}

type ClassCounts struct {
	Expired int `json:"expired"`
	Soon    int `json:"soon"`
	Normal  int `json:"normal"`
}

// CountByClass tallies tracked-expiry items per class in one pass. Items
// without an expiry date stay out of every bucket; the dashboards only
// surface tracked bottles.
func CountByClass(items []*model.WineItem, today time.Time) ClassCounts {
	var counts ClassCounts

	for _, item := range items {
		switch Classify(item.ExpiryDate, today).Class {
		case ClassExpired:
			counts.Expired++
		case ClassSoon:
			counts.Soon++
		case ClassNormal:
			counts.Normal++
		case ClassUntracked:
		}
	}

	return counts
}

// Describe renders the label shown on bottle cards.
func Describe(status ExpiryStatus) string {
	if status.DaysRemaining == nil {
		return "no expiry tracked"
	}

	days := *status.DaysRemaining

	switch {
	case days < 0:
		return fmt.Sprintf("expired %d days ago", -days)
	case days == 0:
		return "expires today"
	case days == 1:
		return "expires tomorrow"
	default:
		return fmt.Sprintf("%d days remaining", days)
	}
}
