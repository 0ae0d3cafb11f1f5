package cellar

import (
	"strings"
	"time"

	"cellaret.dev/Cellaret/pkg/model"
)

// Opened-bottle shelf lives in days, by wine type. Ordered so substring
// matching stays deterministic for compound type names like 波爾多紅酒.
var openedShelfLives = []struct {
	wineType string
	days     int
}{
	{"啤酒", 1},
	{"氣泡酒", 2},
	{"香檳", 2},
	{"白酒", 4},
	{"粉紅酒", 4},
	{"紅酒", 5},
	{"清酒", 7},
	{"甜酒", 14},
	{"貴腐酒", 14},
	{"波特酒", 30},
	{"雪莉酒", 30},
	{"威士忌", 730},
	{"白蘭地", 730},
	{"伏特加", 730},
	{"蘭姆酒", 730},
	{"琴酒", 730},
	{"高粱酒", 730},
	{"梅酒", 365},
}

const (
	immediateFallbackDays = 3
	agingFallbackDays     = 730
)

// OpenedShelfLifeDays gives how long an opened bottle keeps. Exact type
// match first, then substring match so regional names still resolve, then a
// fallback by preservation style.
func OpenedShelfLifeDays(wineType, preservationType string) int {
	normalized := strings.TrimSpace(wineType)

	for _, entry := range openedShelfLives {
		if entry.wineType == normalized {
			return entry.days
		}
	}

	for _, entry := range openedShelfLives {
		if strings.Contains(normalized, entry.wineType) {
			return entry.days
		}
	}

	if preservationType == model.PreservationAging {
		return agingFallbackDays
	}

	return immediateFallbackDays
}

// OpenBottleExpiry is the drink-before date stamped when a bottle is opened.
func OpenBottleExpiry(wineType, preservationType string, openedAt time.Time) time.Time {
	return openedAt.AddDate(0, 0, OpenedShelfLifeDays(wineType, preservationType))
}
