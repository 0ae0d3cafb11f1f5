package cellar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.openly.dev/pointy"
	"gorm.io/gorm"

	"cellaret.dev/Cellaret/pkg/cellar"
	"cellaret.dev/Cellaret/pkg/model"
)

func purchased(id uint, day string, price *float64) *model.WineItem {
	item := &model.WineItem{Model: gorm.Model{ID: id}, PurchasePrice: price}

	if day != "" {
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			panic(err)
		}

		item.PurchaseDate = &date
	}

	return item
}

func TestDailyTotals_SumsPerDay(t *testing.T) {
	items := []*model.WineItem{
		purchased(1, "2025-01-05", pointy.Float64(100)),
		purchased(2, "2025-01-05", pointy.Float64(250)),
		purchased(3, "2025-01-20", pointy.Float64(50)),
	}

	totals := cellar.DailyTotals(items, cellar.PurchasePrice)

	require.Len(t, totals, 2)
	assert.InDelta(t, 350, totals["2025-01-05"], 0.001)
	assert.InDelta(t, 50, totals["2025-01-20"], 0.001)
}

func TestDailyTotals_SkipsUnpricedAndUndated(t *testing.T) {
	items := []*model.WineItem{
		purchased(1, "2025-01-05", nil),
		purchased(2, "2025-01-05", pointy.Float64(0)),
		purchased(3, "", pointy.Float64(100)),
	}

	assert.Empty(t, cellar.DailyTotals(items, cellar.PurchasePrice))
}

func TestDailyTotals_SelectorPicksPriceField(t *testing.T) {
	date, _ := time.Parse("2006-01-02", "2025-03-01")
	items := []*model.WineItem{
		{
			Model:         gorm.Model{ID: 1},
			PurchaseDate:  &date,
			PurchasePrice: pointy.Float64(100),
			RetailPrice:   pointy.Float64(180),
		},
	}

	assert.InDelta(t, 100, cellar.DailyTotals(items, cellar.PurchasePrice)["2025-03-01"], 0.001)
	assert.InDelta(t, 180, cellar.DailyTotals(items, cellar.RetailPrice)["2025-03-01"], 0.001)
}

func TestMonthlyTotal_FiltersByMonth(t *testing.T) {
	items := []*model.WineItem{
		purchased(1, "2025-01-05", pointy.Float64(100)),
		purchased(2, "2025-01-20", pointy.Float64(50)),
		purchased(3, "2025-02-01", pointy.Float64(999)),
	}

	assert.InDelta(t, 150, cellar.MonthlyTotal(items, cellar.PurchasePrice, "2025-01"), 0.001)
	assert.InDelta(t, 999, cellar.MonthlyTotal(items, cellar.PurchasePrice, "2025-02"), 0.001)
	assert.InDelta(t, 0, cellar.MonthlyTotal(items, cellar.PurchasePrice, "2025-03"), 0.001)
}

func TestMonthlyTotal_EqualsSumOfDailyBuckets(t *testing.T) {
	items := []*model.WineItem{
		purchased(1, "2025-01-05", pointy.Float64(100)),
		purchased(2, "2025-01-05", pointy.Float64(40)),
		purchased(3, "2025-01-31", pointy.Float64(60)),
		purchased(4, "2025-02-01", pointy.Float64(75)),
		purchased(5, "2025-01-10", nil),
	}

	daily := cellar.DailyTotals(items, cellar.PurchasePrice)

	var januarySum float64
	for day, total := range daily {
		if day[:7] == "2025-01" {
			januarySum += total
		}
	}

	assert.InDelta(t, januarySum, cellar.MonthlyTotal(items, cellar.PurchasePrice, "2025-01"), 0.001)
}

func TestCompareBudget(t *testing.T) {
	tests := []struct {
		name        string
		budget      float64
		spent       float64
		percentUsed int
		overBudget  bool
	}{
		{name: "unset budget never reports over", budget: 0, spent: 5000, percentUsed: 0, overBudget: false},
		{name: "no spend", budget: 1000, spent: 0, percentUsed: 0, overBudget: false},
		{name: "half used", budget: 1000, spent: 500, percentUsed: 50, overBudget: false},
		{name: "exactly at budget", budget: 1000, spent: 1000, percentUsed: 100, overBudget: false},
		{name: "over budget", budget: 1000, spent: 1250, percentUsed: 125, overBudget: true},
		{name: "rounds percentage", budget: 3000, spent: 1000, percentUsed: 33, overBudget: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usage := cellar.CompareBudget(tt.budget, tt.spent)
			assert.Equal(t, tt.percentUsed, usage.PercentUsed)
			assert.Equal(t, tt.overBudget, usage.OverBudget)
		})
	}
}
