package cellar

import (
	"math"

	"cellaret.dev/Cellaret/pkg/model"
)

const (
	dayKeyFormat   = "2006-01-02"
	monthKeyFormat = "2006-01"
)

// PriceSelector picks which price field a rollup sums. The wine views sum
// purchase price while older food-mode call sites used a plain price column,
// so the field choice stays with the caller.
type PriceSelector func(*model.WineItem) *float64

func PurchasePrice(item *model.WineItem) *float64 { return item.PurchasePrice }

func RetailPrice(item *model.WineItem) *float64 { return item.RetailPrice }

// DailyTotals sums the selected price per purchase day, keyed YYYY-MM-DD.
// Records without a purchase date or without a usable price are skipped.
func DailyTotals(items []*model.WineItem, price PriceSelector) map[string]float64 {
	totals := make(map[string]float64)

	for _, item := range items {
		value, ok := pricedPurchase(item, price)
		if !ok {
			continue
		}

		totals[item.PurchaseDate.Format(dayKeyFormat)] += value
	}

	return totals
}

// MonthlyTotal sums the selected price over records purchased in the given
// month (YYYY-MM). It uses the same record predicate as DailyTotals, so the
// month total always equals the sum of that month's daily buckets.
func MonthlyTotal(items []*model.WineItem, price PriceSelector, month string) float64 {
	var total float64

	for _, item := range items {
		value, ok := pricedPurchase(item, price)
		if !ok {
			continue
		}

		if item.PurchaseDate.Format(monthKeyFormat) == month {
			total += value
		}
	}

	return total
}

func pricedPurchase(item *model.WineItem, price PriceSelector) (float64, bool) {
	if item.PurchaseDate == nil {
		return 0, false
	}

	value := price(item)
	if value == nil || *value == 0 {
		return 0, false
	}

	return *value, true
}

type BudgetUsage struct {
	PercentUsed int  `json:"percent_used"`
	OverBudget  bool `json:"over_budget"`
}

// CompareBudget reports spend against a monthly budget. A zero budget means
// "not set": percent used stays 0 and over-budget never fires, regardless of
// spend.
func CompareBudget(budget, spent float64) BudgetUsage {
	if budget <= 0 {
		return BudgetUsage{}
	}

	return BudgetUsage{
		PercentUsed: int(math.Round(spent / budget * 100)),
		OverBudget:  spent > budget,
	}
}
