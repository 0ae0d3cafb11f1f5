// Package cellar holds the derived-view computations over wine inventory:
// identity grouping, spend rollups and expiry classification. Everything here
// is a pure pass over already-fetched records; filtering by status or search
// text is the caller's job.
package cellar

import (
	"strconv"
	"strings"

	"cellaret.dev/Cellaret/pkg/model"
)

// Sentinels used in group keys when identity fields are missing. Empty
// string, null and absent brand all normalize to the same sentinel so a wine
// never splits into separate groups over representation noise.
const (
	UnknownBrand = "unknown"
	NoVintage    = "no-vintage"
)

// WineGroup clusters records that are the same wine: same brand, name and
// vintage. Items keeps first-seen order from the source list.
type WineGroup struct {
	Key            string            `json:"key"`
	Representative *model.WineItem   `json:"representative"`
	Count          int               `json:"count"`
	Items          []*model.WineItem `json:"items"`
}

// GroupKey builds the identity key brand|name|vintage.
func GroupKey(item *model.WineItem) string {
	brand := UnknownBrand
	if item.Brand != nil && strings.TrimSpace(*item.Brand) != "" {
		brand = *item.Brand
	}

	vintage := NoVintage
	if item.Vintage != nil {
		vintage = strconv.Itoa(*item.Vintage)
	}

	return brand + "|" + item.Name + "|" + vintage
}

// Group collects items into identity groups in a single left-to-right pass.
// Groups come back in first-seen order, not sorted; the UI relies on the
// output tracking source order.
func Group(items []*model.WineItem) []*WineGroup {
	groups := make([]*WineGroup, 0, len(items))
	byKey := make(map[string]*WineGroup, len(items))

	for _, item := range items {
		key := GroupKey(item)

		group, seen := byKey[key]
		if !seen {
			group = &WineGroup{Key: key, Representative: item}
			byKey[key] = group
			groups = append(groups, group)
		}

		group.Items = append(group.Items, item)
		group.Count += bottleCount(item)
	}

	return groups
}

// bottleCount treats missing or zero quantity as a single bottle.
func bottleCount(item *model.WineItem) int {
	if item.Quantity <= 0 {
		return 1
	}

	return item.Quantity
}

// IsGroupSelected reports whether any record in the group is selected.
func IsGroupSelected(group *WineGroup, selected map[uint]bool) bool {
	for _, item := range group.Items {
		if selected[item.ID] {
			return true
		}
	}

	return false
}

// ToggleGroup flips selection for a whole group. One group can back several
// records, so this adds or removes every member id rather than toggling a
// single one. The input map is not mutated.
func ToggleGroup(group *WineGroup, selected map[uint]bool) map[uint]bool {
	next := make(map[uint]bool, len(selected)+len(group.Items))

	for id, on := range selected {
		if on {
			next[id] = true
		}
	}

	if IsGroupSelected(group, selected) {
		for _, item := range group.Items {
			delete(next, item.ID)
		}

		return next
	}

	for _, item := range group.Items {
		next[item.ID] = true
	}

	return next
}
