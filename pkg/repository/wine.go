package repository

import (
	"context"

	"go.uber.org/zap"

	"cellaret.dev/Cellaret/pkg/model"
)

// WineRepository is everything the HTTP layer needs for bottle records.
type WineRepository interface {
	GetWineItems(ctx context.Context, userID uint, filter WineFilter) ([]*model.WineItem, error)
	GetWineItemByID(ctx context.Context, userID uint, itemID uint) (*model.WineItem, error)
	AddWineItem(ctx context.Context, item model.WineItem) (*model.WineItem, error)
	UpdateWineItem(ctx context.Context, item *model.WineItem) (*model.WineItem, error)
	DeleteWineItem(ctx context.Context, userID uint, itemID uint) error
}

// WineFilter narrows listings. Status "all" disables the lifecycle filter;
// the zero value lists active records of every type.
type WineFilter struct {
	Status       string
	WineType     string
	BottleStatus string
	Search       string
}

func (r *Repository) GetWineItems(ctx context.Context, userID uint, filter WineFilter) ([]*model.WineItem, error) {
	var items []*model.WineItem

	status := filter.Status
	if status == "" {
		status = model.StatusActive
	}

	query := r.DB.WithContext(ctx).
		Joins("INNER JOIN wine_cellars ON wine_cellars.id = wine_items.cellar_id").
		Where("wine_cellars.owner_id = ?", userID)

	if status != "all" {
		query = query.Where("wine_items.status = ?", status)
	}

	if filter.WineType != "" {
		query = query.Where("wine_items.wine_type = ?", filter.WineType)
	}

	if filter.BottleStatus != "" {
		query = query.Where("wine_items.bottle_status = ?", filter.BottleStatus)
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("wine_items.name ILIKE ? OR wine_items.brand ILIKE ? OR wine_items.region ILIKE ?",
			pattern, pattern, pattern)
	}

	result := query.Order("wine_items.id").Find(&items)
	if result.Error != nil {
		r.Logger.Error("error listing wine items", zap.Uint("user_id", userID), zap.Error(result.Error))

		return nil, result.Error
	}

	return items, nil
}

func (r *Repository) GetWineItemByID(ctx context.Context, userID uint, itemID uint) (*model.WineItem, error) {
	var item model.WineItem

	result := r.DB.WithContext(ctx).
		Joins("INNER JOIN wine_cellars ON wine_cellars.id = wine_items.cellar_id").
		Where("wine_cellars.owner_id = ?", userID).
		Where("wine_items.id = ?", itemID).
		First(&item)
	if result.Error != nil {
		return nil, result.Error
	}

	return &item, nil
}

func (r *Repository) AddWineItem(ctx context.Context, item model.WineItem) (*model.WineItem, error) {
	if result := r.DB.WithContext(ctx).Create(&item); result.Error != nil {
		return nil, result.Error
	}

	return &item, nil
}

func (r *Repository) UpdateWineItem(ctx context.Context, item *model.WineItem) (*model.WineItem, error) {
	if result := r.DB.WithContext(ctx).Save(item); result.Error != nil {
		return nil, result.Error
	}

	return item, nil
}

func (r *Repository) DeleteWineItem(ctx context.Context, userID uint, itemID uint) error {
	item, err := r.GetWineItemByID(ctx, userID, itemID)
	if err != nil {
		return err
	}

	result := r.DB.WithContext(ctx).Delete(&model.WineItem{}, item.ID)

	return result.Error
}
