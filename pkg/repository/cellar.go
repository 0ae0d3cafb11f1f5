package repository

import (
	"context"

	"go.uber.org/zap"

	"cellaret.dev/Cellaret/pkg/model"
)

type CellarRepository interface {
	AddCellar(ctx context.Context, name string, description string, capacity int, owner model.User) (*model.WineCellar, error)
	GetCellarsForUser(ctx context.Context, user model.User) ([]*model.WineCellar, error)
	GetCellarByID(ctx context.Context, userID uint, cellarID uint) (*model.WineCellar, error)
	UpdateCellar(ctx context.Context, cellar *model.WineCellar) (*model.WineCellar, error)
	GetCellarStats(ctx context.Context, cellarID uint) (*model.CellarStats, error)
}

func (r *Repository) AddCellar(ctx context.Context, name string, description string, capacity int, owner model.User) (*model.WineCellar, error) {
	cellar := model.WineCellar{
		Name:          name,
		Description:   description,
		TotalCapacity: capacity,
		OwnerID:       owner.ID,
	}

	if result := r.DB.WithContext(ctx).Create(&cellar); result.Error != nil {
		return nil, result.Error
	}

	return &cellar, nil
}

func (r *Repository) GetCellarsForUser(ctx context.Context, user model.User) ([]*model.WineCellar, error) {
	var cellars []*model.WineCellar

	result := r.DB.WithContext(ctx).Where("owner_id = ?", user.ID).
		Joins("Owner").
		Find(&cellars)
	if result.Error != nil {
		r.Logger.Error("error getting cellars for user", zap.Uint("user_id", user.ID), zap.Error(result.Error))

		return nil, result.Error
	}

	return cellars, nil
}

func (r *Repository) GetCellarByID(ctx context.Context, userID uint, cellarID uint) (*model.WineCellar, error) {
	var cellar model.WineCellar

	result := r.DB.WithContext(ctx).
		Joins("Owner").
		Where("owner_id = ?", userID).
		First(&cellar, cellarID)
	if result.Error != nil {
		return nil, result.Error
	}

	return &cellar, nil
}

func (r *Repository) UpdateCellar(ctx context.Context, cellar *model.WineCellar) (*model.WineCellar, error) {
	if result := r.DB.WithContext(ctx).Save(cellar); result.Error != nil {
		return nil, result.Error
	}

	return cellar, nil
}

// GetCellarStats aggregates over active items only, in SQL.
func (r *Repository) GetCellarStats(ctx context.Context, cellarID uint) (*model.CellarStats, error) {
	var stats model.CellarStats

	result := r.DB.WithContext(ctx).Table("wine_items").
		Select("sum(quantity) as bottle_count, "+
			"count(*) as unique_count, "+
			"sum(space_units*quantity) as used_capacity, "+
			"sum(coalesce(purchase_price, 0)*quantity) as total_value, "+
			"sum(case when bottle_status = 'unopened' then quantity else 0 end) as unopened_count, "+
			"sum(case when bottle_status = 'opened' then quantity else 0 end) as opened_count").
		Where("cellar_id = ?", cellarID).
		Where("status = ?", model.StatusActive).
		Where("deleted_at is null").
		Scan(&stats)

	if result.Error != nil {
		return nil, result.Error
	}

	stats.CellarID = cellarID

	return &stats, nil
}
