package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"cellaret.dev/Cellaret/pkg/model"
)

type BudgetRepository interface {
	GetBudgetSettings(ctx context.Context, userID uint) (*model.BudgetSettings, error)
	SaveBudgetSettings(ctx context.Context, settings model.BudgetSettings) (*model.BudgetSettings, error)
}

func (r *Repository) GetBudgetSettings(ctx context.Context, userID uint) (*model.BudgetSettings, error) {
	var settings model.BudgetSettings

	result := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return &settings, nil
}

// SaveBudgetSettings upserts the single row a user owns.
func (r *Repository) SaveBudgetSettings(ctx context.Context, settings model.BudgetSettings) (*model.BudgetSettings, error) {
	existing, err := r.GetBudgetSettings(ctx, settings.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		if result := r.DB.WithContext(ctx).Create(&settings); result.Error != nil {
			return nil, result.Error
		}

		return &settings, nil
	}

	existing.MonthlyBudget = settings.MonthlyBudget
	existing.WarningThreshold = settings.WarningThreshold

	if result := r.DB.WithContext(ctx).Save(existing); result.Error != nil {
		return nil, result.Error
	}

	return existing, nil
}
