package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cellaret.dev/Cellaret/pkg/model"
)

func (r *Repository) GetUserByLineID(ctx context.Context, lineUserID string) (*model.User, error) {
	var user model.User

	result := r.DB.WithContext(ctx).Where("line_user_id = ?", lineUserID).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}

	return &user, nil
}

// GetOrCreateUserByLineID provisions a user row on first contact. LIFF has
// already authenticated the LINE account by the time this runs.
func (r *Repository) GetOrCreateUserByLineID(ctx context.Context, lineUserID string, displayName string) (*model.User, error) {
	user, err := r.GetUserByLineID(ctx, lineUserID)
	if err == nil {
		return user, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := model.User{
		UUID:        uuid.New(),
		LineUserID:  lineUserID,
		DisplayName: displayName,
		StorageMode: "simple",
	}

	if result := r.DB.WithContext(ctx).Create(&created); result.Error != nil {
		return nil, result.Error
	}

	r.Logger.Info("provisioned new user", zap.String("line_user_id", lineUserID), zap.Uint("id", created.ID))

	return &created, nil
}
