package repository

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cellaret.dev/Cellaret/pkg/model"
)

type InvitationRepository interface {
	GetInvitationsForUser(ctx context.Context, userID uint) ([]*model.Invitation, error)
	GetInvitationByID(ctx context.Context, userID uint, invitationID uuid.UUID) (*model.Invitation, error)
	AddInvitation(ctx context.Context, invitation model.Invitation) (*model.Invitation, error)
}

func (r *Repository) GetInvitationsForUser(ctx context.Context, userID uint) ([]*model.Invitation, error) {
	var invitations []*model.Invitation

	result := r.DB.WithContext(ctx).
		Where("host_id = ?", userID).
		Order("event_time desc").
		Find(&invitations)
	if result.Error != nil {
		r.Logger.Error("error listing invitations", zap.Uint("user_id", userID), zap.Error(result.Error))

		return nil, result.Error
	}

	return invitations, nil
}

func (r *Repository) GetInvitationByID(ctx context.Context, userID uint, invitationID uuid.UUID) (*model.Invitation, error) {
	var invitation model.Invitation

	result := r.DB.WithContext(ctx).
		Where("host_id = ?", userID).
		Where("id = ?", invitationID).
		First(&invitation)
	if result.Error != nil {
		return nil, result.Error
	}

	return &invitation, nil
}

func (r *Repository) AddInvitation(ctx context.Context, invitation model.Invitation) (*model.Invitation, error) {
	if result := r.DB.WithContext(ctx).Create(&invitation); result.Error != nil {
		return nil, result.Error
	}

	return &invitation, nil
}
