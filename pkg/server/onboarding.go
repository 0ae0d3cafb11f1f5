package server

import (
	"net/http"

	"go.uber.org/zap"

	"cellaret.dev/Cellaret/pkg/model"
	"cellaret.dev/Cellaret/pkg/onboarding"
	"cellaret.dev/Cellaret/pkg/repository"
)

type OnboardingServer struct {
	logger      *zap.Logger
	quest       *onboarding.Quest
	wines       repository.WineRepository
	invitations repository.InvitationRepository
}

func NewOnboardingServer(quest *onboarding.Quest, wines repository.WineRepository, invitations repository.InvitationRepository, logger *zap.Logger) *OnboardingServer {
	return &OnboardingServer{quest: quest, wines: wines, invitations: invitations, logger: logger}
}

// GetOnboarding runs one observation pass over the user's inventory and
// invitations. A failed invitation fetch leaves that task undone rather than
// failing the pass.
func (o *OnboardingServer) GetOnboarding(writer http.ResponseWriter, request *http.Request) {
	user, err := requestUser(request)
	if err != nil {
		writeError(o.logger, writer, err)

		return
	}

	items, err := o.wines.GetWineItems(request.Context(), user.ID, repository.WineFilter{Status: "all"})
	if err != nil {
		o.logger.Warn("error loading inventory for onboarding, treating as empty",
			zap.Uint("user_id", user.ID), zap.Error(err))
		items = []*model.WineItem{}
	}

	invitations, invitationErr := o.invitations.GetInvitationsForUser(request.Context(), user.ID)

	result, err := o.quest.Observe(request.Context(), user.LineUserID, items, len(invitations), invitationErr)
	if err != nil {
		o.logger.Warn("error persisting onboarding state", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	writeJSON(writer, http.StatusOK, result)
}

func (o *OnboardingServer) DismissOnboarding(writer http.ResponseWriter, request *http.Request) {
	user, err := requestUser(request)
	if err != nil {
		writeError(o.logger, writer, err)

		return
	}

	if err := o.quest.Dismiss(request.Context(), user.LineUserID); err != nil {
		writeError(o.logger, writer, err)

		return
	}

	writer.WriteHeader(http.StatusNoContent)
}
