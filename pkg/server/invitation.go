package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cellaret.dev/Cellaret/pkg/model"
	"cellaret.dev/Cellaret/pkg/repository"
)

type InvitationServer struct {
	logger      *zap.Logger
	invitations repository.InvitationRepository
}

func NewInvitationServer(invitations repository.InvitationRepository, logger *zap.Logger) *InvitationServer {
	return &InvitationServer{invitations: invitations, logger: logger}
}

type invitationRequest struct {
	Title         string  `json:"title" validate:"required"`
	Description   string  `json:"description"`
	EventTime     string  `json:"event_time" validate:"required"`
	Location      string  `json:"location"`
	ThemeImageURL *string `json:"theme_image_url"`
	WineIDs       []uint  `json:"wine_ids"`
}

func (i *InvitationServer) ListInvitations(writer http.ResponseWriter, request *http.Request) {
	user, err := requestUser(request)
	if err != nil {
		writeError(i.logger, writer, err)

		return
	}

	invitations, err := i.invitations.GetInvitationsForUser(request.Context(), user.ID)
	if err != nil {
		i.logger.Warn("error listing invitations, returning empty list",
			zap.Uint("user_id", user.ID), zap.Error(err))
		invitations = []*model.Invitation{}
	}

	writeJSON(writer, http.StatusOK, map[string]any{"invitations": invitations})
}

func (i *InvitationServer) AddInvitation(writer http.ResponseWriter, request *http.Request) {
	user, err := requestUser(request)
	if err != nil {
		writeError(i.logger, writer, err)

		return
	}

	var payload invitationRequest
	if err := decodeJSON(request, &payload); err != nil {
		writeError(i.logger, writer, err)

		return
	}

	eventTime, err := parseEventTime(payload.EventTime)
	if err != nil {
		writeError(i.logger, writer, err)

		return
	}

	invitation := model.Invitation{
		HostID:        user.ID,
		Title:         payload.Title,
		Description:   payload.Description,
		EventTime:     eventTime,
		Location:      payload.Location,
		ThemeImageURL: payload.ThemeImageURL,
		WineIDs:       payload.WineIDs,
	}

	saved, err := i.invitations.AddInvitation(request.Context(), invitation)
	if err != nil {
		writeError(i.logger, writer, err)

		return
	}

	writeJSON(writer, http.StatusCreated, saved)
}

func (i *InvitationServer) GetInvitation(writer http.ResponseWriter, request *http.Request) {
	user, err := requestUser(request)
	if err != nil {
		writeError(i.logger, writer, err)

		return
	}

	invitationID, err := uuid.Parse(chi.URLParam(request, "id"))
	if err != nil {
		writeError(i.logger, writer, fmt.Errorf("%w: invalid invitation id", ErrInvalidInput))

		return
	}

	invitation, err := i.invitations.GetInvitationByID(request.Context(), user.ID, invitationID)
	if err != nil {
		writeError(i.logger, writer, err)

		return
	}

	writeJSON(writer, http.StatusOK, invitation)
}

// parseEventTime takes a full timestamp, or a bare date for all-day events.
func parseEventTime(raw string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, nil
	}

	if parsed, err := time.Parse(dateFormat, raw); err == nil {
		return parsed, nil
	}

	return time.Time{}, fmt.Errorf("%w: invalid event time %q", ErrInvalidInput, raw)
}
