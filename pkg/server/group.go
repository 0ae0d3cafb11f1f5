package server

import (
	"net/http"

	"go.uber.org/zap"

	"cellaret.dev/Cellaret/pkg/cellar"
	"cellaret.dev/Cellaret/pkg/model"
	"cellaret.dev/Cellaret/pkg/repository"
)

type wineGroupView struct {
	Key            string          `json:"key"`
	Count          int             `json:"count"`
	Representative *model.WineItem `json:"representative"`
	ItemIDs        []uint          `json:"item_ids"`
}

// ListWineGroups folds the caller's filtered inventory into identity groups.
// Groups keep the listing order of their first member.
func (s *WineServer) ListWineGroups(writer http.ResponseWriter, request *http.Request) {
	user, err := requestUser(request)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	filter := repository.WineFilter{
		Status:       request.URL.Query().Get("status"),
		WineType:     request.URL.Query().Get("wine_type"),
		BottleStatus: request.URL.Query().Get("bottle_status"),
		Search:       request.URL.Query().Get("search"),
	}

	items, err := s.wines.GetWineItems(request.Context(), user.ID, filter)
	if err != nil {
		s.logger.Warn("error listing wine items for grouping, returning empty view",
			zap.Uint("user_id", user.ID), zap.Error(err))
		items = []*model.WineItem{}
	}

	groups := cellar.Group(items)
	views := make([]wineGroupView, 0, len(groups))

	for _, group := range groups {
		view := wineGroupView{
			Key:            group.Key,
			Count:          group.Count,
			Representative: group.Representative,
			ItemIDs:        make([]uint, 0, len(group.Items)),
		}

		for _, item := range group.Items {
			view.ItemIDs = append(view.ItemIDs, item.ID)
		}

		views = append(views, view)
	}

	writeJSON(writer, http.StatusOK, map[string]any{"groups": views})
}
