package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"cellaret.dev/Cellaret/pkg/cellar"
	"cellaret.dev/Cellaret/pkg/model"
	"cellaret.dev/Cellaret/pkg/repository"
)

type DashboardServer struct {
	logger *zap.Logger
	wines  repository.WineRepository
	now    func() time.Time
}

func NewDashboardServer(wines repository.WineRepository, logger *zap.Logger) *DashboardServer {
	return &DashboardServer{wines: wines, logger: logger, now: time.Now}
}

type dashboardItem struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	WineType      string  `json:"wine_type"`
	Quantity      int     `json:"quantity"`
	DaysRemaining *int    `json:"days_remaining"`
	Class         string  `json:"class"`
	Label         string  `json:"label"`
	ImageURL      *string `json:"image_url"`
}

type dashboardResponse struct {
	BottleCount   int                `json:"bottle_count"`
	UniqueCount   int                `json:"unique_count"`
	UnopenedCount int                `json:"unopened_count"`
	OpenedCount   int                `json:"opened_count"`
	TotalValue    float64            `json:"total_value"`
	Expiry        cellar.ClassCounts `json:"expiry"`
	Items         []dashboardItem    `json:"items"`
}

// Dashboard is the home-screen summary: inventory counts, value, and every
// active bottle with its rendered expiry label.
func (d *DashboardServer) Dashboard(writer http.ResponseWriter, request *http.Request) {
	user, err := requestUser(request)
	if err != nil {
		writeError(d.logger, writer, err)

		return
	}

	items, err := d.wines.GetWineItems(request.Context(), user.ID, repository.WineFilter{})
	if err != nil {
		d.logger.Warn("error loading dashboard inventory, returning empty dashboard",
			zap.Uint("user_id", user.ID), zap.Error(err))
		items = []*model.WineItem{}
	}

	today := d.now()

	response := dashboardResponse{
		Expiry: cellar.CountByClass(items, today),
		Items:  make([]dashboardItem, 0, len(items)),
	}

	for _, item := range items {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		response.BottleCount += quantity
		response.UniqueCount++
		response.TotalValue += item.TotalValue()

		if item.BottleStatus == model.BottleOpened {
			response.OpenedCount += quantity
		} else {
			response.UnopenedCount += quantity
		}

		status := cellar.Classify(item.ExpiryDate, today)

		response.Items = append(response.Items, dashboardItem{
			ID:            item.ID,
			Name:          item.Name,
			WineType:      item.WineType,
			Quantity:      quantity,
			DaysRemaining: status.DaysRemaining,
			Class:         string(status.Class),
			Label:         cellar.Describe(status),
			ImageURL:      item.ImageURL,
		})
	}

	writeJSON(writer, http.StatusOK, response)
}
