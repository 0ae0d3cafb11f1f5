package server

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"cellaret.dev/Cellaret/pkg/cellar"
	"cellaret.dev/Cellaret/pkg/model"
	"cellaret.dev/Cellaret/pkg/repository"
)

type WineServer struct {
	logger *zap.Logger
	wines  repository.WineRepository
	now    func() time.Time
}

func NewWineServer(wines repository.WineRepository, logger *zap.Logger) *WineServer {
	return &WineServer{wines: wines, logger: logger, now: time.Now}
}

type wineItemRequest struct {
	CellarID uint   `json:"cellar_id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	WineType string `json:"wine_type" validate:"required"`

	Brand   *string  `json:"brand"`
	Vintage *int     `json:"vintage" validate:"omitempty,gte=1800,lte=2100"`
	Region  *string  `json:"region"`
	Country *string  `json:"country"`
	ABV     *float64 `json:"abv" validate:"omitempty,gte=0,lte=100"`

	Quantity         int     `json:"quantity" validate:"omitempty,gte=1"`
	SpaceUnits       float64 `json:"space_units" validate:"omitempty,gt=0"`
	ContainerType    string  `json:"container_type"`
	PreservationType string  `json:"preservation_type" validate:"omitempty,oneof=immediate aging"`

	PurchasePrice *float64 `json:"purchase_price" validate:"omitempty,gte=0"`
	RetailPrice   *float64 `json:"retail_price" validate:"omitempty,gte=0"`
	PurchaseDate  *string  `json:"purchase_date"`
	ExpiryDate    *string  `json:"expiry_date"`

	StorageLocation *string `json:"storage_location"`
	StorageTemp     *string `json:"storage_temp"`
	ImageURL        *string `json:"image_url"`

	RecognizedByAI int     `json:"recognized_by_ai" validate:"omitempty,oneof=0 1"`
	Notes          *string `json:"notes"`
	TastingNotes   *string `json:"tasting_notes"`
	Rating         *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
}

func (s *WineServer) ListWineItems(writer http.ResponseWriter, request *http.Request) {
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
		// Listing degrades to an empty inventory rather than erroring the
		// whole home screen.
		s.logger.Warn("error listing wine items, returning empty inventory",
			zap.Uint("user_id", user.ID), zap.Error(err))
		items = []*model.WineItem{}
	}

	writeJSON(writer, http.StatusOK, map[string]any{"items": items})
}

func (s *WineServer) GetWineItem(writer http.ResponseWriter, request *http.Request) {
	user, err := requestUser(request)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	itemID, err := idParam(request)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	item, err := s.wines.GetWineItemByID(request.Context(), user.ID, itemID)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	writeJSON(writer, http.StatusOK, s.itemView(item))
}

func (s *WineServer) AddWineItem(writer http.ResponseWriter, request *http.Request) {
	if _, err := requestUser(request); err != nil {
		writeError(s.logger, writer, err)

		return
	}

	var payload wineItemRequest
	if err := decodeJSON(request, &payload); err != nil {
		writeError(s.logger, writer, err)

		return
	}

	item := model.WineItem{
		CellarID:        payload.CellarID,
		Name:            payload.Name,
		WineType:        payload.WineType,
		Brand:           payload.Brand,
		Vintage:         payload.Vintage,
		Region:          payload.Region,
		Country:         payload.Country,
		ABV:             payload.ABV,
		Quantity:        payload.Quantity,
		SpaceUnits:      payload.SpaceUnits,
		PurchasePrice:   payload.PurchasePrice,
		RetailPrice:     payload.RetailPrice,
		PurchaseDate:    parseDate(payload.PurchaseDate),
		ExpiryDate:      parseDate(payload.ExpiryDate),
		StorageLocation: payload.StorageLocation,
		StorageTemp:     payload.StorageTemp,
		ImageURL:        payload.ImageURL,
		RecognizedByAI:  payload.RecognizedByAI,
		Notes:           payload.Notes,
		TastingNotes:    payload.TastingNotes,
		Rating:          payload.Rating,
	}

	if item.Quantity == 0 {
		item.Quantity = 1
	}

	if item.SpaceUnits == 0 {
		item.SpaceUnits = 1
	}

	if payload.ContainerType != "" {
		item.ContainerType = payload.ContainerType
	}

	if payload.PreservationType != "" {
		item.PreservationType = payload.PreservationType
	}

	saved, err := s.wines.AddWineItem(request.Context(), item)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	writeJSON(writer, http.StatusCreated, saved)
}

func (s *WineServer) UpdateWineItem(writer http.ResponseWriter, request *http.Request) {
	user, err := requestUser(request)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	itemID, err := idParam(request)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	var payload wineItemRequest
	if err := decodeJSON(request, &payload); err != nil {
		writeError(s.logger, writer, err)

		return
	}

	item, err := s.wines.GetWineItemByID(request.Context(), user.ID, itemID)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	s.applyUpdate(item, &payload)

	updated, err := s.wines.UpdateWineItem(request.Context(), item)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	writeJSON(writer, http.StatusOK, updated)
}

func (s *WineServer) applyUpdate(item *model.WineItem, payload *wineItemRequest) {
	item.Name = payload.Name
	item.WineType = payload.WineType
	item.Brand = payload.Brand
	item.Vintage = payload.Vintage
	item.Region = payload.Region
	item.Country = payload.Country
	item.ABV = payload.ABV

	if payload.Quantity > 0 {
		item.Quantity = payload.Quantity
	}

	if payload.SpaceUnits > 0 {
		item.SpaceUnits = payload.SpaceUnits
	}

	if payload.ContainerType != "" {
		item.ContainerType = payload.ContainerType
	}

	if payload.PreservationType != "" {
		item.PreservationType = payload.PreservationType
	}

	item.PurchasePrice = payload.PurchasePrice
	item.RetailPrice = payload.RetailPrice

	if date := parseDate(payload.PurchaseDate); date != nil {
		item.PurchaseDate = date
	}

	if date := parseDate(payload.ExpiryDate); date != nil {
		item.ExpiryDate = date
	}

	item.StorageLocation = payload.StorageLocation
	item.StorageTemp = payload.StorageTemp
	item.ImageURL = payload.ImageURL
	item.Notes = payload.Notes
	item.TastingNotes = payload.TastingNotes
	item.Rating = payload.Rating
}

func (s *WineServer) DeleteWineItem(writer http.ResponseWriter, request *http.Request) {
	user, err := requestUser(request)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	itemID, err := idParam(request)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	if err := s.wines.DeleteWineItem(request.Context(), user.ID, itemID); err != nil {
		writeError(s.logger, writer, err)

		return
	}

	writer.WriteHeader(http.StatusNoContent)
}

// OpenWineItem marks a bottle opened and stamps its drink-before date from
// the per-type shelf life.
func (s *WineServer) OpenWineItem(writer http.ResponseWriter, request *http.Request) {
	user, err := requestUser(request)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	itemID, err := idParam(request)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	item, err := s.wines.GetWineItemByID(request.Context(), user.ID, itemID)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	if item.BottleStatus == model.BottleOpened {
		writeError(s.logger, writer, fmt.Errorf("%w: bottle already opened", ErrInvalidInput))

		return
	}

	openedAt := s.now()
	expiry := cellar.OpenBottleExpiry(item.WineType, item.PreservationType, openedAt)

	item.BottleStatus = model.BottleOpened
	item.OpenedAt = &openedAt
	item.ExpiryDate = &expiry
	item.RemainingAmount = "full"

	updated, err := s.wines.UpdateWineItem(request.Context(), item)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	s.logger.Info("bottle opened", zap.Uint("item_id", item.ID),
		zap.String("wine_type", item.WineType), zap.Time("expiry", expiry))

	writeJSON(writer, http.StatusOK, s.itemView(updated))
}

type remainingRequest struct {
	RemainingAmount string `json:"remaining_amount" validate:"required,oneof=full half little empty"`
}

// UpdateRemaining tracks how much is left in an opened bottle. Reporting
// empty consumes the record.
func (s *WineServer) UpdateRemaining(writer http.ResponseWriter, request *http.Request) {
	user, err := requestUser(request)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	itemID, err := idParam(request)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	var payload remainingRequest
	if err := decodeJSON(request, &payload); err != nil {
		writeError(s.logger, writer, err)

		return
	}

	item, err := s.wines.GetWineItemByID(request.Context(), user.ID, itemID)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	item.RemainingAmount = payload.RemainingAmount

	if payload.RemainingAmount == "empty" {
		changedAt := s.now()
		item.Status = model.StatusConsumed
		item.StatusChangedAt = &changedAt
	}

	updated, err := s.wines.UpdateWineItem(request.Context(), item)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	writeJSON(writer, http.StatusOK, updated)
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=active consumed sold gifted archived"`
}

func (s *WineServer) UpdateStatus(writer http.ResponseWriter, request *http.Request) {
	user, err := requestUser(request)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	itemID, err := idParam(request)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	var payload statusRequest
	if err := decodeJSON(request, &payload); err != nil {
		writeError(s.logger, writer, err)

		return
	}

	item, err := s.wines.GetWineItemByID(request.Context(), user.ID, itemID)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	changedAt := s.now()
	item.Status = payload.Status
	item.StatusChangedAt = &changedAt

	updated, err := s.wines.UpdateWineItem(request.Context(), item)
	if err != nil {
		writeError(s.logger, writer, err)

		return
	}

	writeJSON(writer, http.StatusOK, updated)
}

type wineItemView struct {
	*model.WineItem
	Expiry      cellar.ExpiryStatus `json:"expiry"`
	ExpiryLabel string              `json:"expiry_label"`
}

func (s *WineServer) itemView(item *model.WineItem) wineItemView {
	status := cellar.Classify(item.ExpiryDate, s.now())

	return wineItemView{
		WineItem:    item,
		Expiry:      status,
		ExpiryLabel: cellar.Describe(status),
	}
}
