package server

import (
	"net/http"

	"go.uber.org/zap"

	"cellaret.dev/Cellaret/pkg/model"
	"cellaret.dev/Cellaret/pkg/repository"
)

type CellarServer struct {
	logger  *zap.Logger
	cellars repository.CellarRepository
}

func NewCellarServer(cellars repository.CellarRepository, logger *zap.Logger) *CellarServer {
	return &CellarServer{cellars: cellars, logger: logger}
}

type cellarRequest struct {
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description"`
	TotalCapacity int    `json:"total_capacity" validate:"omitempty,gte=1"`
}

type cellarResponse struct {
	Cellar *model.WineCellar  `json:"cellar"`
	Stats  *model.CellarStats `json:"stats,omitempty"`
}

func (c *CellarServer) ListCellars(writer http.ResponseWriter, request *http.Request) {
	user, err := requestUser(request)
	if err != nil {
		writeError(c.logger, writer, err)

		return
	}

	cellars, err := c.cellars.GetCellarsForUser(request.Context(), *user)
	if err != nil {
		writeError(c.logger, writer, err)

		return
	}

	responses := make([]cellarResponse, 0, len(cellars))

	for _, cellar := range cellars {
		response := cellarResponse{Cellar: cellar}

		stats, err := c.cellars.GetCellarStats(request.Context(), cellar.ID)
		if err != nil {
			c.logger.Warn("error loading cellar stats", zap.Uint("cellar_id", cellar.ID), zap.Error(err))
		} else {
			response.Stats = stats
		}

		responses = append(responses, response)
	}

	writeJSON(writer, http.StatusOK, map[string]any{"cellars": responses})
}

func (c *CellarServer) AddCellar(writer http.ResponseWriter, request *http.Request) {
	user, err := requestUser(request)
	if err != nil {
		writeError(c.logger, writer, err)

		return
	}

	var payload cellarRequest
	if err := decodeJSON(request, &payload); err != nil {
		writeError(c.logger, writer, err)

		return
	}

	capacity := payload.TotalCapacity
	if capacity == 0 {
		capacity = 50
	}

	cellar, err := c.cellars.AddCellar(request.Context(), payload.Name, payload.Description, capacity, *user)
	if err != nil {
		writeError(c.logger, writer, err)

		return
	}

	writeJSON(writer, http.StatusCreated, cellarResponse{Cellar: cellar})
}

func (c *CellarServer) GetCellar(writer http.ResponseWriter, request *http.Request) {
	user, err := requestUser(request)
	if err != nil {
		writeError(c.logger, writer, err)

		return
	}

	cellarID, err := idParam(request)
	if err != nil {
		writeError(c.logger, writer, err)

		return
	}

	cellar, err := c.cellars.GetCellarByID(request.Context(), user.ID, cellarID)
	if err != nil {
		writeError(c.logger, writer, err)

		return
	}

	response := cellarResponse{Cellar: cellar}

	stats, err := c.cellars.GetCellarStats(request.Context(), cellar.ID)
	if err != nil {
		c.logger.Warn("error loading cellar stats", zap.Uint("cellar_id", cellar.ID), zap.Error(err))
	} else {
		response.Stats = stats
	}

	writeJSON(writer, http.StatusOK, response)
}

func (c *CellarServer) UpdateCellar(writer http.ResponseWriter, request *http.Request) {
	user, err := requestUser(request)
	if err != nil {
		writeError(c.logger, writer, err)

		return
	}

	cellarID, err := idParam(request)
	if err != nil {
		writeError(c.logger, writer, err)

		return
	}

	var payload cellarRequest
	if err := decodeJSON(request, &payload); err != nil {
		writeError(c.logger, writer, err)

		return
	}

	cellar, err := c.cellars.GetCellarByID(request.Context(), user.ID, cellarID)
	if err != nil {
		writeError(c.logger, writer, err)

		return
	}

	cellar.Name = payload.Name
	cellar.Description = payload.Description

	if payload.TotalCapacity > 0 {
		cellar.TotalCapacity = payload.TotalCapacity
	}

	updated, err := c.cellars.UpdateCellar(request.Context(), cellar)
	if err != nil {
		writeError(c.logger, writer, err)

		return
	}

	writeJSON(writer, http.StatusOK, cellarResponse{Cellar: updated})
}
