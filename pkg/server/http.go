// Package server carries the REST surface for the LIFF client. Handlers stay
// thin: decode and validate the payload, call the repository, shape the view
// model with pkg/cellar.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cellaret.dev/Cellaret/pkg/auth"
	"cellaret.dev/Cellaret/pkg/model"
)

var (
	ErrInvalidInput = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
)

const dateFormat = "2006-01-02"

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(payload)
}

func writeError(logger *zap.Logger, writer http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.As(err, &validationErrs):
		status = http.StatusBadRequest
	default:
		logger.Error("request failed", zap.Error(err))
	}

	writeJSON(writer, status, map[string]string{"error": err.Error()})
}

func decodeJSON(request *http.Request, payload any) error {
	decoder := json.NewDecoder(request.Body)
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	return validate.Struct(payload)
}

func requestUser(request *http.Request) (*model.User, error) {
	user, ok := auth.UserFromContext(request.Context())
	if !ok {
		return nil, fmt.Errorf("%w: no user in context", ErrInvalidInput)
	}

	return user, nil
}

func idParam(request *http.Request) (uint, error) {
	raw := chi.URLParam(request, "id")

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", ErrInvalidInput, raw)
	}

	return uint(id), nil
}

// parseDate accepts the client's date-only format. Malformed optional dates
// normalize to nil instead of failing the whole request.
func parseDate(raw *string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}

	parsed, err := time.Parse(dateFormat, *raw)
	if err != nil {
		return nil
	}

	return &parsed
}
