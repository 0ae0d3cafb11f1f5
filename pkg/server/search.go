package server

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"cellaret.dev/Cellaret/pkg/integrations"
	"cellaret.dev/Cellaret/pkg/model"
)

type SearchServer struct {
	logger       *zap.Logger
	integrations []integrations.Integration
}

func NewSearchServer(wineIntegrations []integrations.Integration, logger *zap.Logger) *SearchServer {
	return &SearchServer{integrations: wineIntegrations, logger: logger}
}

// SearchWines queries each configured external wine database in turn and
// concatenates the candidates. A failing integration is skipped with a log.
func (s *SearchServer) SearchWines(writer http.ResponseWriter, request *http.Request) {
	if _, err := requestUser(request); err != nil {
		writeError(s.logger, writer, err)

		return
	}

	query := request.URL.Query().Get("q")
	if query == "" {
		writeError(s.logger, writer, fmt.Errorf("%w: missing query parameter q", ErrInvalidInput))

		return
	}

	results := make([]model.WineMatch, 0)

	for _, integration := range s.integrations {
		matches, err := integration.FindWine(query)
		if err != nil {
			s.logger.Warn("wine lookup failed", zap.String("query", query), zap.Error(err))

			continue
		}

		results = append(results, matches...)
	}

	writeJSON(writer, http.StatusOK, map[string]any{"results": results})
}
