package vivinoweb

import "go.uber.org/zap"

const IntegrationName = "vivino_web"

const defaultBaseURL = "https://www.vivino.com"

type VivinoWebIntegration struct {
	logger  *zap.Logger
	baseURL string
}

func NewVivinoWebIntegration(logger *zap.Logger) *VivinoWebIntegration {
	return &VivinoWebIntegration{logger: logger, baseURL: defaultBaseURL}
}

// NewVivinoWebIntegrationForHost points the scraper at an alternate host,
// which tests use to serve fixture pages.
func NewVivinoWebIntegrationForHost(logger *zap.Logger, baseURL string) *VivinoWebIntegration {
	return &VivinoWebIntegration{logger: logger, baseURL: baseURL}
}
