package integrations

import (
	"go.uber.org/zap"

	"cellaret.dev/Cellaret/pkg/integrations/vivino-web"
	"cellaret.dev/Cellaret/pkg/model"
)

type Integration interface {
	FindWine(name string) ([]model.WineMatch, error)
}

func GetIntegration(name string, logger *zap.Logger) Integration {
	if name == vivinoweb.IntegrationName {
		return vivinoweb.NewVivinoWebIntegration(logger)
	}

	return nil
}
