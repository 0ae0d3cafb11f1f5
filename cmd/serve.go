package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"cellaret.dev/Cellaret/configs"
	"cellaret.dev/Cellaret/pkg/auth"
	"cellaret.dev/Cellaret/pkg/integrations"
	"cellaret.dev/Cellaret/pkg/kvstore"
	"cellaret.dev/Cellaret/pkg/repository"
	"cellaret.dev/Cellaret/pkg/server"
)

const timeout = 5 * time.Second

type ServeCmd struct {
	ConfigFile string `default:".Cellaret.toml" help:"Path to config file" short:"c"`
}

func (s *ServeCmd) Run(_ *Context) error {
	logConfig := zap.NewProductionConfig()

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := configs.GetConfig(s.ConfigFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))

		return err
	}

	repo, err := repository.Open(conf, logger)
	if err != nil {
		logger.Error("error connecting to database", zap.Error(err))

		return err
	}
	defer repo.Close()

	store := openStore(conf, logger)

	wineIntegrations := make([]integrations.Integration, 0, len(conf.Integrations.Wine))

	for _, name := range conf.Integrations.Wine {
		integration := integrations.GetIntegration(name, logger)
		if integration == nil {
			logger.Warn("unknown wine integration", zap.String("name", name))

			continue
		}

		wineIntegrations = append(wineIntegrations, integration)
	}

	authManager := auth.NewAuthManager(conf, repo, logger)
	servers := server.NewServers(repo, store, wineIntegrations, logger)
	router := server.NewRouter(servers, authManager.Middleware)

	address := fmt.Sprintf(":%d", conf.Server.Port)

	corsHandler := configureCORS(router)
	serverHandler := h2c.NewHandler(corsHandler, &http2.Server{})

	svr := &http.Server{
		Addr:              address,
		ReadHeaderTimeout: timeout,
		Handler:           serverHandler,
	}

	logger.Info("starting server", zap.String("address", address))

	err = svr.ListenAndServe()
	if err != nil {
		logger.Error("failed to start server", zap.Error(err))

		return err
	}

	return nil
}

// openStore connects redis for quest state and the budget cache. When redis
// is unreachable the server still comes up on an in-process store; the data
// just stops surviving restarts.
func openStore(conf *configs.Config, logger *zap.Logger) kvstore.Store {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	store, err := kvstore.OpenRedis(ctx, conf.Redis.Addr, conf.Redis.Password, conf.Redis.Database)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory store", zap.Error(err))

		return kvstore.NewMemory()
	}

	return store
}

func configureCORS(handler http.Handler) http.Handler {
	corsOpts := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH"},
		AllowedHeaders: []string{
			"accept",
			"accept-encoding",
			"accept-language",
			"authorization",
			"cache-control",
			"content-encoding",
			"content-length",
			"content-type",
			"date",
			"keep-alive",
			"origin",
			"referer",
			"user-agent",
			"x-line-user-id",
		},
		MaxAge:             86400, // 24 hours
		OptionsPassthrough: false, // Handle OPTIONS requests in CORS middleware
	})

	return corsOpts.Handler(handler)
}
