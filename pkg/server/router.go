package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"cellaret.dev/Cellaret/pkg/integrations"
	"cellaret.dev/Cellaret/pkg/kvstore"
	"cellaret.dev/Cellaret/pkg/onboarding"
	"cellaret.dev/Cellaret/pkg/repository"
)

// Servers bundles the per-domain handler sets mounted under /api/v1.
type Servers struct {
	Cellars     *CellarServer
	Wines       *WineServer
	Dashboard   *DashboardServer
	Budget      *BudgetServer
	Invitations *InvitationServer
	Onboarding  *OnboardingServer
	Search      *SearchServer
}

func NewServers(repo *repository.Repository, store kvstore.Store, wineIntegrations []integrations.Integration, logger *zap.Logger) *Servers {
	quest := onboarding.NewQuest(store, logger)

	return &Servers{
		Cellars:     NewCellarServer(repo, logger),
		Wines:       NewWineServer(repo, logger),
		Dashboard:   NewDashboardServer(repo, logger),
		Budget:      NewBudgetServer(repo, repo, store, logger),
		Invitations: NewInvitationServer(repo, logger),
		Onboarding:  NewOnboardingServer(quest, repo, repo, logger),
		Search:      NewSearchServer(wineIntegrations, logger),
	}
}

// NewRouter mounts the API. Everything under /api/v1 goes through the auth
// middleware; the health probe does not.
func NewRouter(servers *Servers, authMiddleware func(http.Handler) http.Handler) http.Handler {
	router := chi.NewRouter()

	router.Get("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		writeJSON(writer, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Route("/api/v1", func(api chi.Router) {
		api.Use(authMiddleware)

		api.Route("/wine-cellars", func(r chi.Router) {
			r.Get("/", servers.Cellars.ListCellars)
			r.Post("/", servers.Cellars.AddCellar)
			r.Get("/{id}", servers.Cellars.GetCellar)
			r.Put("/{id}", servers.Cellars.UpdateCellar)
		})

		api.Route("/wine-items", func(r chi.Router) {
			r.Get("/", servers.Wines.ListWineItems)
			r.Post("/", servers.Wines.AddWineItem)
			r.Get("/{id}", servers.Wines.GetWineItem)
			r.Put("/{id}", servers.Wines.UpdateWineItem)
			r.Delete("/{id}", servers.Wines.DeleteWineItem)
			r.Post("/{id}/open", servers.Wines.OpenWineItem)
			r.Post("/{id}/remaining", servers.Wines.UpdateRemaining)
			r.Post("/{id}/status", servers.Wines.UpdateStatus)
		})

		api.Get("/wine-groups", servers.Wines.ListWineGroups)
		api.Get("/dashboard", servers.Dashboard.Dashboard)

		api.Route("/budget", func(r chi.Router) {
			r.Get("/settings", servers.Budget.GetSettings)
			r.Put("/settings", servers.Budget.SaveSettings)
			r.Get("/stats", servers.Budget.GetStats)
		})

		api.Route("/invitations", func(r chi.Router) {
			r.Get("/", servers.Invitations.ListInvitations)
			r.Post("/", servers.Invitations.AddInvitation)
			r.Get("/{id}", servers.Invitations.GetInvitation)
		})

		api.Route("/onboarding", func(r chi.Router) {
			r.Get("/", servers.Onboarding.GetOnboarding)
			r.Post("/dismiss", servers.Onboarding.DismissOnboarding)
		})

		api.Get("/wine-search", servers.Search.SearchWines)
	})

	return router
}
