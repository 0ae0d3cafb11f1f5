package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"cellaret.dev/Cellaret/pkg/cellar"
	"cellaret.dev/Cellaret/pkg/kvstore"
	"cellaret.dev/Cellaret/pkg/model"
	"cellaret.dev/Cellaret/pkg/repository"
)

const budgetCachePrefix = "wine_cellar_budget:"

const defaultWarningThreshold = 80

type BudgetServer struct {
	logger  *zap.Logger
	budgets repository.BudgetRepository
	wines   repository.WineRepository
	cache   kvstore.Store
	now     func() time.Time
}

func NewBudgetServer(budgets repository.BudgetRepository, wines repository.WineRepository, cache kvstore.Store, logger *zap.Logger) *BudgetServer {
	return &BudgetServer{budgets: budgets, wines: wines, cache: cache, logger: logger, now: time.Now}
}

type budgetSettingsPayload struct {
	MonthlyBudget    float64 `json:"monthly_budget" validate:"gte=0"`
	WarningThreshold int     `json:"warning_threshold" validate:"omitempty,gte=1,lte=100"`
}

// GetSettings reads the budget row, falling back to the per-user cache when
// the database read fails. A user with no row gets the defaults.
func (b *BudgetServer) GetSettings(writer http.ResponseWriter, request *http.Request) {
	user, err := requestUser(request)
	if err != nil {
		writeError(b.logger, writer, err)

		return
	}

	settings := b.loadSettings(request, user)

	writeJSON(writer, http.StatusOK, budgetSettingsPayload{
		MonthlyBudget:    settings.MonthlyBudget,
		WarningThreshold: settings.WarningThreshold,
	})
}

// SaveSettings writes through: the database row is the source of truth, the
// cache always gets the new value so reads survive a database outage.
func (b *BudgetServer) SaveSettings(writer http.ResponseWriter, request *http.Request) {
	user, err := requestUser(request)
	if err != nil {
		writeError(b.logger, writer, err)

		return
	}

	var payload budgetSettingsPayload
	if err := decodeJSON(request, &payload); err != nil {
		writeError(b.logger, writer, err)

		return
	}

	if payload.WarningThreshold == 0 {
		payload.WarningThreshold = defaultWarningThreshold
	}

	b.cacheSettings(request, user, payload)

	settings := model.BudgetSettings{
		UserID:           user.ID,
		MonthlyBudget:    payload.MonthlyBudget,
		WarningThreshold: payload.WarningThreshold,
	}

	saved, err := b.budgets.SaveBudgetSettings(request.Context(), settings)
	if err != nil {
		b.logger.Warn("error saving budget settings, cache holds the value",
			zap.Uint("user_id", user.ID), zap.Error(err))

		writeJSON(writer, http.StatusOK, payload)

		return
	}

	writeJSON(writer, http.StatusOK, budgetSettingsPayload{
		MonthlyBudget:    saved.MonthlyBudget,
		WarningThreshold: saved.WarningThreshold,
	})
}

type budgetStatsResponse struct {
	Month         string             `json:"month"`
	MonthlyBudget float64            `json:"monthly_budget"`
	TotalSpent    float64            `json:"total_spent"`
	PercentUsed   int                `json:"percent_used"`
	OverBudget    bool               `json:"over_budget"`
	Warning       bool               `json:"warning"`
	DailyTotals   map[string]float64 `json:"daily_totals"`
}

// GetStats rolls purchases up for one month and compares them to the budget.
func (b *BudgetServer) GetStats(writer http.ResponseWriter, request *http.Request) {
	user, err := requestUser(request)
	if err != nil {
		writeError(b.logger, writer, err)

		return
	}

	month := request.URL.Query().Get("month")
	if month == "" {
		month = b.now().Format("2006-01")
	}

	// Spend counts every purchase, consumed bottles included.
	items, err := b.wines.GetWineItems(request.Context(), user.ID, repository.WineFilter{Status: "all"})
	if err != nil {
		b.logger.Warn("error loading purchases for budget stats, returning empty stats",
			zap.Uint("user_id", user.ID), zap.Error(err))
		items = []*model.WineItem{}
	}

	settings := b.loadSettings(request, user)

	spent := cellar.MonthlyTotal(items, cellar.PurchasePrice, month)
	usage := cellar.CompareBudget(settings.MonthlyBudget, spent)

	daily := make(map[string]float64)

	for day, total := range cellar.DailyTotals(items, cellar.PurchasePrice) {
		if strings.HasPrefix(day, month) {
			daily[day] = total
		}
	}

	writeJSON(writer, http.StatusOK, budgetStatsResponse{
		Month:         month,
		MonthlyBudget: settings.MonthlyBudget,
		TotalSpent:    spent,
		PercentUsed:   usage.PercentUsed,
		OverBudget:    usage.OverBudget,
		Warning:       settings.MonthlyBudget > 0 && usage.PercentUsed >= settings.WarningThreshold,
		DailyTotals:   daily,
	})
}

func (b *BudgetServer) loadSettings(request *http.Request, user *model.User) model.BudgetSettings {
	settings, err := b.budgets.GetBudgetSettings(request.Context(), user.ID)
	if err == nil {
		return *settings
	}

	if cached, cacheErr := b.cache.Get(request.Context(), budgetCachePrefix+user.LineUserID); cacheErr == nil {
		var payload budgetSettingsPayload
		if jsonErr := json.Unmarshal([]byte(cached), &payload); jsonErr == nil {
			b.logger.Warn("budget settings served from cache", zap.Uint("user_id", user.ID), zap.Error(err))

			return model.BudgetSettings{
				UserID:           user.ID,
				MonthlyBudget:    payload.MonthlyBudget,
				WarningThreshold: payload.WarningThreshold,
			}
		}
	}

	return model.BudgetSettings{UserID: user.ID, WarningThreshold: defaultWarningThreshold}
}

func (b *BudgetServer) cacheSettings(request *http.Request, user *model.User, payload budgetSettingsPayload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}

	if err := b.cache.Set(request.Context(), budgetCachePrefix+user.LineUserID, string(raw)); err != nil {
		b.logger.Warn("error caching budget settings", zap.Uint("user_id", user.ID), zap.Error(err))
	}
}
