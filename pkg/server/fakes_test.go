package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"cellaret.dev/Cellaret/pkg/auth"
	"cellaret.dev/Cellaret/pkg/kvstore"
	"cellaret.dev/Cellaret/pkg/model"
	"cellaret.dev/Cellaret/pkg/onboarding"
	"cellaret.dev/Cellaret/pkg/repository"
	"cellaret.dev/Cellaret/pkg/server"
)

// testEnv wires the whole router over in-memory fakes so handler tests go
// through real routing and middleware.
type testEnv struct {
	wines        *fakeWineRepository
	cellars      *fakeCellarRepository
	budgets      *fakeBudgetRepository
	invitations  *fakeInvitationRepository
	store        *kvstore.Memory
	observedLogs *observer.ObservedLogs
	router       http.Handler
	user         *model.User
}

func newTestEnv() *testEnv {
	observedZapCore, observedLogs := observer.New(zap.InfoLevel)
	logger := zap.New(observedZapCore)

	env := &testEnv{
		wines:        &fakeWineRepository{},
		cellars:      &fakeCellarRepository{stats: map[uint]*model.CellarStats{}},
		budgets:      &fakeBudgetRepository{},
		invitations:  &fakeInvitationRepository{},
		store:        kvstore.NewMemory(),
		observedLogs: observedLogs,
		user:         &model.User{Model: gorm.Model{ID: 7}, LineUserID: "U123", DisplayName: "小明"},
	}

	quest := onboarding.NewQuest(env.store, logger)

	servers := &server.Servers{
		Cellars:     server.NewCellarServer(env.cellars, logger),
		Wines:       server.NewWineServer(env.wines, logger),
		Dashboard:   server.NewDashboardServer(env.wines, logger),
		Budget:      server.NewBudgetServer(env.budgets, env.wines, env.store, logger),
		Invitations: server.NewInvitationServer(env.invitations, logger),
		Onboarding:  server.NewOnboardingServer(quest, env.wines, env.invitations, logger),
		Search:      server.NewSearchServer(nil, logger),
	}

	env.router = server.NewRouter(servers, testAuth(env.user))

	return env
}

func (e *testEnv) do(method, target, body string) *httptest.ResponseRecorder {
	var request *http.Request
	if body == "" {
		request = httptest.NewRequest(method, target, nil)
	} else {
		request = httptest.NewRequest(method, target, strings.NewReader(body))
	}

	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, request)

	return recorder
}

// testAuth stands in for the LIFF middleware and injects a fixed user.
func testAuth(user *model.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := context.WithValue(request.Context(), auth.UserKey{}, user)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

type fakeWineRepository struct {
	items    []*model.WineItem
	listErr  error
	saved    []*model.WineItem
	deleted  []uint
	lastFilt repository.WineFilter
	nextID   uint
}

func (f *fakeWineRepository) GetWineItems(_ context.Context, _ uint, filter repository.WineFilter) ([]*model.WineItem, error) {
	f.lastFilt = filter

	if f.listErr != nil {
		return nil, f.listErr
	}

	return f.items, nil
}

func (f *fakeWineRepository) GetWineItemByID(_ context.Context, _ uint, itemID uint) (*model.WineItem, error) {
	for _, item := range f.items {
		if item.ID == itemID {
			return item, nil
		}
	}

	return nil, gorm.ErrRecordNotFound
}

func (f *fakeWineRepository) AddWineItem(_ context.Context, item model.WineItem) (*model.WineItem, error) {
	f.nextID++
	item.ID = f.nextID
	f.items = append(f.items, &item)

	return &item, nil
}

func (f *fakeWineRepository) UpdateWineItem(_ context.Context, item *model.WineItem) (*model.WineItem, error) {
	f.saved = append(f.saved, item)

	return item, nil
}

func (f *fakeWineRepository) DeleteWineItem(_ context.Context, userID uint, itemID uint) error {
	if _, err := f.GetWineItemByID(context.Background(), userID, itemID); err != nil {
		return err
	}

	f.deleted = append(f.deleted, itemID)

	return nil
}

type fakeCellarRepository struct {
	cellars []*model.WineCellar
	stats   map[uint]*model.CellarStats
}

func (f *fakeCellarRepository) AddCellar(_ context.Context, name string, description string, capacity int, owner model.User) (*model.WineCellar, error) {
	cellar := &model.WineCellar{
		Model:         gorm.Model{ID: uint(len(f.cellars) + 1)},
		Name:          name,
		Description:   description,
		TotalCapacity: capacity,
		OwnerID:       owner.ID,
	}
	f.cellars = append(f.cellars, cellar)

	return cellar, nil
}

func (f *fakeCellarRepository) GetCellarsForUser(_ context.Context, _ model.User) ([]*model.WineCellar, error) {
	return f.cellars, nil
}

func (f *fakeCellarRepository) GetCellarByID(_ context.Context, _ uint, cellarID uint) (*model.WineCellar, error) {
	for _, cellar := range f.cellars {
		if cellar.ID == cellarID {
			return cellar, nil
		}
	}

	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCellarRepository) UpdateCellar(_ context.Context, cellar *model.WineCellar) (*model.WineCellar, error) {
	return cellar, nil
}

func (f *fakeCellarRepository) GetCellarStats(_ context.Context, cellarID uint) (*model.CellarStats, error) {
	if stats, ok := f.stats[cellarID]; ok {
		return stats, nil
	}

	return &model.CellarStats{CellarID: cellarID}, nil
}

type fakeBudgetRepository struct {
	settings *model.BudgetSettings
	getErr   error
	saveErr  error
}

func (f *fakeBudgetRepository) GetBudgetSettings(_ context.Context, _ uint) (*model.BudgetSettings, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}

	if f.settings == nil {
		return nil, gorm.ErrRecordNotFound
	}

	return f.settings, nil
}

func (f *fakeBudgetRepository) SaveBudgetSettings(_ context.Context, settings model.BudgetSettings) (*model.BudgetSettings, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}

	f.settings = &settings

	return &settings, nil
}

type fakeInvitationRepository struct {
	invitations []*model.Invitation
	listErr     error
}

func (f *fakeInvitationRepository) GetInvitationsForUser(_ context.Context, _ uint) ([]*model.Invitation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}

	return f.invitations, nil
}

func (f *fakeInvitationRepository) GetInvitationByID(_ context.Context, _ uint, invitationID uuid.UUID) (*model.Invitation, error) {
	for _, invitation := range f.invitations {
		if invitation.ID == invitationID {
			return invitation, nil
		}
	}

	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInvitationRepository) AddInvitation(_ context.Context, invitation model.Invitation) (*model.Invitation, error) {
	if invitation.ID == uuid.Nil {
		invitation.ID = uuid.New()
	}

	f.invitations = append(f.invitations, &invitation)

	return &invitation, nil
}
