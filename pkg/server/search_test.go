package server_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.openly.dev/pointy"
	"go.uber.org/zap/zaptest"

	"cellaret.dev/Cellaret/pkg/integrations"
	"cellaret.dev/Cellaret/pkg/model"
	"cellaret.dev/Cellaret/pkg/server"
)

type fakeIntegration struct {
	matches []model.WineMatch
	err     error
}

func (f *fakeIntegration) FindWine(_ string) ([]model.WineMatch, error) {
	return f.matches, f.err
}

func searchRouter(t *testing.T, wineIntegrations ...integrations.Integration) http.Handler {
	t.Helper()

	servers := &server.Servers{Search: server.NewSearchServer(wineIntegrations, zaptest.NewLogger(t))}

	return server.NewRouter(servers, testAuth(&model.User{LineUserID: "U123"}))
}

func TestSearchWines_ConcatenatesIntegrationResults(t *testing.T) {
	router := searchRouter(t,
		&fakeIntegration{matches: []model.WineMatch{{Name: "Margaux", Winery: "Château Margaux"}}},
		&fakeIntegration{err: errors.New("site unreachable")},
		&fakeIntegration{matches: []model.WineMatch{{Name: "Margaux 2015", Vintage: pointy.Int(2015)}}},
	)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/wine-search?q=Margaux", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"results":[
		{"name":"Margaux","winery":"Château Margaux","wine_type":"","vintage":null,"region":null,
		 "country":null,"abv":null,"image_url":"","external_id":null,"external_rating":null,"external_source":null},
		{"name":"Margaux 2015","winery":"","wine_type":"","vintage":2015,"region":null,
		 "country":null,"abv":null,"image_url":"","external_id":null,"external_rating":null,"external_source":null}
	]}`, recorder.Body.String())
}

func TestSearchWines_MissingQueryRejected(t *testing.T) {
	router := searchRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/wine-search", nil))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
