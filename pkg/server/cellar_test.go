package server_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"cellaret.dev/Cellaret/pkg/model"
)

type CellarServerTestSuite struct {
	suite.Suite
	env *testEnv
}

func TestCellarServerTestSuite(t *testing.T) {
	suite.Run(t, new(CellarServerTestSuite))
}

func (suite *CellarServerTestSuite) SetupTest() {
	suite.env = newTestEnv()
}

func (suite *CellarServerTestSuite) TestAddCellar_DefaultsCapacity() {
	recorder := suite.env.do(http.MethodPost, "/api/v1/wine-cellars", `{"name":"我的酒窖"}`)

	suite.Require().Equal(http.StatusCreated, recorder.Code)

	var response struct {
		Cellar model.WineCellar `json:"cellar"`
	}
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	suite.Equal("我的酒窖", response.Cellar.Name)
	suite.Equal(50, response.Cellar.TotalCapacity)
	suite.Equal(uint(7), response.Cellar.OwnerID)
}

func (suite *CellarServerTestSuite) TestAddCellar_MissingNameRejected() {
	recorder := suite.env.do(http.MethodPost, "/api/v1/wine-cellars", `{"description":"x"}`)

	suite.Equal(http.StatusBadRequest, recorder.Code)
}

func (suite *CellarServerTestSuite) TestGetCellar_IncludesStats() {
	suite.env.cellars.cellars = []*model.WineCellar{
		{Model: gorm.Model{ID: 3}, Name: "我的酒窖", TotalCapacity: 50, OwnerID: 7},
	}
	suite.env.cellars.stats[3] = &model.CellarStats{
		CellarID: 3, BottleCount: 12, UniqueCount: 5, UsedCapacity: 12, TotalValue: 45600,
	}

	recorder := suite.env.do(http.MethodGet, "/api/v1/wine-cellars/3", "")

	suite.Require().Equal(http.StatusOK, recorder.Code)

	var response struct {
		Cellar model.WineCellar  `json:"cellar"`
		Stats  model.CellarStats `json:"stats"`
	}
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	suite.Equal("我的酒窖", response.Cellar.Name)
	suite.Equal(uint64(12), response.Stats.BottleCount)
	suite.InDelta(45600.0, response.Stats.TotalValue, 0.001)
}

func (suite *CellarServerTestSuite) TestGetCellar_NotFound() {
	recorder := suite.env.do(http.MethodGet, "/api/v1/wine-cellars/99", "")

	suite.Equal(http.StatusNotFound, recorder.Code)
}

func (suite *CellarServerTestSuite) TestUpdateCellar_ChangesCapacity() {
	suite.env.cellars.cellars = []*model.WineCellar{
		{Model: gorm.Model{ID: 3}, Name: "我的酒窖", TotalCapacity: 50, OwnerID: 7},
	}

	recorder := suite.env.do(http.MethodPut, "/api/v1/wine-cellars/3",
		`{"name":"大酒窖","total_capacity":120}`)

	suite.Require().Equal(http.StatusOK, recorder.Code)

	var response struct {
		Cellar model.WineCellar `json:"cellar"`
	}
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	suite.Equal("大酒窖", response.Cellar.Name)
	suite.Equal(120, response.Cellar.TotalCapacity)
}
