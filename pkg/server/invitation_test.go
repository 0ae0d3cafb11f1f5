package server_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"cellaret.dev/Cellaret/pkg/model"
)

type InvitationServerTestSuite struct {
	suite.Suite
	env *testEnv
}

func TestInvitationServerTestSuite(t *testing.T) {
	suite.Run(t, new(InvitationServerTestSuite))
}

func (suite *InvitationServerTestSuite) SetupTest() {
	suite.env = newTestEnv()
}

func (suite *InvitationServerTestSuite) TestAddInvitation_FullTimestamp() {
	recorder := suite.env.do(http.MethodPost, "/api/v1/invitations",
		`{"title":"品酒之夜","event_time":"2025-09-12T19:30:00Z","location":"我家","wine_ids":[1,2]}`)

	suite.Require().Equal(http.StatusCreated, recorder.Code)

	var saved model.Invitation
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &saved))
	suite.Equal("品酒之夜", saved.Title)
	suite.Equal(uint(7), saved.HostID)
	suite.Equal(time.Date(2025, time.September, 12, 19, 30, 0, 0, time.UTC), saved.EventTime.UTC())
	suite.Equal(model.IDList{1, 2}, saved.WineIDs)
	suite.NotEqual(uuid.Nil, saved.ID)
}

func (suite *InvitationServerTestSuite) TestAddInvitation_BareDateAccepted() {
	recorder := suite.env.do(http.MethodPost, "/api/v1/invitations",
		`{"title":"品酒之夜","event_time":"2025-09-12"}`)

	suite.Equal(http.StatusCreated, recorder.Code)
}

func (suite *InvitationServerTestSuite) TestAddInvitation_InvalidEventTimeRejected() {
	recorder := suite.env.do(http.MethodPost, "/api/v1/invitations",
		`{"title":"品酒之夜","event_time":"next friday"}`)

	suite.Equal(http.StatusBadRequest, recorder.Code)
}

func (suite *InvitationServerTestSuite) TestListInvitations_DegradesToEmpty() {
	suite.env.invitations.listErr = gorm.ErrInvalidData

	recorder := suite.env.do(http.MethodGet, "/api/v1/invitations", "")

	suite.Equal(http.StatusOK, recorder.Code)
	suite.JSONEq(`{"invitations":[]}`, recorder.Body.String())
}

func (suite *InvitationServerTestSuite) TestGetInvitation_NotFound() {
	recorder := suite.env.do(http.MethodGet, "/api/v1/invitations/"+uuid.NewString(), "")

	suite.Equal(http.StatusNotFound, recorder.Code)
}

func (suite *InvitationServerTestSuite) TestGetInvitation_InvalidIDRejected() {
	recorder := suite.env.do(http.MethodGet, "/api/v1/invitations/not-a-uuid", "")

	suite.Equal(http.StatusBadRequest, recorder.Code)
}
