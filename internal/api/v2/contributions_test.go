// internal/api/v2/contributions_test.go
package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mediplant/mediplant-go/internal/datastore"
)

func TestCreateContributionReturnsLocalizedMessage(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("GetPlant", "1").Return(datastore.Plant{ID: 1, Name: "Tulsi"}, nil).Once()
	mockDS.On("CreateContribution", mock.AnythingOfType("*datastore.Contribution")).
		Run(func(args mock.Arguments) {
			contribution := args.Get(0).(*datastore.Contribution)
			contribution.ID = 11
			contribution.Status = datastore.ContributionPending
		}).
		Return(nil).Once()

	rec := doRequest(e, http.MethodPost, "/api/v2/contributions",
		`{"plant_id":1,"user_id":2,"content":"Leaves brewed as tea for cough relief."}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var response ContributionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, uint(11), response.ID)
	assert.Equal(t, datastore.ContributionPending, response.Status)
	assert.Equal(t, "Thank you! Your contribution is awaiting review.", response.Message)
}

func TestCreateContributionUnknownPlant(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("GetPlant", "42").Return(datastore.Plant{}, datastore.ErrNotFound).Once()

	rec := doRequest(e, http.MethodPost, "/api/v2/contributions",
		`{"plant_id":42,"content":"Bark decoction."}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApproveContributionCreditsContributor(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("UpdateContributionStatus", "11", datastore.ContributionApproved).
		Return(datastore.Contribution{ID: 11, PlantID: 1, UserID: 2, Status: datastore.ContributionApproved}, nil).Once()
	mockDS.On("IncrementContributionCount", uint(2)).
		Return(datastore.User{ID: 2, ContributionCount: 1}, nil).Once()
	mockDS.On("AddUserBadge", uint(2), "First Contribution").
		Return(datastore.User{ID: 2, ContributionCount: 1}, nil).Once()

	rec := doRequest(e, http.MethodPost, "/api/v2/contributions/11/approve", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var response ContributionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, datastore.ContributionApproved, response.Status)
	mockDS.AssertExpectations(t)
}

func TestRejectContributionTerminalConflict(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("UpdateContributionStatus", "11", datastore.ContributionRejected).
		Return(datastore.Contribution{}, datastore.ErrInvalidTransition).Once()

	rec := doRequest(e, http.MethodPost, "/api/v2/contributions/11/reject", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetPlantContributions(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("GetPlant", "1").Return(datastore.Plant{ID: 1}, nil).Once()
	mockDS.On("GetContributionsForPlant", uint(1)).Return([]datastore.Contribution{
		{ID: 12, PlantID: 1, Content: "Second", Status: datastore.ContributionPending},
		{ID: 11, PlantID: 1, Content: "First", Status: datastore.ContributionApproved},
	}, nil).Once()

	rec := doRequest(e, http.MethodGet, "/api/v2/plants/1/contributions", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var responses []ContributionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &responses))
	require.Len(t, responses, 2)
	assert.Equal(t, uint(12), responses[0].ID)
}
