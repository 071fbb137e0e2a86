// internal/api/v2/plants_test.go
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mediplant/mediplant-go/internal/datastore"
)

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGetPlantsServesCachedListing(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	plants := []datastore.Plant{
		{ID: 1, Name: "Tulsi", ScientificName: "Ocimum tenuiflorum", VerificationStatus: datastore.PlantVerified, CreatedAt: time.Now()},
	}
	mockDS.On("GetAllPlants").Return(plants, nil).Once()

	rec := doRequest(e, http.MethodGet, "/api/v2/plants", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var responses []PlantResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &responses))
	require.Len(t, responses, 1)
	assert.Equal(t, "Tulsi", responses[0].Name)

	// Second request is served from the cache, no second store call.
	rec = doRequest(e, http.MethodGet, "/api/v2/plants", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	mockDS.AssertNumberOfCalls(t, "GetAllPlants", 1)
}

func TestGetPlantAppliesRequestedLanguage(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	plant := datastore.Plant{
		ID:                 1,
		Name:               "Tulsi",
		ScientificName:     "Ocimum tenuiflorum",
		Uses:               "Respiratory support",
		VerificationStatus: datastore.PlantVerified,
		Translations: []datastore.PlantTranslation{
			{PlantID: 1, Language: "hi", Name: "तुलसी", Uses: "श्वसन सहायता"},
		},
		CreatedAt: time.Now(),
	}
	mockDS.On("GetPlant", "1").Return(plant, nil).Twice()

	rec := doRequest(e, http.MethodGet, "/api/v2/plants/1?lang=hi", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var response PlantResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "तुलसी", response.Name)
	assert.Equal(t, "श्वसन सहायता", response.Uses)

	// Without a language the base fields stay.
	rec = doRequest(e, http.MethodGet, "/api/v2/plants/1?lang=ta", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Tulsi", response.Name)
}

func TestGetPlantNotFound(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("GetPlant", "99").Return(datastore.Plant{}, datastore.ErrNotFound).Once()

	rec := doRequest(e, http.MethodGet, "/api/v2/plants/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotEmpty(t, response.CorrelationID)
}

func TestCreatePlantRequiresFields(t *testing.T) {
	e, _, _ := setupTestEnvironment(t)

	rec := doRequest(e, http.MethodPost, "/api/v2/plants", `{"name":"Tulsi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePlantStartsPending(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("CreatePlant", mock.AnythingOfType("*datastore.Plant")).
		Run(func(args mock.Arguments) {
			plant := args.Get(0).(*datastore.Plant)
			plant.ID = 7
			plant.VerificationStatus = datastore.PlantPending
		}).
		Return(nil).Once()

	rec := doRequest(e, http.MethodPost, "/api/v2/plants",
		`{"name":"Giloy","scientific_name":"Tinospora cordifolia"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var response PlantResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, uint(7), response.ID)
	assert.Equal(t, datastore.PlantPending, response.VerificationStatus)
}

func TestVerifyPlantTerminalConflict(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("UpdatePlantStatus", "3", datastore.PlantVerified).
		Return(datastore.Plant{}, datastore.ErrInvalidTransition).Once()

	rec := doRequest(e, http.MethodPost, "/api/v2/plants/3/verify", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestVerifyPlantInvalidatesCache(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("GetAllPlants").Return([]datastore.Plant{}, nil).Twice()
	mockDS.On("UpdatePlantStatus", "3", datastore.PlantVerified).
		Return(datastore.Plant{ID: 3, VerificationStatus: datastore.PlantVerified}, nil).Once()

	doRequest(e, http.MethodGet, "/api/v2/plants", "")
	doRequest(e, http.MethodPost, "/api/v2/plants/3/verify", "")
	doRequest(e, http.MethodGet, "/api/v2/plants", "")

	mockDS.AssertNumberOfCalls(t, "GetAllPlants", 2)
}

func TestUpsertPlantTranslation(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("GetPlant", "1").Return(datastore.Plant{ID: 1, Name: "Neem"}, nil).Once()
	mockDS.On("UpsertPlantTranslation", mock.AnythingOfType("*datastore.PlantTranslation")).
		Return(nil).Once()

	rec := doRequest(e, http.MethodPut, "/api/v2/plants/1/translations",
		`{"language":"ta","name":"வேம்பு","uses":"skin ailments"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var response TranslationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "ta", response.Language)
	assert.Equal(t, "வேம்பு", response.Name)
}
