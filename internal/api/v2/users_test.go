// internal/api/v2/users_test.go
package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mediplant/mediplant-go/internal/datastore"
)

func TestCreateUser(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("GetUserByUsername", "ayush_sharma").
		Return(datastore.User{}, datastore.ErrNotFound).Once()
	mockDS.On("CreateUser", mock.AnythingOfType("*datastore.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(0).(*datastore.User)
			user.ID = 4
		}).
		Return(nil).Once()

	rec := doRequest(e, http.MethodPost, "/api/v2/users",
		`{"username":"ayush_sharma","display_name":"Ayush Sharma"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var response UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, uint(4), response.ID)
	assert.False(t, response.IsAdmin)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("GetUserByUsername", "ayush_sharma").
		Return(datastore.User{ID: 4, Username: "ayush_sharma"}, nil).Once()

	rec := doRequest(e, http.MethodPost, "/api/v2/users", `{"username":"ayush_sharma"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetUserBadges(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	awarded := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mockDS.On("GetUser", "4").Return(datastore.User{ID: 4, Username: "ayush_sharma"}, nil).Once()
	mockDS.On("GetUserBadges", uint(4)).Return([]datastore.UserBadge{
		{UserID: 4, Name: "First Contribution", AwardedAt: awarded},
	}, nil).Once()

	rec := doRequest(e, http.MethodGet, "/api/v2/users/4/badges", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var responses []BadgeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &responses))
	require.Len(t, responses, 1)
	assert.Equal(t, "First Contribution", responses[0].Name)
}

func TestSetUserAdmin(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("SetUserAdmin", "4", true).
		Return(datastore.User{ID: 4, Username: "ayush_sharma", IsAdmin: true}, nil).Once()

	rec := doRequest(e, http.MethodPut, "/api/v2/users/4/admin", `{"is_admin":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var response UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.IsAdmin)
}
