// internal/api/v2/test_utils.go
package api

import (
	"io"
	"log"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mediplant/mediplant-go/internal/conf"
	"github.com/mediplant/mediplant-go/internal/datastore"
)

// MockDataStore implements datastore.Interface for testing
type MockDataStore struct {
	mock.Mock
}

func (m *MockDataStore) Open() error  { return m.Called().Error(0) }
func (m *MockDataStore) Close() error { return m.Called().Error(0) }

// --- users ---

func (m *MockDataStore) CreateUser(user *datastore.User) error {
	return m.Called(user).Error(0)
}

func (m *MockDataStore) GetUser(id string) (datastore.User, error) {
	args := m.Called(id)
	return args.Get(0).(datastore.User), args.Error(1)
}

func (m *MockDataStore) GetUserByUsername(username string) (datastore.User, error) {
	args := m.Called(username)
	return args.Get(0).(datastore.User), args.Error(1)
}

func (m *MockDataStore) AddUserBadge(userID uint, name string) (datastore.User, error) {
	args := m.Called(userID, name)
	return args.Get(0).(datastore.User), args.Error(1)
}

func (m *MockDataStore) GetUserBadges(userID uint) ([]datastore.UserBadge, error) {
	args := m.Called(userID)
	return args.Get(0).([]datastore.UserBadge), args.Error(1)
}

func (m *MockDataStore) IncrementContributionCount(userID uint) (datastore.User, error) {
	args := m.Called(userID)
	return args.Get(0).(datastore.User), args.Error(1)
}

func (m *MockDataStore) SetUserAdmin(id string, isAdmin bool) (datastore.User, error) {
	args := m.Called(id, isAdmin)
	return args.Get(0).(datastore.User), args.Error(1)
}

// --- plants ---

func (m *MockDataStore) CreatePlant(plant *datastore.Plant) error {
	return m.Called(plant).Error(0)
}

func (m *MockDataStore) GetPlant(id string) (datastore.Plant, error) {
	args := m.Called(id)
	return args.Get(0).(datastore.Plant), args.Error(1)
}

func (m *MockDataStore) GetAllPlants() ([]datastore.Plant, error) {
	args := m.Called()
	return args.Get(0).([]datastore.Plant), args.Error(1)
}

func (m *MockDataStore) GetPlantsByStatus(status string) ([]datastore.Plant, error) {
	args := m.Called(status)
	return args.Get(0).([]datastore.Plant), args.Error(1)
}

func (m *MockDataStore) SearchPlants(query string, limit, offset int) ([]datastore.Plant, error) {
	args := m.Called(query, limit, offset)
	return args.Get(0).([]datastore.Plant), args.Error(1)
}

func (m *MockDataStore) UpdatePlantStatus(id, status string) (datastore.Plant, error) {
	args := m.Called(id, status)
	return args.Get(0).(datastore.Plant), args.Error(1)
}

func (m *MockDataStore) UpsertPlantTranslation(translation *datastore.PlantTranslation) error {
	return m.Called(translation).Error(0)
}

func (m *MockDataStore) GetPlantTranslations(plantID uint) ([]datastore.PlantTranslation, error) {
	args := m.Called(plantID)
	return args.Get(0).([]datastore.PlantTranslation), args.Error(1)
}

// --- contributions ---

func (m *MockDataStore) CreateContribution(contribution *datastore.Contribution) error {
	return m.Called(contribution).Error(0)
}

func (m *MockDataStore) GetContribution(id string) (datastore.Contribution, error) {
	args := m.Called(id)
	return args.Get(0).(datastore.Contribution), args.Error(1)
}

func (m *MockDataStore) GetContributionsByStatus(status string) ([]datastore.Contribution, error) {
	args := m.Called(status)
	return args.Get(0).([]datastore.Contribution), args.Error(1)
}

func (m *MockDataStore) GetContributionsForPlant(plantID uint) ([]datastore.Contribution, error) {
	args := m.Called(plantID)
	return args.Get(0).([]datastore.Contribution), args.Error(1)
}

func (m *MockDataStore) UpdateContributionStatus(id, status string) (datastore.Contribution, error) {
	args := m.Called(id, status)
	return args.Get(0).(datastore.Contribution), args.Error(1)
}

// --- images ---

func (m *MockDataStore) CreatePlantImage(image *datastore.PlantImage) error {
	return m.Called(image).Error(0)
}

func (m *MockDataStore) GetPlantImage(id string) (datastore.PlantImage, error) {
	args := m.Called(id)
	return args.Get(0).(datastore.PlantImage), args.Error(1)
}

func (m *MockDataStore) GetPlantImages(plantID uint) ([]datastore.PlantImage, error) {
	args := m.Called(plantID)
	return args.Get(0).([]datastore.PlantImage), args.Error(1)
}

func (m *MockDataStore) LikePlantImage(id string) (datastore.PlantImage, error) {
	args := m.Called(id)
	return args.Get(0).(datastore.PlantImage), args.Error(1)
}

// --- identifications ---

func (m *MockDataStore) CreateIdentification(ident *datastore.Identification, candidates []datastore.IdentificationCandidate) error {
	return m.Called(ident, candidates).Error(0)
}

func (m *MockDataStore) CreateIdentificationWithPlant(ident *datastore.Identification, plant *datastore.Plant, candidates []datastore.IdentificationCandidate) error {
	return m.Called(ident, plant, candidates).Error(0)
}

func (m *MockDataStore) GetIdentification(id string) (datastore.Identification, error) {
	args := m.Called(id)
	return args.Get(0).(datastore.Identification), args.Error(1)
}

func (m *MockDataStore) GetUnknownIdentifications(limit, offset int) ([]datastore.Identification, error) {
	args := m.Called(limit, offset)
	return args.Get(0).([]datastore.Identification), args.Error(1)
}

// --- discussions ---

func (m *MockDataStore) CreateDiscussion(discussion *datastore.Discussion) error {
	return m.Called(discussion).Error(0)
}

func (m *MockDataStore) GetDiscussionsForIdentification(identificationID uint) ([]datastore.Discussion, error) {
	args := m.Called(identificationID)
	return args.Get(0).([]datastore.Discussion), args.Error(1)
}

func (m *MockDataStore) ResolveDiscussion(id string) (datastore.Discussion, error) {
	args := m.Called(id)
	return args.Get(0).(datastore.Discussion), args.Error(1)
}

// --- voice recordings ---

func (m *MockDataStore) CreateVoiceRecording(recording *datastore.VoiceRecording) error {
	return m.Called(recording).Error(0)
}

func (m *MockDataStore) GetVoiceRecording(id string) (datastore.VoiceRecording, error) {
	args := m.Called(id)
	return args.Get(0).(datastore.VoiceRecording), args.Error(1)
}

func (m *MockDataStore) GetRecordingsForContribution(contributionID uint) ([]datastore.VoiceRecording, error) {
	args := m.Called(contributionID)
	return args.Get(0).([]datastore.VoiceRecording), args.Error(1)
}

// --- notifications ---

func (m *MockDataStore) CreateNotification(notification *datastore.Notification) error {
	return m.Called(notification).Error(0)
}

func (m *MockDataStore) GetNotification(id string) (datastore.Notification, error) {
	args := m.Called(id)
	return args.Get(0).(datastore.Notification), args.Error(1)
}

func (m *MockDataStore) GetNotifications(limit, offset int) ([]datastore.Notification, error) {
	args := m.Called(limit, offset)
	return args.Get(0).([]datastore.Notification), args.Error(1)
}

func (m *MockDataStore) UpdateNotificationStatus(id, status string) (datastore.Notification, error) {
	args := m.Called(id, status)
	return args.Get(0).(datastore.Notification), args.Error(1)
}

// setupTestEnvironment creates a controller over a fresh mock store with
// routes registered, ready for httptest requests.
func setupTestEnvironment(t *testing.T, opts ...Option) (*echo.Echo, *MockDataStore, *Controller) {
	t.Helper()
	mockDS := new(MockDataStore)
	return setupTestEnvironmentWithStore(t, mockDS, opts...)
}

// setupTestEnvironmentWithStore is for tests that wire the store into other
// services (classifier, messenger) before building the controller.
func setupTestEnvironmentWithStore(t *testing.T, mockDS *MockDataStore, opts ...Option) (*echo.Echo, *MockDataStore, *Controller) {
	t.Helper()

	e := echo.New()
	settings := &conf.Settings{
		Version: "test",
	}
	settings.WebServer.Debug = false
	settings.I18n.DefaultLanguage = "en"

	controller, err := New(e, mockDS, settings, log.New(io.Discard, "", 0), nil, opts...)
	require.NoError(t, err)
	t.Cleanup(controller.Shutdown)

	return e, mockDS, controller
}
