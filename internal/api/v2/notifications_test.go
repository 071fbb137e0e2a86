// internal/api/v2/notifications_test.go
package api

import (
	"encoding/json"
	"net/http"
	"testing"

	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mediplant/mediplant-go/internal/datastore"
	"github.com/mediplant/mediplant-go/internal/messaging"
)

// recordingSender captures dispatched messages instead of hitting a provider.
type recordingSender struct {
	messages []string
	errs     []error
}

func (s *recordingSender) Send(message string, _ *stypes.Params) []error {
	s.messages = append(s.messages, message)
	return s.errs
}

func messengerWith(ds datastore.Interface, sender messaging.Sender) *messaging.Dispatcher {
	return messaging.NewDispatcherWithSenders(ds, map[string]messaging.Sender{
		datastore.ChannelSMS: sender,
	})
}

func TestSendNotificationWithoutMessenger(t *testing.T) {
	e, _, _ := setupTestEnvironment(t)

	rec := doRequest(e, http.MethodPost, "/api/v2/notifications",
		`{"recipient":"+919999999999","channel":"sms","message":"hello"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSendNotificationDispatches(t *testing.T) {
	mockDS := new(MockDataStore)
	sender := &recordingSender{}

	mockDS.On("CreateNotification", mock.AnythingOfType("*datastore.Notification")).
		Run(func(args mock.Arguments) {
			notification := args.Get(0).(*datastore.Notification)
			notification.ID = 1
			notification.Status = datastore.NotificationPending
		}).
		Return(nil).Once()
	mockDS.On("UpdateNotificationStatus", "1", datastore.NotificationSent).
		Return(datastore.Notification{
			ID: 1, Recipient: "+919999999999", Channel: datastore.ChannelSMS,
			Message: "hello", Status: datastore.NotificationSent,
		}, nil).Once()

	e, _, _ := setupTestEnvironmentWithStore(t, mockDS,
		WithMessenger(messengerWith(mockDS, sender)))

	rec := doRequest(e, http.MethodPost, "/api/v2/notifications",
		`{"recipient":"+919999999999","channel":"sms","message":"hello"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var response NotificationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, datastore.NotificationSent, response.Status)
	assert.Equal(t, []string{"hello"}, sender.messages)
}

func TestSendNotificationResolvesCatalogMessage(t *testing.T) {
	mockDS := new(MockDataStore)
	sender := &recordingSender{}

	mockDS.On("CreateNotification", mock.AnythingOfType("*datastore.Notification")).
		Run(func(args mock.Arguments) {
			notification := args.Get(0).(*datastore.Notification)
			notification.ID = 2
		}).
		Return(nil).Once()
	mockDS.On("UpdateNotificationStatus", "2", datastore.NotificationSent).
		Return(datastore.Notification{ID: 2, Status: datastore.NotificationSent}, nil).Once()

	e, _, _ := setupTestEnvironmentWithStore(t, mockDS,
		WithMessenger(messengerWith(mockDS, sender)))

	rec := doRequest(e, http.MethodPost, "/api/v2/notifications",
		`{"recipient":"+919999999999","channel":"sms","message_id":"ContributionReceived"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, sender.messages, 1)
	assert.Equal(t, "Thank you! Your contribution is awaiting review.", sender.messages[0])
}

func TestSendNotificationUnconfiguredChannel(t *testing.T) {
	mockDS := new(MockDataStore)

	mockDS.On("CreateNotification", mock.AnythingOfType("*datastore.Notification")).
		Run(func(args mock.Arguments) {
			notification := args.Get(0).(*datastore.Notification)
			notification.ID = 3
		}).
		Return(nil).Once()
	mockDS.On("UpdateNotificationStatus", "3", datastore.NotificationFailed).
		Return(datastore.Notification{ID: 3, Status: datastore.NotificationFailed}, nil).Once()

	e, _, _ := setupTestEnvironmentWithStore(t, mockDS,
		WithMessenger(messengerWith(mockDS, &recordingSender{})))

	rec := doRequest(e, http.MethodPost, "/api/v2/notifications",
		`{"recipient":"+919999999999","channel":"whatsapp","message":"hello"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var response NotificationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, datastore.NotificationFailed, response.Status)
}

func TestConfirmDeliveryTerminalConflict(t *testing.T) {
	mockDS := new(MockDataStore)

	mockDS.On("UpdateNotificationStatus", "9", datastore.NotificationDelivered).
		Return(datastore.Notification{}, datastore.ErrInvalidTransition).Once()

	e, _, _ := setupTestEnvironmentWithStore(t, mockDS,
		WithMessenger(messengerWith(mockDS, &recordingSender{})))

	rec := doRequest(e, http.MethodPost, "/api/v2/notifications/9/delivery", `{"delivered":true}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
