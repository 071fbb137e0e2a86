package messaging

import (
	"context"
	"errors"
	"strconv"
	"testing"

	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediplant/mediplant-go/internal/datastore"
)

// stubSender records sends and returns a canned outcome.
type stubSender struct {
	sent []string
	errs []error
}

func (s *stubSender) Send(message string, _ *stypes.Params) []error {
	s.sent = append(s.sent, message)
	return s.errs
}

func TestSendRecordsSentStatus(t *testing.T) {
	ds := datastore.NewMemoryStore()
	sender := &stubSender{}
	dispatcher := NewDispatcherWithSenders(ds, map[string]Sender{
		datastore.ChannelSMS: sender,
	})

	notification, err := dispatcher.Send(context.Background(),
		"+919999999999", datastore.ChannelSMS, "Your contribution was approved.")
	require.NoError(t, err)
	assert.Equal(t, datastore.NotificationSent, notification.Status)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Your contribution was approved.", sender.sent[0])
}

func TestSendRecordsFailureStatus(t *testing.T) {
	ds := datastore.NewMemoryStore()
	sender := &stubSender{errs: []error{errors.New("gateway unreachable")}}
	dispatcher := NewDispatcherWithSenders(ds, map[string]Sender{
		datastore.ChannelWhatsApp: sender,
	})

	notification, err := dispatcher.Send(context.Background(),
		"+919999999999", datastore.ChannelWhatsApp, "hello")
	assert.Error(t, err)
	assert.Equal(t, datastore.NotificationFailed, notification.Status)

	// The failed record persists for inspection.
	stored, err := ds.GetNotification(strconv.Itoa(int(notification.ID)))
	require.NoError(t, err)
	assert.Equal(t, datastore.NotificationFailed, stored.Status)
}

func TestSendUnconfiguredChannel(t *testing.T) {
	ds := datastore.NewMemoryStore()
	dispatcher := NewDispatcherWithSenders(ds, map[string]Sender{})

	notification, err := dispatcher.Send(context.Background(),
		"+919999999999", datastore.ChannelSMS, "hello")
	assert.Error(t, err)
	require.NotZero(t, notification.ID)

	stored, err := ds.GetNotification(strconv.Itoa(int(notification.ID)))
	require.NoError(t, err)
	assert.Equal(t, datastore.NotificationFailed, stored.Status)
}

func TestConfirmDelivery(t *testing.T) {
	ds := datastore.NewMemoryStore()
	sender := &stubSender{}
	dispatcher := NewDispatcherWithSenders(ds, map[string]Sender{
		datastore.ChannelSMS: sender,
	})

	notification, err := dispatcher.Send(context.Background(),
		"+919999999999", datastore.ChannelSMS, "hello")
	require.NoError(t, err)

	id := strconv.Itoa(int(notification.ID))
	confirmed, err := dispatcher.ConfirmDelivery(id, true)
	require.NoError(t, err)
	assert.Equal(t, datastore.NotificationDelivered, confirmed.Status)

	// Delivered is terminal, a late failure callback is rejected.
	_, err = dispatcher.ConfirmDelivery(id, false)
	assert.Error(t, err)
}
