// Package messaging dispatches SMS and WhatsApp messages through shoutrrr
// service URLs and tracks each message's delivery state in the store. A
// message record is created as pending, moves to sent or failed on dispatch,
// and a provider callback may later confirm delivery.
package messaging

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"slices"
	"strconv"
	"time"

	shoutrrr "github.com/nicholas-fedor/shoutrrr"
	router "github.com/nicholas-fedor/shoutrrr/pkg/router"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"

	"github.com/mediplant/mediplant-go/internal/conf"
	"github.com/mediplant/mediplant-go/internal/datastore"
	"github.com/mediplant/mediplant-go/internal/errors"
	"github.com/mediplant/mediplant-go/internal/logging"
)

// Sender abstracts the shoutrrr router so tests can dispatch without network.
type Sender interface {
	Send(message string, params *stypes.Params) []error
}

// Dispatcher sends messages per channel and records the outcome.
type Dispatcher struct {
	ds      datastore.Interface
	senders map[string]Sender
	logger  *slog.Logger
}

// NewDispatcher builds per-channel senders from the configured shoutrrr URLs.
// A channel with no URLs gets no sender; sends on it fail with a
// configuration error.
func NewDispatcher(settings *conf.Settings, ds datastore.Interface) (*Dispatcher, error) {
	timeout := time.Duration(settings.Messaging.TimeoutSeconds) * time.Second

	senders := make(map[string]Sender)
	for channel, urls := range map[string][]string{
		datastore.ChannelSMS:      settings.Messaging.SMSURLs,
		datastore.ChannelWhatsApp: settings.Messaging.WhatsAppURLs,
	} {
		if len(urls) == 0 {
			continue
		}
		sender, err := newSender(urls, timeout)
		if err != nil {
			return nil, errors.New(fmt.Errorf("creating %s sender: %w", channel, err)).
				Component("messaging").
				Category(errors.CategoryConfiguration).
				Context("channel", channel).
				Build()
		}
		senders[channel] = sender
	}

	return &Dispatcher{
		ds:      ds,
		senders: senders,
		logger:  logging.ForService("messaging"),
	}, nil
}

// NewDispatcherWithSenders wires explicit senders. Used by tests.
func NewDispatcherWithSenders(ds datastore.Interface, senders map[string]Sender) *Dispatcher {
	return &Dispatcher{
		ds:      ds,
		senders: senders,
		logger:  logging.ForService("messaging"),
	}
}

func newSender(urls []string, timeout time.Duration) (*router.ServiceRouter, error) {
	sender, err := shoutrrr.CreateSender(slices.Clone(urls)...)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		sender.Timeout = timeout
	}
	sender.SetLogger(log.New(io.Discard, "", 0))
	return sender, nil
}

// Send creates the message record, dispatches it on the requested channel and
// records the resulting delivery status. The stored notification is returned
// even when dispatch fails, its status then reads failed.
func (d *Dispatcher) Send(ctx context.Context, recipient, channel, message string) (datastore.Notification, error) {
	notification := datastore.Notification{
		Recipient: recipient,
		Channel:   channel,
		Message:   message,
	}
	if err := d.ds.CreateNotification(&notification); err != nil {
		return datastore.Notification{}, errors.New(fmt.Errorf("creating notification record: %w", err)).
			Component("messaging").
			Category(errors.CategoryDatabase).
			Build()
	}

	sender, ok := d.senders[channel]
	if !ok {
		_ = d.markStatus(notification.ID, datastore.NotificationFailed)
		return notification, errors.Newf("no sender configured for channel %q", channel).
			Component("messaging").
			Category(errors.CategoryConfiguration).
			Context("channel", channel).
			Build()
	}

	params := stypes.Params{}
	params.SetTitle("MediPlant")
	if err := firstError(sender.Send(message, &params)); err != nil {
		updated := d.markStatus(notification.ID, datastore.NotificationFailed)
		d.logger.Error("message dispatch failed",
			"notification_id", notification.ID, "channel", channel, "error", err)
		return updated, errors.New(fmt.Errorf("sending %s message: %w", channel, err)).
			Component("messaging").
			Category(errors.CategoryMessaging).
			Context("channel", channel).
			Build()
	}

	updated := d.markStatus(notification.ID, datastore.NotificationSent)
	d.logger.Info("message dispatched", "notification_id", notification.ID, "channel", channel)
	return updated, nil
}

// ConfirmDelivery records a provider delivery callback for a sent message.
func (d *Dispatcher) ConfirmDelivery(id string, delivered bool) (datastore.Notification, error) {
	status := datastore.NotificationDelivered
	if !delivered {
		status = datastore.NotificationFailed
	}
	notification, err := d.ds.UpdateNotificationStatus(id, status)
	if err != nil {
		return datastore.Notification{}, errors.New(fmt.Errorf("recording delivery callback: %w", err)).
			Component("messaging").
			Category(errors.CategoryMessaging).
			Context("notification_id", id).
			Context("status", status).
			Build()
	}
	return notification, nil
}

func (d *Dispatcher) markStatus(id uint, status string) datastore.Notification {
	notification, err := d.ds.UpdateNotificationStatus(strconv.FormatUint(uint64(id), 10), status)
	if err != nil {
		d.logger.Error("failed to record notification status",
			"notification_id", id, "status", status, "error", err)
	}
	return notification
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
