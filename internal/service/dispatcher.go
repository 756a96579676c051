package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/charerimana/agrisense/internal/domain"
	"github.com/charerimana/agrisense/internal/notify"
	"github.com/charerimana/agrisense/internal/repository"
)

// AlertDispatcher fans an out-of-range reading out to the owner's enabled
// channels and records one Notification per invocation.
//
// Not idempotent: dispatching the same reading twice writes two rows and
// re-sends. The ingest pipeline invokes it exactly once per invalid reading.
type AlertDispatcher struct {
	prefsRepo repository.PreferencesRepository
	notifRepo repository.NotificationsRepository
	email     notify.Channel
	sms       notify.Channel
	logger    *zap.Logger
}

func NewAlertDispatcher(
	prefsRepo repository.PreferencesRepository,
	notifRepo repository.NotificationsRepository,
	email notify.Channel,
	sms notify.Channel,
	logger *zap.Logger,
) *AlertDispatcher {
	return &AlertDispatcher{
		prefsRepo: prefsRepo,
		notifRepo: notifRepo,
		email:     email,
		sms:       sms,
		logger:    logger,
	}
}

// Dispatch sends the alert for an invalid reading. Missing preferences or
// alerts_enabled=false is a silent skip (nil, nil), not an error. Channel
// transport failures are logged and swallowed; the Notification row records
// the attempt, not the delivery outcome.
func (d *AlertDispatcher) Dispatch(ctx context.Context, owner *domain.User, reading *domain.SensorReading, sensor *domain.Sensor, farmName string) (*domain.Notification, error) {
	prefs, err := d.prefsRepo.GetPreference(ctx, owner.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !prefs.AlertsEnabled {
		return nil, nil
	}

	message := fmt.Sprintf(
		"ALERT: Temperature %g°C is out of range for Sensor with ID %s at %s farm",
		reading.Temperature, sensor.SensorID, farmName)

	emailAttempted := prefs.EmailEnabled && owner.Email != ""
	smsAttempted := prefs.SMSEnabled && prefs.PhoneNumber != ""

	if emailAttempted {
		d.deliver(ctx, d.email, domain.NotificationEmail, notify.Message{
			Subject: "Temperature Alert",
			Body:    message,
			To:      owner.Email,
		}, reading.ID)
	}
	if smsAttempted {
		d.deliver(ctx, d.sms, domain.NotificationSMS, notify.Message{
			Body: message,
			To:   prefs.PhoneNumber,
		}, reading.ID)
	}

	if !emailAttempted && !smsAttempted {
		return nil, nil
	}

	// Tag reflects the first channel attempted in preference order, even
	// when both fired or the delivery failed.
	notificationType := domain.NotificationSMS
	if emailAttempted {
		notificationType = domain.NotificationEmail
	}

	notification := &domain.Notification{
		UserID:    owner.UserID,
		ReadingID: reading.ID,
		Message:   message,
		Type:      notificationType,
	}
	if err := d.notifRepo.CreateNotification(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

func (d *AlertDispatcher) deliver(ctx context.Context, ch notify.Channel, name string, msg notify.Message, readingID int64) {
	if ch == nil {
		d.logger.Warn("Alert channel not configured, skipping delivery",
			zap.String("channel", name),
			zap.Int64("reading_id", readingID),
		)
		return
	}
	res := ch.Send(ctx, msg)
	if !res.OK {
		d.logger.Error("Alert delivery failed",
			zap.String("channel", res.Channel),
			zap.Int64("reading_id", readingID),
			zap.Error(res.Err),
		)
		return
	}
	d.logger.Info("Alert delivered",
		zap.String("channel", res.Channel),
		zap.Int64("reading_id", readingID),
	)
}
