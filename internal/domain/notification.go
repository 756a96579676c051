package domain

import (
	"regexp"
	"time"
)

// Notification channels.
const (
	NotificationEmail = "EMAIL"
	NotificationSMS   = "SMS"
)

// Notification an immutable audit record of an attempted alert delivery
// (notifications table). Written by the alert dispatcher only.
type Notification struct {
	ID        int64     `db:"id"` // BIGSERIAL
	UserID    string    `db:"user_id"`
	ReadingID int64     `db:"reading_id"`
	Message   string    `db:"message"`
	// Type records which channel was attempted first in preference order
	// (EMAIL before SMS), not which delivery succeeded.
	Type   string    `db:"notification_type"`
	SentAt time.Time `db:"sent_at"`
}

func (n *Notification) ToJSON() map[string]any {
	return map[string]any{
		"id":                n.ID,
		"user_id":           n.UserID,
		"reading_id":        n.ReadingID,
		"message":           n.Message,
		"notification_type": n.Type,
		"sent_at":           n.SentAt.Format(time.RFC3339),
	}
}

// NotificationPreference per-user alert settings (notification_preferences
// table, one row per user).
type NotificationPreference struct {
	UserID        string `db:"user_id"`
	AlertsEnabled bool   `db:"alerts_enabled"`
	EmailEnabled  bool   `db:"email_enabled"`
	SMSEnabled    bool   `db:"sms_enabled"`
	PhoneNumber   string `db:"phone_number"`
}

// DefaultPreference matches the column defaults: alerts and email on, SMS off.
func DefaultPreference(userID string) *NotificationPreference {
	return &NotificationPreference{
		UserID:        userID,
		AlertsEnabled: true,
		EmailEnabled:  true,
		SMSEnabled:    false,
	}
}

func (p *NotificationPreference) ToJSON() map[string]any {
	return map[string]any{
		"user_id":        p.UserID,
		"alerts_enabled": p.AlertsEnabled,
		"email_enabled":  p.EmailEnabled,
		"sms_enabled":    p.SMSEnabled,
		"phone_number":   p.PhoneNumber,
	}
}

// Rwandan mobile numbers: optional +250 country code, operator prefix
// 72/73/78/79, seven digits.
var phonePattern = regexp.MustCompile(`^\+?2507[2389]\d{7}$`)

// ValidPhoneNumber accepts "+250788123456", "250788123456" and the local
// "0788123456" form.
func ValidPhoneNumber(phone string) bool {
	if len(phone) > 0 && phone[0] == '0' {
		phone = "250" + phone[1:]
	}
	return phonePattern.MatchString(phone)
}

// Validate checks the SMS/phone invariant. Returns field-scoped errors.
func (p *NotificationPreference) Validate() FieldErrors {
	errs := FieldErrors{}
	if p.SMSEnabled && p.PhoneNumber == "" {
		errs["phone_number"] = "This field is required when SMS is enabled."
	} else if p.PhoneNumber != "" && !ValidPhoneNumber(p.PhoneNumber) {
		errs["phone_number"] = "Phone number must be entered in the format: '+2507....'."
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
