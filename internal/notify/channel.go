// Package notify implements the alert delivery channels. Deliveries are
// best-effort: every attempt produces a Result value instead of a propagated
// error, and the dispatcher decides what to log and record.
package notify

import "context"

// Result outcome of one delivery attempt.
type Result struct {
	Channel string // domain.NotificationEmail or domain.NotificationSMS
	OK      bool
	Err     error
}

// Message an alert to deliver to one recipient.
type Message struct {
	Subject string
	Body    string
	// To is an email address for the email channel, a phone number for SMS.
	To string
}

// Channel a delivery mechanism.
type Channel interface {
	Name() string
	Send(ctx context.Context, msg Message) Result
}
