// Package email delivers lead notifications to listed businesses.
package email

import "context"

// LeadNotificationData is everything the notification template needs.
type LeadNotificationData struct {
	BusinessName string
	LeadName     string
	LeadEmail    string
	LeadPhone    string
	CityName     string
	StateAbbr    string
	Message      string
}

// Sender delivers lead notification emails.
type Sender interface {
	SendLeadNotification(ctx context.Context, toEmail string, data LeadNotificationData) error
}

// NoopSender is used when email is disabled; sends are logged upstream
// and dropped here.
type NoopSender struct{}

// SendLeadNotification discards the message.
func (NoopSender) SendLeadNotification(ctx context.Context, toEmail string, data LeadNotificationData) error {
	return nil
}

// Compile-time check that NoopSender implements Sender.
var _ Sender = NoopSender{}
