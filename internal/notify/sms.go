package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/charerimana/agrisense/internal/config"
	"github.com/charerimana/agrisense/internal/domain"
)

// SMSChannel delivers alerts through a Twilio-compatible REST API.
type SMSChannel struct {
	client *resty.Client
	cfg    config.SMSConfig
}

func NewSMSChannel(cfg config.SMSConfig) *SMSChannel {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(3 * time.Second).
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken)

	return &SMSChannel{client: client, cfg: cfg}
}

func (c *SMSChannel) Name() string { return domain.NotificationSMS }

func (c *SMSChannel) Send(ctx context.Context, msg Message) Result {
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"From": c.cfg.From,
			"To":   msg.To,
			"Body": msg.Body,
		}).
		Post(fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", c.cfg.AccountSID))
	if err != nil {
		return Result{Channel: c.Name(), Err: fmt.Errorf("send sms: %w", err)}
	}
	if resp.IsError() {
		return Result{Channel: c.Name(), Err: fmt.Errorf("send sms: provider returned %s", resp.Status())}
	}
	return Result{Channel: c.Name(), OK: true}
}
