package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"

	shoutrrr "github.com/nicholas-fedor/shoutrrr"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"

	"github.com/charerimana/agrisense/internal/config"
	"github.com/charerimana/agrisense/internal/domain"
)

// EmailChannel delivers alerts over SMTP via a shoutrrr sender. A sender is
// built per send because the recipient address is part of the service URL.
type EmailChannel struct {
	cfg config.EmailConfig
}

func NewEmailChannel(cfg config.EmailConfig) *EmailChannel {
	return &EmailChannel{cfg: cfg}
}

func (c *EmailChannel) Name() string { return domain.NotificationEmail }

func (c *EmailChannel) Send(ctx context.Context, msg Message) Result {
	sender, err := shoutrrr.CreateSender(c.smtpURL(msg.To))
	if err != nil {
		return Result{Channel: c.Name(), Err: fmt.Errorf("build email sender: %w", err)}
	}
	sender.SetLogger(log.New(io.Discard, "", 0))

	params := stypes.Params{}
	if msg.Subject != "" {
		params.SetTitle(msg.Subject)
	}
	for _, sendErr := range sender.Send(msg.Body, &params) {
		if sendErr != nil {
			return Result{Channel: c.Name(), Err: fmt.Errorf("send email: %w", sendErr)}
		}
	}
	return Result{Channel: c.Name(), OK: true}
}

func (c *EmailChannel) smtpURL(to string) string {
	q := url.Values{}
	q.Set("from", c.cfg.From)
	q.Set("to", to)
	q.Set("useStartTLS", "yes")
	return fmt.Sprintf("smtp://%s:%s@%s:%d/?%s",
		url.QueryEscape(c.cfg.Username),
		url.QueryEscape(c.cfg.Password),
		c.cfg.Host, c.cfg.Port, q.Encode())
}
