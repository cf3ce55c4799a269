package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

// Config holds the Postmark deliverer settings.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN,required"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN,required"`
	SenderEmail          string `env:"NOTIFY_SENDER_EMAIL,required"`
	SupportEmail         string `env:"NOTIFY_SUPPORT_EMAIL" envDefault:""`
}

type postmarkDeliverer struct {
	client *postmark.Client
	config Config
}

// NewPostmarkDeliverer creates a Postmark-backed deliverer. Tokens and the
// sender address are required so a misconfigured service fails at startup
// instead of dropping mail silently.
func NewPostmarkDeliverer(cfg Config) (Deliverer, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("%w: SenderEmail is required", ErrInvalidConfig)
	}

	return &postmarkDeliverer{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		config: cfg,
	}, nil
}

// Deliver sends the notification through Postmark's transactional API.
func (d *postmarkDeliverer) Deliver(ctx context.Context, n Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	resp, err := d.client.SendEmail(ctx, postmark.Email{
		From:       d.config.SenderEmail,
		ReplyTo:    d.config.SupportEmail,
		To:         n.Recipient,
		Subject:    n.Subject,
		Tag:        n.Tag,
		HTMLBody:   n.BodyHTML,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		return errors.Join(ErrFailedToDeliver, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(
			ErrFailedToDeliver,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}
	return nil
}
