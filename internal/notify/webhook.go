package notify

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/bradymd/trading212/internal/logger"
	"resty.dev/v3"
)

const (
	_webhookTimeout = 10 * time.Second
)

// Webhook posts the body as plain text with the title in a header, which is
// what ntfy.sh expects.
type Webhook struct {
	c   *resty.Client
	url string
}

func NewWebhook(rawURL string, logger logger.Logger) (*Webhook, error) {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("%w: invalid webhook url", err)
	}

	client := resty.New().
		SetLogger(logger).
		SetTimeout(_webhookTimeout)

	return &Webhook{
		c:   client,
		url: rawURL,
	}, nil
}

func (w *Webhook) Notify(ctx context.Context, title, body string) error {
	resp, err := w.c.R().
		SetContext(ctx).
		SetHeader("Title", title).
		SetHeader("Content-Type", "text/plain; charset=utf-8").
		SetBody(body).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("%w: can't post webhook", err)
	}
	defer resp.Body.Close()

	if !resp.IsSuccess() {
		return fmt.Errorf("webhook answered %s", resp.Status())
	}
	return nil
}

func (w *Webhook) Close() error {
	return w.c.Close()
}
