// Package notify delivers alert notifications to the user.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/bradymd/trading212/internal/logger"
)

type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Multi fans a notification out to every sink. One failing sink does not
// stop the others.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, title, body string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, title, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Log writes notifications to the logger.
type Log struct {
	logger logger.Logger
}

func NewLog(logger logger.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Notify(_ context.Context, title, body string) error {
	l.logger.Infow("alert", "title", title, "body", body)
	return nil
}

// Options selects the sinks built by New.
type Options struct {
	Desktop    bool
	WebhookURL string
}

// New builds the notifier for the given options. The log sink is always on.
func New(opts Options, logger logger.Logger) (Notifier, error) {
	sinks := Multi{NewLog(logger)}

	if opts.Desktop {
		d, err := NewDesktop()
		if err != nil {
			logger.Warnf("%s: desktop notifications disabled", err)
		} else {
			sinks = append(sinks, d)
		}
	}

	if opts.WebhookURL != "" {
		w, err := NewWebhook(opts.WebhookURL, logger)
		if err != nil {
			return nil, fmt.Errorf("%w: can't create webhook notifier", err)
		}
		sinks = append(sinks, w)
	}

	return sinks, nil
}
