// Package trading212 is a read-only client for the Trading 212 public API.
package trading212

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bradymd/trading212/internal/config"
	"github.com/bradymd/trading212/internal/logger"
	"github.com/bradymd/trading212/internal/model"
	"github.com/bytedance/sonic"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const (
	_portfolioURL   = "/api/v0/equity/portfolio"
	_cashURL        = "/api/v0/equity/account/cash"
	_instrumentsURL = "/api/v0/equity/metadata/instruments"
)

var (
	// ErrSourceUnavailable wraps every network, HTTP and auth failure.
	ErrSourceUnavailable = errors.New("trading 212 api unavailable")
	ErrUnauthorized      = errors.New("trading 212 api key rejected")
	ErrRateLimited       = errors.New("trading 212 rate limit exceeded")
)

// ErrorResponse is the JSON body of a non-2xx answer.
type ErrorResponse struct {
	Code          string `json:"code"`
	Clarification string `json:"clarification"`
	Message       string `json:"message"`
}

func (e *ErrorResponse) text() string {
	switch {
	case e == nil:
		return ""
	case e.Clarification != "":
		return e.Clarification
	case e.Message != "":
		return e.Message
	default:
		return e.Code
	}
}

// Limits holds one limiter per endpoint; the API enforces per-endpoint quotas.
type Limits struct {
	Portfolio   ratelimit.Limiter
	Cash        ratelimit.Limiter
	Instruments ratelimit.Limiter
}

func DefaultLimits() Limits {
	return Limits{
		Portfolio:   ratelimit.New(1, ratelimit.Per(5*time.Second)),
		Cash:        ratelimit.New(1, ratelimit.Per(2*time.Second)),
		Instruments: ratelimit.New(1, ratelimit.Per(50*time.Second)),
	}
}

func NoLimits() Limits {
	return Limits{
		Portfolio:   ratelimit.NewUnlimited(),
		Cash:        ratelimit.NewUnlimited(),
		Instruments: ratelimit.NewUnlimited(),
	}
}

type Client struct {
	c      *resty.Client
	limits Limits

	logger logger.Logger
}

func NewClient(cfg config.APIConfig, limits Limits, logger logger.Logger) *Client {
	client := resty.New().
		SetLogger(logger).
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", cfg.Key).
		SetHeader("Accept", "application/json").
		AddContentTypeDecoder("json", decodeJSON)

	return &Client{
		c:      client,
		limits: limits,
		logger: logger,
	}
}

func decodeJSON(r io.Reader, v any) error {
	return sonic.ConfigDefault.NewDecoder(r).Decode(v)
}

func (c *Client) FetchPositions(ctx context.Context) ([]model.Position, error) {
	var positions []model.Position
	if err := c.get(ctx, c.limits.Portfolio, _portfolioURL, &positions); err != nil {
		return nil, fmt.Errorf("%w: can't fetch positions", err)
	}
	return positions, nil
}

func (c *Client) FetchCash(ctx context.Context) (model.Cash, error) {
	var cash model.Cash
	if err := c.get(ctx, c.limits.Cash, _cashURL, &cash); err != nil {
		return model.Cash{}, fmt.Errorf("%w: can't fetch cash", err)
	}
	return cash, nil
}

func (c *Client) FetchInstrumentMetadata(ctx context.Context) ([]model.InstrumentMetadata, error) {
	var instruments []model.InstrumentMetadata
	if err := c.get(ctx, c.limits.Instruments, _instrumentsURL, &instruments); err != nil {
		return nil, fmt.Errorf("%w: can't fetch instruments", err)
	}
	return instruments, nil
}

func (c *Client) Close() error {
	return c.c.Close()
}

func (c *Client) get(ctx context.Context, limiter ratelimit.Limiter, url string, result any) error {
	limiter.Take()

	resp, err := c.c.R().
		SetContext(ctx).
		SetResult(result).
		SetError(&ErrorResponse{}).
		Get(url)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debugf("got response %s status: %s, %s", url, resp.Status(), resp.Duration())

	if resp.IsSuccess() {
		return nil
	}

	if resp.IsError() {
		apiErr, _ := resp.Error().(*ErrorResponse)
		msg := apiErr.text()
		if msg == "" {
			msg = resp.Status()
		}

		switch resp.StatusCode() {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %w: %s", ErrSourceUnavailable, ErrUnauthorized, msg)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w: %s", ErrSourceUnavailable, ErrRateLimited, msg)
		default:
			return fmt.Errorf("%w: %s", ErrSourceUnavailable, msg)
		}
	}

	return fmt.Errorf("%w: unexpected status %s", ErrSourceUnavailable, resp.Status())
}
