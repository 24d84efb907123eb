package metrovalencia

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/travigo/metroplanner/pkg/config"
	"github.com/travigo/metroplanner/pkg/dataaggregator/source/cachedresults"
	"github.com/travigo/metroplanner/pkg/metrics"
	"github.com/travigo/metroplanner/pkg/planner"
)

const maxResponseBytes = 8 << 20

type Client struct {
	HTTPClient *http.Client
	Config     config.UpstreamConfig
	Cache      *cachedresults.Cache
	Metrics    *metrics.Collector

	// InitialRetryInterval is the first wait between attempts, later waits grow exponentially
	InitialRetryInterval time.Duration
}

func NewClient(cfg config.UpstreamConfig, cache *cachedresults.Cache, collector *metrics.Collector) *Client {
	return &Client{
		HTTPClient:           &http.Client{Timeout: cfg.Timeout},
		Config:               cfg,
		Cache:                cache,
		Metrics:              collector,
		InitialRetryInterval: 250 * time.Millisecond,
	}
}

// post sends the operator's form-encoded AJAX request, retrying transport failures and 5xx responses
func (c *Client) post(ctx context.Context, endpoint string, requestURL string, referer string, form url.Values) ([]byte, error) {
	startTime := time.Now()
	attempt := 0

	var body []byte

	operation := func() error {
		attempt++

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, strings.NewReader(form.Encode()))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		if c.Config.UserAgent != "" {
			req.Header.Set("User-Agent", c.Config.UserAgent)
		}
		if referer != "" {
			req.Header.Set("Referer", referer)
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%s responded %s", endpoint, resp.Status)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return backoff.Permanent(fmt.Errorf("%s responded %s", endpoint, resp.Status))
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		return err
	}

	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.InitialInterval = c.InitialRetryInterval
	retryBackoff.MaxElapsedTime = 0

	err := backoff.RetryNotify(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(retryBackoff, uint64(c.Config.MaxRetries)), ctx),
		func(err error, wait time.Duration) {
			log.Warn().Err(err).Str("endpoint", endpoint).Int("attempt", attempt).Str("wait", wait.String()).Msg("Retrying upstream request")
		},
	)

	if err != nil {
		c.Metrics.RecordUpstreamRequest(endpoint, "error", time.Since(startTime))
		return nil, fmt.Errorf("%w: %w", planner.ErrUpstreamUnavailable, err)
	}

	c.Metrics.RecordUpstreamRequest(endpoint, "ok", time.Since(startTime))

	return body, nil
}
