package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// httpLoader implements Loader for seed documents served over HTTP.
type httpLoader struct {
	client *resty.Client
	logger zerolog.Logger
}

// NewHTTPLoader creates a seed loader that downloads documents by URL.
func NewHTTPLoader(timeout time.Duration, logger zerolog.Logger) Loader {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("Accept", "application/json, application/gzip")

	return &httpLoader{
		client: client,
		logger: logger.With().Str("component", "seed-http-loader").Logger(),
	}
}

// Load downloads and decodes the document at url.
func (l *httpLoader) Load(ctx context.Context, url string) (*Document, error) {
	l.logger.Info().Str("url", url).Msg("downloading seed")

	resp, err := l.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		l.logger.Error().Err(err).Str("url", url).Msg("failed to download seed")
		return nil, fmt.Errorf("failed to download seed from %s: %w", url, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("failed to download seed from %s: unexpected status %d", url, resp.StatusCode())
	}

	doc, err := Decode(body)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", url, err)
	}

	l.logger.Info().
		Str("url", url).
		Int("products", len(doc.Products)).
		Msg("seed downloaded successfully")

	return doc, nil
}
