package es

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
)

type Config struct {
	URL      string
	User     string
	Password string
	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

// NewClient connects to Elasticsearch and checks the cluster answers.
func NewClient(ctx context.Context, cfg Config, l *slog.Logger) (*elasticsearch.Client, error) {
	l.Info("es_connect", "url", cfg.URL, "user", cfg.User)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("es client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("es info: %s: %s", res.Status(), body)
	}

	l.Info("es_connected", "url", cfg.URL)
	return client, nil
}
