// internal/common/database/elasticsearch.go
package database

import (
	"context"
	"fmt"

	"team-builder/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
)

const defaultPlayerIndex = "players"

// ElasticsearchClient wraps the cluster connection backing player search.
type ElasticsearchClient struct {
	Client *elasticsearch.Client
	index  string
}

func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
	}

	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	index := cfg.PlayerIndex
	if index == "" {
		index = defaultPlayerIndex
	}

	return &ElasticsearchClient{Client: es, index: index}, nil
}

// PlayerIndex returns the index player documents are searched in.
func (c *ElasticsearchClient) PlayerIndex() string {
	return c.index
}

// Ping checks that the player search cluster is reachable.
func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	res, err := c.Client.Ping(
		c.Client.Ping.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}

	return nil
}
