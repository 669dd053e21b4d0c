package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/green_homes/internal/models"
)

const DefaultIndex = "plants"

type Service struct {
	ES    *elasticsearch.Client
	Index string
}

func New(es *elasticsearch.Client, index string) *Service {
	if index == "" {
		index = DefaultIndex
	}
	return &Service{ES: es, Index: index}
}

// IndexPlants bulk-indexes plants under their ids and refreshes the index.
func (s *Service) IndexPlants(ctx context.Context, plants []models.Plant) error {
	if len(plants) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, p := range plants {
		meta := map[string]any{"index": map[string]any{"_index": s.Index, "_id": p.ID}}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("index plants: %w", err)
		}
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("index plants: %w", err)
		}
	}

	res, err := s.ES.Bulk(
		bytes.NewReader(buf.Bytes()),
		s.ES.Bulk.WithContext(ctx),
		s.ES.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("index plants: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index plants: %s: %s", res.Status(), body)
	}

	var r struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return fmt.Errorf("index plants: decode: %w", err)
	}
	if r.Errors {
		return fmt.Errorf("index plants: bulk request reported item errors")
	}
	return nil
}

// Search runs a fuzzy full-text query and returns the total hit count with
// one page of plants.
func (s *Service) Search(ctx context.Context, query string, from, size int) (int64, []models.Plant, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "scientificName", "description", "features"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return 0, nil, fmt.Errorf("search: %s: %s", res.Status(), body)
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 } `json:"total"`
			Hits  []struct {
				Source models.Plant `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode: %w", err)
	}

	plants := make([]models.Plant, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		plants[i] = hit.Source
	}
	return r.Hits.Total.Value, plants, nil
}
