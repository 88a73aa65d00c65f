// internal/store/search.go
package store

import (
	"context"
	"encoding/json"
	"strings"

	cerrors "greenmatch/internal/common/errors"
	"greenmatch/internal/common/logger"
	"greenmatch/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// DirectorySearch runs free-text + filter queries over the entity directory
// index. The scoring pipelines never depend on it; it serves the listing
// surface of the marketplace.
type DirectorySearch struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewDirectorySearch(client *elasticsearch.Client, index string, log logger.Logger) *DirectorySearch {
	return &DirectorySearch{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "directory-search"}),
	}
}

// DirectoryQuery narrows a directory search.
type DirectoryQuery struct {
	Keywords   string
	EntityType models.EntityType
	Country    string
	Technology models.Technology
	From       int
	Size       int
}

// DirectoryHit is one search result summary.
type DirectoryHit struct {
	ID         string  `json:"id"`
	EntityType string  `json:"entityType"`
	Name       string  `json:"name"`
	Country    string  `json:"country,omitempty"`
	Technology string  `json:"technology,omitempty"`
	Summary    string  `json:"summary,omitempty"`
	Score      float64 `json:"score"`
}

// Search executes the query and returns hits with the total count.
func (d *DirectorySearch) Search(ctx context.Context, q DirectoryQuery) ([]DirectoryHit, int, error) {
	body := buildDirectoryQuery(q)
	payload, _ := json.Marshal(body)

	size := q.Size
	if size <= 0 || size > 50 {
		size = 20
	}

	req := esapi.SearchRequest{
		Index: []string{d.index},
		Body:  strings.NewReader(string(payload)),
		From:  &q.From,
		Size:  &size,
	}

	res, err := req.Do(ctx, d.client)
	if err != nil {
		return nil, 0, cerrors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, cerrors.NewSearchQueryFailedError(
			&esError{status: res.Status()})
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string          `json:"_id"`
				Score  float64         `json:"_score"`
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, cerrors.NewSearchQueryFailedError(err)
	}

	hits := make([]DirectoryHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		var hit DirectoryHit
		if err := json.Unmarshal(h.Source, &hit); err != nil {
			d.logger.Warn("skipping malformed directory document", map[string]interface{}{
				"id":    h.ID,
				"error": err.Error(),
			})
			continue
		}
		hit.ID = h.ID
		hit.Score = h.Score
		hits = append(hits, hit)
	}

	return hits, parsed.Hits.Total.Value, nil
}

func buildDirectoryQuery(q DirectoryQuery) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if q.Keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Keywords,
				"fields": []string{"name^3", "summary^2", "tags"},
				"type":   "best_fields",
			},
		})
	}

	if q.EntityType != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"entityType": string(q.EntityType)},
		})
	}
	if q.Country != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"country": q.Country},
		})
	}
	if q.Technology != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"technology": string(q.Technology)},
		})
	}

	boolQuery := map[string]interface{}{}
	if len(mustClauses) > 0 {
		boolQuery["must"] = mustClauses
	} else {
		boolQuery["must"] = []interface{}{map[string]interface{}{"match_all": map[string]interface{}{}}}
	}
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}
}

type esError struct {
	status string
}

func (e *esError) Error() string {
	return "elasticsearch: " + e.status
}
