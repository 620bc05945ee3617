// Package search keeps the Elasticsearch user directory.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/samber/oops"

	"github.com/oksasatya/vital-identity/internal/application"
	"github.com/oksasatya/vital-identity/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

type UserIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewUserIndex(es *elasticsearch.Client, index string) *UserIndex {
	return &UserIndex{es: es, index: index}
}

func (x *UserIndex) Index(ctx context.Context, e application.DirectoryEntry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return oops.With("user_id", e.ID).Wrap(err)
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: e.ID, Body: bytes.NewReader(b), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return oops.With("operation", "index user", "user_id", e.ID).Wrap(err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return oops.With("operation", "index user", "user_id", e.ID).Errorf("elasticsearch: %s", res.Status())
	}
	return nil
}

// Search matches q against email and names, restricted to role. An empty q matches all.
func (x *UserIndex) Search(ctx context.Context, q string, role entity.Role, size int) ([]application.DirectoryEntry, error) {
	body, err := json.Marshal(searchQuery(q, role, size))
	if err != nil {
		return nil, oops.Wrap(err)
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, oops.With("operation", "search users").Wrap(err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, oops.With("operation", "search users").Errorf("elasticsearch: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source application.DirectoryEntry `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, oops.With("operation", "decode search response").Wrap(err)
	}

	out := make([]application.DirectoryEntry, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func searchQuery(q string, role entity.Role, size int) map[string]any {
	must := []any{}
	if q != "" {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "first_name", "last_name"},
			},
		})
	} else {
		must = append(must, map[string]any{"match_all": map[string]any{}})
	}
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must":   must,
				"filter": []any{map[string]any{"term": map[string]any{"role": string(role)}}},
			},
		},
		"size": size,
	}
}

// EnsureIndex creates the index with keyword mappings for exact filters if it is missing.
func (x *UserIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Indices.Exists([]string{x.index}, x.es.Indices.Exists.WithContext(c))
	if err != nil {
		return oops.With("operation", "check index").Wrap(err)
	}
	_ = res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	mapping := `{"mappings":{"properties":{` +
		`"id":{"type":"keyword"},"email":{"type":"text","fields":{"raw":{"type":"keyword"}}},` +
		`"first_name":{"type":"text"},"last_name":{"type":"text"},"location":{"type":"text"},` +
		`"role":{"type":"keyword"},"is_active":{"type":"boolean"},"is_verified":{"type":"boolean"}}}}`
	res, err = x.es.Indices.Create(x.index,
		x.es.Indices.Create.WithContext(c),
		x.es.Indices.Create.WithBody(bytes.NewReader([]byte(mapping))),
	)
	if err != nil {
		return oops.With("operation", "create index").Wrap(err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return oops.With("operation", "create index", "index", x.index).Errorf("elasticsearch: %s", res.Status())
	}
	return nil
}

var _ application.UserDirectory = (*UserIndex)(nil)
