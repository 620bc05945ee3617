package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/vital-identity/internal/application"
	"github.com/oksasatya/vital-identity/internal/domain/entity"
)

type recorded struct {
	method string
	path   string
	body   string
}

func newTestIndex(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*UserIndex, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{method: r.Method, path: r.URL.Path, body: string(b)})
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewUserIndex(es, "users"), &calls
}

func TestUserIndex_Index(t *testing.T) {
	idx, calls := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	err := idx.Index(context.Background(), application.DirectoryEntry{ID: "u1", Email: "a@b.co", Role: entity.RoleUser})
	require.NoError(t, err)
	require.Len(t, *calls, 1)
	assert.Equal(t, http.MethodPut, (*calls)[0].method)
	assert.Equal(t, "/users/_doc/u1", (*calls)[0].path)
	assert.Contains(t, (*calls)[0].body, `"email":"a@b.co"`)
}

func TestUserIndex_IndexErrorStatus(t *testing.T) {
	idx, _ := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad"}`))
	})

	err := idx.Index(context.Background(), application.DirectoryEntry{ID: "u1"})
	assert.Error(t, err)
}

func TestUserIndex_Search(t *testing.T) {
	idx, calls := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"hits":[
			{"_id":"u1","_source":{"id":"u1","email":"a@b.co","role":"user","is_active":true}},
			{"_id":"u3","_source":{"id":"u3","email":"c@b.co","role":"user"}}
		]}}`))
	})

	out, err := idx.Search(context.Background(), "ada", entity.RoleUser, 5)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "u1", out[0].ID)
	assert.True(t, out[0].IsActive)

	require.Len(t, *calls, 1)
	assert.True(t, strings.HasSuffix((*calls)[0].path, "/users/_search"))

	var q map[string]any
	require.NoError(t, json.Unmarshal([]byte((*calls)[0].body), &q))
	assert.EqualValues(t, 5, q["size"])
	assert.Contains(t, (*calls)[0].body, `"term":{"role":"user"}`)
	assert.Contains(t, (*calls)[0].body, `"query":"ada"`)
}

func TestSearchQuery_EmptyMatchesAll(t *testing.T) {
	b, err := json.Marshal(searchQuery("", entity.RoleUser, 10))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"match_all":{}`)
}
