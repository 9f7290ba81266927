package indexer

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracknab/tracknab/config"
	"github.com/tracknab/tracknab/torznab"
)

const jsonAPIDefinition = `
site: jsonbay
name: JSONBay
ratelimit: 1
links:
  - %s
caps:
  categorymappings:
    - id: "205"
      cat: TV
      desc: "Video > TV shows"
    - id: "101"
      cat: Audio
      desc: "Audio > Music"
search:
  path: /q.php
  inputs:
    q: "{{ .Keywords }}"
  rows:
    path: "$"
  fields:
    id:
      path: "$.id"
    title:
      path: "$.name"
    magnet:
      path: "$.info_hash"
      filters:
        - name: prepend
          args: "magnet:?xt=urn:btih:"
    size:
      path: "$.size"
    seeders:
      path: "$.seeders"
    leechers:
      path: "$.leechers"
    date:
      path: "$.added"
      filters:
        - name: timeparse
          args: unix
    category:
      path: "$.category"
`

// the payload mixes string and numeric field values, both shapes occur in
// the wild
const jsonAPIResponse = `[
  {"id":"123","name":"Foo.Show.S02E05.720p","info_hash":"AABBCCDD","size":734003200,"seeders":10,"leechers":2,"added":1585742400,"category":"205"},
  {"id":"124","name":"Some.Album.FLAC","info_hash":"EEFF0011","size":104857600,"seeders":3,"leechers":1,"added":1585756800,"category":101}
]`

func newJSONAPIRunner(t *testing.T) *Runner {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/q.php" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, jsonAPIResponse)
	}))
	t.Cleanup(ts.Close)

	def, err := ParseDefinition([]byte(fmt.Sprintf(jsonAPIDefinition, ts.URL)))
	require.NoError(t, err)
	return NewRunner(def, RunnerOpts{Config: config.NewMapConfig()})
}

func TestRunnerSearchJSONAPI(t *testing.T) {
	runner := newJSONAPIRunner(t)

	srch, err := runner.Search(&torznab.Query{Q: "foo"}, nil)
	require.NoError(t, err)
	results := srch.GetResults()
	require.Len(t, results, 2)

	item := results[0]
	assert.Equal(t, "Foo.Show.S02E05.720p", item.Title)
	assert.Equal(t, "123", item.GUID)
	assert.True(t, item.IsMagnet)
	assert.Equal(t, "magnet:?xt=urn:btih:AABBCCDD", item.MagnetLink)
	assert.Equal(t, uint64(734003200), item.Size)
	assert.Equal(t, 10, item.Seeders)
	assert.Equal(t, 12, item.Peers)
	assert.Equal(t, "205", item.LocalCategoryID)
	assert.Equal(t, 5000, item.Category)
	assert.Equal(t,
		time.Date(2020, 4, 1, 12, 0, 0, 0, time.UTC),
		item.PublishDate.UTC())

	// numeric json values come through as plain decimals
	second := results[1]
	assert.Equal(t, uint64(104857600), second.Size)
	assert.Equal(t, "101", second.LocalCategoryID)
	assert.Equal(t, 3000, second.Category)
}

func TestRunnerSearchJSONAPICategoryFilter(t *testing.T) {
	runner := newJSONAPIRunner(t)

	srch, err := runner.Search(&torznab.Query{Categories: []int{3000}}, nil)
	require.NoError(t, err)
	require.Len(t, srch.GetResults(), 1)
	assert.Equal(t, "Some.Album.FLAC", srch.GetResults()[0].Title)
}
