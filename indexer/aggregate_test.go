package indexer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracknab/tracknab/indexer/search"
	"github.com/tracknab/tracknab/torznab"
)

func TestAggregateSearchMergesSites(t *testing.T) {
	first, _ := newFakeTrackerRunner(t, &fakeTracker{rowsHTML: sampleRows}, "bob", "secret")
	second, _ := newFakeTrackerRunner(t, &fakeTracker{rowsHTML: sampleRows}, "bob", "secret")
	agg := &Aggregate{Indexers: []Indexer{first, second}}

	srch, err := agg.Search(&torznab.Query{}, nil)
	require.NoError(t, err)
	assert.Len(t, srch.GetResults(), 4)
}

func TestAggregateSearchToleratesFailingSite(t *testing.T) {
	working, _ := newFakeTrackerRunner(t, &fakeTracker{rowsHTML: sampleRows}, "bob", "secret")
	broken, _ := newFakeTrackerRunner(t, &fakeTracker{}, "bob", "wrong")
	agg := &Aggregate{Indexers: []Indexer{broken, working}}

	srch, err := agg.Search(&torznab.Query{}, nil)
	require.NoError(t, err)
	assert.Len(t, srch.GetResults(), 2)
}

func TestAggregateSearchLimit(t *testing.T) {
	first, _ := newFakeTrackerRunner(t, &fakeTracker{rowsHTML: sampleRows}, "bob", "secret")
	second, _ := newFakeTrackerRunner(t, &fakeTracker{rowsHTML: sampleRows}, "bob", "secret")
	agg := &Aggregate{Indexers: []Indexer{first, second}}

	srch, err := agg.Search(&torznab.Query{Limit: 3}, nil)
	require.NoError(t, err)
	assert.Len(t, srch.GetResults(), 3)
}

func TestAggregateSearchManySites(t *testing.T) {
	agg := &Aggregate{}
	for i := 0; i < 8; i++ {
		runner, _ := newFakeTrackerRunner(t, &fakeTracker{rowsHTML: sampleRows}, "bob", "secret")
		runner.definition.Site = fmt.Sprintf("site%d", i)
		agg.Indexers = append(agg.Indexers, runner)
	}

	srch, err := agg.Search(&torznab.Query{}, nil)
	require.NoError(t, err)
	aggSearch, ok := srch.(*search.AggregatedSearch)
	require.True(t, ok)
	assert.Len(t, srch.GetResults(), 16)
	assert.Len(t, aggSearch.SiteInstances, 8)

	// a second round reuses every per-site instance
	srch, err = agg.Search(&torznab.Query{}, srch)
	require.NoError(t, err)
	assert.Len(t, aggSearch.SiteInstances, 8)
	assert.Len(t, srch.GetResults(), 16)
}

func TestAggregateRejectsSiteSearchInstance(t *testing.T) {
	agg := &Aggregate{}
	_, err := agg.Search(&torznab.Query{}, &search.Search{})
	assert.Error(t, err)
}

func TestAggregateMaxSearchPages(t *testing.T) {
	first, _ := newFakeTrackerRunner(t, &fakeTracker{}, "bob", "secret")
	second, _ := newFakeTrackerRunner(t, &fakeTracker{}, "bob", "secret")
	first.definition.Search.MaxPages = 3
	second.definition.Search.MaxPages = 5
	agg := &Aggregate{Indexers: []Indexer{first, second}}
	assert.Equal(t, uint(5), agg.MaxSearchPages())
	assert.False(t, agg.SearchIsSinglePaged())
}
