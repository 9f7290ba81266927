package storage

import (
	"github.com/tracknab/tracknab/indexer/search"
)

// ResultStore keeps scraped results between runs so repeat sightings of the
// same release can be told apart from new ones.
type ResultStore interface {
	// HandleResultDiscovery stores a result and stamps its staleness state.
	HandleResultDiscovery(item *search.ResultItem) (isNew bool, isUpdate bool, err error)
	// GetNewest gives up to count results, newest publish date first.
	GetNewest(count int) ([]*search.ResultItem, error)
	// Size is the number of stored results.
	Size() (int, error)
	Close() error
}

// Discover runs a batch of results through the store, tolerating storage
// errors: a result that can't be persisted is still served, just unmarked.
func Discover(store ResultStore, items []*search.ResultItem) {
	if store == nil {
		return
	}
	for _, item := range items {
		_, _, _ = store.HandleResultDiscovery(item)
	}
}
