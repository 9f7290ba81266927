package categories

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// A CategoryMapping relates a tracker's own category keys to the shared
// newznab taxonomy. The relation is many-to-many: one local key may feed
// several normalized categories and several keys may feed the same one.
// Registration order is kept, lookups stay O(1) per key.
type CategoryMapping struct {
	edges *linkedhashmap.Map
}

type mappedCategory struct {
	Category
	LocalLabel string
}

func NewCategoryMapping() *CategoryMapping {
	return &CategoryMapping{edges: linkedhashmap.New()}
}

// AddCategoryMapping registers a single local key to normalized category edge.
// Calling it again with the same key appends, it never replaces.
func (m *CategoryMapping) AddCategoryMapping(localKey string, cat Category, localLabel string) {
	var edges []mappedCategory
	if existing, found := m.edges.Get(localKey); found {
		edges = existing.([]mappedCategory)
	}
	edges = append(edges, mappedCategory{Category: cat, LocalLabel: localLabel})
	m.edges.Put(localKey, edges)
}

// AddMultiCategoryMapping registers one normalized category that several
// local keys contribute to.
func (m *CategoryMapping) AddMultiCategoryMapping(cat Category, localKeys ...string) {
	for _, key := range localKeys {
		m.AddCategoryMapping(key, cat, "")
	}
}

// MapTrackerCatToNewznab returns every normalized category registered for
// a local key, in registration order. An unknown key yields an empty
// slice, the caller decides the fallback.
func (m *CategoryMapping) MapTrackerCatToNewznab(localKey string) []Category {
	existing, found := m.edges.Get(localKey)
	if !found {
		return nil
	}
	edges := existing.([]mappedCategory)
	cats := make([]Category, 0, len(edges))
	for _, edge := range edges {
		cats = append(cats, edge.Category)
	}
	return cats
}

// MapTorznabCapsToTrackers does the inverse lookup: given the normalized
// categories a query asks for, it returns every local key that maps to any
// of them. A key mapped to a subcategory also matches when its parent
// category is requested. The result holds no duplicates and keeps
// registration order.
func (m *CategoryMapping) MapTorznabCapsToTrackers(queryCats Categories) []string {
	var localKeys []string
	seen := make(map[string]struct{})
	it := m.edges.Iterator()
	for it.Next() {
		key := it.Key().(string)
		if _, ok := seen[key]; ok {
			continue
		}
		for _, edge := range it.Value().([]mappedCategory) {
			if queryCats.ContainsCat(edge.Category) ||
				queryCats.ContainsCat(ParentCategory(edge.Category)) {
				localKeys = append(localKeys, key)
				seen[key] = struct{}{}
				break
			}
		}
	}
	return localKeys
}

// LocalKeys returns every registered local key in registration order.
func (m *CategoryMapping) LocalKeys() []string {
	keys := make([]string, 0, m.edges.Size())
	it := m.edges.Iterator()
	for it.Next() {
		keys = append(keys, it.Key().(string))
	}
	return keys
}

// Categories collects the set of normalized categories this mapping can
// produce. Used for the capabilities listing.
func (m *CategoryMapping) Categories() Categories {
	cats := Categories{}
	it := m.edges.Iterator()
	for it.Next() {
		for _, edge := range it.Value().([]mappedCategory) {
			cx := edge.Category
			cats[cx.ID] = &cx
		}
	}
	return cats
}

func (m *CategoryMapping) Size() int {
	return m.edges.Size()
}
