package indexer

import (
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/tracknab/tracknab/config"
	"github.com/tracknab/tracknab/indexer/categories"
	"github.com/tracknab/tracknab/indexer/search"
	"github.com/tracknab/tracknab/torznab"
)

// Scope caches the indexes that have been constructed so far, so repeated
// lookups reuse the session and browser state of a running index.
type Scope interface {
	Lookup(cfg config.Config, key string) (Indexer, error)
	Indexes() map[string]Indexer
}

type indexScope struct {
	mu      sync.Mutex
	indexes map[string]Indexer
	loader  DefinitionLoader
}

func NewScope(loader DefinitionLoader) Scope {
	if loader == nil {
		loader = GetIndexDefinitionLoader()
	}
	return &indexScope{
		indexes: make(map[string]Indexer),
		loader:  loader,
	}
}

func (c *indexScope) Indexes() map[string]Indexer {
	return c.indexes
}

// Lookup finds or creates the index behind a selector. Aggregate selectors
// ("all", "aggregate", comma lists) produce an Aggregate of every match.
func (c *indexScope) Lookup(cfg config.Config, key string) (Indexer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if found, ok := c.indexes[key]; ok {
		return found, nil
	}

	selector := newIndexerSelector(key)
	var index Indexer
	var err error
	if selector.isAggregate() {
		index, err = c.createAggregate(cfg, selector)
	} else {
		index, err = c.createRunner(cfg, selector.Value())
	}
	if err != nil {
		return nil, err
	}
	c.indexes[key] = index
	return index, nil
}

func (c *indexScope) createRunner(cfg config.Config, key string) (Indexer, error) {
	def, err := c.loader.Load(key)
	if err != nil {
		log.WithError(err).Warnf("Failed to load the index definition %q", key)
		return nil, err
	}
	return NewRunner(def, RunnerOpts{Config: cfg}), nil
}

func (c *indexScope) createAggregate(cfg config.Config, selector *Selector) (Indexer, error) {
	keys, err := c.loader.List(selector)
	if err != nil {
		return nil, err
	}
	agg := &Aggregate{}
	for _, key := range keys {
		runner, err := c.createRunner(cfg, key)
		if err != nil {
			continue
		}
		agg.Indexers = append(agg.Indexers, runner)
	}
	if len(agg.Indexers) == 0 {
		return nil, errors.New("no index definitions matched the given selector")
	}
	return agg, nil
}

// Facade ties an index to its configuration and gives a simpler search surface.
type Facade struct {
	Index         Indexer
	Config        config.Config
	LoadedIndexes Scope
}

func NewEmptyFacade(cfg config.Config) *Facade {
	return &Facade{
		Config:        cfg,
		LoadedIndexes: NewScope(nil),
	}
}

// NewFacade creates a facade for the index with the given name. An empty
// name or "all" aggregates every known index. When categories are given the
// index must support them.
func NewFacade(indexerName string, cfg config.Config, cats ...categories.Category) (*Facade, error) {
	facade := NewEmptyFacade(cfg)
	index, err := facade.LoadedIndexes.Lookup(cfg, indexerName)
	if err != nil {
		return nil, err
	}
	if len(cats) > 0 && !index.Capabilities().HasCategories(cats) {
		return nil, errors.New("index doesn't support the needed categories")
	}
	facade.Index = index
	return facade, nil
}

// NewFacadeFromConfiguration uses the "index" configuration key to pick an index.
func NewFacadeFromConfiguration(cfg config.Config) (*Facade, error) {
	return NewFacade(cfg.GetString("index"), cfg)
}

// Search runs a query against the facade's index. The search covers one page.
func (f *Facade) Search(searchInst search.Instance, query *torznab.Query) (search.Instance, error) {
	return f.Index.Search(query, searchInst)
}

// SearchKeywords searches for keywords on a given page.
func (f *Facade) SearchKeywords(searchInst search.Instance, keywords string, page uint) (search.Instance, error) {
	query := &torznab.Query{Q: keywords, Page: page}
	return f.Search(searchInst, query)
}

// SearchKeywordsWithCategory searches for keywords in one category.
func (f *Facade) SearchKeywordsWithCategory(searchInst search.Instance, keywords string, cat categories.Category, page uint) (search.Instance, error) {
	query := &torznab.Query{Q: keywords, Page: page, Categories: []int{cat.ID}}
	return f.Search(searchInst, query)
}
