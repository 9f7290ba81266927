package indexer

import (
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tracknab/tracknab/indexer/search"
	"github.com/tracknab/tracknab/torznab"
)

// Aggregate searches several sites at once and merges their results.
type Aggregate struct {
	Indexers []Indexer
}

func (ag *Aggregate) GetDefinition() *Definition {
	definition := &Definition{}
	definition.Site = "aggregate"
	var names []string
	for _, ixr := range ag.Indexers {
		names = append(names, ixr.GetDefinition().Name)
	}
	definition.Name = strings.Join(names, ",")
	return definition
}

func (ag *Aggregate) Site() string {
	return "aggregate"
}

// MaxSearchPages is the maximum across the aggregated sites.
func (ag *Aggregate) MaxSearchPages() uint {
	maxValue := uint(0)
	for _, index := range ag.Indexers {
		if index.MaxSearchPages() > maxValue {
			maxValue = index.MaxSearchPages()
		}
	}
	return maxValue
}

// SearchIsSinglePaged only when every aggregated site is single paged.
func (ag *Aggregate) SearchIsSinglePaged() bool {
	for _, index := range ag.Indexers {
		if !index.SearchIsSinglePaged() {
			return false
		}
	}
	return true
}

func (ag *Aggregate) GetEncoding() string {
	for _, index := range ag.Indexers {
		return index.GetEncoding()
	}
	return "utf-8"
}

// HealthCheck verifies every aggregated site in parallel.
func (ag *Aggregate) HealthCheck() error {
	g := errgroup.Group{}
	for _, ixr := range ag.Indexers {
		ixr := ixr
		g.Go(func() error {
			if err := ixr.HealthCheck(); err != nil {
				log.Warnf("Indexer %q failed its health check: %s", ixr.Info().GetID(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Search runs the query against every site in parallel. A failing site is
// logged and skipped, the merged result carries whatever the others found.
func (ag *Aggregate) Search(query *torznab.Query, srch search.Instance) (search.Instance, error) {
	if srch == nil {
		srch = search.NewAggregatedSearch()
	}
	aggSearch, ok := srch.(*search.AggregatedSearch)
	if !ok {
		return nil, errors.New("can't use a site search on an aggregate")
	}
	if len(ag.Indexers) == 0 {
		log.Warn("aggregate has no indexes")
	}

	// each goroutine writes only its own index, SiteInstances is
	// updated after the group is done
	g := errgroup.Group{}
	allResults := make([][]*search.ResultItem, len(ag.Indexers))
	siteIDs := make([]string, len(ag.Indexers))
	siteInstances := make([]search.Instance, len(ag.Indexers))
	for idx, ixr := range ag.Indexers {
		idx, ixr := idx, ixr
		g.Go(func() error {
			indexerID := ixr.Info().GetID()
			siteIDs[idx] = indexerID
			res, err := ixr.Search(query, aggSearch.SiteInstances[indexerID])
			if err != nil {
				log.Warnf("Indexer %q failed: %s", indexerID, err)
				return nil
			}
			siteInstances[idx] = res
			allResults[idx] = res.GetResults()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for idx, instance := range siteInstances {
		if instance != nil {
			aggSearch.SiteInstances[siteIDs[idx]] = instance
		}
	}

	maxLength := 0
	for _, r := range allResults {
		if len(r) > maxLength {
			maxLength = len(r)
		}
	}

	// interleave per-site results to keep a stable overall ordering
	var results []*search.ResultItem
	for i := 0; i < maxLength; i++ {
		for _, r := range allResults {
			if len(r) > i {
				results = append(results, r[i])
			}
		}
	}

	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}
	aggSearch.SetResults(results)
	return aggSearch, nil
}

func (ag *Aggregate) Capabilities() torznab.Capabilities {
	return torznab.Capabilities{
		SearchModes: []torznab.Mode{
			{Key: "movie-search", Available: true, SupportedParams: []string{"q", "imdbid"}},
			{Key: "tv-search", Available: true, SupportedParams: []string{"q", "season", "ep"}},
			{Key: "search", Available: true, SupportedParams: []string{"q"}},
		},
	}
}

func (ag *Aggregate) Download(urlStr string) (*ResponseProxy, error) {
	for _, ixr := range ag.Indexers {
		if proxy, err := ixr.Download(urlStr); err == nil {
			return proxy, nil
		}
	}
	return nil, errors.New("no aggregated indexer could serve the download")
}

type aggregateInfo struct{}

func (a *aggregateInfo) GetID() string       { return "aggregate" }
func (a *aggregateInfo) GetTitle() string    { return "Aggregated indexer" }
func (a *aggregateInfo) GetLanguage() string { return "en-US" }
func (a *aggregateInfo) GetLink() string     { return "" }

func (ag *Aggregate) Info() Info {
	return &aggregateInfo{}
}
