package indexer

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	imdbscraper "github.com/cardigann/go-imdb-scraper"
	"github.com/google/uuid"
	"github.com/mrobinsn/go-tvmaze/tvmaze"
	"github.com/sirupsen/logrus"

	"github.com/tracknab/tracknab/config"
	"github.com/tracknab/tracknab/indexer/cache"
	"github.com/tracknab/tracknab/indexer/categories"
	"github.com/tracknab/tracknab/indexer/search"
	"github.com/tracknab/tracknab/indexer/source"
	"github.com/tracknab/tracknab/indexer/source/web"
	"github.com/tracknab/tracknab/torznab"
)

var _ Indexer = &Runner{}

// Indexer is one searchable tracker site.
type Indexer interface {
	Info() Info
	GetDefinition() *Definition
	Search(query *torznab.Query, srch search.Instance) (search.Instance, error)
	Capabilities() torznab.Capabilities
	Download(urlStr string) (*ResponseProxy, error)
	GetEncoding() string
	HealthCheck() error
	MaxSearchPages() uint
	SearchIsSinglePaged() bool
	Site() string
}

type RunnerOpts struct {
	Config    config.Config
	Transport http.RoundTripper
}

// Runner drives one site definition: it logs in, templates search
// requests, scrapes the rows out of responses and normalizes them.
type Runner struct {
	definition          *Definition
	opts                RunnerOpts
	logger              logrus.FieldLogger
	connectivityTester  cache.ConnectivityTester
	contentFetcher      *web.Fetcher
	session             *BrowsingSession
	urlResolver         *URLResolver
	failingSearchFields map[string]fieldBlock
	lastVerified        time.Time
}

// RunContext carries state that lives for one search.
type RunContext struct {
	Search *search.Search
}

func NewRunner(def *Definition, opts RunnerOpts) *Runner {
	logger := logrus.WithFields(logrus.Fields{"site": def.Site})
	connCache, _ := cache.NewOptimisticConnectivityCache()
	runner := &Runner{
		opts:                opts,
		definition:          def,
		logger:              logger,
		connectivityTester:  connCache,
		failingSearchFields: make(map[string]fieldBlock),
	}
	runner.urlResolver = newURLResolverForIndex(def, opts.Config, connCache)
	runner.contentFetcher = createContentFetcher(runner)
	siteConfig, _ := opts.Config.GetSite(def.Name)
	runner.session = newBrowsingSession(def, siteConfig, runner.contentFetcher, runner.urlResolver)
	return runner
}

func (r *Runner) GetDefinition() *Definition {
	return r.definition
}

func (r *Runner) Site() string {
	return r.definition.Site
}

func (r *Runner) GetEncoding() string {
	return r.definition.Encoding
}

func (r *Runner) MaxSearchPages() uint {
	if r.SearchIsSinglePaged() {
		return 1
	}
	return uint(r.definition.Search.MaxPages)
}

func (r *Runner) SearchIsSinglePaged() bool {
	return r.definition.Search.IsSinglePage()
}

// Capabilities gets the torznab formatted capabilities of this site.
func (r *Runner) Capabilities() torznab.Capabilities {
	caps := r.definition.Capabilities.ToTorznab()

	for idx, mode := range caps.SearchModes {
		switch mode.Key {
		case "search":
			caps.SearchModes[idx].SupportedParams = append(
				caps.SearchModes[idx].SupportedParams,
				"imdbid", "tvdbid", "tvmazeid")
		case "movie-search":
			caps.SearchModes[idx].SupportedParams = append(
				caps.SearchModes[idx].SupportedParams,
				"imdbid")
		case "tv-search":
			caps.SearchModes[idx].SupportedParams = append(
				caps.SearchModes[idx].SupportedParams,
				"tvdbid", "tvmazeid", "rid")
		}
	}

	return caps
}

// HealthCheck runs an empty search if the site hasn't been verified
// recently.
func (r *Runner) HealthCheck() error {
	if time.Since(r.lastVerified) < time.Hour*24 {
		return nil
	}
	_, err := r.Search(&torznab.Query{}, nil)
	if err == nil {
		r.lastVerified = time.Now()
	}
	return err
}

// getLocalCategoriesMatchingQuery resolves the query's torznab categories
// to the site's local category keys.
func (r *Runner) getLocalCategoriesMatchingQuery(query *torznab.Query) []string {
	var localCats []string
	if len(query.Categories) > 0 {
		queryCats := categories.AllCategories.Subset(query.Categories...)
		localCats = r.definition.Capabilities.CategoryMap.MapTorznabCapsToTrackers(queryCats)
		r.logger.
			WithFields(logrus.Fields{"querycats": query.Categories, "local": localCats}).
			Debug("Resolved torznab categories to local")
	}
	return localCats
}

// fillInAdditionalQueryParameters turns external ids into search keywords
// for sites that can't take the ids directly.
func (r *Runner) fillInAdditionalQueryParameters(query *torznab.Query) (*torznab.Query, error) {
	var show *tvmaze.Show
	var movie *imdbscraper.Movie
	var err error

	switch {
	case query.TVDBID != "" && query.TVDBID != "0":
		show, err = tvmaze.DefaultClient.GetShowWithTVDBID(query.TVDBID)
		query.TVDBID = "0"
	case query.TVMazeID != "" && query.TVMazeID != "0":
		show, err = tvmaze.DefaultClient.GetShowWithID(query.TVMazeID)
		query.TVMazeID = "0"
	case query.TVRageID != "" && query.TVRageID != "0":
		show, err = tvmaze.DefaultClient.GetShowWithTVRageID(query.TVRageID)
		query.TVRageID = ""
	case query.IMDBID != "" && query.IMDBID != "0":
		imdbid := query.IMDBID
		if !strings.HasPrefix(imdbid, "tt") {
			imdbid = "tt" + imdbid
		}
		movie, err = imdbscraper.FindByID(imdbid)
		if err != nil {
			err = fmt.Errorf("imdb error: %s", err)
		}
		query.IMDBID = ""
	}
	if err != nil {
		return query, err
	}

	if show != nil {
		query.Series = show.Name
		r.logger.
			WithFields(logrus.Fields{"name": show.Name}).
			Debug("Found show via tvmaze lookup")
	}
	if movie != nil {
		if movie.Title == "" {
			return query, errors.New("movie title was blank")
		}
		query.Movie = movie.Title
		query.Year = movie.Year
		r.logger.
			WithFields(logrus.Fields{"title": movie.Title, "year": movie.Year}).
			Debug("Found movie via imdb lookup")
	}

	return query, nil
}

// Search runs one query against the site. An expired session is logged in
// again exactly once before the search is declared failed.
func (r *Runner) Search(query *torznab.Query, srch search.Instance) (search.Instance, error) {
	query, err := r.fillInAdditionalQueryParameters(query)
	if err != nil {
		return nil, err
	}

	if err := r.session.ensure(); err != nil {
		return nil, err
	}

	localCats := r.getLocalCategoriesMatchingQuery(query)
	if r.definition.Capabilities.RequireCategoryFilter &&
		len(query.Categories) > 0 && len(localCats) == 0 {
		r.logger.
			WithField("querycats", query.Categories).
			Debug("No local categories match the query, returning empty results")
		if srch == nil {
			srch = &search.Search{}
		}
		srch.SetResults(nil)
		return srch, nil
	}

	siteSearch, ok := srch.(*search.Search)
	if !ok {
		siteSearch = &search.Search{}
	}
	if siteSearch.ID == "" {
		siteSearch.ID = uuid.New().String()
	}
	context := RunContext{
		Search: siteSearch,
	}

	target, err := r.extractSearchTarget(query, localCats, context)
	if err != nil {
		return nil, err
	}

	timer := time.Now()
	fetchResult, err := r.fetchWithSessionRetry(target)
	if err != nil {
		return nil, err
	}

	rows, err := r.getRows(fetchResult, &context)
	if err != nil {
		return nil, &ResponseFormatError{Site: r.definition.Site, Err: err}
	}

	r.logger.
		WithFields(logrus.Fields{
			"rows":   rows.Length(),
			"limit":  query.Limit,
			"offset": query.Offset,
		}).
		Debugf("Found %d rows", rows.Length())

	results := r.extractResults(query, localCats, rows)

	r.logger.
		WithFields(logrus.Fields{"q": query.Keywords(), "time": time.Since(timer)}).
		Infof("Query returned %d results", len(results))
	context.Search.SetResults(results)
	return context.Search, nil
}

// fetchWithSessionRetry fetches the target, transparently re-logging in
// one time if the site dropped our session.
func (r *Runner) fetchWithSessionRetry(target *source.FetchOptions) (source.FetchResult, error) {
	fetchResult, err := r.contentFetcher.Fetch(target)
	if err != nil {
		return nil, &FetchError{URL: target.URL, Err: err}
	}

	if html, ok := fetchResult.(*source.HTMLFetchResult); ok {
		page := source.NewDOMScrapeItem(html.DOM)
		if !r.session.stillLoggedIn(page) {
			r.logger.Info("Session expired mid-search, retrying login once")
			r.session.invalidate()
			if err := r.session.ensure(); err != nil {
				return nil, err
			}
			fetchResult, err = r.contentFetcher.Fetch(target)
			if err != nil {
				return nil, &FetchError{URL: target.URL, Err: err}
			}
			if html, ok := fetchResult.(*source.HTMLFetchResult); ok {
				if !r.session.stillLoggedIn(source.NewDOMScrapeItem(html.DOM)) {
					return nil, &LoginError{Err: errors.New("session lost again after a re-login")}
				}
			}
		}
	}
	return fetchResult, nil
}

// extractResults walks the scraped rows applying the query's offset,
// limit and category constraints. A row that fails to parse is logged
// and skipped, it never fails the whole search.
func (r *Runner) extractResults(query *torznab.Query, localCats []string, rows source.RawScrapeItems) []*search.ResultItem {
	var results []*search.ResultItem
	// browse results with no dates get synthetic descending timestamps so
	// feed ordering stays stable
	syntheticDate := time.Now()
	skipped := 0
	for i := 0; i < rows.Length(); i++ {
		if query.Limit > 0 && len(results) >= query.Limit {
			break
		}

		item, err := r.extractItem(i+1, rows.Get(i))
		if err != nil {
			r.logger.
				WithError(err).
				WithField("row", i+1).
				Warn("Skipping unparseable row")
			continue
		}

		if query.Offset > 0 && skipped < query.Offset {
			skipped++
			continue
		}

		if len(localCats) > 0 && !r.itemMatchesLocalCategories(localCats, item) {
			r.logger.
				WithFields(logrus.Fields{"category": item.LocalCategoryName, "categoryId": item.LocalCategoryID}).
				Debug("Skipping result that's not in the requested categories")
			continue
		}

		if r.definition.Search.VerifyQuery && !query.MatchQueryStringAND(item.Title) {
			r.logger.
				WithField("title", item.Title).
				Debug("Skipping result that doesn't match the query keywords")
			continue
		}

		item.Category = r.definition.Capabilities.resolveLocalCategory(item.LocalCategoryID)

		if item.PublishDate.IsZero() {
			item.PublishDate = syntheticDate
			syntheticDate = syntheticDate.Add(-time.Minute)
		}

		item.Fingerprint = search.GetResultFingerprint(item)
		results = append(results, item)
	}
	return results
}

func (r *Runner) itemMatchesLocalCategories(localCats []string, item *search.ResultItem) bool {
	for _, catID := range localCats {
		if catID == item.LocalCategoryID {
			return true
		}
	}
	return false
}

func (r *Runner) getIndexer() *search.ResultIndexer {
	return &search.ResultIndexer{
		ID:   r.definition.Site,
		Name: r.definition.Name,
	}
}

func (r *Runner) Info() Info {
	return IndexerInfo{
		ID:       r.definition.Site,
		Title:    r.definition.Name,
		Language: r.definition.Language,
		Link:     r.definition.Links[0],
	}
}
