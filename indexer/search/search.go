package search

// Instance carries the state of one logical search across pages.
type Instance interface {
	GetResults() []*ResultItem
	SetResults([]*ResultItem)
	GetStartIndex() int
	SetStartIndex(int)
}

type Search struct {
	ID         string
	StartIndex int
	Results    []*ResultItem
}

func (s *Search) GetResults() []*ResultItem         { return s.Results }
func (s *Search) SetResults(results []*ResultItem)  { s.Results = results }
func (s *Search) GetStartIndex() int                { return s.StartIndex }
func (s *Search) SetStartIndex(index int)           { s.StartIndex = index }

// AggregatedSearch merges the pages of several indexes into one result set.
type AggregatedSearch struct {
	Search
	SiteInstances map[string]Instance
}

func NewAggregatedSearch() *AggregatedSearch {
	return &AggregatedSearch{SiteInstances: make(map[string]Instance)}
}
