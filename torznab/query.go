package torznab

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/tracknab/tracknab/indexer/categories"
)

// Query represents a torznab query
type Query struct {
	Type                               string
	Q, Series, Ep, Season, Movie, Year string
	Genre                              string
	Limit, Offset                      int
	Extended                           bool
	Categories                         []int
	APIKey                             string

	// identifier types
	TVDBID   string
	TVRageID string
	IMDBID   string
	TVMazeID string
	TMDBID   string

	Page   uint
	IsTest bool
	Fields map[string]interface{}
}

// SearchMode is the strategy a query resolves to. Exactly one mode is
// active per query and the choice is a pure function of the populated
// fields: identifier lookups win over free text, free text wins over
// browsing the latest uploads.
type SearchMode int

const (
	ModeBrowse SearchMode = iota
	ModeText
	ModeID
)

func (m SearchMode) String() string {
	switch m {
	case ModeID:
		return "id"
	case ModeText:
		return "text"
	}
	return "browse"
}

// SearchMode picks the active mode for this query.
func (query Query) SearchMode() SearchMode {
	if query.HasIDs() {
		return ModeID
	}
	if strings.TrimSpace(query.Keywords()) != "" {
		return ModeText
	}
	return ModeBrowse
}

// HasIDs reports whether any external identifier field is populated.
func (query Query) HasIDs() bool {
	for _, id := range []string{query.TVDBID, query.TVRageID, query.IMDBID, query.TVMazeID, query.TMDBID} {
		if id != "" && id != "0" {
			return true
		}
	}
	return false
}

// Episode returns either the season + episode in the format S00E00 or just
// the season as S00 if no episode has been specified.
func (query Query) Episode() (s string) {
	if query.Season != "" {
		s += "S" + zeroPad(query.Season)
	}
	if query.Ep != "" {
		s += "E" + zeroPad(query.Ep)
	}
	return s
}

func zeroPad(v string) string {
	if n, err := strconv.Atoi(v); err == nil {
		return fmt.Sprintf("%02d", n)
	}
	return v
}

// AddCategory adds a category to the query.
func (query *Query) AddCategory(cat categories.Category) {
	query.Categories = append(query.Categories, cat.ID)
}

// QueryCategories resolves the requested category ids against the shared
// taxonomy.
func (query Query) QueryCategories() categories.Categories {
	return categories.AllCategories.Subset(query.Categories...)
}

// Keywords returns the query formatted as search keywords
func (query Query) Keywords() string {
	var tokens []string

	if query.Q != "" {
		tokens = append(tokens, query.Q)
	}
	if query.Series != "" {
		tokens = append(tokens, query.Series)
	}
	if query.Movie != "" {
		tokens = append(tokens, query.Movie)
	}
	if query.Year != "" {
		tokens = append(tokens, query.Year)
	}
	if query.Season != "" || query.Ep != "" {
		tokens = append(tokens, query.Episode())
	}

	return strings.Join(tokens, " ")
}

// MatchQueryStringAND is the client side filter used when the remote
// search is fuzzy or when a browse page is parsed without server side
// filtering: every keyword token must occur in the candidate title.
// Matching is case insensitive and treats accented and unaccented
// variants of a letter as equal.
func (query Query) MatchQueryStringAND(candidateTitle string) bool {
	title := foldForMatch(candidateTitle)
	for _, token := range tokenizeQuery(query.Keywords()) {
		if !strings.Contains(title, token) {
			return false
		}
	}
	return true
}

// Encode returns the query as a url query string
func (query Query) Encode() string {
	v := url.Values{}

	if query.Type != "" {
		v.Set("t", query.Type)
	} else {
		v.Set("t", "search")
	}
	if query.Q != "" {
		v.Set("q", query.Q)
	}
	if query.Ep != "" {
		v.Set("ep", query.Ep)
	}
	if query.Season != "" {
		v.Set("season", query.Season)
	}
	if query.Movie != "" {
		v.Set("movie", query.Movie)
	}
	if query.Year != "" {
		v.Set("year", query.Year)
	}
	if query.Series != "" {
		v.Set("series", query.Series)
	}
	if query.Genre != "" {
		v.Set("genre", query.Genre)
	}
	if query.Offset != 0 {
		v.Set("offset", strconv.Itoa(query.Offset))
	}
	if query.Limit != 0 {
		v.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Extended {
		v.Set("extended", "1")
	}
	if query.APIKey != "" {
		v.Set("apikey", query.APIKey)
	}

	if len(query.Categories) > 0 {
		var cats []string
		for _, cat := range query.Categories {
			cats = append(cats, strconv.Itoa(cat))
		}
		v.Set("cat", strings.Join(cats, ","))
	}

	if query.TVDBID != "" {
		v.Set("tvdbid", query.TVDBID)
	}
	if query.TVRageID != "" {
		v.Set("rid", query.TVRageID)
	}
	if query.TVMazeID != "" {
		v.Set("tvmazeid", query.TVMazeID)
	}
	if query.TMDBID != "" {
		v.Set("tmdbid", query.TMDBID)
	}
	if query.IMDBID != "" {
		v.Set("imdbid", query.IMDBID)
	}

	return v.Encode()
}

func (query Query) String() string {
	return query.Encode()
}

// ParseQuery takes the query string parameters for a torznab query and parses them
func ParseQuery(v url.Values) (*Query, error) {
	query := &Query{}

	for k, vals := range v {
		switch k {
		case "t":
			if len(vals) > 1 {
				return query, errors.New("multiple t parameters not allowed")
			}
			query.Type = vals[0]

		case "q":
			query.Q = strings.Join(vals, " ")

		case "series":
			query.Series = strings.Join(vals, " ")

		case "movie":
			query.Movie = strings.Join(vals, " ")

		case "year":
			if len(vals) > 1 {
				return query, errors.New("multiple year parameters not allowed")
			}
			query.Year = vals[0]

		case "genre":
			if len(vals) > 1 {
				return query, errors.New("multiple genre parameters not allowed")
			}
			query.Genre = vals[0]

		case "ep":
			if len(vals) > 1 {
				return query, errors.New("multiple ep parameters not allowed")
			}
			query.Ep = vals[0]

		case "season":
			if len(vals) > 1 {
				return query, errors.New("multiple season parameters not allowed")
			}
			query.Season = vals[0]

		case "apikey":
			if len(vals) > 1 {
				return query, errors.New("multiple apikey parameters not allowed")
			}
			query.APIKey = vals[0]

		case "limit":
			if len(vals) > 1 {
				return query, errors.New("multiple limit parameters not allowed")
			}
			limit, err := strconv.Atoi(vals[0])
			if err != nil {
				return query, err
			}
			query.Limit = limit

		case "offset":
			if len(vals) > 1 {
				return query, errors.New("multiple offset parameters not allowed")
			}
			offset, err := strconv.Atoi(vals[0])
			if err != nil {
				return query, err
			}
			query.Offset = offset

		case "extended":
			if len(vals) > 1 {
				return query, errors.New("multiple extended parameters not allowed")
			}
			extended, err := strconv.ParseBool(vals[0])
			if err != nil {
				return query, err
			}
			query.Extended = extended

		case "p":
			cnt, _ := strconv.Atoi(vals[0])
			query.Page = uint(cnt)

		case "cat":
			query.Categories = []int{}
			for _, val := range vals {
				ints, err := splitInts(val, ",")
				if err != nil {
					return nil, fmt.Errorf("unable to parse cats %q", vals[0])
				}
				query.Categories = append(query.Categories, ints...)
			}

		case "format":

		case "tvdbid":
			if len(vals) > 1 {
				return query, errors.New("multiple tvdbid parameters not allowed")
			}
			query.TVDBID = vals[0]

		case "rid":
			if len(vals) > 1 {
				return query, errors.New("multiple rid parameters not allowed")
			}
			query.TVRageID = vals[0]

		case "tvmazeid":
			if len(vals) > 1 {
				return query, errors.New("multiple tvmazeid parameters not allowed")
			}
			query.TVMazeID = vals[0]

		case "tmdbid":
			if len(vals) > 1 {
				return query, errors.New("multiple tmdbid parameters not allowed")
			}
			query.TMDBID = vals[0]

		case "imdbid":
			if len(vals) > 1 {
				return query, errors.New("multiple imdbid parameters not allowed")
			}
			query.IMDBID = vals[0]

		default:
			log.Warningf("Unknown torznab request key %q", k)
		}
	}

	return query, nil
}

func splitInts(s, delim string) (i []int, err error) {
	for _, v := range strings.Split(s, delim) {
		vInt, err := strconv.Atoi(v)
		if err != nil {
			return i, err
		}
		i = append(i, vInt)
	}
	return i, err
}
