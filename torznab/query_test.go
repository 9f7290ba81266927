package torznab

import (
	"net/url"
	"testing"
)

func TestSearchModeSelection(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  SearchMode
	}{
		{"Empty query browses the latest uploads", Query{}, ModeBrowse},
		{"Free text searches by text", Query{Q: "some show"}, ModeText},
		{"Season alone still counts as text", Query{Season: "2"}, ModeText},
		{"An imdb id wins over text", Query{Q: "some show", IMDBID: "tt0944947"}, ModeID},
		{"A tvdb id wins over text", Query{Q: "x", TVDBID: "121361"}, ModeID},
		{"A zeroed id does not count", Query{TVDBID: "0"}, ModeBrowse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.SearchMode(); got != tt.want {
				t.Errorf("SearchMode() = %v, want %v", got, tt.want)
			}
			// mode selection must not mutate the query
			if got := tt.query.SearchMode(); got != tt.want {
				t.Errorf("SearchMode() is not stable, got %v on second call", got)
			}
		})
	}
}

func TestEpisode(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{"Season and episode", Query{Season: "2", Ep: "5"}, "S02E05"},
		{"Season only", Query{Season: "10"}, "S10"},
		{"Episode only", Query{Ep: "7"}, "E07"},
		{"Nothing", Query{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.Episode(); got != tt.want {
				t.Errorf("Episode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMatchQueryStringAND(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		title string
		want  bool
	}{
		{"All tokens present in order", Query{Q: "foo bar"}, "Foo.Bar.S01.1080p", true},
		{"All tokens present out of order", Query{Q: "foo bar"}, "bar and then foo", true},
		{"Missing token rejects", Query{Q: "foo bar"}, "only foo here", false},
		{"Case insensitive", Query{Q: "FOO"}, "foo fighters", true},
		{"Accented title matches plain query", Query{Q: "policia"}, "Policía.Del.Futuro.720p", true},
		{"Plain title matches accented query", Query{Q: "Até"}, "ate logo", true},
		{"Empty query matches everything", Query{}, "anything", true},
		{"Season folds into the match tokens", Query{Q: "foo show", Season: "2", Ep: "5"}, "Foo.Show.S02E05.720p", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.MatchQueryStringAND(tt.title); got != tt.want {
				t.Errorf("MatchQueryStringAND(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestParseQuery(t *testing.T) {
	v := url.Values{}
	v.Set("t", "tvsearch")
	v.Set("q", "foo show")
	v.Set("season", "2")
	v.Set("ep", "5")
	v.Set("cat", "5030,5040")
	v.Set("limit", "50")

	query, err := ParseQuery(v)
	if err != nil {
		t.Fatal(err)
	}
	if query.Q != "foo show" || query.Season != "2" || query.Ep != "5" {
		t.Errorf("unexpected query fields: %+v", query)
	}
	if len(query.Categories) != 2 || query.Categories[0] != 5030 || query.Categories[1] != 5040 {
		t.Errorf("unexpected categories: %v", query.Categories)
	}
	if query.Limit != 50 {
		t.Errorf("limit = %d, want 50", query.Limit)
	}
	if query.Keywords() != "foo show S02E05" {
		t.Errorf("Keywords() = %q", query.Keywords())
	}
}

func TestParseQueryRejectsDuplicates(t *testing.T) {
	v := url.Values{"season": []string{"1", "2"}}
	if _, err := ParseQuery(v); err == nil {
		t.Error("expected an error for duplicate season parameters")
	}
}
