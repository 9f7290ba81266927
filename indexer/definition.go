package indexer

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/tracknab/tracknab/indexer/categories"
	"github.com/tracknab/tracknab/torznab"
)

// defaultRateLimit is the ms to wait between requests when a definition
// doesn't set one.
var defaultRateLimit = 500

// Definition is a declarative description of one tracker site.
type Definition struct {
	Site         string            `yaml:"site"`
	Version      string            `yaml:"version"`
	Settings     []settingsField   `yaml:"settings"`
	Name         string            `yaml:"name"`
	Description  string            `yaml:"description"`
	Language     string            `yaml:"language"`
	Links        stringorslice     `yaml:"links"`
	Capabilities capabilitiesBlock `yaml:"caps"`
	Login        loginBlock        `yaml:"login"`
	Search       searchBlock       `yaml:"search"`
	Encoding     string            `yaml:"encoding"`
	// The ms to wait between each request.
	RateLimit int `yaml:"ratelimit"`
	// CacheTTL, in seconds, opts the site into caching of search pages.
	CacheTTL int             `yaml:"cachettl"`
	stats    DefinitionStats `yaml:"-"`
}

type DefinitionStats struct {
	Size    int64
	ModTime time.Time
	Hash    string
	Source  string
}

func (d *Definition) Stats() DefinitionStats {
	return d.stats
}

// Check validates constraints that yaml alone can't express.
func (d *Definition) Check() error {
	if d.Name == "" {
		return &ConfigurationError{Message: "definition has no name"}
	}
	if len(d.Links) == 0 {
		return &ConfigurationError{Message: fmt.Sprintf("definition %q has no links", d.Name)}
	}
	if d.Login.Captcha != nil {
		return &ConfigurationError{
			Message: fmt.Sprintf("definition %q requires a captcha which is not supported", d.Name),
		}
	}
	if d.Search.Rows.IsEmpty() && d.Search.Rows.Path == "" {
		return &ConfigurationError{Message: fmt.Sprintf("definition %q has no rows selector", d.Name)}
	}
	return nil
}

type settingsField struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Label string `yaml:"label"`
}

// ParseDefinitionFile loads a site definition from a file.
func ParseDefinitionFile(f *os.File) (*Definition, error) {
	b, err := ioutil.ReadFile(f.Name())
	if err != nil {
		return nil, err
	}

	def, err := ParseDefinition(b)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	def.stats.ModTime = fi.ModTime()
	return def, err
}

func ParseDefinition(src []byte) (*Definition, error) {
	def := Definition{
		Language:     "en-us",
		Encoding:     "utf-8",
		Capabilities: capabilitiesBlock{},
		Login: loginBlock{
			FormSelector: "form",
			Inputs:       inputsBlock{},
		},
		Search: searchBlock{},
	}

	if err := yaml.Unmarshal(src, &def); err != nil {
		return nil, err
	}

	if len(def.Settings) == 0 {
		def.Settings = defaultSettingsFields()
	}

	def.stats = DefinitionStats{
		Size:    int64(len(src)),
		ModTime: time.Now(),
		Hash:    fmt.Sprintf("%x", sha1.Sum(src)),
	}
	if def.RateLimit == 0 {
		def.RateLimit = defaultRateLimit
	}
	if err := def.Check(); err != nil {
		return nil, err
	}
	return &def, nil
}

func defaultSettingsFields() []settingsField {
	return []settingsField{
		{Name: "username", Label: "Username", Type: "text"},
		{Name: "password", Label: "Password", Type: "password"},
	}
}

type inputsBlock map[string]string

type stringorslice []string

func (s *stringorslice) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var stringType string
	if err := unmarshal(&stringType); err == nil {
		*s = stringorslice{stringType}
		return nil
	}

	var sliceType []string
	if err := unmarshal(&sliceType); err == nil {
		*s = stringorslice(sliceType)
		return nil
	}

	return errors.New("failed to unmarshal stringorslice")
}

type errorBlockOrSlice []errorBlock

func (e *errorBlockOrSlice) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var blockType errorBlock
	if err := unmarshal(&blockType); err == nil {
		*e = errorBlockOrSlice{blockType}
		return nil
	}

	var sliceType []errorBlock
	if err := unmarshal(&sliceType); err == nil {
		*e = errorBlockOrSlice(sliceType)
		return nil
	}

	return errors.New("failed to unmarshal errorBlockOrSlice")
}

type errorBlock struct {
	Path     string        `yaml:"path"`
	Selector string        `yaml:"selector"`
	Message  selectorBlock `yaml:"message"`
}

type pageTestBlock struct {
	Path     string `yaml:"path"`
	Selector string `yaml:"selector"`
}

func (t *pageTestBlock) IsEmpty() bool {
	return t.Path == "" && t.Selector == ""
}

const (
	loginMethodPost   = "post"
	loginMethodForm   = "form"
	loginMethodCookie = "cookie"
)

type loginBlock struct {
	Path         string            `yaml:"path"`
	FormSelector string            `yaml:"form"`
	Method       string            `yaml:"method"`
	Inputs       inputsBlock       `yaml:"inputs,omitempty"`
	Error        errorBlockOrSlice `yaml:"error,omitempty"`
	Test         pageTestBlock     `yaml:"test,omitempty"`
	Init         initBlock         `yaml:"init,omitempty"`
	// Captcha support is declared so we can reject such sites early.
	Captcha map[string]interface{} `yaml:"captcha,omitempty"`
}

func (l *loginBlock) IsEmpty() bool {
	return l.Path == "" && l.Method == ""
}

type initBlock struct {
	Path string `yaml:"path"`
}

func (i *initBlock) IsEmpty() bool {
	return i.Path == ""
}

type fieldBlock struct {
	Field string
	Block selectorBlock
}

type fieldsListBlock []fieldBlock

func (f *fieldsListBlock) UnmarshalYAML(unmarshal func(interface{}) error) error {
	// Unmarshal as a MapSlice to preserve the order of fields
	var fields yaml.MapSlice
	if err := unmarshal(&fields); err != nil {
		return errors.New("failed to unmarshal fieldsListBlock")
	}

	for _, item := range fields {
		b, err := yaml.Marshal(item.Value)
		if err != nil {
			return err
		}
		var sb selectorBlock
		if err = yaml.Unmarshal(b, &sb); err != nil {
			return err
		}
		*f = append(*f, fieldBlock{
			Field: item.Key.(string),
			Block: sb,
		})
	}

	return nil
}

type rowsBlock struct {
	selectorBlock
	After       int           `yaml:"after"`
	Remove      string        `yaml:"remove"`
	DateHeaders selectorBlock `yaml:"dateheaders"`
}

func (r *rowsBlock) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var sb selectorBlock
	if err := unmarshal(&sb); err != nil {
		return errors.New("failed to unmarshal rowsBlock")
	}

	var rb struct {
		After       int           `yaml:"after"`
		Remove      string        `yaml:"remove"`
		DateHeaders selectorBlock `yaml:"dateheaders"`
	}
	if err := unmarshal(&rb); err != nil {
		return errors.New("failed to unmarshal rowsBlock")
	}

	r.selectorBlock = sb
	r.After = rb.After
	r.Remove = rb.Remove
	r.DateHeaders = rb.DateHeaders
	return nil
}

// searchBlock describes how search is done on a site.
type searchBlock struct {
	Path   string `yaml:"path"`
	Method string `yaml:"method"`
	// The number of results on each page, maximum.
	PageSize int `yaml:"pagesize"`
	// The maximum number of pages that we can fetch in a search.
	MaxPages int             `yaml:"pages"`
	Inputs   inputsBlock     `yaml:"inputs,omitempty"`
	Rows     rowsBlock       `yaml:"rows"`
	Fields   fieldsListBlock `yaml:"fields"`
	Context  fieldsListBlock `yaml:"context"`
	// VerifyQuery re-checks extracted titles against the query keywords,
	// for sites whose search is too fuzzy.
	VerifyQuery bool `yaml:"verifyquery"`
}

func (sb *searchBlock) IsSinglePage() bool {
	return sb.MaxPages == 1 || sb.Inputs == nil
}

type capabilitiesBlock struct {
	CategoryMap *categories.CategoryMapping
	SearchModes []torznab.Mode
	// FallbackCategory is applied to rows whose local category is unknown.
	FallbackCategory *categories.Category
	// RequireCategoryFilter rejects queries that resolve to no local
	// category instead of browsing everything.
	RequireCategoryFilter bool
}

// UnmarshalYAML accepts two shapes of category declarations: a plain
// `categories` map of local id to category name, and a `categorymappings`
// list which may map the same local id more than once.
func (c *capabilitiesBlock) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var intermediate struct {
		Categories       map[string]string `yaml:"categories"`
		CategoryMappings []struct {
			ID   string `yaml:"id"`
			Cat  string `yaml:"cat"`
			Desc string `yaml:"desc"`
		} `yaml:"categorymappings"`
		Modes                 map[string]stringorslice `yaml:"modes"`
		Fallback              string                   `yaml:"fallbackcategory"`
		RequireCategoryFilter bool                     `yaml:"requirecategoryfilter"`
	}

	if err := unmarshal(&intermediate); err != nil {
		return errors.New("failed to unmarshal capabilities block")
	}

	c.CategoryMap = categories.NewCategoryMapping()
	for id, catName := range intermediate.Categories {
		cat, ok := categories.ByName(catName)
		if !ok {
			logrus.
				WithFields(logrus.Fields{"name": catName, "id": id}).
				Warn("Unknown category")
			continue
		}
		c.CategoryMap.AddCategoryMapping(id, cat, catName)
	}
	for _, m := range intermediate.CategoryMappings {
		cat, ok := categories.ByName(m.Cat)
		if !ok {
			logrus.
				WithFields(logrus.Fields{"name": m.Cat, "id": m.ID}).
				Warn("Unknown category")
			continue
		}
		c.CategoryMap.AddCategoryMapping(m.ID, cat, m.Desc)
	}

	if intermediate.Fallback != "" {
		cat, ok := categories.ByName(intermediate.Fallback)
		if !ok {
			return fmt.Errorf("unknown fallback category %q", intermediate.Fallback)
		}
		c.FallbackCategory = &cat
	}
	c.RequireCategoryFilter = intermediate.RequireCategoryFilter

	c.SearchModes = []torznab.Mode{}
	for key, supported := range intermediate.Modes {
		c.SearchModes = append(c.SearchModes, torznab.Mode{Key: key, Available: true, SupportedParams: supported})
	}

	return nil
}

// ToTorznab converts a capabilities block to the torznab capabilities doc.
func (c *capabilitiesBlock) ToTorznab() torznab.Capabilities {
	caps := torznab.Capabilities{
		Categories:  c.CategoryMap.Categories(),
		SearchModes: []torznab.Mode{},
	}

	// every site supports plain text search
	caps.SearchModes = append(caps.SearchModes, torznab.Mode{
		Key:             "search",
		Available:       true,
		SupportedParams: []string{"q"},
	})

	if caps.HasTVShows() {
		caps.SearchModes = append(caps.SearchModes, torznab.Mode{
			Key:             "tv-search",
			Available:       true,
			SupportedParams: []string{"q", "season", "ep"},
		})
	}

	if caps.HasMovies() {
		caps.SearchModes = append(caps.SearchModes, torznab.Mode{
			Key:             "movie-search",
			Available:       true,
			SupportedParams: []string{"q"},
		})
	}

	return caps
}

// resolveLocalCategory maps a site category id to its torznab category id,
// falling back first to the declared fallback category, then to a custom
// id outside the reserved range.
func (c *capabilitiesBlock) resolveLocalCategory(localID string) int {
	if mapped := c.CategoryMap.MapTrackerCatToNewznab(localID); len(mapped) > 0 {
		return mapped[0].ID
	}
	if c.FallbackCategory != nil {
		return c.FallbackCategory.ID
	}
	if intCatID, err := strconv.Atoi(localID); err == nil {
		return intCatID + categories.CustomCategoryOffset
	}
	return categories.Uncategorized.ID
}
