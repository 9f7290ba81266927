package indexer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tracknab/tracknab/indexer/source"
)

var filterLogger logrus.FieldLogger = logrus.New()

type filterBlock struct {
	Name string      `yaml:"name"`
	Args interface{} `yaml:"args"`
}

// selectorBlock extracts one value from a scraped row. Selector applies to
// HTML rows, Path addresses JSON rows, TextVal is a constant.
type selectorBlock struct {
	Selector     string            `yaml:"selector"`
	Path         string            `yaml:"path"`
	Pattern      string            `yaml:"pattern"`
	TextVal      string            `yaml:"text"`
	Attribute    string            `yaml:"attribute,omitempty"`
	Remove       string            `yaml:"remove,omitempty"`
	Filters      []filterBlock     `yaml:"filters,omitempty"`
	Case         map[string]string `yaml:"case,omitempty"`
	FilterConfig map[string]string `yaml:"filterconfig"`
}

func (s *selectorBlock) IsEmpty() bool {
	return s.Selector == "" && s.Path == "" && s.TextVal == ""
}

func (s *selectorBlock) String() string {
	switch {
	case s.Selector != "":
		return fmt.Sprintf("Selector(%s)", s.Selector)
	case s.Path != "":
		return fmt.Sprintf("Path(%s)", s.Path)
	case s.TextVal != "":
		return fmt.Sprintf("Text(%s)", s.TextVal)
	default:
		return "Empty"
	}
}

func (s *selectorBlock) selectFrom(from source.RawScrapeItem) source.RawScrapeItem {
	if s.Path != "" {
		return from.Find(s.Path)
	}
	return from.Find(s.Selector)
}

// MatchText extracts the value and runs it through the filter pipeline.
func (s *selectorBlock) MatchText(from source.RawScrapeItem) (string, error) {
	if s.TextVal != "" {
		return s.applyFilters(s.TextVal)
	}
	if s.Selector != "" || s.Path != "" {
		result := s.selectFrom(from)
		if result.Length() == 0 {
			return "", fmt.Errorf("failed to match selector %q", s.String())
		}
		return s.text(result)
	}
	if s.Pattern != "" {
		return s.Pattern, nil
	}
	return s.text(from)
}

// MatchRawText extracts the value without applying filters.
func (s *selectorBlock) MatchRawText(from source.RawScrapeItem) (string, error) {
	if s.TextVal != "" {
		return s.TextVal, nil
	}
	if s.Selector != "" || s.Path != "" {
		result := s.selectFrom(from)
		if result.Length() == 0 {
			return "", fmt.Errorf("failed to match selector %q", s.String())
		}
		return s.rawText(result)
	}
	if s.Pattern != "" {
		return s.Pattern, nil
	}
	return s.rawText(from)
}

func (s *selectorBlock) extract(el source.RawScrapeItem) (string, error) {
	if s.Remove != "" {
		el.Find(s.Remove).Remove()
	}
	if s.Case != nil {
		for pattern, value := range s.Case {
			if el.Is(pattern) || el.Has(pattern).Length() >= 1 {
				return value, nil
			}
		}
		return "", errors.New("none of the cases match")
	}
	output := strings.TrimSpace(el.Text())
	output = spaceRx.ReplaceAllString(output, " ")
	if s.Attribute != "" {
		val, exists := el.Attr(s.Attribute)
		if !exists {
			return "", fmt.Errorf("requested attribute %q doesn't exist", s.Attribute)
		}
		output = val
	}
	return output, nil
}

func (s *selectorBlock) text(el source.RawScrapeItem) (string, error) {
	val, err := s.extract(el)
	if err != nil {
		return "", err
	}
	return s.applyFilters(val)
}

func (s *selectorBlock) rawText(el source.RawScrapeItem) (string, error) {
	return s.extract(el)
}

// FilterText runs a value through the block's filter pipeline.
func (s *selectorBlock) FilterText(val string) (string, error) {
	return s.applyFilters(val)
}

func (s *selectorBlock) applyFilters(val string) (string, error) {
	prevFilterFailed := false
	var prevFilter filterBlock
	for _, f := range s.Filters {
		if f.Name == "dateparseAlt" {
			// runs only when the preceding dateparse failed
			if !(prevFilterFailed && prevFilter.Name == "dateparse") {
				continue
			}
		}

		filterLogger.WithFields(logrus.Fields{"args": f.Args, "before": val}).
			Debugf("Applying filter %s", f.Name)
		newVal, err := source.Filter(f.Name, f.Args, val)
		if err != nil {
			if f.Name != "dateparse" {
				filterLogger.
					WithFields(logrus.Fields{"selector": s.Selector}).
					Warningf("Filter %s failed on value `%v`. %s", f.Name, val, err)
			}
			prevFilterFailed = true
			prevFilter = f
			continue
		}
		// filters may produce a template
		if strings.Contains(newVal, "{{") {
			filterContext := struct {
				Config map[string]string
			}{
				s.FilterConfig,
			}
			templated, err := applyTemplate("filter_template", newVal, filterContext)
			if err == nil {
				newVal = templated
			}
		}

		val = newVal
		prevFilterFailed = false
	}
	val = strings.TrimSpace(val)
	val = spaceRx.ReplaceAllString(val, " ")
	return val, nil
}

var spaceRx = regexp.MustCompile(`\s+`)
