package indexer

import (
	"fmt"
	"strings"
)

const (
	indexSelectorAggregate = "aggregate"
	indexSelectorAll       = "all"
)

// Selector picks the indexes a lookup applies to. "all", "aggregate", the
// empty string and comma separated lists all build aggregates.
type Selector struct {
	selector string
	parts    []string
}

func newIndexerSelector(selector string) *Selector {
	return &Selector{selector: selector, parts: strings.Split(selector, ",")}
}

func (s *Selector) isAggregate() bool {
	return s.selector == "" ||
		s.selector == indexSelectorAggregate ||
		s.selector == indexSelectorAll ||
		strings.Contains(s.selector, ",")
}

func (s *Selector) Matches(name string) bool {
	if s.selector == "" || s.selector == indexSelectorAll || s.selector == indexSelectorAggregate {
		return true
	}
	return contains(s.parts, name)
}

func (s *Selector) Value() string {
	return s.selector
}

func (s *Selector) String() string {
	return fmt.Sprintf("%s:%s", s.selector, s.parts)
}

func contains(s []string, e string) bool {
	for _, a := range s {
		if a == e {
			return true
		}
	}
	return false
}
