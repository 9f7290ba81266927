package source

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tracknab/tracknab/indexer/formatting"
	"github.com/tracknab/tracknab/indexer/utils"
)

var filterLogger log.FieldLogger = log.New()

const (
	filterQueryString = "querystring"
	filterDate        = "dateparse"
	filterTime        = "timeparse"
	filterDateAlt     = "dateparseAlt"
)

// Filter applies one named filter from a field's filter pipeline to a value.
func Filter(fType string, args interface{}, value string) (string, error) {
	switch fType {
	case filterQueryString:
		param, ok := args.(string)
		if !ok {
			return "", fmt.Errorf("filter %q requires a string argument", fType)
		}
		return parseQueryString(param, value)

	case filterDate, filterTime, filterDateAlt:
		if args == nil {
			return utils.ParseDate(nil, value)
		}
		if layout, ok := args.(string); ok {
			return utils.ParseDate([]string{layout}, value)
		}
		return "", fmt.Errorf("filter argument type %T was invalid", args)

	case "bool":
		if formatting.NormalizeSpace(value) != "" {
			return "true", nil
		}
		return "false", nil

	case "regexp":
		pattern, ok := args.(string)
		if !ok {
			return "", fmt.Errorf("filter %q requires a string argument", fType)
		}
		return filterRegexp(pattern, value)

	case "split":
		first, second, err := filterArgPair(fType, args)
		if err != nil {
			return "", err
		}
		sep, ok := first.(string)
		if !ok {
			return "", fmt.Errorf("filter %q requires a string argument at idx 0", fType)
		}
		pos, ok := second.(int)
		if !ok {
			return "", fmt.Errorf("filter %q requires an int argument at idx 1", fType)
		}
		return utils.FilterSplit(sep, pos, value)

	case "replace":
		first, second, err := filterArgPair(fType, args)
		if err != nil {
			return "", err
		}
		from, ok := first.(string)
		if !ok {
			return "", fmt.Errorf("filter %q requires a string argument at idx 0", fType)
		}
		to, ok := second.(string)
		if !ok {
			return "", fmt.Errorf("filter %q requires a string argument at idx 1", fType)
		}
		return strings.ReplaceAll(value, from, to), nil

	case "trim":
		cutset, ok := args.(string)
		if !ok {
			return "", fmt.Errorf("filter %q requires a string argument at idx 0", fType)
		}
		return strings.Trim(value, cutset), nil

	case "whitespace":
		return formatting.NormalizeSpace(value), nil

	case "append":
		str, ok := args.(string)
		if !ok {
			return "", fmt.Errorf("filter %q requires a string argument at idx 0", fType)
		}
		return value + str, nil

	case "prepend":
		str, ok := args.(string)
		if !ok {
			return "", fmt.Errorf("filter %q requires a string argument at idx 0", fType)
		}
		return str + value, nil

	case "urldecode":
		decoded, err := url.QueryUnescape(value)
		if err != nil {
			return "", fmt.Errorf("filter urldecode couldn't decode value `%s`, %s", value, err)
		}
		return decoded, nil

	case "urlarg":
		argName, ok := args.(string)
		if !ok {
			return "", fmt.Errorf("filter %q requires a string argument at idx 0", fType)
		}
		urlx, err := url.Parse(value)
		if err != nil {
			return "", fmt.Errorf("urlarg filter couldn't parse url value: %s", value)
		}
		return urlx.Query().Get(argName), nil

	case "size":
		return fmt.Sprint(formatting.SizeStrToBytes(value)), nil

	case "number":
		return formatting.NormalizeNumber(formatting.StripToNumber(value)), nil

	case "diacritics":
		return stripDiacritics(value)

	case "mapreplace":
		return filterMapReplace(value, args)

	case "re_replace":
		return filterReReplace(value, args)

	case "timeago", "fuzzytime", "reltime":
		return utils.FilterFuzzyTime(value, time.Now(), true)
	}
	return "", errors.New("Unknown filter " + fType)
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func stripDiacritics(value string) (string, error) {
	out, _, err := transform.String(diacriticStripper, value)
	if err != nil {
		return "", fmt.Errorf("filter diacritics failed for `%s`, %s", value, err)
	}
	return out, nil
}

func filterMapReplace(value string, args interface{}) (string, error) {
	replacements, ok := args.(map[interface{}]interface{})
	if !ok {
		return "", errors.New("filter mapreplace requires a map argument")
	}
	for oldVal, newVal := range replacements {
		value = strings.ReplaceAll(value, oldVal.(string), newVal.(string))
	}
	return value, nil
}

func filterReReplace(value string, args interface{}) (string, error) {
	first, second, err := filterArgPair("re_replace", args)
	if err != nil {
		return "", err
	}
	pattern, ok := first.(string)
	if !ok {
		return "", errors.New("filter re_replace requires a string pattern at idx 0")
	}
	replacement, ok := second.(string)
	if !ok {
		return "", errors.New("filter re_replace requires a string replacement at idx 1")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", err
	}
	return re.ReplaceAllString(value, replacement), nil
}

// filterArgPair unpacks a two element argument list, malformed definition
// args become an error instead of a panic.
func filterArgPair(fType string, args interface{}) (interface{}, interface{}, error) {
	pair, ok := args.([]interface{})
	if !ok || len(pair) < 2 {
		return nil, nil, fmt.Errorf("filter %q requires a list of two arguments", fType)
	}
	return pair[0], pair[1], nil
}

func parseQueryString(param string, value string) (string, error) {
	u, err := url.Parse(value)
	if err != nil {
		return "", err
	}
	return u.Query().Get(param), nil
}

func filterRegexp(pattern string, value string) (string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", err
	}
	matches := re.FindStringSubmatch(value)
	if len(matches) == 0 {
		return "", errors.New("no matches found for pattern")
	}
	filterLogger.WithFields(log.Fields{"matches": matches}).Debug("Regex matched")
	// With capture groups, join the groups by a space
	if len(matches) > 1 {
		return strings.Join(matches[1:], " "), nil
	}
	return matches[0], nil
}
