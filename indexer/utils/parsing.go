package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"text/scanner"
	"time"

	"github.com/bcampbell/fuzzytime"

	"github.com/tracknab/tracknab/indexer/formatting"
)

const filterTimeFormat = time.RFC1123Z

// CoerceInt parses a count leniently, tolerating thousands separators and
// stray whitespace.
func CoerceInt(s string) (int, error) {
	v, err := strconv.Atoi(formatting.NormalizeNumber(s))
	if err != nil {
		return 0, fmt.Errorf("can't coerce %q to an int: %v", s, err)
	}
	return v, nil
}

func CoerceInt64(s string) (int64, error) {
	v, err := strconv.ParseInt(formatting.NormalizeNumber(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("can't coerce %q to an int64: %v", s, err)
	}
	return v, nil
}

func CoerceFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(formatting.NormalizeNumber(s), 64)
	if err != nil {
		return 0, fmt.Errorf("can't coerce %q to a float: %v", s, err)
	}
	return v, nil
}

func splitDecimalStr(s string) (int, float64, error) {
	if parts := strings.SplitN(s, ".", 2); len(parts) == 2 {
		i, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, 0, err
		}
		f, err := strconv.ParseFloat("0."+parts[1], 64)
		if err != nil {
			return 0, 0, err
		}
		return i, f, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, 0, err
	}
	return i, 0, nil
}

var (
	timeAgoRegexp     = regexp.MustCompile(`(?i)\bago`)
	todayRegexp       = regexp.MustCompile(`(?i)\btoday(\s+at)?([\s,]+|$)`)
	yesterdayRegexp   = regexp.MustCompile(`(?i)\byesterday(\s+at)?([\s,]+|$)`)
	missingYearRegexp = regexp.MustCompile(`^\d{1,2}-\d{1,2}\b`)
)

func parseTimeAgo(src string, now time.Time) (time.Time, error) {
	normalized := strings.ToLower(formatting.NormalizeSpace(src))

	var s scanner.Scanner
	s.Init(strings.NewReader(normalized))
	var tok rune
	for tok != scanner.EOF {
		tok = s.Scan()

		switch s.TokenText() {
		case ",", "ago", "", "and":
			continue
		}

		v, fraction, err := splitDecimalStr(s.TokenText())
		if err != nil {
			return now, fmt.Errorf(
				"failed to parse decimal time %q in time format at %s", s.TokenText(), s.Pos())
		}

		tok = s.Scan()
		if tok == scanner.EOF {
			return now, fmt.Errorf("expected a time unit at %s:%v", s.TokenText(), s.Pos())
		}

		unit := s.TokenText()
		if unit != "s" {
			unit = strings.TrimSuffix(s.TokenText(), "s")
		}

		switch unit {
		case "year", "yr", "y":
			now = now.AddDate(-v, 0, 0)
		case "month", "mnth", "mo":
			now = now.AddDate(0, -v, 0)
		case "week", "wk", "w":
			now = now.AddDate(0, 0, -7*v)
		case "day", "d":
			now = now.AddDate(0, 0, -v)
			if fraction > 0 {
				now = now.Add(time.Minute * -time.Duration(fraction*1440))
			}
		case "hour", "hr", "h":
			now = now.Add(time.Hour * -time.Duration(v))
			if fraction > 0 {
				now = now.Add(time.Second * -time.Duration(fraction*3600))
			}
		case "minute", "min", "m":
			now = now.Add(time.Minute * -time.Duration(v))
			if fraction > 0 {
				now = now.Add(time.Second * -time.Duration(fraction*60))
			}
		case "second", "sec", "s":
			now = now.Add(time.Second * -time.Duration(v))
		default:
			return now, fmt.Errorf("unsupported unit of time %q", unit)
		}
	}

	return now, nil
}

const todayTimeFormat = "15:04:05"

// ParseFuzzyTime resolves relative phrases ("3 hours ago", "Yesterday,
// 20:04"), bare times of day, localized month names and the usual absolute
// formats into one absolute UTC timestamp.
func ParseFuzzyTime(src string, now time.Time, allowPartialDate bool) (time.Time, error) {
	src = formatting.LocalizeMonths(formatting.NormalizeSpace(src))

	if okTime, err := time.Parse(todayTimeFormat, src); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(),
			okTime.Hour(), okTime.Minute(), okTime.Second(), 0, time.UTC), nil
	}

	if timeAgoRegexp.MatchString(src) {
		t, err := parseTimeAgo(src, now)
		if err != nil {
			return t, fmt.Errorf("error parsing time ago %q: %v", src, err)
		}
		return t.UTC(), nil
	}

	out := todayRegexp.ReplaceAllLiteralString(src, now.Format("2006-01-02 "))
	out = yesterdayRegexp.ReplaceAllLiteralString(out, now.AddDate(0, 0, -1).Format("2006-01-02 "))

	if m := missingYearRegexp.FindStringSubmatch(out); len(m) > 0 {
		out = missingYearRegexp.ReplaceAllLiteralString(out, m[0]+now.Format("-2006"))
	}

	dt, _, err := fuzzytime.USContext.Extract(out)
	if err != nil {
		return time.Time{}, fmt.Errorf("error extracting date from %q: %v", out, err)
	}

	if dt.Date.Empty() {
		if dtx, err := time.Parse("2006", out); err == nil {
			return dtx, nil
		}
		if dtx, err := time.Parse("Jan 2006", out); err == nil {
			return dtx, nil
		}
		return time.Time{}, fmt.Errorf("no date found in %q", out)
	}

	if !allowPartialDate && !dt.HasFullDate() {
		return time.Time{}, fmt.Errorf("found only partial date %v", dt.ISOFormat())
	}

	if !dt.Time.HasHour() {
		dt.Time.SetHour(0)
	}
	if !dt.Time.HasMinute() {
		dt.Time.SetMinute(0)
	}
	if !dt.Time.HasSecond() {
		dt.Time.SetSecond(0)
	}
	if !dt.HasTZOffset() {
		dt.Time.SetTZOffset(0)
	}

	t, err := time.Parse("2006-01-02T15:04:05Z07:00", dt.ISOFormat())
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// FilterFuzzyTime is the filter pipeline entry point for fuzzy dates.
func FilterFuzzyTime(src string, now time.Time, allowPartialDate bool) (string, error) {
	t, err := ParseFuzzyTime(src, now, allowPartialDate)
	if err != nil {
		return "", fmt.Errorf("error parsing fuzzy time %q: %v", src, err)
	}
	return t.Format(filterTimeFormat), nil
}

// ParseDate tries a list of layouts in order.
func ParseDate(layouts []string, value string) (string, error) {
	if len(layouts) == 0 {
		layouts = []string{time.RFC1123Z, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}
	}
	value = formatting.LocalizeMonths(formatting.NormalizeSpace(value))
	var err error
	for _, layout := range layouts {
		if layout == "unix" {
			var seconds int64
			if seconds, err = strconv.ParseInt(value, 10, 64); err == nil {
				return time.Unix(seconds, 0).UTC().Format(filterTimeFormat), nil
			}
			continue
		}
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t.UTC().Format(filterTimeFormat), nil
		}
	}
	return "", fmt.Errorf("no matching date pattern for %s. %s", value, err)
}

// FilterSplit picks the fragment at pos, negative positions count from the
// end.
func FilterSplit(sep string, pos int, value string) (string, error) {
	frags := strings.Split(value, sep)
	if pos < 0 {
		pos = len(frags) + pos
	}
	if pos < 0 || pos >= len(frags) {
		return "", fmt.Errorf("split position %d out of range for %q", pos, value)
	}
	return frags[pos], nil
}
