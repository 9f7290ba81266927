package utils

import (
	"testing"
	"time"

	"github.com/onsi/gomega"
)

func TestCoerceInt(t *testing.T) {
	g := gomega.NewWithT(t)
	v, err := CoerceInt(" 1,024 ")
	g.Expect(err).To(gomega.BeNil())
	g.Expect(v).To(gomega.Equal(1024))

	_, err = CoerceInt("n/a")
	g.Expect(err).ToNot(gomega.BeNil())
}

func TestParseDate(t *testing.T) {
	g := gomega.NewWithT(t)
	out, err := ParseDate([]string{"2006-01-02 15:04:05"}, "2020-04-01 12:00:00")
	g.Expect(err).To(gomega.BeNil())
	parsed, err := time.Parse(time.RFC1123Z, out)
	g.Expect(err).To(gomega.BeNil())
	g.Expect(parsed.UTC()).To(gomega.Equal(time.Date(2020, 4, 1, 12, 0, 0, 0, time.UTC)))
}

func TestParseDateUnix(t *testing.T) {
	g := gomega.NewWithT(t)
	out, err := ParseDate([]string{"unix"}, "1585742400")
	g.Expect(err).To(gomega.BeNil())
	parsed, err := time.Parse(time.RFC1123Z, out)
	g.Expect(err).To(gomega.BeNil())
	g.Expect(parsed.UTC()).To(gomega.Equal(time.Date(2020, 4, 1, 12, 0, 0, 0, time.UTC)))
}

func TestParseFuzzyTimeAgo(t *testing.T) {
	g := gomega.NewWithT(t)
	now := time.Date(2020, 4, 1, 12, 0, 0, 0, time.UTC)

	parsed, err := ParseFuzzyTime("2 hours ago", now, false)
	g.Expect(err).To(gomega.BeNil())
	g.Expect(parsed).To(gomega.Equal(now.Add(-2 * time.Hour)))

	parsed, err = ParseFuzzyTime("1 day and 3 minutes ago", now, false)
	g.Expect(err).To(gomega.BeNil())
	g.Expect(parsed).To(gomega.Equal(now.AddDate(0, 0, -1).Add(-3 * time.Minute)))
}

func TestParseFuzzyTimeRelativeDays(t *testing.T) {
	g := gomega.NewWithT(t)
	now := time.Date(2020, 4, 1, 12, 0, 0, 0, time.UTC)

	parsed, err := ParseFuzzyTime("Today 08:30:00", now, false)
	g.Expect(err).To(gomega.BeNil())
	g.Expect(parsed).To(gomega.Equal(time.Date(2020, 4, 1, 8, 30, 0, 0, time.UTC)))

	parsed, err = ParseFuzzyTime("Yesterday 23:15:00", now, false)
	g.Expect(err).To(gomega.BeNil())
	g.Expect(parsed).To(gomega.Equal(time.Date(2020, 3, 31, 23, 15, 0, 0, time.UTC)))
}

func TestFilterSplit(t *testing.T) {
	g := gomega.NewWithT(t)
	out, err := FilterSplit("/", -1, "a/b/c")
	g.Expect(err).To(gomega.BeNil())
	g.Expect(out).To(gomega.Equal("c"))

	_, err = FilterSplit("/", 5, "a/b")
	g.Expect(err).ToNot(gomega.BeNil())
}
