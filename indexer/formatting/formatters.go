package formatting

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

func NormalizeSpace(raw string) string {
	txt := strings.ReplaceAll(raw, "\n", " ")
	txt = strings.ReplaceAll(txt, "\t", " ")
	for strings.Contains(txt, "  ") {
		txt = strings.ReplaceAll(txt, "  ", " ")
	}
	return strings.TrimSpace(txt)
}

// NormalizeNumber strips thousands separators and stray whitespace so a
// count like "1 024" or "1,024" can be parsed.
func NormalizeNumber(s string) string {
	s = NormalizeSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		s = "0"
	}
	return s
}

var localizedMonths = map[string]string{
	// Russian
	"Янв": "Jan", "Фев": "Feb", "Феб": "Feb", "Мар": "Mar", "Апр": "Apr",
	"Май": "May", "Июн": "Jun", "Июл": "Jul", "Авг": "Aug", "Сен": "Sep",
	"Окт": "Oct", "Ноя": "Nov", "Дек": "Dec",
	// Spanish / Portuguese
	"Ene": "Jan", "Abr": "Apr", "Ago": "Aug", "Dic": "Dec", "Fev": "Feb",
	"Mai": "May", "Out": "Oct", "Dez": "Dec",
}

// LocalizeMonths rewrites non-English month abbreviations into the forms
// the time package understands.
func LocalizeMonths(str string) string {
	for local, en := range localizedMonths {
		str = strings.ReplaceAll(str, local, en)
	}
	return str
}

func ExtractAttributeFromQuery(uri string, param string) string {
	furl, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return furl.Query().Get(param)
}

func StripToNumber(str string) string {
	const chars = "0123456789.,"
	var validChars []rune
	for _, c := range str {
		if strings.ContainsRune(chars, c) {
			validChars = append(validChars, c)
		}
	}
	return string(validChars)
}

var sizeRx = regexp.MustCompile(`(?i)([\d,.]+)\s*([kmgt]?i?b)`)

// SizeStrToBytes parses human readable sizes ("1.2 GB", "700 MiB") into
// bytes. Both the SI and the IEC unit spellings are treated as binary
// multiples, which is how trackers display them. Unparseable input yields 0.
func SizeStrToBytes(str string) uint64 {
	m := sizeRx.FindStringSubmatch(NormalizeSpace(str))
	if m == nil {
		// no unit, maybe a raw byte count
		flt, err := strconv.ParseFloat(StripToNumber(str), 64)
		if err != nil {
			return 0
		}
		return uint64(flt)
	}
	flt, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}
	var multiplier float64
	switch strings.ToLower(m[2][:1]) {
	case "k":
		multiplier = 1 << 10
	case "m":
		multiplier = 1 << 20
	case "g":
		multiplier = 1 << 30
	case "t":
		multiplier = 1 << 40
	default:
		multiplier = 1
	}
	return uint64(flt * multiplier)
}
