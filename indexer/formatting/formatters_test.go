package formatting

import "testing"

func TestSizeStrToBytes(t *testing.T) {
	tests := []struct {
		name string
		str  string
		want uint64
	}{
		{"Gigabytes use binary multiples", "1.5 GB", 1610612736},
		{"Megabytes agree with gigabytes", "1536 MB", 1610612736},
		{"IEC spelling matches SI spelling", "1.5 GiB", 1610612736},
		{"Simple megabytes", "700 MB", 734003200},
		{"Lowercase and tabs", "700\t\tmb", 734003200},
		{"Unit glued to the number", "700MiB", 734003200},
		{"Kilobytes", "1 KB", 1024},
		{"Terabytes", "2 TB", 2199023255552},
		{"Plain bytes with unit", "512 B", 512},
		{"Raw byte count without unit", "734003200", 734003200},
		{"Thousands separators", "1,536 MB", 1610612736},
		{"Leading label text", "Size: 700 MB", 734003200},
		{"Empty input is zero", "", 0},
		{"Garbage is zero", "n/a", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SizeStrToBytes(tt.str); got != tt.want {
				t.Errorf("SizeStrToBytes(%q) = %d, want %d", tt.str, got, tt.want)
			}
		})
	}
}

func TestNormalizeSpace(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"Empty stays empty", "", ""},
		{"Outer whitespace is trimmed", "  there's a space\t", "there's a space"},
		{"Runs of spaces collapse", "there's   a  space", "there's a space"},
		{"Newlines become spaces", "a\nb", "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeSpace(tt.raw); got != tt.want {
				t.Errorf("NormalizeSpace() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"Thousands separators are dropped", "1,024", "1024"},
		{"Inner whitespace is dropped", "1 024", "1024"},
		{"Empty becomes zero", "", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeNumber(tt.raw); got != tt.want {
				t.Errorf("NormalizeNumber() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalizeMonths(t *testing.T) {
	tests := []struct {
		name string
		str  string
		want string
	}{
		{"Cyrillic month", "10-Окт-20", "10-Oct-20"},
		{"Spanish month", "10-Ene-20", "10-Jan-20"},
		{"English passes through", "10-Oct-20", "10-Oct-20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LocalizeMonths(tt.str); got != tt.want {
				t.Errorf("LocalizeMonths() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractAttributeFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		uri   string
		param string
		want  string
	}{
		{"Simple query string", "?id=3", "id", "3"},
		{"Schemeless url", "tracker.example/dl?id=3&k=4", "id", "3"},
		{"Missing parameter", "tracker.example/dl?k=4", "id", ""},
		{"Empty url", "", "id", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractAttributeFromQuery(tt.uri, tt.param); got != tt.want {
				t.Errorf("ExtractAttributeFromQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}
