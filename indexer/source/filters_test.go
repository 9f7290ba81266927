package source

import "testing"

func TestFilter(t *testing.T) {
	tests := []struct {
		name    string
		fType   string
		args    interface{}
		value   string
		want    string
		wantErr bool
	}{
		{"querystring extracts a param", "querystring", "id", "details.php?id=44&hit=1", "44", false},
		{"size turns text into bytes", "size", nil, "1.5 GB", "1610612736", false},
		{"number strips everything else", "number", nil, "Grabs: 1,024", "1024", false},
		{"regexp returns the group", "regexp", `S(\d+)E(\d+)`, "Foo.S02E05.720p", "02 05", false},
		{"replace swaps fragments", "replace", []interface{}{"_", " "}, "foo_bar", "foo bar", false},
		{"split picks from the end", "split", []interface{}{"/", -1}, "a/b/c", "c", false},
		{"diacritics folds accents", "diacritics", nil, "Policía", "Policia", false},
		{"re_replace rewrites", "re_replace", []interface{}{`\s+`, "."}, "foo  bar", "foo.bar", false},
		{"bool on empty", "bool", nil, "  ", "false", false},
		{"bool on text", "bool", nil, "VIP", "true", false},
		{"unknown filter errors", "nosuchfilter", nil, "x", "", true},
		{"split rejects a bare string arg", "split", "/", "a/b", "", true},
		{"split rejects a short list", "split", []interface{}{"/"}, "a/b", "", true},
		{"replace rejects missing args", "replace", nil, "foo_bar", "", true},
		{"re_replace rejects non-string args", "re_replace", []interface{}{1, 2}, "foo", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(tt.fType, tt.args, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Filter() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Filter() = %q, want %q", got, tt.want)
			}
		})
	}
}
