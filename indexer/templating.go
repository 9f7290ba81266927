package indexer

import (
	"bytes"
	"strings"
	"text/template"
)

func applyTemplate(name, tpl string, ctx interface{}) (string, error) {
	funcMap := template.FuncMap{
		"replace": strings.Replace,
		"join":    strings.Join,
	}
	tmpl, err := template.New(name).Funcs(funcMap).Parse(tpl)
	if err != nil {
		return "", err
	}
	b := &bytes.Buffer{}
	if err = tmpl.Execute(b, ctx); err != nil {
		return "", err
	}
	return b.String(), nil
}
