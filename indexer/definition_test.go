package indexer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalDefinition = `
site: testsite
name: TestSite
links:
  - https://testsite.example.org/
caps:
  categorymappings:
    - id: "5"
      cat: TV
      desc: "Television"
    - id: "49"
      cat: TV/HD
      desc: "Television HD"
    - id: "19"
      cat: Movies
      desc: "Movies"
search:
  path: /browse.php
  inputs:
    search: "{{ .Keywords }}"
  rows:
    selector: table.torrents > tbody > tr
  fields:
    title:
      selector: a.title
    download:
      selector: a.dl
      attribute: href
    size:
      selector: td.size
`

func TestParseDefinitionDefaults(t *testing.T) {
	def, err := ParseDefinition([]byte(minimalDefinition))
	require.NoError(t, err)

	assert.Equal(t, "testsite", def.Site)
	assert.Equal(t, "en-us", def.Language)
	assert.Equal(t, "utf-8", def.Encoding)
	assert.Equal(t, defaultRateLimit, def.RateLimit)
	// username and password settings get added when none are declared
	require.Len(t, def.Settings, 2)
	assert.Equal(t, "username", def.Settings[0].Name)
	assert.NotEmpty(t, def.Stats().Hash)
}

func TestParseDefinitionFieldOrder(t *testing.T) {
	def, err := ParseDefinition([]byte(minimalDefinition))
	require.NoError(t, err)

	fields := def.Search.Fields
	require.Len(t, fields, 3)
	assert.Equal(t, "title", fields[0].Field)
	assert.Equal(t, "download", fields[1].Field)
	assert.Equal(t, "size", fields[2].Field)
}

func TestParseDefinitionCategoryMappings(t *testing.T) {
	def, err := ParseDefinition([]byte(minimalDefinition))
	require.NoError(t, err)

	caps := def.Capabilities.ToTorznab()
	hasMode, params := caps.HasSearchMode("tv-search")
	assert.True(t, hasMode)
	assert.Contains(t, params, "season")
	hasMode, _ = caps.HasSearchMode("movie-search")
	assert.True(t, hasMode)

	mapped := def.Capabilities.CategoryMap.MapTrackerCatToNewznab("49")
	require.Len(t, mapped, 1)
	assert.Equal(t, 5040, mapped[0].ID)
}

func TestParseDefinitionCategoriesMapForm(t *testing.T) {
	def, err := ParseDefinition([]byte(`
site: mapform
name: MapForm
links: https://mapform.example.org/
caps:
  categories:
    "movies": Movies
    "tv": TV
  requirecategoryfilter: true
search:
  path: /search
  rows:
    selector: div.row
  fields:
    title:
      selector: a
`))
	require.NoError(t, err)
	assert.True(t, def.Capabilities.RequireCategoryFilter)
	assert.Equal(t, 2, def.Capabilities.CategoryMap.Size())
}

func TestParseDefinitionRejectsCaptcha(t *testing.T) {
	_, err := ParseDefinition([]byte(`
site: captchasite
name: CaptchaSite
links:
  - https://captcha.example.org/
login:
  path: /login
  method: form
  captcha:
    type: image
    selector: img.captcha
search:
  path: /browse
  rows:
    selector: tr
  fields:
    title:
      selector: a
`))
	require.Error(t, err)
	var confErr *ConfigurationError
	assert.ErrorAs(t, err, &confErr)
}

func TestParseDefinitionRejectsMissingRows(t *testing.T) {
	_, err := ParseDefinition([]byte(`
site: norows
name: NoRows
links:
  - https://norows.example.org/
search:
  path: /browse
`))
	require.Error(t, err)
}

func TestResolveLocalCategory(t *testing.T) {
	def, err := ParseDefinition([]byte(minimalDefinition))
	require.NoError(t, err)

	assert.Equal(t, 5040, def.Capabilities.resolveLocalCategory("49"))
	// unmapped numeric ids move to the custom category range
	assert.Equal(t, 100077, def.Capabilities.resolveLocalCategory("77"))
}

func TestShippedDefinitionsParse(t *testing.T) {
	matches, err := filepath.Glob("../definitions/*.yml")
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	for _, fileName := range matches {
		f, err := os.Open(fileName)
		require.NoError(t, err)
		def, err := ParseDefinitionFile(f)
		_ = f.Close()
		require.NoError(t, err, fileName)
		assert.NoError(t, def.Check(), fileName)
	}
}
