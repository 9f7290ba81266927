package indexer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDefinitionFile(t *testing.T, dir, name, site string) {
	t.Helper()
	content := `
site: ` + site + `
name: ` + site + `
links:
  - https://` + site + `.example.org/
search:
  path: /browse
  rows:
    selector: tr
  fields:
    title:
      selector: a
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestFileIndexLoader(t *testing.T) {
	dir := t.TempDir()
	writeDefinitionFile(t, dir, "alpha.yml", "alpha")
	writeDefinitionFile(t, dir, "beta.yaml", "beta")

	loader := NewFileIndexLoader(dir)
	names, err := loader.List(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)

	def, err := loader.Load("alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", def.Site)
	assert.Contains(t, def.Stats().Source, "alpha.yml")

	_, err = loader.Load("missing")
	assert.ErrorIs(t, err, ErrUnknownIndexer)
}

func TestFileIndexLoaderWithSelector(t *testing.T) {
	dir := t.TempDir()
	writeDefinitionFile(t, dir, "alpha.yml", "alpha")
	writeDefinitionFile(t, dir, "beta.yml", "beta")

	loader := NewFileIndexLoader(dir)
	names, err := loader.List(newIndexerSelector("beta"))
	require.NoError(t, err)
	assert.Equal(t, []string{"beta"}, names)

	names, err = loader.List(newIndexerSelector("all"))
	require.NoError(t, err)
	assert.Len(t, names, 2)
}

func TestMultipleDefinitionLoader(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeDefinitionFile(t, dirA, "alpha.yml", "alpha")
	writeDefinitionFile(t, dirB, "beta.yml", "beta")

	ml := MultipleDefinitionLoader{
		NewFileIndexLoader(dirA),
		NewFileIndexLoader(dirB),
	}
	names, err := ml.List(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)

	def, err := ml.Load("beta")
	require.NoError(t, err)
	assert.Equal(t, "beta", def.Site)

	_, err = ml.Load("missing")
	assert.ErrorIs(t, err, ErrUnknownIndexer)
}

func TestSelector(t *testing.T) {
	assert.True(t, newIndexerSelector("").isAggregate())
	assert.True(t, newIndexerSelector("all").isAggregate())
	assert.True(t, newIndexerSelector("aggregate").isAggregate())
	assert.True(t, newIndexerSelector("alpha,beta").isAggregate())
	assert.False(t, newIndexerSelector("alpha").isAggregate())

	sel := newIndexerSelector("alpha,beta")
	assert.True(t, sel.Matches("alpha"))
	assert.False(t, sel.Matches("gamma"))
}
