package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapConfigSiteOptions(t *testing.T) {
	cfg := NewMapConfig()
	_ = cfg.SetSiteOption("example", "username", "bob")

	value, found, err := cfg.GetSiteOption("example", "username")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "bob", value)

	_, found, _ = cfg.GetSiteOption("example", "password")
	assert.False(t, found)

	site, err := cfg.GetSite("example")
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"username": "bob"}, site)
}

func TestMapConfigValues(t *testing.T) {
	cfg := NewMapConfig()
	cfg.Set("index", "example")
	cfg.Set("port", 5060)
	cfg.Set("verbose", true)

	assert.Equal(t, "example", cfg.GetString("index"))
	assert.Equal(t, 5060, cfg.GetInt("port"))
	assert.True(t, cfg.GetBool("verbose"))
	assert.Equal(t, "", cfg.GetString("missing"))
}

func TestGetDefinitionDirs(t *testing.T) {
	dirs := GetDefinitionDirs()
	assert.NotEmpty(t, dirs)
}
