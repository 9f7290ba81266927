package config

import (
	"fmt"
	"strconv"
)

// MapConfig is a plain in-memory Config, used by tests and by callers that
// assemble their configuration programmatically.
type MapConfig struct {
	values map[string]interface{}
	sites  map[string]map[string]string
}

func NewMapConfig() *MapConfig {
	return &MapConfig{
		values: make(map[string]interface{}),
		sites:  make(map[string]map[string]string),
	}
}

func (m *MapConfig) SetSiteOption(section, key, value string) error {
	if m.sites[section] == nil {
		m.sites[section] = make(map[string]string)
	}
	m.sites[section][key] = value
	return nil
}

func (m *MapConfig) GetSiteOption(name, key string) (string, bool, error) {
	site, ok := m.sites[name]
	if !ok {
		return "", false, nil
	}
	value, found := site[key]
	return value, found, nil
}

func (m *MapConfig) GetSite(name string) (map[string]string, error) {
	return m.sites[name], nil
}

func (m *MapConfig) Set(key string, value interface{}) {
	m.values[key] = value
}

func (m *MapConfig) Get(key string) interface{} {
	return m.values[key]
}

func (m *MapConfig) GetString(key string) string {
	value, ok := m.values[key]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%v", value)
}

func (m *MapConfig) GetInt(key string) int {
	switch value := m.values[key].(type) {
	case int:
		return value
	case string:
		parsed, _ := strconv.Atoi(value)
		return parsed
	default:
		return 0
	}
}

func (m *MapConfig) GetBool(key string) bool {
	value, ok := m.values[key].(bool)
	return ok && value
}
