package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ViperConfig exposes the process-wide viper state through the Config
// interface. Site sections live under the "index" key.
type ViperConfig struct{}

func (v *ViperConfig) SetSiteOption(section, key, value string) error {
	viper.Set(fmt.Sprintf("index.%s.%s", section, key), value)
	return nil
}

func (v *ViperConfig) Set(key string, value interface{}) {
	viper.Set(key, value)
}

func (v *ViperConfig) GetSiteOption(name, key string) (string, bool, error) {
	siteMap := viper.GetStringMapString(fmt.Sprintf("index.%s", name))
	value, found := siteMap[key]
	return value, found, nil
}

func (v *ViperConfig) GetSite(name string) (map[string]string, error) {
	return viper.GetStringMapString(fmt.Sprintf("index.%s", name)), nil
}

func (v *ViperConfig) GetInt(param string) int {
	return viper.GetInt(param)
}

func (v *ViperConfig) GetString(param string) string {
	return viper.GetString(param)
}

func (v *ViperConfig) GetBool(param string) bool {
	return viper.GetBool(param)
}

func (v *ViperConfig) Get(param string) interface{} {
	return viper.Get(param)
}
