package main

import (
	"os"
	"path"

	"github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/tracknab/tracknab/config"
)

var appConfig config.ViperConfig

func initConfig() {
	homeDir, _ := homedir.Dir()
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		defaultConfigPath := path.Join(homeDir, ".tracknab")
		_ = os.MkdirAll(defaultConfigPath, os.ModePerm)
		viper.AddConfigPath(defaultConfigPath)
		viper.SetConfigType("yaml")
		viper.SetConfigName("tracknab")
	}
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			config.SetDefaults(&appConfig)
			if err = viper.SafeWriteConfig(); err != nil {
				log.Warnf("error while writing default config file: %v", err)
			}
		} else {
			log.Warnf("error while reading config file: %v", err)
			os.Exit(1)
		}
	}
	log.SetLevel(config.GetMinLogLevel(&appConfig))
}
