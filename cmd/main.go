package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "tracknab",
	Short: "Scrapes torrent trackers and serves them through a torznab API.",
}

func init() {
	cobra.OnInitialize(initConfig)
	flags := rootCmd.PersistentFlags()
	var index, username, password string
	var verbose bool
	flags.StringVar(&configFile, "config", "", "Config file to use")
	flags.StringVarP(&index, "index", "i", "", "The index site to use")
	flags.StringVarP(&username, "username", "u", "", "The username to use")
	flags.StringVarP(&password, "password", "p", "", "The password to use")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log verbosely")
	_ = viper.BindPFlag("index", flags.Lookup("index"))
	_ = viper.BindPFlag("username", flags.Lookup("username"))
	_ = viper.BindPFlag("password", flags.Lookup("password"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	viper.SetEnvPrefix("TRACKNAB")
	_ = viper.BindEnv("index")
	_ = viper.BindEnv("username")
	_ = viper.BindEnv("password")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
