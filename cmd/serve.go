package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tracknab/tracknab/server"
	"github.com/tracknab/tracknab/storage"
)

func init() {
	cmdServe := &cobra.Command{
		Use:   "serve",
		Short: "Runs the torznab API server.",
		Run:   serve,
	}
	port := 5060
	cmdFlags := cmdServe.Flags()
	cmdFlags.IntVarP(&port, "port", "P", 5060, "The port to listen on.")
	viper.SetDefault("port", 5060)
	_ = viper.BindEnv("port")
	_ = viper.BindPFlag("port", cmdFlags.Lookup("port"))
	_ = viper.BindEnv("api_key")
	rootCmd.AddCommand(cmdServe)
}

func serve(_ *cobra.Command, _ []string) {
	srv := server.NewServer(&appConfig)
	srv.Params.APIKey = []byte(appConfig.GetString("api_key"))
	if len(srv.Params.APIKey) == 0 {
		srv.Params.APIKey = nil
	}

	store, err := storage.NewBoltStorage("")
	if err != nil {
		fmt.Printf("Couldn't open the result database: %s", err)
		os.Exit(1)
	}
	defer store.Close()
	srv.SetResultStore(store)

	if err := srv.Listen(appConfig.GetInt("port")); err != nil {
		log.Error(err)
	}
}
