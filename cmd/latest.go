package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tracknab/tracknab/storage"
)

var latestCount int

func init() {
	cmdLatest := &cobra.Command{
		Use:   "latest",
		Short: "Lists the latest stored results.",
		Run:   listLatestResults,
	}
	cmdLatest.Flags().IntVarP(&latestCount, "count", "c", 100, "Number of results to display")
	rootCmd.AddCommand(cmdLatest)
}

func listLatestResults(_ *cobra.Command, _ []string) {
	store, err := storage.NewBoltStorage("")
	if err != nil {
		log.Errorf("Couldn't open the result database: %s", err)
		os.Exit(1)
	}
	defer store.Close()

	items, err := store.GetNewest(latestCount)
	if err != nil {
		log.Errorf("Couldn't read the stored results: %s", err)
		os.Exit(1)
	}
	tabWr := new(tabwriter.Writer)
	tabWr.Init(os.Stdout, 0, 8, 0, '\t', 0)
	for _, item := range items {
		_, _ = fmt.Fprintf(tabWr, "%s\t%s\t%s\t%s\n",
			item.PublishDate.Format("2006-01-02 15:04"), item.Site, item.Title, humanize.Bytes(item.Size))
	}
	_ = tabWr.Flush()
}
