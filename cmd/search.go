package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tracknab/tracknab/indexer"
	"github.com/tracknab/tracknab/storage"
	"github.com/tracknab/tracknab/torznab"
)

func init() {
	cmdSearch := &cobra.Command{
		Use:   "search [keywords]",
		Short: "Runs a query against the configured index(es) and prints the results.",
		Run:   searchCommand,
	}
	page := uint(0)
	cmdSearch.Flags().UintVar(&page, "page", 0, "The page to fetch")
	rootCmd.AddCommand(cmdSearch)
}

func searchCommand(c *cobra.Command, args []string) {
	facade, err := indexer.NewFacadeFromConfiguration(&appConfig)
	if err != nil {
		fmt.Printf("Couldn't initialize: %s\n", err)
		os.Exit(1)
	}
	page, _ := c.Flags().GetUint("page")
	query := &torznab.Query{Q: strings.Join(args, " "), Page: page}

	srch, err := facade.Search(nil, query)
	if err != nil {
		log.Errorf("Search failed: %s", err)
		os.Exit(1)
	}

	store, err := storage.NewBoltStorage("")
	if err == nil {
		defer store.Close()
		storage.Discover(store, srch.GetResults())
	}

	tabWr := new(tabwriter.Writer)
	tabWr.Init(os.Stdout, 0, 8, 0, '\t', 0)
	for _, item := range srch.GetResults() {
		state := ""
		if item.IsNew() {
			state = "new"
		} else if item.IsUpdate() {
			state = "update"
		}
		_, _ = fmt.Fprintf(tabWr, "%s\t%s\t%d/%d\t%s\n",
			item.Title, humanize.Bytes(item.Size), item.Seeders, item.Leechers(), state)
	}
	_ = tabWr.Flush()
}
