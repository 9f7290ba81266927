package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tracknab/tracknab/indexer"
)

func init() {
	cmdList := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Lists the available index definitions.",
		Run:     listIndexes,
	}
	rootCmd.AddCommand(cmdList)
}

func listIndexes(_ *cobra.Command, _ []string) {
	loader := indexer.GetIndexDefinitionLoader()
	names, err := loader.List(nil)
	if err != nil {
		log.Errorf("Couldn't list the definitions: %s", err)
		os.Exit(1)
	}
	tabWr := new(tabwriter.Writer)
	tabWr.Init(os.Stdout, 0, 8, 0, '\t', 0)
	for _, name := range names {
		def, err := loader.Load(name)
		if err != nil {
			_, _ = fmt.Fprintf(tabWr, "%s\tfailed: %s\n", name, err)
			continue
		}
		_, _ = fmt.Fprintf(tabWr, "%s\t%s\t%s\n", name, def.Name, def.Description)
	}
	_ = tabWr.Flush()
}
