package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the configured search sources",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range cfg.Search.Sources {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
