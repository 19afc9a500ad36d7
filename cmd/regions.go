package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/geo"
	"github.com/sells-group/leadgen-cli/internal/locale"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List selectable regions and their country codes",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range geo.Names() {
			codes, err := geo.Regions(name)
			if err != nil {
				return err
			}
			fmt.Printf("%-15s %s\n", name, strings.Join(codes, ", "))
		}
		return nil
	},
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported search languages",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range locale.Names() {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(regionsCmd)
	rootCmd.AddCommand(languagesCmd)
}
