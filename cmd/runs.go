package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/store"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent hunts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(cmd.Context()); err != nil {
			return err
		}

		runs, err := st.ListRuns(cmd.Context(), runsLimit)
		if err != nil {
			return err
		}
		for _, run := range runs {
			leads := "-"
			if run.Result != nil {
				leads = fmt.Sprintf("%d", run.Result.UniqueLeads)
			}
			fmt.Printf("%s  %-10s  %-30s  leads=%s  %s\n",
				run.ID, run.Status,
				fmt.Sprintf("%s / %s", run.Query.JobTitle, run.Query.Location),
				leads,
				run.CreatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list")
	rootCmd.AddCommand(runsCmd)
}
