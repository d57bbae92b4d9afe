package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/rescuesim/app"
	"github.com/kilianp07/rescuesim/config"
	"github.com/kilianp07/rescuesim/core/results"
)

var resultsFlags struct {
	run      string
	minScore float64
	limit    int
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Stored optimizer rankings",
}

var resultsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored ranked configurations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(ctx context.Context, _ *config.Config, svc *app.Service) error {
			recs, err := svc.Results(ctx, results.Query{
				RunID:    resultsFlags.run,
				MinScore: resultsFlags.minScore,
				Limit:    resultsFlags.limit,
			})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tRANK\tSCORE\tSTABILITY\tCONFIGURATION")
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\t%s\n",
					r.RunID, r.Rank, r.AverageScore, r.Stability, r.Configuration.Label())
			}
			return tw.Flush()
		})
	},
}

func init() {
	f := resultsLsCmd.Flags()
	f.StringVar(&resultsFlags.run, "run", "", "only this run id")
	f.Float64Var(&resultsFlags.minScore, "min-score", 0, "minimum average score")
	f.IntVar(&resultsFlags.limit, "limit", 0, "maximum number of rows, 0 for all")
	resultsCmd.AddCommand(resultsLsCmd)
	rootCmd.AddCommand(resultsCmd)
}
