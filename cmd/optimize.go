package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/rescuesim/app"
	"github.com/kilianp07/rescuesim/config"
	"github.com/kilianp07/rescuesim/core/optimizer"
	"github.com/kilianp07/rescuesim/pkg/export"
)

var optimizeFlags struct {
	space   string
	out     string
	format  string
	workers int
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Rank team configurations on the scenario battery",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(ctx context.Context, cfg *config.Config, svc *app.Service) error {
			if optimizeFlags.space != "" {
				cfg.Optimizer.SpaceFile = optimizeFlags.space
			}
			if optimizeFlags.workers > 0 {
				cfg.Optimizer.Workers = optimizeFlags.workers
			}
			space, err := cfg.Optimizer.ParameterSpace()
			if err != nil {
				return err
			}
			rep, err := svc.Optimize(ctx, space)
			if err != nil {
				return err
			}
			best := rep.Best
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d configurations, %d trials in %s\n",
				rep.RunID, len(rep.Ranked), rep.Trials, rep.Elapsed)
			fmt.Fprintf(cmd.OutOrStdout(), "best: %s\n  score %.4f  stability %.4f  margin over worst %.4f\n",
				best.Configuration.Label(), best.AverageScore, best.Stability, rep.Margin)

			if optimizeFlags.out == "" {
				return nil
			}
			return writeReport(optimizeFlags.out, optimizeFlags.format, rep)
		})
	},
}

func writeReport(path, format string, rep optimizer.Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return export.Write(f, format, rep)
}

func init() {
	f := optimizeCmd.Flags()
	f.StringVar(&optimizeFlags.space, "space", "", "YAML parameter space overriding the configuration")
	f.StringVarP(&optimizeFlags.out, "out", "o", "", "write the ranking to this file")
	f.StringVar(&optimizeFlags.format, "format", export.FormatCSV, "ranking file format: csv or json")
	f.IntVar(&optimizeFlags.workers, "workers", 0, "concurrent trials, 0 uses the configuration")
	rootCmd.AddCommand(optimizeCmd)
}
