package main

import (
	"errors"
	"fmt"

	"github.com/newthinker/btview/internal/chart"
	"github.com/newthinker/btview/internal/core"
	"github.com/newthinker/btview/internal/source"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	renderFormat string
	renderList   bool
)

var renderCmd = &cobra.Command{
	Use:   "render [path]",
	Short: "Render a saved backtest result",
	Long: `Read a saved engine response (or bare result) from the configured source,
local directory or S3 bucket, and print its chart data.

With --list, print the result files under path instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderFormat, "output", "o", formatSummary, "output format: summary or json")
	renderCmd.Flags().BoolVar(&renderList, "list", false, "list result files instead of rendering")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	src, err := source.New(cfg.Source)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	ctx := cmd.Context()

	if renderList {
		paths, err := source.ListResults(ctx, src, path)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	}

	if path == "" {
		return fmt.Errorf("path is required unless --list is given")
	}

	decoded, err := source.Load(ctx, src, path)
	if err != nil {
		return err
	}
	if !decoded.Success {
		return core.WrapError(core.ErrEngineFailed, errors.New(decoded.Error))
	}
	if decoded.Result == nil {
		return core.WrapError(core.ErrNoData, nil)
	}
	if len(decoded.Dropped) > 0 {
		log.Warn("result has malformed fields", zap.Strings("dropped", decoded.Dropped))
	}

	data, err := chart.Derive(ctx, decoded.Result)
	if err != nil {
		return fmt.Errorf("deriving chart: %w", err)
	}

	return writeView(cmd.OutOrStdout(), chart.NewView(decoded.Result, data), renderFormat)
}
