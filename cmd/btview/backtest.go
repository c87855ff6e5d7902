package main

import (
	"encoding/json"
	"fmt"

	"github.com/newthinker/btview/internal/backtest"
	"github.com/newthinker/btview/internal/chart"
	"github.com/newthinker/btview/internal/core"
	"github.com/spf13/cobra"
)

var (
	backtestSymbol     string
	backtestFrom       string
	backtestTo         string
	backtestCapital    float64
	backtestFee        float64
	backtestAdjustment string
	backtestParams     string
	backtestFormat     string
)

var backtestCmd = &cobra.Command{
	Use:   "backtest [strategy]",
	Short: "Run a backtest on the engine",
	Long: `Submit a backtest to the engine and show the result summary and trade log.

Strategies: ma_cross, rsi. --params takes a JSON object of strategy
parameters; omitted fields keep their defaults.`,
	Args: cobra.ExactArgs(1),
	RunE: runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestSymbol, "symbol", "", "Symbol to backtest (required)")
	backtestCmd.Flags().StringVar(&backtestFrom, "from", "", "Start date YYYY-MM-DD (required)")
	backtestCmd.Flags().StringVar(&backtestTo, "to", "", "End date YYYY-MM-DD (required)")
	backtestCmd.Flags().Float64Var(&backtestCapital, "capital", backtest.DefaultInitialCapital, "Initial capital")
	backtestCmd.Flags().Float64Var(&backtestFee, "fee", backtest.DefaultFeeRate, "Fee rate")
	backtestCmd.Flags().StringVar(&backtestAdjustment, "adjustment", string(backtest.DefaultAdjustment), "Price adjustment: qfq, hfq or none")
	backtestCmd.Flags().StringVar(&backtestParams, "params", "", "Strategy parameters as JSON")
	backtestCmd.Flags().StringVarP(&backtestFormat, "output", "o", formatSummary, "output format: summary or json")

	backtestCmd.MarkFlagRequired("symbol")
	backtestCmd.MarkFlagRequired("from")
	backtestCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(backtestCmd)
}

// buildRequest assembles and validates the engine request from flags
func buildRequest(strategy string) (backtest.Request, error) {
	req := backtest.Request{
		Symbol:         backtestSymbol,
		Strategy:       strategy,
		StartDate:      backtestFrom,
		EndDate:        backtestTo,
		InitialCapital: backtestCapital,
		FeeRate:        backtestFee,
		Adjustment:     core.Adjustment(backtestAdjustment),
	}

	if backtestParams != "" {
		if !backtest.KnownStrategy(strategy) {
			return req, core.WrapError(core.ErrParamsInvalid, fmt.Errorf("unknown strategy %q", strategy))
		}
		params, err := backtest.DecodeParams(strategy, json.RawMessage(backtestParams))
		if err != nil {
			return req, core.WrapError(core.ErrParamsInvalid, err)
		}
		req.Params = params
	}

	req = req.WithDefaults()
	return req, req.Validate()
}

func runBacktest(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(args[0])
	if err != nil {
		return err
	}

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	client := backtest.NewClient(cfg.Engine.BaseURL, cfg.Engine.Timeout, log.Named("engine"))

	decoded, err := client.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	data, err := chart.Derive(cmd.Context(), decoded.Result)
	if err != nil {
		return fmt.Errorf("deriving chart: %w", err)
	}

	return writeView(cmd.OutOrStdout(), chart.NewView(decoded.Result, data), backtestFormat)
}
