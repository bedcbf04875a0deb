package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"trading-assistant/internal/logger"
	"trading-assistant/internal/store"
	"trading-assistant/internal/types"
)

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		a       *app
	)

	rootCmd := &cobra.Command{
		Use:   "assistant",
		Short: "Daily-bar trading assistant",
		Long: `assistant fuses technical indicators, news sentiment and a direction
classifier into a BUY/SELL/HOLD decision with a stop-loss, target and
position size. Orders are only placed after confirmation.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initializeSystem(); err != nil {
				return err
			}
			cfg, err := store.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			a, err = newApp(cmd.Context(), cfg)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a != nil {
				a.Close(context.Background())
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "Configuration file path")

	appFn := func() *app { return a }
	rootCmd.AddCommand(newAnalyzeCmd(appFn))
	rootCmd.AddCommand(newRetrainCmd(appFn))
	rootCmd.AddCommand(newWatchCmd(appFn))
	rootCmd.AddCommand(newHistoryCmd(appFn))
	rootCmd.AddCommand(newSummaryCmd(appFn))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newAnalyzeCmd(appFn func() *app) *cobra.Command {
	var yes, noOrder bool

	cmd := &cobra.Command{
		Use:   "analyze SYMBOL",
		Short: "Analyse a symbol and optionally place the suggested order",
		Example: `  assistant analyze INFY
  assistant analyze RELIANCE --no-order`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			ctx := cmd.Context()

			res, err := a.engine.Analyze(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(renderAnalysis(res))

			if noOrder || !res.Decision.Actionable() {
				return nil
			}
			if !res.Tradable() {
				fmt.Println(warnStyle.Render("Position size is below one share; no order offered."))
				return nil
			}

			ok := yes
			if !ok {
				ok, err = confirmOrder(res, a.cfg.Mode)
				if err != nil {
					return err
				}
			}
			if !ok {
				fmt.Println(mutedStyle.Render("Order skipped."))
				return nil
			}

			resp, err := a.engine.Submit(ctx, res)
			if err != nil {
				return fmt.Errorf("order failed: %w", err)
			}
			fmt.Println(renderOrder(res, resp))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Place the order without asking")
	cmd.Flags().BoolVar(&noOrder, "no-order", false, "Never offer an order")
	return cmd
}

// confirmOrder asks before any order is sent. Ctrl-C counts as no.
func confirmOrder(res *types.Analysis, mode string) (bool, error) {
	var ok bool
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Place %s order for %d %s at market (%s)?",
			res.Decision, res.Plan.Shares(), res.Symbol, mode),
		Default: false,
	}
	if err := survey.AskOne(prompt, &ok); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

func newRetrainCmd(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "retrain SYMBOL",
		Short: "Fit a new direction classifier on SYMBOL's history and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			m, err := a.engine.Retrain(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(renderModel(a.cfg.Model.Path, m))
			return nil
		},
	}
}

func newWatchCmd(appFn func() *app) *cobra.Command {
	var now bool

	cmd := &cobra.Command{
		Use:   "watch [SYMBOL...]",
		Short: "Re-run analysis on the configured cron schedule",
		Long: `watch analyses each symbol whenever schedule.watch_cron fires. Symbols
default to schedule.symbols. Orders are never placed from watch mode.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			symbols := args
			if len(symbols) == 0 {
				symbols = a.cfg.Schedule.Symbols
			}
			if len(symbols) == 0 {
				return fmt.Errorf("no symbols to watch: %w", types.ErrInvalidInput)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			run := func() { runWatch(ctx, a, symbols) }

			c := newScheduler(ctx)
			if _, err := c.AddFunc(a.cfg.Schedule.WatchCron, run); err != nil {
				return fmt.Errorf("schedule %q: %w", a.cfg.Schedule.WatchCron, err)
			}
			if a.cfg.Schedule.EODCron != "" {
				if _, err := c.AddFunc(a.cfg.Schedule.EODCron, func() { _, _ = a.eod.SummarizeToday(ctx) }); err != nil {
					return fmt.Errorf("schedule %q: %w", a.cfg.Schedule.EODCron, err)
				}
			}

			logger.Info(ctx, "Watch started", "cron", a.cfg.Schedule.WatchCron, "symbols", symbols)
			if now {
				run()
			}
			c.Start()

			<-ctx.Done()
			<-c.Stop().Done()
			logger.Info(context.Background(), "Watch stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&now, "now", false, "Run once immediately before waiting for the schedule")
	return cmd
}

func runWatch(ctx context.Context, a *app, symbols []string) {
	for _, sym := range symbols {
		if ctx.Err() != nil {
			return
		}
		res, err := a.engine.Analyze(ctx, sym)
		if err != nil {
			logger.ErrorWithErr(ctx, "Watch analysis failed", err, "symbol", sym)
			continue
		}
		fmt.Println(renderAnalysis(res))
	}
	compressOldLogs(ctx, a)
}

func newHistoryCmd(appFn func() *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history SYMBOL",
		Short: "Show recent recorded decisions for SYMBOL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			if a.cfg.Journal.SQLitePath == "" {
				return fmt.Errorf("journal.sqlite_path is not configured: %w", types.ErrInvalidInput)
			}
			recs, err := a.recorder.Recent(cmd.Context(), strings.ToUpper(args[0]), limit)
			if err != nil {
				return err
			}
			fmt.Println(renderHistory(args[0], recs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of decisions to show")
	return cmd
}

func newSummaryCmd(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [YYYY-MM-DD]",
		Short: "Write the end-of-day CSV of journaled decisions and orders",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			var (
				p   string
				err error
			)
			if len(args) == 0 {
				p, err = a.eod.SummarizeToday(cmd.Context())
			} else {
				day, perr := time.ParseInLocation(time.DateOnly, args[0], journalLocation())
				if perr != nil {
					return fmt.Errorf("invalid date, use YYYY-MM-DD: %w", types.ErrInvalidInput)
				}
				p, err = a.eod.SummarizeDay(cmd.Context(), day)
			}
			if err != nil {
				return err
			}
			if p == "" {
				fmt.Println(mutedStyle.Render("Nothing journaled for that day."))
				return nil
			}
			fmt.Println("EOD summary written: " + p)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// No config or logger needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("assistant " + version)
		},
	}
}
