package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"salarydash/internal/api"
	"salarydash/internal/config"
	"salarydash/internal/engine"
	"salarydash/internal/logging"
	"salarydash/internal/metrics"
)

const version = "0.3.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var configFile string

	root := &cobra.Command{
		Use:          "salarydash",
		Short:        "Data science salary dashboard backend",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), v, configFile)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	flags.String("data", "", "path to the salaries CSV")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("addr", "", "listen address")
	for key, name := range map[string]string{
		config.KeyDataPath:      "data",
		config.KeyLogLevel:      "log-level",
		config.KeyServerAddress: "addr",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Load the dataset in the background and serve the API",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd.Context(), v, configFile)
			},
		},
		newDescribeCmd(v, &configFile),
		newAggregateCmd(v, &configFile),
		newCorrelateCmd(v, &configFile),
	)
	return root
}

// serve starts the HTTP server at once and publishes the table when the
// background load finishes. A failed load stops the server.
func serve(ctx context.Context, v *viper.Viper, configFile string) error {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	m := metrics.NewCollector()
	h := api.NewHandler(nil, logger, m, api.Options{
		TopJobs:      cfg.TopJobs,
		DefaultLimit: cfg.DefaultLimit,
		Version:      version,
	})
	e := api.NewServer(h, logger, m)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("loading dataset", zap.String("path", cfg.DataPath))
		start := time.Now()
		t, err := engine.Load(cfg.DataPath)
		if err != nil {
			return err
		}
		m.ObserveLoad(t.Len(), time.Since(start))
		h.SetTable(t)
		logger.Info("dataset loaded", zap.Duration("took", time.Since(start)))
		return nil
	})

	g.Go(func() error {
		logger.Info("server listening", zap.String("address", cfg.Address), zap.String("version", version))
		if err := e.Start(cfg.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	return nil
}

// loadTable is the one-shot path used by the query subcommands. Logs go to
// the command's stderr so stdout carries only the JSON result.
func loadTable(cmd *cobra.Command, v *viper.Viper, configFile string) (*engine.Table, error) {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewWriter(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("loading dataset", zap.String("path", cfg.DataPath))
	start := time.Now()
	t, err := engine.Load(cfg.DataPath)
	if err != nil {
		logger.Error("load failed", zap.String("path", cfg.DataPath), zap.Error(err))
		return nil, err
	}
	logger.Info("dataset loaded",
		zap.String("path", cfg.DataPath),
		zap.Int("rows", t.Len()),
		zap.Duration("took", time.Since(start)))
	return t, nil
}

func printJSON(cmd *cobra.Command, out interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func newDescribeCmd(v *viper.Viper, configFile *string) *cobra.Command {
	var fields []string
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print summary statistics of numeric columns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := loadTable(cmd, v, *configFile)
			if err != nil {
				return err
			}
			out, err := engine.Describe(t, fields)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().StringSliceVar(&fields, "field", nil, "numeric columns (default all)")
	return cmd
}

func newAggregateCmd(v *viper.Viper, configFile *string) *cobra.Command {
	var (
		groupBy  []string
		field    string
		fn       string
		sorted   bool
		topField string
		topN     int
	)
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Summarize a numeric column per group",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts []engine.AggregateOption
			if sorted {
				opts = append(opts, engine.Sorted())
			}
			if topField != "" {
				opts = append(opts, engine.RestrictTop(topField, topN))
			}
			t, err := loadTable(cmd, v, *configFile)
			if err != nil {
				return err
			}
			out, err := engine.Aggregate(t, groupBy, field, engine.Func(fn), opts...)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&groupBy, "group-by", nil, "grouping columns, in key order")
	f.StringVar(&field, "field", engine.FieldSalaryInUSD, "numeric column to summarize")
	f.StringVar(&fn, "fn", string(engine.Mean), "mean, median or count")
	f.BoolVar(&sorted, "sorted", false, "order groups by key")
	f.StringVar(&topField, "top-field", "", "only rows whose value of this column is among the most frequent")
	f.IntVar(&topN, "top-n", 10, "how many frequent values --top-field keeps")
	_ = cmd.MarkFlagRequired("group-by")
	return cmd
}

func newCorrelateCmd(v *viper.Viper, configFile *string) *cobra.Command {
	var fields []string
	cmd := &cobra.Command{
		Use:   "correlate",
		Short: "Print the Pearson correlation matrix of numeric columns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := loadTable(cmd, v, *configFile)
			if err != nil {
				return err
			}
			out, err := engine.Correlate(t, fields)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().StringSliceVar(&fields, "field", nil, "numeric columns (default all)")
	return cmd
}
