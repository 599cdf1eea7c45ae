package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/thushan/narrador/internal/app"
	"github.com/thushan/narrador/internal/config"
	"github.com/thushan/narrador/internal/env"
	"github.com/thushan/narrador/internal/logger"
	"github.com/thushan/narrador/internal/util"
	"github.com/thushan/narrador/internal/version"
	"github.com/thushan/narrador/pkg/nerdstats"
)

type commandContext struct {
	configFlag *string
	envFlag    *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := env.LoadDotEnv(strings.TrimSpace(*c.envFlag)); err != nil {
			c.configErr = fmt.Errorf("load env file: %w", err)
			return
		}
		if path := strings.TrimSpace(*c.configFlag); path != "" {
			if err := os.Setenv(config.EnvConfigFile, path); err != nil {
				c.configErr = err
				return
			}
		}
		c.config, c.configErr = config.Load()
	})
	return c.config, c.configErr
}

// buildLoggerConfig takes levels and paths from config, rotation limits from
// the environment
func buildLoggerConfig(cfg *config.Config) *logger.Config {
	return &logger.Config{
		Level:      cfg.Logging.Level,
		FileOutput: cfg.Logging.FileOutput,
		LogDir:     cfg.Logging.Dir,
		Theme:      cfg.Logging.Theme,
		MaxSize:    env.GetEnvIntOrDefault("NARRADOR_MAX_SIZE", 100),
		MaxBackups: env.GetEnvIntOrDefault("NARRADOR_MAX_BACKUPS", 5),
		MaxAge:     env.GetEnvIntOrDefault("NARRADOR_MAX_AGE", 30),
	}
}

func newRootCommand() *cobra.Command {
	var configFlag, envFlag string
	ctx := &commandContext{configFlag: &configFlag, envFlag: &envFlag}

	rootCmd := &cobra.Command{
		Use:           "narrador",
		Short:         "RPG narration relay with OpenRouter model fallback",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(ctx)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&envFlag, "env-file", env.DefaultDotEnvFile, "Dotenv file loaded before configuration")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newNarrateCommand(ctx))
	rootCmd.AddCommand(newModelCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP relay and keep-alive listener",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(ctx)
		},
	}
}

func runServe(ctx *commandContext) error {
	startTime := time.Now()
	version.PrintVersionInfo(false, log.New(log.Writer(), "", 0))

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logInstance, styledLogger, cleanup, err := logger.NewWithTheme(buildLoggerConfig(cfg))
	if err != nil {
		return fmt.Errorf("initialise logger: %w", err)
	}
	defer cleanup()
	slog.SetDefault(logInstance)

	styledLogger.Info("Initialising", "version", version.Version, "pid", os.Getpid(), "config", cfg.Filename)

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(startTime, cfg, styledLogger)
	if err != nil {
		logger.FatalWithLogger(logInstance, "Failed to create application", "error", err)
	}
	if err := application.Start(sigCtx); err != nil {
		logger.FatalWithLogger(logInstance, "Failed to start application", "error", err)
	}

	<-sigCtx.Done()
	styledLogger.Info("Shutdown signal received")

	if err := application.Stop(context.Background()); err != nil {
		styledLogger.Error("Error during shutdown", "error", err)
	}

	reportProcessStats(styledLogger, startTime)

	styledLogger.Info("Narrador has shutdown", "uptime", util.FormatUptime(time.Since(startTime)))
	return nil
}

func reportProcessStats(log logger.StyledLogger, startTime time.Time) {
	runtime.GC()

	stats := nerdstats.Snapshot(startTime)

	log.Info("Process Memory Stats",
		"heap_alloc", units.HumanSize(float64(stats.HeapAlloc)),
		"heap_sys", units.HumanSize(float64(stats.HeapSys)),
		"total_alloc", units.HumanSize(float64(stats.TotalAlloc)),
		"memory_pressure", stats.MemoryPressure())

	log.Info("Goroutine Stats",
		"num_goroutines", stats.NumGoroutines,
		"goroutine_health", stats.GoroutineHealth())

	if stats.NumGC > 0 {
		log.Info("Garbage Collection Stats",
			"num_gc_cycles", stats.NumGC,
			"total_gc_time", stats.TotalGCTime,
			"avg_gc_pause", stats.AverageGCPause())
	}
}

func newNarrateCommand(ctx *commandContext) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "narrate <text...>",
		Short: "Run one narration through the fallback chain and print it",
		Long: `Send one narration request through the same candidate order the server
uses (current model, then the fallbacks) and print the answer. When every
candidate fails the diagnostic is printed instead and the command exits
non-zero.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			lcfg := buildLoggerConfig(cfg)
			lcfg.FileOutput = false
			_, styledLogger, cleanup, err := logger.NewWithTheme(lcfg)
			if err != nil {
				return fmt.Errorf("initialise logger: %w", err)
			}
			defer cleanup()

			svc := app.NewNarrator(cfg, nil, styledLogger)
			if strings.TrimSpace(model) != "" {
				if _, err := svc.SetModel(model); err != nil {
					return err
				}
			}

			text := strings.Join(args, " ")
			result, err := svc.Narrate(cmd.Context(), text)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !result.OK {
				_, _ = fmt.Fprintln(out, result.Text)
				return fmt.Errorf("no model answered after %d attempts", result.Attempts)
			}

			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "model: %s  attempts: %d  latency: %s\n",
				result.Model, result.Attempts, result.Latency.Round(time.Millisecond))
			_, _ = fmt.Fprintln(out, util.TruncateDisplay(result.Text))
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Override the current model for this call")
	return cmd
}

func newModelCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "model",
		Short: "Show the configured model and fallback order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "current: %s\n", cfg.Provider.Model)
			for i, m := range cfg.Provider.FallbackModels {
				_, _ = fmt.Fprintf(out, "fallback %d: %s\n", i+1, m)
			}
			if cfg.Provider.APIKey == "" {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "warning: OPENROUTER_API_KEY is not set")
			}
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			version.PrintVersionInfo(true, log.New(cmd.OutOrStdout(), "", 0))
			return nil
		},
	}
}
