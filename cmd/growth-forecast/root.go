package main

import (
	"fmt"
	"io"

	"github.com/iwvelando/growth-forecast/internal/config"
	"github.com/iwvelando/growth-forecast/internal/forecast"
	"github.com/iwvelando/growth-forecast/internal/optimizer"
	"github.com/iwvelando/growth-forecast/pkg/constants"
	"github.com/iwvelando/growth-forecast/pkg/growth"
	"github.com/iwvelando/growth-forecast/pkg/output"
	"github.com/iwvelando/growth-forecast/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configLocation string
	outputFormat   string
	logLevel       string
	optimize       bool
	parallelism    int
}

// NewRootCommand creates the root command, which renders the forecasts of a
// configuration file.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "growth-forecast",
		Short: "Simulate month-by-month business growth scenarios",
		Long: `growth-forecast evaluates the growth events of every active scenario in a
configuration file and reports revenue, costs, profit and break-even per month.

Examples:
  growth-forecast --config config.yaml
  growth-forecast --config config.yaml --output-format csv
  growth-forecast --optimize --log-level debug
  growth-forecast serve --server-config server-config.yaml`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForecast(opts, cmd.ErrOrStderr())
		},
	}

	rootCmd.Flags().StringVar(&opts.configLocation, "config", constants.DefaultConfigFile,
		"path to configuration file")
	rootCmd.Flags().StringVar(&opts.outputFormat, "output-format", "",
		"type of output override: pretty, csv, json")
	rootCmd.Flags().BoolVar(&opts.optimize, "optimize", false,
		"run scenario optimizer directives before forecasting")
	rootCmd.Flags().IntVar(&opts.parallelism, "parallelism", 0,
		"months evaluated concurrently per scenario (-1 for all cores)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"log level override (debug, info, warn, error)")

	rootCmd.AddCommand(NewServeCommand(&opts.logLevel))

	return rootCmd
}

func runForecast(opts *rootOptions, stderr io.Writer) error {
	conf, err := config.LoadConfiguration(opts.configLocation)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", opts.configLocation, err)
		return err
	}

	logger, err := initializeLogger(conf.Logging, opts.logLevel)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if opts.outputFormat != "" {
		outputFormat = opts.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Error(err.Error(),
			zap.String("op", "main"),
		)
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	engineOpts := []growth.Option{growth.WithParallelism(opts.parallelism)}

	var optimized *optimizer.Result
	if opts.optimize {
		runner, err := optimizer.NewRunner(logger, conf, engineOpts...)
		if err != nil {
			logger.Error("failed to initialize optimizer",
				zap.String("op", "main"),
				zap.Error(err),
			)
			return err
		}
		optimized, err = runner.Run()
		if err != nil {
			logger.Error("optimizer execution failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
			return err
		}
	}

	results, err := forecast.GetForecast(logger, *conf, engineOpts...)
	if err != nil {
		logger.Error("failed to compute forecast",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return err
	}
	if optimized != nil {
		optimized.Apply(results)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(results)
	case constants.OutputFormatCSV:
		output.CsvFormat(results)
	case constants.OutputFormatJSON:
		if err := output.JSONFormat(results); err != nil {
			logger.Error("failed to write JSON output",
				zap.String("op", "main"),
				zap.Error(err),
			)
			return err
		}
	}

	return nil
}
