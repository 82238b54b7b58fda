package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"spotinfo/internal/config"
	"spotinfo/internal/orchestrator"
	"spotinfo/pkg/logging"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

type rootOptions struct {
	configFile string
	verbose    int
	quiet      int
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	rootCmd := &cobra.Command{
		Use:   "spotinfo",
		Short: "Show spot instance interruption rates, savings and prices for an AWS region",
		Long: `spotinfo joins the public AWS spot advisor and spot price feeds and prints,
for one region, the interruption rate bucket, savings over on-demand, memory,
cores and optionally the current Linux and Windows spot prices of every
instance type.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringP("region", "r", "us-east-1", "AWS region")
	flags.StringP("instance-type", "i", "", "EC2 instance type to filter by (family like 'm5', size like 'large', or full type like 'm5.large')")
	flags.Bool("spot-price", false, "Show spot prices for Linux and Windows (for latest pricing information, check AWS Management Console)")
	flags.StringP("output", "o", "table", "Output format: table, json or yaml")
	flags.String("price-source", config.PriceSourceDocument, "Where spot prices come from: document (public price feed) or ec2 (DescribeSpotPriceHistory)")
	flags.Duration("timeout", 0, "Timeout for each document request (default 30s)")
	flags.String("metrics-textfile", "", "Write run metrics to this file in Prometheus textfile format")
	flags.String("log-format", "", "Log format: console or json")
	flags.StringVar(&opts.configFile, "config", "", "Path to an HCL configuration file (default "+config.DefaultFile+" if present)")
	flags.CountVarP(&opts.verbose, "verbose", "v", "Increase logging verbosity (repeatable)")
	flags.CountVarP(&opts.quiet, "quiet", "q", "Decrease logging verbosity (repeatable)")

	return rootCmd
}

func run(cmd *cobra.Command, opts rootOptions) error {
	cfg, err := config.Load(config.Options{File: opts.configFile, Flags: cmd.Flags()})
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := cfg.Log.Level
	if opts.verbose > 0 || opts.quiet > 0 {
		level = logging.LevelFromVerbosity(opts.verbose, opts.quiet)
	}

	logger, err := logging.New(logging.Config{Level: level, Format: cfg.Log.Format})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = logging.WithRunID(logger, "")
	defer func() { _ = logger.Sync() }()

	logger.Debug("Configuration loaded",
		zap.String("region", cfg.Region),
		zap.String("instance_type", cfg.InstanceType),
		zap.Bool("spot_price", cfg.SpotPrice),
		zap.String("output", cfg.Output),
		zap.String("price_source", cfg.PriceSource),
		zap.Duration("timeout", cfg.Sources.Timeout))

	ctx := cmd.Context()
	service, err := orchestrator.NewDefaultService(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize the service: %w", err)
	}

	if _, err := service.Run(ctx); err != nil {
		return err
	}
	return nil
}
