package orchestrator

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"spotinfo/internal/config"
	"spotinfo/internal/metrics"
	aws "spotinfo/internal/providers/aws"
	"spotinfo/internal/providers/feed"
	"spotinfo/internal/reconcile"
	"spotinfo/internal/report"
)

// Service orchestrates fetching, reconciling and reporting.
type Service struct {
	config        Config
	fetcher       feed.DocumentFetcherAPI
	spotPrices    aws.SpotPriceServiceAPI
	reportPrinter report.IPrinter
	collector     *metrics.Collector
	logger        *zap.Logger
	engine        *reconcile.Engine
}

// NewService creates a new orchestrator service with the given configuration.
// spotPrices is only used when the price source is ec2 and collector may be nil.
func NewService(
	cfg Config,
	fetcher feed.DocumentFetcherAPI,
	spotPrices aws.SpotPriceServiceAPI,
	reportPrinter report.IPrinter,
	collector *metrics.Collector,
	logger *zap.Logger,
) *Service {
	observers := reconcile.MultiObserver{reconcile.NewLogObserver(logger)}
	if collector != nil {
		observers = append(observers, collector)
	}

	return &Service{
		config:        cfg,
		fetcher:       fetcher,
		spotPrices:    spotPrices,
		reportPrinter: reportPrinter,
		collector:     collector,
		logger:        logger,
		engine:        reconcile.NewEngine(reconcile.WithObserver(observers)),
	}
}

// NewDefaultService creates a new service with default implementations of dependencies
func NewDefaultService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Service, error) {
	collector := metrics.NewCollector()

	fetcher := feed.NewClient(logger,
		feed.WithURLs(cfg.Sources.AdvisorURL, cfg.Sources.PriceURL),
		feed.WithRetries(cfg.Sources.Retries),
		feed.WithTimeout(cfg.Sources.Timeout),
		feed.WithFetchObserver(collector),
	)

	var spotPrices aws.SpotPriceServiceAPI
	if cfg.PriceSource == config.PriceSourceEC2 {
		srv, err := aws.NewSpotPriceServiceWithDefaultConfig(ctx, cfg.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize AWS service: %w", err)
		}
		spotPrices = srv
	}

	svc := NewService(Config{
		Region:             cfg.Region,
		InstanceTypeFilter: cfg.InstanceTypeFilter(),
		ShowPrice:          cfg.SpotPrice,
		OutputFormat:       cfg.Output,
		PriceSource:        cfg.PriceSource,
		MetricsTextfile:    cfg.MetricsTextfile,
	}, fetcher, spotPrices, report.DefaultPrinter{}, collector, logger)

	return svc, nil
}

// Run fetches both documents, reconciles them and prints the report. It
// returns the number of rows reported; zero rows is not an error.
func (s *Service) Run(ctx context.Context) (int, error) {
	result, err := s.Reconcile(ctx)
	if err != nil {
		return 0, err
	}

	format, err := report.ParseOutputFormat(s.config.OutputFormat)
	if err != nil {
		return 0, err
	}

	if err := s.reportPrinter.PrintReport(s.buildReport(result), format); err != nil {
		return 0, fmt.Errorf("error printing report: %w", err)
	}

	s.logger.Info(fmt.Sprintf("Found %d spot instances for region: %s, filtering by instance type: %s",
		len(result.Rows), s.config.Region, s.filterLabel()))

	if err := s.exportMetrics(); err != nil {
		return len(result.Rows), err
	}

	return len(result.Rows), nil
}

// Reconcile fetches and reconciles the documents without printing anything.
func (s *Service) Reconcile(ctx context.Context) (*RunResult, error) {
	if err := s.validateConfig(); err != nil {
		return nil, err
	}

	advisorData, err := s.fetcher.FetchAdvisorData(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching advisor data: %w", err)
	}
	advisorDoc, err := reconcile.ParseAdvisorDocument(advisorData)
	if err != nil {
		return nil, fmt.Errorf("error parsing advisor data: %w", err)
	}

	result := &RunResult{AdvisorRegions: advisorDoc.RegionNames()}
	s.logger.Debug("Parsed advisor data",
		zap.Int("regions", len(advisorDoc.Regions)),
		zap.Int("instance_types", len(advisorDoc.InstanceTypes)))
	s.warnUnknownRegion(reconcile.DocumentAdvisor, result.AdvisorRegions)

	req := reconcile.Request{
		Region:             s.config.Region,
		InstanceTypeFilter: s.config.InstanceTypeFilter,
		ShowPrice:          s.config.ShowPrice,
	}

	if s.config.PriceSource == config.PriceSourceEC2 {
		prices, err := s.spotPrices.GetSpotPrices(ctx, s.config.Region)
		if err != nil {
			return nil, fmt.Errorf("error fetching EC2 spot prices: %w", err)
		}
		s.logger.Debug("Fetched EC2 spot prices", zap.Int("instance_types", len(prices)))
		result.PriceRegions = []string{s.config.Region}

		result.Rows, err = s.engine.RunWithPrices(req, advisorDoc, prices)
		if err != nil {
			return nil, fmt.Errorf("error reconciling spot data: %w", err)
		}
		return result, nil
	}

	priceData, err := s.fetcher.FetchPriceData(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching price data: %w", err)
	}
	priceDoc, err := reconcile.ParsePriceDocument(priceData)
	if err != nil {
		return nil, fmt.Errorf("error parsing price data: %w", err)
	}

	result.PriceRegions = priceDoc.RegionNames()
	s.logger.Debug("Parsed price data", zap.Int("regions", len(priceDoc.Regions)))
	s.warnUnknownRegion(reconcile.DocumentPrice, result.PriceRegions)

	result.Rows, err = s.engine.Run(req, advisorDoc, priceDoc)
	if err != nil {
		return nil, fmt.Errorf("error reconciling spot data: %w", err)
	}
	return result, nil
}

// validateConfig checks if the required configuration is provided.
func (s *Service) validateConfig() error {
	if s.config.Region == "" {
		return fmt.Errorf("region is required")
	}
	if _, err := report.ParseOutputFormat(s.config.OutputFormat); err != nil {
		return err
	}
	switch s.config.PriceSource {
	case config.PriceSourceDocument:
	case config.PriceSourceEC2:
		if s.spotPrices == nil {
			return fmt.Errorf("price source %s requires an EC2 spot price service", config.PriceSourceEC2)
		}
	default:
		return fmt.Errorf("unsupported price source: %s", s.config.PriceSource)
	}
	return nil
}

// warnUnknownRegion reports a region missing from a document along with the
// regions the document does know.
func (s *Service) warnUnknownRegion(document string, regions []string) {
	if slices.Contains(regions, s.config.Region) {
		return
	}
	s.logger.Warn("Region not found in "+document+" data",
		zap.String("region", s.config.Region),
		zap.Strings("available_regions", regions))
}

func (s *Service) buildReport(result *RunResult) report.SpotReport {
	rep := report.SpotReport{
		Region:    s.config.Region,
		ShowPrice: s.config.ShowPrice,
		Instances: result.Rows,
	}
	if s.config.InstanceTypeFilter != nil {
		rep.InstanceTypeFilter = *s.config.InstanceTypeFilter
	}
	return rep
}

func (s *Service) filterLabel() string {
	if s.config.InstanceTypeFilter == nil {
		return "all"
	}
	return *s.config.InstanceTypeFilter
}

// exportMetrics stamps the run and writes the textfile export when one is configured.
func (s *Service) exportMetrics() error {
	if s.collector == nil {
		return nil
	}
	s.collector.MarkRun(time.Now())

	if s.config.MetricsTextfile == "" {
		return nil
	}
	if err := s.collector.WriteTextfile(s.config.MetricsTextfile); err != nil {
		return err
	}
	s.logger.Debug("Wrote metrics", zap.String("path", s.config.MetricsTextfile))
	return nil
}
