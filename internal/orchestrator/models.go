package orchestrator

import "spotinfo/internal/models"

// Config contains all the parameters needed for a spot report run.
type Config struct {
	Region             string  // AWS region to report on
	InstanceTypeFilter *string // Family, size or name fragment; nil reports every type
	ShowPrice          bool    // Include Linux and Windows spot prices
	OutputFormat       string  // Output format (table, json or yaml)
	PriceSource        string  // Where prices come from (document or ec2)
	MetricsTextfile    string  // Optional path for a Prometheus textfile export
}

// RunResult describes what a run produced.
type RunResult struct {
	Rows           []models.Row
	AdvisorRegions []string
	PriceRegions   []string
}
