package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v2"

	"spotinfo/internal/models"
)

// OutputFormatType defines the format types for the spot report.
type OutputFormatType string

const (
	// OutputFormatTypeJSON represents JSON output format
	OutputFormatTypeJSON OutputFormatType = "JSON"
	// OutputFormatTypeTABLE represents table output format
	OutputFormatTypeTABLE OutputFormatType = "TABLE"
	// OutputFormatTypeYAML represents YAML output format
	OutputFormatTypeYAML OutputFormatType = "YAML"
)

// ParseOutputFormat converts a user supplied format name, case-insensitively.
func ParseOutputFormat(name string) (OutputFormatType, error) {
	switch format := OutputFormatType(strings.ToUpper(name)); format {
	case OutputFormatTypeJSON, OutputFormatTypeTABLE, OutputFormatTypeYAML:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", name)
	}
}

var (
	baseHeaders  = []string{"Instance Type", "Region", "Interruption Rate", "Memory (GB)", "Cores"}
	priceHeaders = []string{"Linux Spot Price", "Windows Spot Price"}
)

// SpotReport is the reconciled view of one region.
type SpotReport struct {
	Region             string       `json:"region" yaml:"region"`
	InstanceTypeFilter string       `json:"instance_type_filter,omitempty" yaml:"instance_type_filter,omitempty"`
	ShowPrice          bool         `json:"-" yaml:"-"`
	Instances          []models.Row `json:"instances" yaml:"instances"`
}

// Headers returns the table column names for the report.
func (r SpotReport) Headers() []string {
	headers := append([]string{}, baseHeaders...)
	if r.ShowPrice {
		headers = append(headers, priceHeaders...)
	}
	return append(headers, "Savings")
}

// PrintReport prints the spot report to stdout using the specified output format.
func PrintReport(report SpotReport, outputFormat OutputFormatType) error {
	return WriteReport(os.Stdout, report, outputFormat)
}

// WriteReport writes the spot report to w.
// Supported formats: "json" and "yaml" (machine-readable) and "table" (human-friendly).
func WriteReport(w io.Writer, report SpotReport, outputFormat OutputFormatType) error {
	if report.Instances == nil {
		report.Instances = []models.Row{}
	}

	switch outputFormat {
	case OutputFormatTypeJSON:
		return writeJSONReport(w, report)
	case OutputFormatTypeYAML:
		return writeYAMLReport(w, report)
	case OutputFormatTypeTABLE:
		return writeTableReport(w, report)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func writeJSONReport(w io.Writer, report SpotReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling report to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeYAMLReport(w io.Writer, report SpotReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("error marshaling report to YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// writeTableReport prints the rows under aligned column headers
func writeTableReport(w io.Writer, report SpotReport) error {
	writer := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	headers := report.Headers()
	fmt.Fprintln(writer, strings.Join(headers, "\t"))

	rules := make([]string, len(headers))
	for i, h := range headers {
		rules[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(writer, strings.Join(rules, "\t"))

	for _, row := range report.Instances {
		fmt.Fprintln(writer, strings.Join(row.Cells(), "\t"))
	}

	return writer.Flush()
}

// DefaultPrinter is the default implementation of the report printer
type DefaultPrinter struct {
	// Writer defaults to stdout.
	Writer io.Writer
}

// PrintReport implements the printer interface
func (p DefaultPrinter) PrintReport(report SpotReport, format OutputFormatType) error {
	if p.Writer == nil {
		return PrintReport(report, format)
	}
	return WriteReport(p.Writer, report, format)
}
