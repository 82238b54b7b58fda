package report_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"spotinfo/internal/models"
	"spotinfo/internal/report"
)

// captureOutput temporarily redirects os.Stdout so we can capture what PrintReport writes.
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	var buf bytes.Buffer
	io.Copy(&buf, r)
	os.Stdout = old
	return buf.String()
}

func strPtr(s string) *string { return &s }

func pricedReport() report.SpotReport {
	return report.SpotReport{
		Region:    "us-east-1",
		ShowPrice: true,
		Instances: []models.Row{
			{
				InstanceType: "m5.large",
				Region:       "us-east-1",
				Interruption: "10-15%",
				MemoryGB:     "8",
				Cores:        "2",
				LinuxPrice:   strPtr("0.0456"),
				WindowsPrice: strPtr("N/A"),
				Savings:      "30%",
			},
		},
	}
}

func TestPrintReport_Table(t *testing.T) {
	output := captureOutput(func() {
		err := report.PrintReport(pricedReport(), report.OutputFormatTypeTABLE)
		assert.NoError(t, err, "unexpected error")
	})

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t,
		[]string{"Instance", "Type", "Region", "Interruption", "Rate", "Memory", "(GB)", "Cores", "Linux", "Spot", "Price", "Windows", "Spot", "Price", "Savings"},
		strings.Fields(lines[0]))
	assert.Equal(t,
		[]string{"m5.large", "us-east-1", "10-15%", "8", "2", "0.0456", "N/A", "30%"},
		strings.Fields(lines[2]))
}

func TestWriteReport_TableWithoutPrices(t *testing.T) {
	var buf bytes.Buffer
	rep := report.SpotReport{
		Region: "eu-west-1",
		Instances: []models.Row{
			{InstanceType: "c5.large", Region: "eu-west-1", Interruption: "<5%", MemoryGB: "4", Cores: "2", Savings: "70%"},
		},
	}

	require.NoError(t, report.WriteReport(&buf, rep, report.OutputFormatTypeTABLE))

	assert.NotContains(t, buf.String(), "Spot Price")
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"c5.large", "eu-west-1", "<5%", "4", "2", "70%"}, strings.Fields(lines[2]))
	// columns are aligned
	assert.Equal(t, strings.Index(lines[0], "Region"), strings.Index(lines[2], "eu-west-1"))
}

func TestWriteReport_TableEmpty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, report.WriteReport(&buf, report.SpotReport{Region: "mars-north-1"}, report.OutputFormatTypeTABLE))

	assert.Len(t, strings.Split(strings.TrimRight(buf.String(), "\n"), "\n"), 2)
}

func TestWriteReport_JSON(t *testing.T) {
	var buf bytes.Buffer
	rep := pricedReport()
	rep.InstanceTypeFilter = "m5"

	require.NoError(t, report.WriteReport(&buf, rep, report.OutputFormatTypeJSON))

	assert.JSONEq(t, `{
	  "region": "us-east-1",
	  "instance_type_filter": "m5",
	  "instances": [{
	    "instance_type": "m5.large",
	    "region": "us-east-1",
	    "interruption_rate": "10-15%",
	    "memory_gb": "8",
	    "cores": "2",
	    "linux_spot_price": "0.0456",
	    "windows_spot_price": "N/A",
	    "savings": "30%"
	  }]
	}`, buf.String())
}

func TestWriteReport_JSONEmptyIsList(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, report.WriteReport(&buf, report.SpotReport{Region: "us-east-1"}, report.OutputFormatTypeJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []any{}, decoded["instances"])
	assert.NotContains(t, decoded, "instance_type_filter")
}

func TestWriteReport_YAML(t *testing.T) {
	var buf bytes.Buffer
	rep := pricedReport()
	rep.Instances[0].LinuxPrice = nil
	rep.Instances[0].WindowsPrice = nil

	require.NoError(t, report.WriteReport(&buf, rep, report.OutputFormatTypeYAML))

	var decoded struct {
		Region    string              `yaml:"region"`
		Instances []map[string]string `yaml:"instances"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "us-east-1", decoded.Region)
	require.Len(t, decoded.Instances, 1)
	assert.Equal(t, "10-15%", decoded.Instances[0]["interruption_rate"])
	assert.NotContains(t, decoded.Instances[0], "linux_spot_price")
}

func TestWriteReport_UnsupportedFormat(t *testing.T) {
	err := report.WriteReport(io.Discard, pricedReport(), report.OutputFormatType("CSV"))

	assert.EqualError(t, err, "unsupported output format: CSV")
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected report.OutputFormatType
		wantErr  bool
	}{
		{"table", report.OutputFormatTypeTABLE, false},
		{"JSON", report.OutputFormatTypeJSON, false},
		{"Yaml", report.OutputFormatTypeYAML, false},
		{"csv", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			format, err := report.ParseOutputFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestDefaultPrinter(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, report.DefaultPrinter{Writer: &buf}.PrintReport(pricedReport(), report.OutputFormatTypeTABLE))

	assert.Contains(t, buf.String(), "m5.large")
}
