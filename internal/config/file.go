package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// File is the optional HCL configuration file. Every attribute may be left
// out; only the ones present override the defaults.
//
//	region        = "eu-west-1"
//	instance_type = "m5"
//	spot_price    = true
//
//	sources {
//	  timeout = "10s"
//	  retries = 5
//	}
type File struct {
	Region          *string      `hcl:"region,optional"`
	InstanceType    *string      `hcl:"instance_type,optional"`
	SpotPrice       *bool        `hcl:"spot_price,optional"`
	Output          *string      `hcl:"output,optional"`
	PriceSource     *string      `hcl:"price_source,optional"`
	MetricsTextfile *string      `hcl:"metrics_textfile,optional"`
	Sources         *SourcesFile `hcl:"sources,block"`
	Log             *LogFile     `hcl:"log,block"`
}

// SourcesFile is the sources block of the configuration file.
type SourcesFile struct {
	AdvisorURL *string `hcl:"advisor_url,optional"`
	PriceURL   *string `hcl:"price_url,optional"`
	Timeout    *string `hcl:"timeout,optional"`
	Retries    *int    `hcl:"retries,optional"`
}

// LogFile is the log block of the configuration file.
type LogFile struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

// ParseFile parses an HCL configuration file.
func ParseFile(path string) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", path, diags.Error())
	}

	if file == nil || file.Body == nil {
		return nil, fmt.Errorf("parsed HCL file is empty or invalid: %s", path)
	}

	var cfg File
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL body %s: %s", path, diags.Error())
	}

	return &cfg, nil
}

// settings flattens the attributes that were set into viper's nested map form.
func (f *File) settings() map[string]any {
	out := map[string]any{}
	put(out, "region", f.Region)
	put(out, "instance_type", f.InstanceType)
	put(out, "spot_price", f.SpotPrice)
	put(out, "output", f.Output)
	put(out, "price_source", f.PriceSource)
	put(out, "metrics_textfile", f.MetricsTextfile)

	if f.Sources != nil {
		sources := map[string]any{}
		put(sources, "advisor_url", f.Sources.AdvisorURL)
		put(sources, "price_url", f.Sources.PriceURL)
		put(sources, "timeout", f.Sources.Timeout)
		put(sources, "retries", f.Sources.Retries)
		if len(sources) > 0 {
			out["sources"] = sources
		}
	}

	if f.Log != nil {
		log := map[string]any{}
		put(log, "level", f.Log.Level)
		put(log, "format", f.Log.Format)
		if len(log) > 0 {
			out["log"] = log
		}
	}

	return out
}

func put[T any](m map[string]any, key string, value *T) {
	if value != nil {
		m[key] = *value
	}
}
