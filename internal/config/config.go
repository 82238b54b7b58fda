package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"spotinfo/internal/providers/feed"
)

const (
	// DefaultFile is read when no configuration file is given and it exists.
	DefaultFile = "spotinfo.hcl"
	// EnvPrefix prefixes every environment override (SPOTINFO_REGION, SPOTINFO_SOURCES_TIMEOUT, ...).
	EnvPrefix = "SPOTINFO"

	DefaultAdvisorURL = feed.DefaultAdvisorURL
	DefaultPriceURL   = feed.DefaultPriceURL
)

// Price sources
const (
	PriceSourceDocument = "document"
	PriceSourceEC2      = "ec2"
)

// Config holds everything a run needs.
type Config struct {
	Region          string        `mapstructure:"region" default:"us-east-1"`
	InstanceType    string        `mapstructure:"instance_type"`
	SpotPrice       bool          `mapstructure:"spot_price" default:"false"`
	Output          string        `mapstructure:"output" default:"table"`
	PriceSource     string        `mapstructure:"price_source" default:"document"`
	MetricsTextfile string        `mapstructure:"metrics_textfile"`
	Sources         SourcesConfig `mapstructure:"sources"`
	Log             LogConfig     `mapstructure:"log"`
}

// SourcesConfig configures document retrieval.
type SourcesConfig struct {
	AdvisorURL string        `mapstructure:"advisor_url" default:"https://spot-bid-advisor.s3.amazonaws.com/spot-advisor-data.json"`
	PriceURL   string        `mapstructure:"price_url" default:"http://spot-price.s3.amazonaws.com/spot.js"`
	Timeout    time.Duration `mapstructure:"timeout" default:"30s"`
	Retries    int           `mapstructure:"retries" default:"3"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level" default:"info"`
	Format string `mapstructure:"format" default:"console"`
}

// FlagKeys maps command-line flag names onto configuration keys.
var FlagKeys = map[string]string{
	"region":           "region",
	"instance-type":    "instance_type",
	"spot-price":       "spot_price",
	"output":           "output",
	"price-source":     "price_source",
	"timeout":          "sources.timeout",
	"metrics-textfile": "metrics_textfile",
	"log-format":       "log.format",
}

// Options controls where Load looks for settings.
type Options struct {
	// File is an explicit configuration file; it must exist. When empty,
	// DefaultFile is used if present.
	File string
	// EnvFile is loaded into the environment if it exists. Defaults to ".env".
	EnvFile string
	// Flags are bound per FlagKeys; only flags that were set take effect.
	Flags *pflag.FlagSet
}

// Load builds the configuration. Later layers win: defaults, configuration
// file, environment, flags.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// Ignore error if file doesn't exist
	_ = godotenv.Load(envFile)

	v := viper.New()
	bindValues(v, Config{}, "")

	path := opts.File
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		file, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		if err := v.MergeConfigMap(file.settings()); err != nil {
			return nil, fmt.Errorf("failed to apply configuration file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range FlagKeys {
			flag := opts.Flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindValues registers every mapstructure key with its default so that
// AutomaticEnv can see it.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		v.SetDefault(key, field.Tag.Get("default"))
	}
}

var regionPattern = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-\d+$`)

// Validate checks the configuration for values the rest of the program cannot handle.
func (c *Config) Validate() error {
	var errs []error

	if !regionPattern.MatchString(c.Region) {
		errs = append(errs, fmt.Errorf("invalid region %q: expected a name like us-east-1", c.Region))
	}
	if strings.TrimSpace(c.InstanceType) != c.InstanceType {
		errs = append(errs, fmt.Errorf("invalid instance type %q: surrounding whitespace", c.InstanceType))
	}

	switch strings.ToLower(c.Output) {
	case "table", "json", "yaml":
	default:
		errs = append(errs, fmt.Errorf("invalid output format %q: expected table, json or yaml", c.Output))
	}

	switch c.PriceSource {
	case PriceSourceDocument, PriceSourceEC2:
	default:
		errs = append(errs, fmt.Errorf("invalid price source %q: expected %s or %s", c.PriceSource, PriceSourceDocument, PriceSourceEC2))
	}

	if c.Sources.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("invalid timeout %s: must be positive", c.Sources.Timeout))
	}
	if c.Sources.Retries < 0 {
		errs = append(errs, fmt.Errorf("invalid retries %d: must not be negative", c.Sources.Retries))
	}
	if c.Sources.AdvisorURL == "" || c.Sources.PriceURL == "" {
		errs = append(errs, errors.New("source URLs must not be empty"))
	}

	return errors.Join(errs...)
}

// InstanceTypeFilter returns the filter, or nil when none was given.
func (c *Config) InstanceTypeFilter() *string {
	if c.InstanceType == "" {
		return nil
	}
	filter := c.InstanceType
	return &filter
}
