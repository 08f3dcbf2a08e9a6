package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/uyouii/kernel-density/kde"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment override, e.g. KDE_KERNEL.
const EnvPrefix = "KDE"

const (
	RuleSilverman       = "silverman"
	RuleScott           = "scott"
	RuleNormalReference = "normal_reference"
	RuleFixed           = "fixed"
)

// Config represents the estimation settings of the command line tools
type Config struct {
	Kernel    string          `yaml:"kernel" envconfig:"KERNEL" validate:"required"`
	Bandwidth BandwidthConfig `yaml:"bandwidth" envconfig:"BANDWIDTH"`
	Alpha     float64         `yaml:"alpha" envconfig:"ALPHA" validate:"gt=0,lt=1"`
	Grid      GridConfig      `yaml:"grid" envconfig:"GRID"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
}

// BandwidthConfig selects the bandwidth rule
type BandwidthConfig struct {
	Rule string `yaml:"rule" envconfig:"RULE" validate:"oneof=silverman scott normal_reference fixed"`
	// Value is the bandwidth of the fixed rule
	Value  float64 `yaml:"value" envconfig:"VALUE" validate:"gte=0"`
	Adjust float64 `yaml:"adjust" envconfig:"ADJUST" validate:"gt=0"`
}

// GridConfig shapes the evaluation grid
type GridConfig struct {
	Size int     `yaml:"size" envconfig:"SIZE" validate:"gte=2"`
	Cut  float64 `yaml:"cut" envconfig:"CUT" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Kernel: kde.Gaussian.String(),
		Bandwidth: BandwidthConfig{
			Rule:   RuleSilverman,
			Adjust: 1,
		},
		Alpha: kde.DefaultAlpha,
		Grid: GridConfig{
			Size: kde.DefaultGridSize,
			Cut:  kde.DefaultCut,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load starts from Default, applies the YAML file at path when path is not
// empty, then environment variables, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

// Validate checks field ranges and that the kernel and bandwidth rule make
// sense together
func (c *Config) Validate() error {
	c.Kernel = strings.ToLower(strings.TrimSpace(c.Kernel))
	c.Bandwidth.Rule = strings.ToLower(strings.TrimSpace(c.Bandwidth.Rule))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if _, err := kde.ParseKernelKind(c.Kernel); err != nil {
		return err
	}
	if c.Bandwidth.Rule == RuleFixed && !(c.Bandwidth.Value > 0) {
		return fmt.Errorf("fixed bandwidth rule needs a positive bandwidth value, got %v", c.Bandwidth.Value)
	}
	return nil
}

// Setup converts the configuration into an estimator setup
func (c *Config) Setup() (kde.Setup, error) {
	kind, err := kde.ParseKernelKind(c.Kernel)
	if err != nil {
		return kde.Setup{}, err
	}

	var bw kde.BandWidth
	switch c.Bandwidth.Rule {
	case RuleSilverman, "":
		bw = kde.SilvermanBandWidth{}
	case RuleScott:
		bw = kde.ScottBandWidth{}
	case RuleNormalReference:
		kernel, err := kde.NewKernel(kind)
		if err != nil {
			return kde.Setup{}, err
		}
		bw = kde.NewNormalReferenceBandWidth(kernel)
	case RuleFixed:
		bw = kde.FixedBandWidth(c.Bandwidth.Value)
	default:
		return kde.Setup{}, fmt.Errorf("unknown bandwidth rule %q", c.Bandwidth.Rule)
	}

	return kde.Setup{
		Kernel:    kind,
		BandWidth: bw,
		Adjust:    c.Bandwidth.Adjust,
	}, nil
}
