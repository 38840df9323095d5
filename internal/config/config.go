package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// DatasetDir holds the four yearly source tables.
	DatasetDir string `mapstructure:"dataset_dir" yaml:"dataset_dir"`
	// OutputFile is the synthesis CSV path; empty means <dataset_dir>/accidents_complet_synthese.csv.
	OutputFile string `mapstructure:"output_file" yaml:"output_file"`
	// Year scopes input file names and the defensive date filter.
	Year int `mapstructure:"year" yaml:"year"`
	// Delimiter of the source files: ";" | "," | "tab". Empty auto-detects.
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	// WriteManifest toggles the provenance sidecar next to the output.
	WriteManifest bool `mapstructure:"write_manifest" yaml:"write_manifest"`

	// Inspect tuning
	InspectSampleRows int `mapstructure:"inspect_sample_rows" yaml:"inspect_sample_rows"`
	InspectMaxRows    int `mapstructure:"inspect_max_rows" yaml:"inspect_max_rows"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.synthese/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".synthese")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SYNTHESE")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dataset_dir", "dataset")
	v.SetDefault("output_file", "")
	v.SetDefault("year", 2024)
	v.SetDefault("delimiter", ";")
	v.SetDefault("write_manifest", true)
	v.SetDefault("inspect_sample_rows", 5)
	v.SetDefault("inspect_max_rows", 200000)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".synthese")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// DelimiterRune converts the configured delimiter to a rune, 0 meaning
// auto-detect.
func (c *Global) DelimiterRune() (rune, error) {
	switch c.Delimiter {
	case "":
		return 0, nil
	case ";":
		return ';', nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %q (use ';' | ',' | 'tab')", c.Delimiter)
	}
}
