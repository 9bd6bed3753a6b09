// Package config resolves tool locations and run options once at process start.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

var ErrInvalidCores = errors.New("core count must be at least 1")

// Config is the whole configuration surface. Tool fields keep the environment
// names the conda setup already exports.
type Config struct {
	// Tools
	CondaExe string `yaml:"conda_exe" envconfig:"CONDA_EXE_NAME"`
	BaktaEnv string `yaml:"bakta_env" envconfig:"CONDA_BAKTA_NAME"`
	RGIEnv   string `yaml:"rgi_env" envconfig:"CONDA_RGI_NAME"`
	BaktaDB  string `yaml:"bakta_db" envconfig:"BAKTA_DB"`
	BaktaBin string `yaml:"bakta_bin" envconfig:"NEIGHBOURANN_BAKTA_BIN"`
	RGIBin   string `yaml:"rgi_bin" envconfig:"NEIGHBOURANN_RGI_BIN"`

	// Run
	Cores            int    `yaml:"cores" envconfig:"NEIGHBOURANN_CORES"`
	NoRGI            bool   `yaml:"no_rgi" envconfig:"NEIGHBOURANN_NO_RGI"`
	IncludeLoose     bool   `yaml:"include_loose" envconfig:"NEIGHBOURANN_INCLUDE_LOOSE"`
	OutputName       string `yaml:"output_name" envconfig:"NEIGHBOURANN_OUTPUT_NAME"`
	CleanupTempFiles bool   `yaml:"cleanup_temp_files" envconfig:"NEIGHBOURANN_CLEANUP"`
}

func Default() Config {
	return Config{
		CondaExe:   "conda",
		BaktaBin:   "bakta",
		RGIBin:     "rgi",
		Cores:      1,
		OutputName: "sequence",
	}
}

// Load applies, lowest to highest: defaults, the YAML file at path (if not
// empty), then environment variables. Unset variables leave values untouched.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.UnmarshalStrict(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("failed to read environment: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Cores < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidCores, c.Cores)
	}
	if c.BaktaBin == "" || c.RGIBin == "" {
		return errors.New("tool binaries must not be empty")
	}
	if c.CondaExe == "" && (c.BaktaEnv != "" || c.RGIEnv != "") {
		return errors.New("a conda env is set but the conda executable is empty")
	}
	return nil
}
