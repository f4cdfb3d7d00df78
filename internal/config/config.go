// Package config loads runtime settings from an optional JSON file with
// RECON_* environment variables layered on top.
package config

import (
	"encoding/json"
	"log"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultLogLevel = "info"
	DefaultEncoding = "utf-8"

	envPrefix = "recon"
)

type Configuration struct {
	LogLevel   string `json:"log_level" envconfig:"LOG_LEVEL"`
	QuoteAware bool   `json:"quote_aware" envconfig:"QUOTE_AWARE"`
	Encoding   string `json:"encoding" envconfig:"ENCODING"`
	ExportDir  string `json:"export_dir" envconfig:"EXPORT_DIR"`
}

// Load reads file when it exists, then applies environment overrides and
// defaults. A missing file is not an error.
func Load(file string) (*Configuration, error) {
	var cnf Configuration

	if file != "" {
		f, err := os.Open(file)
		switch {
		case err == nil:
			defer f.Close()
			if err := json.NewDecoder(f).Decode(&cnf); err != nil {
				return nil, errors.Wrapf(err, "failed to decode config file %s", file)
			}
		case errors.Is(err, os.ErrNotExist):
			logrus.Debugf("config file %s not found, using environment variables", file)
		default:
			return nil, errors.Wrapf(err, "failed to open config file %s", file)
		}
	}

	// override config from environment variables
	if err := envconfig.Process(envPrefix, &cnf); err != nil {
		return nil, errors.Wrap(err, "failed to process environment")
	}

	if err := cnf.validateAndAddDefaults(); err != nil {
		return nil, err
	}
	return &cnf, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	cnf.LogLevel = strings.ToLower(strings.TrimSpace(cnf.LogLevel))
	cnf.Encoding = strings.TrimSpace(cnf.Encoding)
	cnf.ExportDir = strings.TrimSpace(cnf.ExportDir)

	if cnf.LogLevel == "" {
		cnf.LogLevel = DefaultLogLevel
	}
	if _, err := logrus.ParseLevel(cnf.LogLevel); err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	if cnf.Encoding == "" {
		cnf.Encoding = DefaultEncoding
	}
	return nil
}

// SetupLogger configures the standard logrus logger and routes the standard
// library logger through it.
func SetupLogger(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetOutput(logrus.StandardLogger().Writer())
	return nil
}
