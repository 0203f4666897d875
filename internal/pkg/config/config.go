// Package config reads the JSON configuration of a validation deployment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ohowland/beyond_core/internal/pkg/device"
)

var (
	ErrUnknownSource = errors.New("unknown source kind")
	ErrUnknownSink   = errors.New("unknown sink kind")
)

// Source and sink kinds.
const (
	KindNone  = "none"
	KindFile  = "file"
	KindSQL   = "sql"
	KindMongo = "mongo"
)

// DefaultFamilies are the family names of the composite devices.
var DefaultFamilies = []string{"ONE.Black", "ONE.White", "POWER.Black", "POWER.White"}

// Config is the top level configuration document.
type Config struct {
	Source     Source        `json:"Source"`
	Sink       Sink          `json:"Sink"`
	Families   []string      `json:"Families"`
	Limits     device.Limits `json:"Limits"`
	Units      string        `json:"Units"`
	LogPath    string        `json:"LogPath"`
	Nats       Nats          `json:"Nats"`
	Webservice Webservice    `json:"Webservice"`
}

// Source selects where the model is read from.
type Source struct {
	Kind   string `json:"Kind"`
	Path   string `json:"Path"`
	Driver string `json:"Driver"`
	DSN    string `json:"DSN"`
}

// Sink selects where resolved values are written back to.
type Sink struct {
	Kind     string `json:"Kind"`
	Path     string `json:"Path"`
	Driver   string `json:"Driver"`
	DSN      string `json:"DSN"`
	URI      string `json:"URI"`
	Database string `json:"Database"`
}

// Nats configures publication of run summaries. An empty Server disables it.
type Nats struct {
	Server  string `json:"Server"`
	Subject string `json:"Subject"`
}

type Webservice struct {
	Port string `json:"Port"`
}

// New reads and validates the configuration file at path.
func New(path string) (Config, error) {
	jsonConfig, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(jsonConfig)
}

// Parse decodes a configuration document and fills in defaults.
func Parse(jsonConfig []byte) (Config, error) {
	cfg := Config{}
	if err := json.Unmarshal(jsonConfig, &cfg); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	return cfg, cfg.validate()
}

func (c *Config) applyDefaults() {
	if c.Source.Kind == "" {
		c.Source.Kind = KindFile
	}
	if c.Sink.Kind == "" {
		c.Sink.Kind = KindNone
	}
	if len(c.Families) == 0 {
		c.Families = DefaultFamilies
	}
	c.Limits = c.Limits.WithDefaults()
	if c.Units == "" {
		c.Units = "revit"
	}
	if c.Nats.Subject == "" {
		c.Nats.Subject = "beyond.validation"
	}
	if c.Webservice.Port == "" {
		c.Webservice.Port = ":8080"
	}
}

func (c Config) validate() error {
	switch c.Source.Kind {
	case KindFile, KindSQL:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, c.Source.Kind)
	}
	switch c.Sink.Kind {
	case KindNone, KindFile, KindSQL, KindMongo:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSink, c.Sink.Kind)
	}
	return nil
}
