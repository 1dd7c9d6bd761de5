package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Server struct {
	Port              string `json:"port"`
	RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type Quote struct {
	// BaseURL addresses every carrier; each carrier appends its own path.
	BaseURL  string   `json:"base_url"`
	BudgetMS int      `json:"budget_ms"`
	Carriers []string `json:"carriers"`
}

// Simulator controls the built-in carrier endpoints.
type Simulator struct {
	Enabled bool `json:"enabled"`
	// LatencyMS delays a carrier's answer, for exercising the time budget.
	LatencyMS map[string]int `json:"latency_ms"`
}

type Log struct {
	Mode string `json:"mode"`
}

type Tracing struct {
	Enabled      bool   `json:"enabled"`
	ServiceName  string `json:"service_name"`
	OTLPEndpoint string `json:"otlp_endpoint"`
	OTLPInsecure bool   `json:"otlp_insecure"`
}

type Config struct {
	Server    Server    `json:"server"`
	Quote     Quote     `json:"quote"`
	Simulator Simulator `json:"simulator"`
	Log       Log       `json:"log"`
	Tracing   Tracing   `json:"tracing"`
}

var defaultCarriers = []string{"carrier1", "carrier2", "carrier3"}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", RequestTimeoutSec: 10},
		Quote: Quote{
			BaseURL:  "http://localhost:8080/api/home/",
			BudgetMS: 2000,
			Carriers: append([]string(nil), defaultCarriers...),
		},
		Simulator: Simulator{Enabled: true},
		Log:       Log{Mode: "dev"},
		Tracing:   Tracing{Enabled: false, ServiceName: "shipquote"},
	}
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"server.port":                "PORT",
	"server.request_timeout_sec": "REQUEST_TIMEOUT_SEC",
	"quote.base_url":             "BASE_URL",
	"quote.budget_ms":            "QUOTE_BUDGET_MS",
	"quote.carriers":             "QUOTE_CARRIERS",
	"simulator.enabled":          "SIMULATOR_ENABLED",
	"log.mode":                   "LOG_MODE",
	"tracing.enabled":            "OTEL_ENABLED",
	"tracing.service_name":       "OTEL_SERVICE_NAME",
	"tracing.otlp_endpoint":      "OTEL_EXPORTER_OTLP_ENDPOINT",
	"tracing.otlp_insecure":      "OTEL_EXPORTER_OTLP_INSECURE",
}

// Load reads JSON config from path. If path is empty it falls back to
// ./config.json when present; a missing file means defaults. Environment
// variables override file values.
func Load(path string) (Config, error) {
	def := Default()
	v := viper.New()
	v.SetConfigType("json")
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.request_timeout_sec", def.Server.RequestTimeoutSec)
	v.SetDefault("quote.base_url", def.Quote.BaseURL)
	v.SetDefault("quote.budget_ms", def.Quote.BudgetMS)
	v.SetDefault("simulator.enabled", def.Simulator.Enabled)
	v.SetDefault("log.mode", def.Log.Mode)
	v.SetDefault("tracing.enabled", def.Tracing.Enabled)
	v.SetDefault("tracing.service_name", def.Tracing.ServiceName)

	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return def, fmt.Errorf("read config: %w", err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return def, fmt.Errorf("read config: %w", err)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return def, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "json"
		dc.WeaklyTypedInput = true
		dc.DecodeHook = mapstructure.StringToSliceHookFunc(",")
	}); err != nil {
		return def, fmt.Errorf("parse config: %w", err)
	}
	cfg.Quote.Carriers = trimAll(cfg.Quote.Carriers)
	if len(cfg.Quote.Carriers) == 0 {
		cfg.Quote.Carriers = append([]string(nil), defaultCarriers...)
	}
	if err := cfg.validate(); err != nil {
		return def, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("config: server.port is required")
	}
	if strings.TrimSpace(c.Quote.BaseURL) == "" {
		return errors.New("config: quote.base_url is required")
	}
	if c.Quote.BudgetMS <= 0 {
		return fmt.Errorf("config: quote.budget_ms must be positive, got %d", c.Quote.BudgetMS)
	}
	for name, ms := range c.Simulator.LatencyMS {
		if ms < 0 {
			return fmt.Errorf("config: simulator.latency_ms[%s] must not be negative", name)
		}
	}
	return nil
}

// Budget is the per-round time budget.
func (c Config) Budget() time.Duration {
	return time.Duration(c.Quote.BudgetMS) * time.Millisecond
}

// RequestTimeout is the outbound HTTP client's hard timeout.
func (c Config) RequestTimeout() time.Duration {
	if c.Server.RequestTimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Server.RequestTimeoutSec) * time.Second
}

// Latency returns the simulated delay configured for carrier name.
func (c Config) Latency(name string) time.Duration {
	return time.Duration(c.Simulator.LatencyMS[strings.ToLower(name)]) * time.Millisecond
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
