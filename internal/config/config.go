package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/fr0stylo/snapledger/internal/app/extract"
	"github.com/fr0stylo/snapledger/internal/db"
)

type Config struct {
	Environment   string
	Server        ServerConfig
	Database      DatabaseConfig
	Snapshots     SnapshotConfig
	Migration     MigrationConfig
	Notify        NotifyConfig
	Log           LogConfig
	Observability ObservabilityConfig
	// Sources is the adapter registry; empty means the built-in rules.
	Sources []extract.Rule
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Driver    string
	Path      string
	DSN       string
	LogTiming bool
}

type SnapshotConfig struct {
	Root string
}

type MigrationConfig struct {
	BatchSize         int
	SourceConcurrency int
	NormalizeWorkers  int
	CycleTimeoutSec   int
	Schedule          string
	Timezone          string
}

type NotifyConfig struct {
	Sink   string
	Token  string
	Secret string
}

type LogConfig struct {
	Format string
	Level  string
	File   string
}

type ObservabilityConfig struct {
	Enabled           bool
	OTLPEndpoint      string
	OTLPTraceHeaders  map[string]string
	OTLPMetricHeaders map[string]string
	ServiceName       string
	ServiceVer        string
	SamplingRatio     float64
	MetricsConsole    bool
}

// Option adjusts loading.
type Option func(v *viper.Viper)

// WithConfigFile overrides SNAPLEDGER_CONFIG. Blank paths are ignored.
func WithConfigFile(path string) Option {
	return func(v *viper.Viper) {
		if path = strings.TrimSpace(path); path != "" {
			v.Set("snapledger_config", path)
		}
	}
}

func Load(opts ...Option) (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("snapledger_env", "")
	v.SetDefault("app_env", "")
	v.SetDefault("go_env", "")
	v.SetDefault("snapledger_config", "")
	v.SetDefault("snapledger_port", 8080)
	v.SetDefault("snapledger_db_driver", db.DriverSQLite)
	v.SetDefault("snapledger_db_path", "data/snapledger")
	v.SetDefault("snapledger_db_dsn", "")
	v.SetDefault("snapledger_db_timing", false)
	v.SetDefault("snapledger_snapshot_root", "data/snapshots")
	v.SetDefault("snapledger_ingest_batch_size", 200)
	v.SetDefault("snapledger_ingest_source_concurrency", 4)
	v.SetDefault("snapledger_ingest_normalize_workers", 8)
	v.SetDefault("snapledger_cycle_timeout_sec", 300)
	v.SetDefault("snapledger_schedule", "")
	v.SetDefault("snapledger_timezone", "")
	v.SetDefault("snapledger_notify_sink", "")
	v.SetDefault("snapledger_notify_token", "")
	v.SetDefault("snapledger_notify_secret", "")
	v.SetDefault("snapledger_log_format", "")
	v.SetDefault("snapledger_log_level", "info")
	v.SetDefault("snapledger_log_file", "")
	v.SetDefault("snapledger_otel_enabled", false)
	v.SetDefault("otel_exporter_otlp_endpoint", "")
	v.SetDefault("otel_exporter_otlp_headers", "")
	v.SetDefault("otel_exporter_otlp_traces_headers", "")
	v.SetDefault("otel_exporter_otlp_metrics_headers", "")
	v.SetDefault("otel_service_name", "snapledger")
	v.SetDefault("snapledger_service_name", "snapledger")
	v.SetDefault("snapledger_version", "dev")
	v.SetDefault("otel_service_version", "")
	v.SetDefault("snapledger_otel_sampling_ratio", 1.0)
	v.SetDefault("snapledger_otel_metrics_console", false)
	for _, opt := range opts {
		opt(v)
	}

	env := resolveEnvironment(v)
	port := v.GetInt("snapledger_port")
	if port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid SNAPLEDGER_PORT: %d", port)
	}

	driver := strings.ToLower(strings.TrimSpace(v.GetString("snapledger_db_driver")))
	if driver != db.DriverSQLite && driver != db.DriverPostgres {
		return Config{}, fmt.Errorf("invalid SNAPLEDGER_DB_DRIVER: %q", driver)
	}
	dsn := strings.TrimSpace(v.GetString("snapledger_db_dsn"))
	if driver == db.DriverPostgres && dsn == "" {
		return Config{}, fmt.Errorf("SNAPLEDGER_DB_DSN is required for the postgres driver")
	}

	samplingRatio := clampFloat(v.GetFloat64("snapledger_otel_sampling_ratio"), 0, 1)
	cycleTimeout := v.GetInt("snapledger_cycle_timeout_sec")
	if cycleTimeout <= 0 {
		cycleTimeout = 300
	}

	serviceName := strings.TrimSpace(v.GetString("otel_service_name"))
	if serviceName == "" {
		serviceName = strings.TrimSpace(v.GetString("snapledger_service_name"))
	}
	if serviceName == "" {
		serviceName = "snapledger"
	}

	serviceVersion := strings.TrimSpace(v.GetString("snapledger_version"))
	if serviceVersion == "" {
		serviceVersion = strings.TrimSpace(v.GetString("otel_service_version"))
	}
	if serviceVersion == "" {
		serviceVersion = "dev"
	}

	otlpEndpoint := strings.TrimSpace(v.GetString("otel_exporter_otlp_endpoint"))
	otlpCommonHeaders := parseOTLPHeaders(v.GetString("otel_exporter_otlp_headers"))
	otlpTraceHeaders := parseOTLPHeaders(v.GetString("otel_exporter_otlp_traces_headers"))
	otlpMetricHeaders := parseOTLPHeaders(v.GetString("otel_exporter_otlp_metrics_headers"))
	metricsConsole := v.GetBool("snapledger_otel_metrics_console")
	otelEnabled := v.GetBool("snapledger_otel_enabled") || otlpEndpoint != "" || metricsConsole

	sources, err := loadSources(strings.TrimSpace(v.GetString("snapledger_config")))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Environment: env,
		Server:      ServerConfig{Port: port},
		Database: DatabaseConfig{
			Driver:    driver,
			Path:      strings.TrimSpace(v.GetString("snapledger_db_path")),
			DSN:       dsn,
			LogTiming: v.GetBool("snapledger_db_timing"),
		},
		Snapshots: SnapshotConfig{Root: strings.TrimSpace(v.GetString("snapledger_snapshot_root"))},
		Migration: MigrationConfig{
			BatchSize:         clampInt(v.GetInt("snapledger_ingest_batch_size"), 200, 1, 2000),
			SourceConcurrency: clampInt(v.GetInt("snapledger_ingest_source_concurrency"), 4, 1, 64),
			NormalizeWorkers:  clampInt(v.GetInt("snapledger_ingest_normalize_workers"), 8, 1, 128),
			CycleTimeoutSec:   cycleTimeout,
			Schedule:          strings.TrimSpace(v.GetString("snapledger_schedule")),
			Timezone:          strings.TrimSpace(v.GetString("snapledger_timezone")),
		},
		Notify: NotifyConfig{
			Sink:   strings.TrimSpace(v.GetString("snapledger_notify_sink")),
			Token:  strings.TrimSpace(v.GetString("snapledger_notify_token")),
			Secret: strings.TrimSpace(v.GetString("snapledger_notify_secret")),
		},
		Log: LogConfig{
			Format: strings.TrimSpace(v.GetString("snapledger_log_format")),
			Level:  strings.TrimSpace(v.GetString("snapledger_log_level")),
			File:   strings.TrimSpace(v.GetString("snapledger_log_file")),
		},
		Observability: ObservabilityConfig{
			Enabled:           otelEnabled,
			OTLPEndpoint:      otlpEndpoint,
			OTLPTraceHeaders:  mergeHeaderMaps(otlpCommonHeaders, otlpTraceHeaders),
			OTLPMetricHeaders: mergeHeaderMaps(otlpCommonHeaders, otlpMetricHeaders),
			ServiceName:       serviceName,
			ServiceVer:        serviceVersion,
			SamplingRatio:     samplingRatio,
			MetricsConsole:    metricsConsole,
		},
		Sources: sources,
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/snapledger"
	}
	if cfg.Snapshots.Root == "" {
		cfg.Snapshots.Root = "data/snapshots"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
		if cfg.IsLocalDevelopment() {
			cfg.Log.Format = "text"
		}
	}
	return cfg, nil
}

// loadSources reads the optional source registry from a YAML or TOML file.
func loadSources(path string) ([]extract.Rule, error) {
	if path == "" {
		return nil, nil
	}
	file := viper.New()
	file.SetConfigFile(path)
	if err := file.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	var rules []extract.Rule
	if err := file.UnmarshalKey("sources", &rules); err != nil {
		return nil, fmt.Errorf("decode sources from %s: %w", path, err)
	}
	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	return rules, nil
}

// Rules returns the configured registry rules or the built-in ones.
func (c Config) Rules() []extract.Rule {
	if len(c.Sources) == 0 {
		return extract.DefaultRules()
	}
	return c.Sources
}

func (c Config) DatabaseOptions() db.Options {
	return db.Options{Driver: c.Database.Driver, Path: c.Database.Path, DSN: c.Database.DSN}
}

func (c Config) CycleTimeout() time.Duration {
	return time.Duration(c.Migration.CycleTimeoutSec) * time.Second
}

func parseOTLPHeaders(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	out := make(map[string]string)
	for _, part := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func mergeHeaderMaps(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

func clampInt(value, fallback, lo, hi int) int {
	if value <= 0 {
		value = fallback
	}
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

func clampFloat(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

func (c Config) IsLocalDevelopment() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "", "local", "dev", "development", "test":
		return true
	default:
		return false
	}
}

func resolveEnvironment(v *viper.Viper) string {
	for _, key := range []string{"snapledger_env", "app_env", "go_env"} {
		value := strings.TrimSpace(v.GetString(key))
		if value != "" {
			return strings.ToLower(value)
		}
	}
	return ""
}
