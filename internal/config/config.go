package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type StateBackend string

const (
	StateBackendBBolt  = StateBackend("bbolt")
	StateBackendSQLite = StateBackend("sqlite")
)

func (b StateBackend) MarshalText() ([]byte, error) {
	return []byte(b), nil
}

func (b *StateBackend) UnmarshalText(d []byte) error {
	switch s := StateBackend(strings.ToLower(strings.TrimSpace(string(d)))); s {
	case "":
		*b = StateBackendBBolt
		return nil
	case StateBackendBBolt, StateBackendSQLite:
		*b = s
		return nil
	default:
		return fmt.Errorf("config.StateBackend.UnmarshalText: unrecognised input %q; valid options are bbolt or sqlite", s)
	}
}

// Duration is a time.Duration read from text such as "250ms".
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*d = 0
		return nil
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config.Duration.UnmarshalText: %w", err)
	}

	*d = Duration(v)

	return nil
}

type Config struct {
	Config               string       `name:"config" toml:"config" yaml:"config" help:"Config file location."`
	LogLevel             logrus.Level `name:"log_level" toml:"log_level" yaml:"log_level" help:"Global log level."`
	LogSORM              bool         `name:"log_sorm" toml:"log_sorm" yaml:"log_sorm" help:"Log SORM queries."`
	LogQueries           bool         `name:"log_queries" toml:"log_queries" yaml:"log_queries" help:"Log SQL statements run against the sqlite state store."`
	LogQueriesSlowerThan Duration     `name:"log_queries_slower_than" toml:"log_queries_slower_than" yaml:"log_queries_slower_than" help:"Only log SQL statements taking at least this long."`
	ApplicationAddr      string       `name:"application_addr" toml:"application_addr" yaml:"application_addr" help:"Address to listen on for application server."`
	ApplicationCachePath string       `name:"application_cache_path" toml:"application_cache_path" yaml:"application_cache_path" help:"Location for HTTP client cache."`
	ApplicationStatePath string       `name:"application_state_path" toml:"application_state_path" yaml:"application_state_path" help:"Location for search history and blocklist storage."`
	StateBackend         StateBackend `name:"state_backend" toml:"state_backend" yaml:"state_backend" help:"Storage engine for history and blocklist (bbolt or sqlite)."`
	APIBaseURL           string       `name:"api_base_url" toml:"api_base_url" yaml:"api_base_url" help:"Base URL of the video API."`
	APIKey               string       `name:"api_key" toml:"api_key" yaml:"api_key" help:"Video API key."`
	APIRequestsPerSecond float64      `name:"api_requests_per_second" toml:"api_requests_per_second" yaml:"api_requests_per_second" help:"Outgoing API request rate limit; 0 disables."`
	DefaultQuery         string       `name:"default_query" toml:"default_query" yaml:"default_query" help:"Query used for the home feed when none is given."`
	CachePruneSchedule   string       `name:"cache_prune_schedule" toml:"cache_prune_schedule" yaml:"cache_prune_schedule" help:"Cron schedule for removing stale cache entries; empty disables."`
}

func (c Config) Validate() error {
	if c.ApplicationAddr == "" {
		return fmt.Errorf("config.Config.Validate: application_addr is required")
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("config.Config.Validate: api_base_url is required")
	}
	if c.LogQueriesSlowerThan < 0 {
		return fmt.Errorf("config.Config.Validate: log_queries_slower_than can not be negative")
	}
	if c.APIRequestsPerSecond < 0 {
		return fmt.Errorf("config.Config.Validate: api_requests_per_second can not be negative")
	}

	return nil
}
