package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/teemow/workday/internal/freetime"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the top-level application configuration.
type Config struct {
	// Account selects the stored Google OAuth token.
	Account string `yaml:"account" toml:"account"`
	// Timezone is the IANA zone all timestamps are normalized to. Empty means
	// the local zone.
	Timezone string `yaml:"timezone" toml:"timezone"`

	Calendar  CalendarConfig  `yaml:"calendar" toml:"calendar"`
	Gaps      GapsConfig      `yaml:"gaps" toml:"gaps"`
	Reminders RemindersConfig `yaml:"reminders" toml:"reminders"`
	AutoReply AutoReplyConfig `yaml:"autoreply" toml:"autoreply"`
	Summary   SummaryConfig   `yaml:"summary" toml:"summary"`
	Store     StoreConfig     `yaml:"store" toml:"store"`
	Log       LogConfig       `yaml:"log" toml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry" toml:"telemetry"`
}

// CalendarConfig selects where events come from.
type CalendarConfig struct {
	// Source is "google" or "ics".
	Source     string `yaml:"source" toml:"source"`
	CalendarID string `yaml:"calendar_id" toml:"calendar_id"`
	// ICS lists feed URLs or local file paths. With Source "google" their
	// events are merged with the Google calendar.
	ICS        []string `yaml:"ics" toml:"ics"`
	SkipAllDay bool     `yaml:"skip_all_day" toml:"skip_all_day"`
}

// GapsConfig drives the free-time finder.
type GapsConfig struct {
	WorkStartHour int     `yaml:"work_start_hour" toml:"work_start_hour"`
	WorkEndHour   int     `yaml:"work_end_hour" toml:"work_end_hour"`
	MinGapHours   float64 `yaml:"min_gap_hours" toml:"min_gap_hours"`
	DaysAhead     int     `yaml:"days_ahead" toml:"days_ahead"`
	SkipWeekends  bool    `yaml:"skip_weekends" toml:"skip_weekends"`
	// Strict reports misconfigured work hours as errors instead of days
	// without free time.
	Strict bool `yaml:"strict" toml:"strict"`
}

// RemindersConfig drives the deadline reminder generator.
type RemindersConfig struct {
	Keywords    []string `yaml:"keywords" toml:"keywords"`
	DaysBefore  int      `yaml:"days_before" toml:"days_before"`
	Schedule    string   `yaml:"schedule" toml:"schedule"`
	MaxMessages int      `yaml:"max_messages" toml:"max_messages"`
	TaskList    string   `yaml:"task_list" toml:"task_list"`
	// NotifyEmail receives reminder mails. Empty means the account's own
	// address.
	NotifyEmail string `yaml:"notify_email" toml:"notify_email"`
	// DateOrder resolves ambiguous numeric dates: "mdy" or "dmy".
	DateOrder string `yaml:"date_order" toml:"date_order"`
}

// AutoReplyConfig drives the vacation responder.
type AutoReplyConfig struct {
	Enabled     bool   `yaml:"enabled" toml:"enabled"`
	Schedule    string `yaml:"schedule" toml:"schedule"`
	MaxMessages int    `yaml:"max_messages" toml:"max_messages"`
	// Message is a text/template rendered with .SenderName.
	Message string `yaml:"message" toml:"message"`
}

// SummaryConfig drives meeting summary reports.
type SummaryConfig struct {
	Period    string `yaml:"period" toml:"period"`
	Format    string `yaml:"format" toml:"format"`
	OutputDir string `yaml:"output_dir" toml:"output_dir"`
}

// StoreConfig selects the processed-message store.
type StoreConfig struct {
	// Type is "memory", "sqlite" or "redis".
	Type          string        `yaml:"type" toml:"type"`
	SQLitePath    string        `yaml:"sqlite_path" toml:"sqlite_path"`
	RedisAddr     string        `yaml:"redis_addr" toml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password" toml:"redis_password"`
	RedisDB       int           `yaml:"redis_db" toml:"redis_db"`
	KeyPrefix     string        `yaml:"key_prefix" toml:"key_prefix"`
	// TTL is how long processed keys are kept. Redis expires them, sqlite
	// prunes older rows on start-up.
	TTL time.Duration `yaml:"ttl" toml:"ttl"`
}

// TelemetryConfig configures OpenTelemetry metrics and tracing.
type TelemetryConfig struct {
	Disabled bool `yaml:"disabled" toml:"disabled"`
	// Metrics is "prometheus", "otlp" or "stdout".
	Metrics string `yaml:"metrics" toml:"metrics"`
	// Tracing is "none", "otlp" or "stdout".
	Tracing      string  `yaml:"tracing" toml:"tracing"`
	OTLPEndpoint string  `yaml:"otlp_endpoint" toml:"otlp_endpoint"`
	OTLPInsecure bool    `yaml:"otlp_insecure" toml:"otlp_insecure"`
	SampleRate   float64 `yaml:"sample_rate" toml:"sample_rate"`
	// AccountLabels adds the account to poll and tool metrics.
	AccountLabels bool `yaml:"account_labels" toml:"account_labels"`
	// AuditTools logs one record per MCP tool call.
	AuditTools bool `yaml:"audit_tools" toml:"audit_tools"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// DefaultAutoReplyMessage is the vacation greeting sent when no template is
// configured.
const DefaultAutoReplyMessage = "Greetings {{.SenderName}},\n\n" +
	"Please be advised that your email has been received, however, I'm not available to respond " +
	"at the moment and will do so upon my return. \n\n" +
	"If it's urgent, you're welcome to give me a call.\n\n" +
	"Kindest Regards."

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Account: "default",
		Calendar: CalendarConfig{
			Source:     "google",
			CalendarID: "primary",
		},
		Gaps: GapsConfig{
			WorkStartHour: 8,
			WorkEndHour:   21,
			MinGapHours:   2,
			DaysAhead:     7,
		},
		Reminders: RemindersConfig{
			Keywords:    []string{"deadline", "due", "reminder", "meeting set-up"},
			DaysBefore:  1,
			Schedule:    "@every 5m",
			MaxMessages: 20,
			TaskList:    "@default",
			DateOrder:   "mdy",
		},
		AutoReply: AutoReplyConfig{
			Schedule:    "@every 5m",
			MaxMessages: 20,
			Message:     DefaultAutoReplyMessage,
		},
		Summary: SummaryConfig{
			Period:    "weekly",
			Format:    "pdf",
			OutputDir: ".",
		},
		Store: StoreConfig{
			Type:      "memory",
			KeyPrefix: "workday",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			Metrics:    "prometheus",
			Tracing:    "none",
			SampleRate: 0.1,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/workday/config.yaml or its platform
// equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "workday.yaml"
	}
	return filepath.Join(dir, "workday", "config.yaml")
}

// Normalize fills empty string and list settings with their defaults. Numeric
// settings are left alone because zero can be meaningful.
func (c *Config) Normalize() {
	def := Default()
	if c.Account == "" {
		c.Account = def.Account
	}
	if c.Calendar.Source == "" {
		c.Calendar.Source = def.Calendar.Source
	}
	if c.Calendar.CalendarID == "" {
		c.Calendar.CalendarID = def.Calendar.CalendarID
	}
	if c.Reminders.Keywords == nil {
		c.Reminders.Keywords = def.Reminders.Keywords
	}
	if c.Reminders.Schedule == "" {
		c.Reminders.Schedule = def.Reminders.Schedule
	}
	if c.Reminders.TaskList == "" {
		c.Reminders.TaskList = def.Reminders.TaskList
	}
	if c.Reminders.DateOrder == "" {
		c.Reminders.DateOrder = def.Reminders.DateOrder
	}
	if c.AutoReply.Schedule == "" {
		c.AutoReply.Schedule = def.AutoReply.Schedule
	}
	if strings.TrimSpace(c.AutoReply.Message) == "" {
		c.AutoReply.Message = def.AutoReply.Message
	}
	if c.Summary.Period == "" {
		c.Summary.Period = def.Summary.Period
	}
	if c.Summary.Format == "" {
		c.Summary.Format = def.Summary.Format
	}
	if c.Summary.OutputDir == "" {
		c.Summary.OutputDir = def.Summary.OutputDir
	}
	if c.Store.Type == "" {
		c.Store.Type = def.Store.Type
	}
	if c.Store.KeyPrefix == "" {
		c.Store.KeyPrefix = def.Store.KeyPrefix
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
	if c.Telemetry.Metrics == "" {
		c.Telemetry.Metrics = def.Telemetry.Metrics
	}
	if c.Telemetry.Tracing == "" {
		c.Telemetry.Tracing = def.Telemetry.Tracing
	}
}

// Validate checks the configuration for values no component can work with.
//
// Work hours are only range-checked here. An inverted window is accepted
// unless gaps.strict is set, in which case it is rejected as well.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}

	switch c.Calendar.Source {
	case "google":
	case "ics":
		if len(c.Calendar.ICS) == 0 {
			return fmt.Errorf("%w: calendar.source is ics but calendar.ics is empty", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown calendar.source %q", ErrInvalid, c.Calendar.Source)
	}

	g := c.Gaps
	if g.Strict {
		if err := freetime.ValidateHours(g.WorkStartHour, g.WorkEndHour); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	} else if !inHourRange(g.WorkStartHour) || !inHourRange(g.WorkEndHour) {
		return fmt.Errorf("%w: work hours must be between 0 and 23", ErrInvalid)
	}
	if math.IsNaN(g.MinGapHours) || g.MinGapHours < 0 {
		return fmt.Errorf("%w: gaps.min_gap_hours must be a non-negative number", ErrInvalid)
	}
	if g.DaysAhead < 0 {
		return fmt.Errorf("%w: gaps.days_ahead must not be negative", ErrInvalid)
	}

	if c.Reminders.DaysBefore < 0 {
		return fmt.Errorf("%w: reminders.days_before must not be negative", ErrInvalid)
	}
	switch c.Reminders.DateOrder {
	case "mdy", "dmy":
	default:
		return fmt.Errorf("%w: reminders.date_order must be mdy or dmy, got %q", ErrInvalid, c.Reminders.DateOrder)
	}
	if err := validateSchedule("reminders.schedule", c.Reminders.Schedule); err != nil {
		return err
	}
	if err := validateSchedule("autoreply.schedule", c.AutoReply.Schedule); err != nil {
		return err
	}

	switch c.Summary.Format {
	case "pdf", "html", "text":
	default:
		return fmt.Errorf("%w: summary.format must be pdf, html or text, got %q", ErrInvalid, c.Summary.Format)
	}

	switch c.Store.Type {
	case "memory":
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("%w: store.sqlite_path is required for the sqlite store", ErrInvalid)
		}
	case "redis":
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("%w: store.redis_addr is required for the redis store", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown store.type %q", ErrInvalid, c.Store.Type)
	}

	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q: %w", ErrInvalid, c.Timezone, err)
	}
	return loc, nil
}

// MinGap returns gaps.min_gap_hours as a duration.
func (c *Config) MinGap() time.Duration {
	return freetime.Hours(c.Gaps.MinGapHours)
}

// ApplyEnv overrides settings from WORKDAY_* environment variables and the
// standard OTEL_* variables.
func (c *Config) ApplyEnv() {
	envString("WORKDAY_ACCOUNT", &c.Account)
	envString("WORKDAY_TIMEZONE", &c.Timezone)
	envBool("WORKDAY_AUTOREPLY_ENABLED", &c.AutoReply.Enabled)

	t := &c.Telemetry
	envBool("OTEL_SDK_DISABLED", &t.Disabled)
	envString("WORKDAY_METRICS_EXPORTER", &t.Metrics)
	envString("WORKDAY_TRACING_EXPORTER", &t.Tracing)
	envString("OTEL_EXPORTER_OTLP_ENDPOINT", &t.OTLPEndpoint)
	envBool("OTEL_EXPORTER_OTLP_INSECURE", &t.OTLPInsecure)
	if v := os.Getenv("OTEL_TRACES_SAMPLER_ARG"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			t.SampleRate = f
		}
	}
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// envBool leaves dst alone when the variable is unset or not a boolean.
func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// Load reads the configuration at path. YAML is assumed unless the file
// ends in .toml. Settings missing from the file keep their defaults, and a
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isTOML(path) {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config %s: %w", path, err)
		}
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes cfg to path atomically with 0600 permissions, in the format
// implied by the file extension.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	if isTOML(path) {
		var sb strings.Builder
		if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode TOML config: %w", err)
		}
		data = []byte(sb.String())
	} else {
		var err error
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode YAML config: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".workday-config-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp config file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp config file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func inHourRange(h int) bool {
	return h >= 0 && h <= 23
}

func validateSchedule(field, spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("%w: %s %q: %w", ErrInvalid, field, spec, err)
	}
	return nil
}
