package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/username/git-overtime-tracker/internal/schedule"
	"github.com/username/git-overtime-tracker/pkg/dateutil"
)

// Config represents application configuration
type Config struct {
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Log      LogConfig      `mapstructure:"log"`
	Store    StoreConfig    `mapstructure:"store"`
}

// ScheduleConfig declares the working-hours policy: a cutover date with a
// legacy window before it, home/office windows keyed by weekday after it,
// and the night window. Weekdays are Sunday=0 .. Saturday=6.
type ScheduleConfig struct {
	CutoverDate string      `mapstructure:"cutover_date"`
	NightStart  string      `mapstructure:"night_start"`
	NightEnd    string      `mapstructure:"night_end"`
	LegacyHours HoursConfig `mapstructure:"legacy_hours"`
	HomeDays    []int       `mapstructure:"home_days"`
	HomeHours   HoursConfig `mapstructure:"home_hours"`
	OfficeDays  []int       `mapstructure:"office_days"`
	OfficeHours HoursConfig `mapstructure:"office_hours"`
}

// HoursConfig is one shift window as four "HH:MM" boundary times.
type HoursConfig struct {
	MorningStart   string `mapstructure:"morning_start"`
	MorningEnd     string `mapstructure:"morning_end"`
	AfternoonStart string `mapstructure:"afternoon_start"`
	AfternoonEnd   string `mapstructure:"afternoon_end"`
}

// ScanConfig represents scan output configuration
type ScanConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// StoreConfig represents the optional scan archive
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// envKeyReplacer maps dotted config keys onto env var names, so
// schedule.night_start becomes OVERTIME_SCHEDULE_NIGHT_START.
var envKeyReplacer = strings.NewReplacer(".", "_")

// envKeys are bound explicitly so a config file is optional: every schedule
// setting can come from OVERTIME_* environment variables (or a .env file).
var envKeys = []string{
	"schedule.cutover_date",
	"schedule.night_start",
	"schedule.night_end",
	"schedule.legacy_hours.morning_start",
	"schedule.legacy_hours.morning_end",
	"schedule.legacy_hours.afternoon_start",
	"schedule.legacy_hours.afternoon_end",
	"schedule.home_days",
	"schedule.home_hours.morning_start",
	"schedule.home_hours.morning_end",
	"schedule.home_hours.afternoon_start",
	"schedule.home_hours.afternoon_end",
	"schedule.office_days",
	"schedule.office_hours.morning_start",
	"schedule.office_hours.morning_end",
	"schedule.office_hours.afternoon_start",
	"schedule.office_hours.afternoon_end",
	"scan.output_dir",
	"log.file",
	"log.level",
	"store.path",
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	// A local .env is honored when present; its absence is not an error.
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.git-overtime")
	}

	v.SetEnvPrefix("OVERTIME")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	v.SetDefault("scan.output_dir", ".")
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		// A config file is optional when a path was not forced; env vars
		// alone can carry the full schedule.
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || configPath != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, weaklyTyped); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// weaklyTyped lets day lists arrive as "4,5" from the environment while
// staying []int in yaml.
func weaklyTyped(dc *mapstructure.DecoderConfig) {
	dc.WeaklyTypedInput = true
}

// Validate validates the configuration. The overtime engine assumes ordered,
// zero-padded windows and never re-checks them, so everything is enforced
// here, once.
func (c *Config) Validate() error {
	s := &c.Schedule

	if _, err := dateutil.ParseDate(s.CutoverDate); err != nil {
		return fmt.Errorf("schedule.cutover_date: %w", err)
	}

	if !dateutil.IsValidClock(s.NightStart) {
		return fmt.Errorf("schedule.night_start must be a zero-padded HH:MM time, got %q", s.NightStart)
	}
	if !dateutil.IsValidClock(s.NightEnd) {
		return fmt.Errorf("schedule.night_end must be a zero-padded HH:MM time, got %q", s.NightEnd)
	}

	windows := []struct {
		name  string
		hours HoursConfig
	}{
		{"schedule.legacy_hours", s.LegacyHours},
		{"schedule.home_hours", s.HomeHours},
		{"schedule.office_hours", s.OfficeHours},
	}
	for _, w := range windows {
		if err := w.hours.validate(); err != nil {
			return fmt.Errorf("%s: %w", w.name, err)
		}
	}

	if err := validateDays("schedule.home_days", s.HomeDays); err != nil {
		return err
	}
	if err := validateDays("schedule.office_days", s.OfficeDays); err != nil {
		return err
	}

	home := make(map[int]bool, len(s.HomeDays))
	for _, d := range s.HomeDays {
		home[d] = true
	}
	for _, d := range s.OfficeDays {
		if home[d] {
			return fmt.Errorf("day %d is in both schedule.home_days and schedule.office_days", d)
		}
	}

	return nil
}

func (h HoursConfig) validate() error {
	boundaries := []struct {
		name  string
		value string
	}{
		{"morning_start", h.MorningStart},
		{"morning_end", h.MorningEnd},
		{"afternoon_start", h.AfternoonStart},
		{"afternoon_end", h.AfternoonEnd},
	}
	for _, b := range boundaries {
		if !dateutil.IsValidClock(b.value) {
			return fmt.Errorf("%s must be a zero-padded HH:MM time, got %q", b.name, b.value)
		}
	}
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i-1].value >= boundaries[i].value {
			return fmt.Errorf("%s (%s) must be before %s (%s)",
				boundaries[i-1].name, boundaries[i-1].value,
				boundaries[i].name, boundaries[i].value)
		}
	}
	return nil
}

func validateDays(name string, days []int) error {
	for _, d := range days {
		if d < 0 || d > 6 {
			return fmt.Errorf("%s: day index %d out of range 0..6", name, d)
		}
	}
	return nil
}

// ToSchedule converts the validated configuration into the schedule the
// overtime engine consumes.
func (c *Config) ToSchedule() (*schedule.Schedule, error) {
	cutover, err := dateutil.ParseDate(c.Schedule.CutoverDate)
	if err != nil {
		return nil, fmt.Errorf("schedule.cutover_date: %w", err)
	}

	return &schedule.Schedule{
		Cutover:    cutover,
		NightStart: c.Schedule.NightStart,
		NightEnd:   c.Schedule.NightEnd,
		Legacy:     c.Schedule.LegacyHours.window(),
		Home:       c.Schedule.HomeHours.window(),
		Office:     c.Schedule.OfficeHours.window(),
		HomeDays:   c.Schedule.HomeDays,
		OfficeDays: c.Schedule.OfficeDays,
	}, nil
}

func (h HoursConfig) window() schedule.Window {
	return schedule.Window{
		MorningStart:   h.MorningStart,
		MorningEnd:     h.MorningEnd,
		AfternoonStart: h.AfternoonStart,
		AfternoonEnd:   h.AfternoonEnd,
	}
}
