package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `schedule:
  cutover_date: "2024-02-01"
  night_start: "22:00"
  night_end: "04:00"
  legacy_hours:
    morning_start: "09:00"
    morning_end: "12:00"
    afternoon_start: "14:00"
    afternoon_end: "18:00"
  home_days: [4, 5]
  home_hours:
    morning_start: "08:30"
    morning_end: "12:00"
    afternoon_start: "14:00"
    afternoon_end: "17:30"
  office_days: [1, 2, 3]
  office_hours:
    morning_start: "08:30"
    morning_end: "12:30"
    afternoon_start: "13:30"
    afternoon_end: "16:30"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "2024-02-01", cfg.Schedule.CutoverDate)
	assert.Equal(t, "22:00", cfg.Schedule.NightStart)
	assert.Equal(t, []int{4, 5}, cfg.Schedule.HomeDays)
	assert.Equal(t, "08:30", cfg.Schedule.OfficeHours.MorningStart)
	assert.Equal(t, ".", cfg.Scan.OutputDir, "default applies")
	assert.Equal(t, "info", cfg.Log.Level, "default applies")
}

func TestLoadMissingForcedFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("OVERTIME_SCHEDULE_NIGHT_START", "23:00")
	t.Setenv("OVERTIME_SCAN_OUTPUT_DIR", "/tmp/reports")

	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "23:00", cfg.Schedule.NightStart)
	assert.Equal(t, "/tmp/reports", cfg.Scan.OutputDir)
}

func TestLoadEnvDayList(t *testing.T) {
	t.Setenv("OVERTIME_SCHEDULE_HOME_DAYS", "2,3")

	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, []int{2, 3}, cfg.Schedule.HomeDays)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(writeConfig(t, validYAML))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad cutover date",
			mutate:  func(c *Config) { c.Schedule.CutoverDate = "01.02.2024" },
			wantErr: "cutover_date",
		},
		{
			name:    "night start not zero padded",
			mutate:  func(c *Config) { c.Schedule.NightStart = "9:00" },
			wantErr: "night_start",
		},
		{
			name:    "window out of order",
			mutate:  func(c *Config) { c.Schedule.OfficeHours.MorningEnd = "08:00" },
			wantErr: "must be before",
		},
		{
			name:    "morning end equals afternoon start",
			mutate:  func(c *Config) { c.Schedule.HomeHours.AfternoonStart = "12:00" },
			wantErr: "must be before",
		},
		{
			name:    "day index out of range",
			mutate:  func(c *Config) { c.Schedule.OfficeDays = []int{1, 7} },
			wantErr: "out of range",
		},
		{
			name:    "overlapping day sets",
			mutate:  func(c *Config) { c.Schedule.OfficeDays = []int{1, 4} },
			wantErr: "both",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestToSchedule(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	s, err := cfg.ToSchedule()
	require.NoError(t, err)

	assert.Equal(t, "2024-02-01", s.Cutover.Format("2006-01-02"))
	assert.Equal(t, "22:00", s.NightStart)
	assert.Equal(t, "04:00", s.NightEnd)
	assert.Equal(t, "09:00", s.Legacy.MorningStart)
	assert.Equal(t, "17:30", s.Home.AfternoonEnd)
	assert.Equal(t, []int{1, 2, 3}, s.OfficeDays)
}
