package dateutil

import (
	"testing"
	"time"
)

func TestClockMinutes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"midnight", "00:00", 0},
		{"one minute past midnight", "00:01", 1},
		{"morning", "08:30", 510},
		{"last minute of day", "23:59", 1439},
		{"night window start", "22:00", 1320},
		{"not zero-padded", "8:30", -1},
		{"garbage", "abcde", -1},
		{"empty", "", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClockMinutes(tt.input)

			if result != tt.want {
				t.Errorf("ClockMinutes(%q) = %v, want %v", tt.input, result, tt.want)
			}
		})
	}
}

func TestMinutesBetween(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want int
	}{
		{"night start to last minute", "22:00", "23:59", 119},
		{"midnight to early morning", "00:00", "02:30", 150},
		{"same time", "12:00", "12:00", 0},
		{"backwards is negative", "13:30", "13:15", -15},
		{"full workday morning", "08:30", "12:30", 240},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MinutesBetween(tt.from, tt.to)

			if result != tt.want {
				t.Errorf("MinutesBetween(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.want)
			}
		})
	}
}

func TestIsValidClock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid morning", "09:00", true},
		{"valid midnight", "00:00", true},
		{"valid last minute", "23:59", true},
		{"missing zero padding", "9:00", false},
		{"hour out of range", "24:00", false},
		{"minute out of range", "12:60", false},
		{"wrong separator", "12-30", false},
		{"too long", "12:30:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidClock(tt.input)

			if result != tt.want {
				t.Errorf("IsValidClock(%q) = %v, want %v", tt.input, result, tt.want)
			}
		})
	}
}

func TestDayIndex(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
		want  int
	}{
		{"Sunday is 0", time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC), 0},
		{"Monday is 1", time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC), 1},
		{"Thursday is 4", time.Date(2025, 5, 8, 0, 0, 0, 0, time.UTC), 4},
		{"Saturday is 6", time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DayIndex(tt.input)

			if result != tt.want {
				t.Errorf("DayIndex(%v) = %v, want %v",
					tt.input.Format("2006-01-02 Mon"), result, tt.want)
			}
		})
	}
}

func TestIsSaturdayIsSunday(t *testing.T) {
	saturday := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)

	if !IsSaturday(saturday) || IsSaturday(sunday) || IsSaturday(monday) {
		t.Errorf("IsSaturday misclassified one of %v, %v, %v", saturday, sunday, monday)
	}
	if !IsSunday(sunday) || IsSunday(saturday) || IsSunday(monday) {
		t.Errorf("IsSunday misclassified one of %v, %v, %v", saturday, sunday, monday)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			"ISO format",
			"2025-05-05",
			time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC),
			false,
		},
		{
			"surrounding whitespace",
			" 2025-05-05 ",
			time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC),
			false,
		},
		{
			"wrong format",
			"05.05.2025",
			time.Time{},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDate(tt.input)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}

			if !tt.wantErr && !result.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, result, tt.want)
			}
		})
	}
}

func TestFormatDateRoundTrip(t *testing.T) {
	date := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	formatted := FormatDate(date)

	if formatted != "2025-05-10" {
		t.Errorf("FormatDate(%v) = %q, want %q", date, formatted, "2025-05-10")
	}

	parsed, err := ParseDate(formatted)
	if err != nil {
		t.Fatalf("ParseDate(%q) unexpected error: %v", formatted, err)
	}
	if !parsed.Equal(date) {
		t.Errorf("round trip changed date: got %v, want %v", parsed, date)
	}
}
