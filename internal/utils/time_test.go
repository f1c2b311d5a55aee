package utils

import (
	"testing"
	"time"
	_ "time/tzdata"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: ""},
		{name: "Local returns local", timezone: "Local"},
		{name: "valid timezone UTC", timezone: "UTC"},
		{name: "valid timezone America/New_York", timezone: "America/New_York"},
		{name: "valid timezone Asia/Tokyo", timezone: "Asia/Tokyo"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestAddCalendarDaysAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	// DST starts 2024-03-10 in New York.
	start := time.Date(2024, 3, 8, 9, 0, 0, 0, ny)
	got := AddCalendarDays(start, 3, ny)
	want := time.Date(2024, 3, 11, 9, 0, 0, 0, ny)
	if !got.Equal(want) {
		t.Errorf("AddCalendarDays() = %v, want %v", got, want)
	}
	if elapsed := got.Sub(start); elapsed != 71*time.Hour {
		t.Errorf("elapsed = %v, want 71h across spring forward", elapsed)
	}
}

func TestCalendarDaysBetween(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{
			name: "same day different times",
			a:    time.Date(2024, 5, 1, 8, 0, 0, 0, ny),
			b:    time.Date(2024, 5, 1, 22, 0, 0, 0, ny),
			want: 0,
		},
		{
			name: "late night to early morning",
			a:    time.Date(2024, 5, 1, 23, 0, 0, 0, ny),
			b:    time.Date(2024, 5, 2, 1, 0, 0, 0, ny),
			want: 1,
		},
		{
			name: "across spring forward",
			a:    time.Date(2024, 3, 9, 12, 0, 0, 0, ny),
			b:    time.Date(2024, 3, 12, 12, 0, 0, 0, ny),
			want: 3,
		},
		{
			name: "negative when b is earlier",
			a:    time.Date(2024, 5, 3, 12, 0, 0, 0, ny),
			b:    time.Date(2024, 5, 1, 12, 0, 0, 0, ny),
			want: -2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalendarDaysBetween(tt.a, tt.b, ny); got != tt.want {
				t.Errorf("CalendarDaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseDateTimeInLocation(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{name: "date only", value: "2024-06-01", want: time.Date(2024, 6, 1, 0, 0, 0, 0, loc)},
		{name: "date and time", value: "2024-06-01 07:30", want: time.Date(2024, 6, 1, 7, 30, 0, 0, loc)},
		{name: "rfc3339", value: "2024-06-01T07:30:00Z", want: time.Date(2024, 6, 1, 7, 30, 0, 0, loc)},
		{name: "garbage", value: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateTimeInLocation(tt.value, loc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDateTimeInLocation() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseDateTimeInLocation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAtTimeOfDay(t *testing.T) {
	base := time.Date(2024, 6, 1, 17, 45, 0, 0, time.UTC)
	got, err := AtTimeOfDay(base, "09:00", time.UTC)
	if err != nil {
		t.Fatalf("AtTimeOfDay() error = %v", err)
	}
	if want := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("AtTimeOfDay() = %v, want %v", got, want)
	}
	if _, err := AtTimeOfDay(base, "9am", time.UTC); err == nil {
		t.Error("expected error for malformed time")
	}
}

func TestValidateTimezone(t *testing.T) {
	for tz, want := range map[string]bool{"": true, "Local": true, "Europe/Madrid": true, "Mars/Olympus": false} {
		if got := ValidateTimezone(tz); got != want {
			t.Errorf("ValidateTimezone(%q) = %v, want %v", tz, got, want)
		}
	}
}
