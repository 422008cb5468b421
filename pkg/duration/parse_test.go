package duration_test

import (
	"testing"
	"time"

	"github.com/lambdcalculus/pairq/pkg/duration"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		bad  bool
	}{
		{"0", 0, false},
		{"", 0, false},
		{"5s", 5 * time.Second, false},
		{"5h30m", 5*time.Hour + 30*time.Minute, false},
		{"10min", 10 * time.Minute, false},
		{"2d", 2 * duration.Day, false},
		{"1w2d", duration.Week + 2*duration.Day, false},
		{"3M", 3 * duration.Month, false},
		{"1y", duration.Year, false},
		{"-90s", -90 * time.Second, false},
		{"+15m", 15 * time.Minute, false},
		{"5.5h", 0, true},
		{"5", 0, true},
		{"h", 0, true},
		{"5parsecs", 0, true},
	}

	for _, tt := range tests {
		got, err := duration.Parse(tt.in)
		if tt.bad {
			if err == nil {
				t.Errorf("Parse(%q) should have failed, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{5 * time.Second, "5s"},
		{duration.Week + 2*duration.Day + 3*time.Hour, "1w2d3h"},
		{-time.Minute, "-1m"},
	}

	for _, tt := range tests {
		if got := duration.String(tt.in); got != tt.want {
			t.Errorf("String(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
