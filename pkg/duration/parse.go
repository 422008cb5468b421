// Package `duration` provides parsing of durations that includes days,
// weeks, months and years, used for the retention settings in configs.
package duration

import (
	"fmt"
	"strconv"
	"time"
)

const (
	Day   = 24 * time.Hour
	Week  = 7 * Day
	Month = 30 * Day
	Year  = 365 * Day
)

var unitMap = map[string]uint64{
	"ns":  uint64(time.Nanosecond),
	"us":  uint64(time.Microsecond),
	"ms":  uint64(time.Millisecond),
	"s":   uint64(time.Second),
	"m":   uint64(time.Minute),
	"min": uint64(time.Minute),
	"h":   uint64(time.Hour),
	"d":   uint64(Day),
	"w":   uint64(Week),
	"M":   uint64(Month),
	"y":   uint64(Year),
}

// Parse parses a string into a duration. Unlike [time.ParseDuration], we
// don't deal with floats, so strings like "5h30m" are allowed but not
// "5.5h". We also add "d" for days, "w" for weeks, "M" for months and "y"
// for years; "min" can be used for minutes.
func Parse(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}

	var neg bool
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		s = s[1:]
	}

	var accum int64
	for s != "" {
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 {
			return 0, fmt.Errorf("Invalid character: %s", s[:1])
		}
		val, _ := strconv.Atoi(s[:i])
		s = s[i:]

		i = 0
		for i < len(s) && (s[i] < '0' || s[i] > '9') {
			i++
		}
		if i == 0 {
			return 0, fmt.Errorf("Missing unit for number %v", val)
		}
		u, ok := unitMap[s[:i]]
		if !ok {
			return 0, fmt.Errorf("bad unit: %v", s[:i])
		}
		s = s[i:]

		accum += int64(val) * int64(u)
	}
	if neg {
		accum = -accum
	}

	return time.Duration(accum), nil
}

// String returns a string representation of the duration using the largest
// units that fit, e.g. "1w2d3h".
func String(d time.Duration) string {
	if d == 0 {
		return "0s"
	}

	u := uint64(d)
	var out string
	if d < 0 {
		u = -u
		out = "-"
	}

	for _, unit := range []string{"y", "M", "w", "d", "h", "m", "s", "ms", "us", "ns"} {
		if u == 0 {
			break
		}
		size := unitMap[unit]
		if q := u / size; q != 0 {
			out += strconv.FormatUint(q, 10) + unit
			u -= q * size
		}
	}
	return out
}
