// Package timespan implements the token lifetime grammar: a bare number is
// whole seconds, otherwise a digit run followed by a single unit letter
// (s, m, h, d). It is deliberately stricter than time.ParseDuration: no
// fractions, no negatives, no compound values like "1h30m".
package timespan

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	Second int64 = 1
	Minute int64 = 60
	Hour   int64 = 3600
	Day    int64 = 86400
)

// Parse converts a lifetime spec into seconds. Accepted forms are "900"
// (seconds), "30s", "15m", "2h" and "7d". Everything else is an error,
// including the empty string and negative or fractional values.
func Parse(spec string) (int64, error) {
	if spec == "" {
		return 0, fmt.Errorf("timespan: empty spec")
	}

	unit := Second
	digits := spec
	switch spec[len(spec)-1] {
	case 's':
		digits = spec[:len(spec)-1]
	case 'm':
		unit = Minute
		digits = spec[:len(spec)-1]
	case 'h':
		unit = Hour
		digits = spec[:len(spec)-1]
	case 'd':
		unit = Day
		digits = spec[:len(spec)-1]
	}

	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return 0, fmt.Errorf("timespan: invalid spec %q", spec)
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("timespan: invalid spec %q: %w", spec, err)
	}
	return n * unit, nil
}

// Render writes seconds back as a spec string using the largest unit that
// divides the value evenly: days, then hours, then minutes. Values that
// don't fit a whole unit come back as a bare seconds string. The invariant
// is Parse(Render(n)) == n for every non-negative n.
func Render(seconds int64) string {
	switch {
	case seconds >= Day && seconds%Day == 0:
		return strconv.FormatInt(seconds/Day, 10) + "d"
	case seconds >= Hour && seconds%Hour == 0:
		return strconv.FormatInt(seconds/Hour, 10) + "h"
	case seconds >= Minute && seconds%Minute == 0:
		return strconv.FormatInt(seconds/Minute, 10) + "m"
	default:
		return strconv.FormatInt(seconds, 10)
	}
}
