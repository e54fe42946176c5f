// Package duration converts ISO-8601 durations ("PT1H30M", "P1DT30M") into
// whole minutes and human-readable strings.
package duration

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dtnitsch/recipe-extractor/models"
)

var isoDuration = regexp.MustCompile(`(?i)^P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// Minutes per unit, indexed like the capture groups of isoDuration.
// Years and months are approximations; seconds are floored separately.
var unitMinutes = [...]int64{
	525600, // Y
	43800,  // M
	10080,  // W
	1440,   // D
	60,     // H
	1,      // M
}

// ParseMinutes returns the total whole minutes of an ISO-8601 duration.
// Seconds are floored. The second return value is false when the string is
// not a duration or evaluates to zero minutes.
func ParseMinutes(value string) (int, bool) {
	m := isoDuration.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0, false
	}

	var total int64
	for i, factor := range unitMinutes {
		n, ok := component(m[i+1])
		if !ok || n > (math.MaxInt32-total)/factor {
			return 0, false
		}
		total += n * factor
	}

	secs, ok := component(m[7])
	if !ok {
		return 0, false
	}
	total += secs / 60
	if total <= 0 || total > math.MaxInt32 {
		return 0, false
	}
	return int(total), true
}

func component(s string) (int64, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatMinutes renders minutes as "1 hr 30 mins", omitting zero parts and
// pluralizing everything except exactly 1. A non-positive value renders as
// "0 mins" when keepZero is set and as "" otherwise.
func FormatMinutes(minutes int, keepZero bool) string {
	if minutes <= 0 {
		if keepZero {
			return "0 mins"
		}
		return ""
	}

	var parts []string
	if h := minutes / 60; h > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", h, plural(h, "hr")))
	}
	if m := minutes % 60; m > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", m, plural(m, "min")))
	}
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

// Parse converts an ISO-8601 duration into a models.Duration. Unparseable
// or zero-length durations report false.
func Parse(value string) (models.Duration, bool) {
	minutes, ok := ParseMinutes(value)
	if !ok {
		return models.Duration{}, false
	}
	return models.Duration{
		Minutes: minutes,
		Display: FormatMinutes(minutes, false),
	}, true
}
