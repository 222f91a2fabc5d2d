package calendar

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
)

// isoDurationPattern matches the subset of ISO-8601 durations the
// scheduler's calendars use: PnDTnHnMnS (weeks are expanded to days by
// the caller convention used across the rest of the pack).
var isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// parseISODuration parses a subset of ISO-8601 durations of the form
// "PT1H", "P1DT2H30M", "PT30S", etc.
func parseISODuration(s string) (time.Duration, error) {
	m := isoDurationPattern.FindStringSubmatch(s)
	if m == nil || s == "P" {
		return 0, apperrors.Newf(apperrors.ErrorTypeInvalidData, "invalid ISO-8601 duration %q", s)
	}
	var total time.Duration
	if m[1] != "" {
		days, _ := strconv.Atoi(m[1])
		total += time.Duration(days) * 24 * time.Hour
	}
	if m[2] != "" {
		hours, _ := strconv.Atoi(m[2])
		total += time.Duration(hours) * time.Hour
	}
	if m[3] != "" {
		minutes, _ := strconv.Atoi(m[3])
		total += time.Duration(minutes) * time.Minute
	}
	if m[4] != "" {
		seconds, _ := strconv.Atoi(m[4])
		total += time.Duration(seconds) * time.Second
	}
	if total == 0 {
		return 0, apperrors.Newf(apperrors.ErrorTypeInvalidData, "ISO-8601 duration %q must be positive", s)
	}
	return total, nil
}

// formatISODuration renders d back into the ISO-8601 form parseISODuration
// accepts, used by Calendar.Render for round-tripping.
func formatISODuration(d time.Duration) string {
	if d <= 0 {
		return "PT0S"
	}
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second

	out := "P"
	if days > 0 {
		out += fmt.Sprintf("%dD", days)
	}
	if hours > 0 || minutes > 0 || seconds > 0 {
		out += "T"
		if hours > 0 {
			out += fmt.Sprintf("%dH", hours)
		}
		if minutes > 0 {
			out += fmt.Sprintf("%dM", minutes)
		}
		if seconds > 0 {
			out += fmt.Sprintf("%dS", seconds)
		}
	}
	return out
}
