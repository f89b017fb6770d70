package wage

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PARSING
// =============================================================================

// clockInputLayout accepts one- or two-digit hours and minutes ("9:5").
const clockInputLayout = "15:4"

// ParseClock parses an H:M time of day and returns its offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse(clockInputLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// FormatClock renders an offset from midnight as HH:MM.
func FormatClock(d time.Duration) string {
	return time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).Add(d).Format(ClockLayout)
}

// ParseDate parses a YYYY-MM-DD collection key.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// IsRestDay reports whether date falls on the rest day.
// A malformed date is not a rest day.
func IsRestDay(date string) bool {
	t, err := ParseDate(date)
	if err != nil {
		return false
	}
	return t.Weekday() == RestDay
}

// =============================================================================
// SPLIT - raw regular/overtime partition of a shift
// =============================================================================

// Split partitions the elapsed time of a shift, before recess.
type Split struct {
	Raw      time.Duration
	Regular  time.Duration
	Overtime time.Duration
}

// ElapsedSplit splits the shift in..out around the overtime threshold.
// Malformed times yield a zero Split.
func ElapsedSplit(in, out string, restDay bool) Split {
	inAt, err := ParseClock(in)
	if err != nil {
		return Split{}
	}
	outAt, err := ParseClock(out)
	if err != nil {
		return Split{}
	}
	return SplitShift(inAt, outAt, restDay)
}

// SplitShift splits a shift given as offsets from midnight of the start day.
// An out time earlier than the in time ends on the next day.
func SplitShift(in, out time.Duration, restDay bool) Split {
	if out < in {
		out += 24 * time.Hour
	}
	raw := out - in

	switch {
	case restDay:
		return Split{Raw: raw, Overtime: raw}
	case out <= OvertimeThreshold:
		return Split{Raw: raw, Regular: raw}
	case in >= OvertimeThreshold:
		return Split{Raw: raw, Overtime: raw}
	default:
		return Split{
			Raw:      raw,
			Regular:  OvertimeThreshold - in,
			Overtime: out - OvertimeThreshold,
		}
	}
}

var minutesPerHour = decimal.NewFromInt(60)

// Hours converts a whole-minute duration to decimal hours.
func Hours(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d / time.Minute)).Div(minutesPerHour)
}
