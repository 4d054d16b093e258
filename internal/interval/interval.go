package interval

import (
	"fmt"
	"time"

	apperrors "fleetbook/internal/errors"
)

// Interval is a half-open time range [Start, End): the start instant is
// included, the end instant is not. Both bounds are held in UTC.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// New normalizes both instants to UTC and rejects degenerate or inverted
// ranges with an INVALID_INTERVAL error.
func New(start, end time.Time) (Interval, error) {
	start = start.UTC()
	end = end.UTC()
	if !end.After(start) {
		return Interval{}, apperrors.InvalidInterval("ends_at must be after starts_at")
	}
	return Interval{Start: start, End: end}, nil
}

// FromStrings builds an interval from two RFC 3339 timestamps, as received
// in query parameters.
func FromStrings(from, to string) (Interval, error) {
	start, err := time.Parse(time.RFC3339, from)
	if err != nil {
		return Interval{}, apperrors.InvalidInterval("from must be an RFC 3339 timestamp")
	}
	end, err := time.Parse(time.RFC3339, to)
	if err != nil {
		return Interval{}, apperrors.InvalidInterval("to must be an RFC 3339 timestamp")
	}
	return New(start, end)
}

// ParseMonth turns a "YYYY-MM" string into the interval covering that
// calendar month in UTC.
func ParseMonth(s string) (Interval, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Interval{}, apperrors.InvalidInterval("month must be YYYY-MM")
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Interval{Start: start, End: start.AddDate(0, 1, 0)}, nil
}

// Overlaps reports whether the two half-open intervals share any instant.
// An interval ending exactly when another begins does not overlap it.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether t falls within the interval.
func (iv Interval) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(iv.Start) && t.Before(iv.End)
}

func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%s, %s)", iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339))
}
