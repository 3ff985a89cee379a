package products

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing a rental boundary.
var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, time.DateOnly}

// Window is a closed rental interval [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseWindow parses both boundaries and checks that start is not after end.
// Date-only values are midnight UTC.
func ParseWindow(start, end string) (Window, error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return Window{}, ErrRentalDatesRequired
	}
	s, err := parseDate(start)
	if err != nil {
		return Window{}, fmt.Errorf("rentStart: %w", err)
	}
	e, err := parseDate(end)
	if err != nil {
		return Window{}, fmt.Errorf("rentEnd: %w", err)
	}
	w := Window{Start: s, End: e}
	if w.Start.After(w.End) {
		return Window{}, ErrInvalidRentalWindow
	}
	return w, nil
}

func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, v)
}

// Overlaps reports whether w and o share at least one instant. Touching
// boundaries count as overlapping.
func (w Window) Overlaps(o Window) bool {
	return !w.Start.After(o.End) && !w.End.Before(o.Start)
}

func (w Window) String() string {
	return fmt.Sprintf("%s to %s", formatDate(w.Start), formatDate(w.End))
}

func formatDate(t time.Time) string {
	t = t.UTC()
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}
