package products

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestWindowOverlaps(t *testing.T) {
	existing := Window{Start: day(10), End: day(15)}

	tests := []struct {
		name string
		req  Window
		want bool
	}{
		{"entirely before", Window{day(1), day(9)}, false},
		{"entirely after", Window{day(16), day(20)}, false},
		{"ends on existing start", Window{day(5), day(10)}, true},
		{"starts on existing end", Window{day(15), day(18)}, true},
		{"start inside", Window{day(12), day(20)}, true},
		{"end inside", Window{day(1), day(11)}, true},
		{"contains existing", Window{day(1), day(30)}, true},
		{"inside existing", Window{day(11), day(12)}, true},
		{"identical", existing, true},
		{"single day before", Window{day(9), day(9)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.Overlaps(existing))
			assert.Equal(t, tt.want, existing.Overlaps(tt.req), "overlap must be symmetric")
		})
	}
}

func TestWindowOverlapsEveryDayPair(t *testing.T) {
	const existingStart, existingEnd = 10, 15
	existing := Window{Start: day(existingStart), End: day(existingEnd)}
	for s := 1; s <= 28; s++ {
		for e := s; e <= 28; e++ {
			startInside := s >= existingStart && s <= existingEnd
			endInside := e >= existingStart && e <= existingEnd
			contains := s <= existingStart && e >= existingEnd
			want := startInside || endInside || contains

			req := Window{Start: day(s), End: day(e)}
			require.Equal(t, want, req.Overlaps(existing), "request %d..%d", s, e)
		}
	}
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("2025-03-01", "2025-03-05")
	require.NoError(t, err)
	assert.Equal(t, day(1), w.Start)
	assert.Equal(t, day(5), w.End)
	assert.Equal(t, "2025-03-01 to 2025-03-05", w.String())

	w, err = ParseWindow("2025-03-01T10:00:00+02:00", "2025-03-01T12:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, "2025-03-01T08:00:00Z to 2025-03-01T12:00:00Z", w.String())

	_, err = ParseWindow("", "2025-03-05")
	assert.ErrorIs(t, err, ErrRentalDatesRequired)

	_, err = ParseWindow("2025-03-06", "2025-03-05")
	assert.ErrorIs(t, err, ErrInvalidRentalWindow)

	_, err = ParseWindow("03/01/2025", "2025-03-05")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
