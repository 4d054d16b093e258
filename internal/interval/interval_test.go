package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fleetbook/internal/errors"
)

func mustNew(t *testing.T, start, end time.Time) Interval {
	t.Helper()
	iv, err := New(start, end)
	require.NoError(t, err)
	return iv
}

func TestNewRejectsDegenerateRanges(t *testing.T) {
	at := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)

	_, err := New(at, at)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInterval), "zero length")

	_, err = New(at.Add(time.Hour), at)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInterval), "inverted")

	_, err = New(at, at.Add(time.Nanosecond))
	assert.NoError(t, err, "any positive length is valid")
}

func TestNewNormalizesToUTC(t *testing.T) {
	rome := time.FixedZone("CET", 3600)
	iv := mustNew(t,
		time.Date(2026, time.March, 10, 11, 0, 0, 0, rome),
		time.Date(2026, time.March, 10, 13, 0, 0, 0, rome))

	assert.Equal(t, time.UTC, iv.Start.Location())
	assert.Equal(t, time.UTC, iv.End.Location())
	assert.Equal(t, 10, iv.Start.Hour())
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)
	h := func(offset, length int) Interval {
		return mustNew(t, base.Add(time.Duration(offset)*time.Hour), base.Add(time.Duration(offset+length)*time.Hour))
	}

	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", h(0, 2), h(0, 2), true},
		{"contained", h(0, 4), h(1, 1), true},
		{"partial", h(0, 2), h(1, 2), true},
		{"touching ends", h(0, 2), h(2, 2), false},
		{"disjoint", h(0, 1), h(3, 1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a), "overlap must be symmetric")
		})
	}
}

func TestSelfOverlap(t *testing.T) {
	base := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)
	iv := mustNew(t, base, base.Add(time.Hour))
	assert.True(t, iv.Overlaps(iv))
}

func TestContainsHalfOpen(t *testing.T) {
	base := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)
	iv := mustNew(t, base, base.Add(time.Hour))

	assert.True(t, iv.Contains(base), "start is included")
	assert.True(t, iv.Contains(base.Add(30*time.Minute)))
	assert.False(t, iv.Contains(base.Add(time.Hour)), "end is excluded")
	assert.False(t, iv.Contains(base.Add(-time.Second)))
}

func TestFromStrings(t *testing.T) {
	iv, err := FromStrings("2026-03-10T10:00:00Z", "2026-03-10T13:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, iv.Duration(), "offsets are normalized before comparison")

	_, err = FromStrings("2026-03-10", "2026-03-11T00:00:00Z")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInterval))
}

func TestParseMonth(t *testing.T) {
	iv, err := ParseMonth("2026-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), iv.Start)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), iv.End)

	// December rolls into the next year.
	iv, err = ParseMonth("2026-12")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), iv.End)

	for _, bad := range []string{"", "2026", "2026-13", "March 2026"} {
		_, err := ParseMonth(bad)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInterval), "input %q", bad)
	}
}
