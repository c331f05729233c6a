package timeframe_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umamiexport/internal/timeframe"
)

// fixedTimeProvider pins "now" for deterministic defaults
type fixedTimeProvider struct {
	now time.Time
}

func (p fixedTimeProvider) Now(loc *time.Location) time.Time {
	return p.now.In(loc)
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func TestParseEpochMilliseconds(t *testing.T) {
	parser := timeframe.NewParser(fixedTimeProvider{now: fixedNow()})

	window, err := parser.Parse(timeframe.ParserParams{
		StartAt: "1000",
		EndAt:   "2000",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), window.StartAt)
	assert.Equal(t, int64(2000), window.EndAt)
}

func TestParseDates(t *testing.T) {
	parser := timeframe.NewParser(fixedTimeProvider{now: fixedNow()})

	window, err := parser.Parse(timeframe.ParserParams{
		StartAt: "2025-06-01",
		EndAt:   "2025-06-10",
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), window.StartAt)
	// An end date includes the whole day.
	assert.Equal(t, time.Date(2025, 6, 10, 23, 59, 59, 999000000, time.UTC).UnixMilli(), window.EndAt)
}

func TestParseDatesInTimezone(t *testing.T) {
	parser := timeframe.NewParser(fixedTimeProvider{now: fixedNow()})

	utc, err := parser.Parse(timeframe.ParserParams{StartAt: "2025-06-01", EndAt: "2025-06-10"})
	require.NoError(t, err)

	berlin, err := parser.Parse(timeframe.ParserParams{StartAt: "2025-06-01", EndAt: "2025-06-10", Tz: "Europe/Berlin"})
	require.NoError(t, err)

	// Berlin midnight is two hours before UTC midnight in June.
	assert.Equal(t, utc.StartAt-2*time.Hour.Milliseconds(), berlin.StartAt)
}

func TestParseDefaults(t *testing.T) {
	now := fixedNow()
	parser := timeframe.NewParser(fixedTimeProvider{now: now})

	window, err := parser.Parse(timeframe.ParserParams{})
	require.NoError(t, err)

	assert.Equal(t, now.UnixMilli(), window.EndAt)
	assert.Equal(t, now.AddDate(0, 0, -30).UnixMilli(), window.StartAt)
}

func TestParseRejectsInvertedWindow(t *testing.T) {
	parser := timeframe.NewParser(fixedTimeProvider{now: fixedNow()})

	_, err := parser.Parse(timeframe.ParserParams{StartAt: "2000", EndAt: "1000"})
	assert.ErrorContains(t, err, "not before")

	_, err = parser.Parse(timeframe.ParserParams{StartAt: "1000", EndAt: "1000"})
	assert.ErrorContains(t, err, "not before")
}

func TestParseRejectsGarbage(t *testing.T) {
	parser := timeframe.NewParser(fixedTimeProvider{now: fixedNow()})

	_, err := parser.Parse(timeframe.ParserParams{StartAt: "yesterday"})
	assert.ErrorContains(t, err, "invalid start of window")

	_, err = parser.Parse(timeframe.ParserParams{EndAt: "-5"})
	assert.ErrorContains(t, err, "invalid end of window")

	_, err = parser.Parse(timeframe.ParserParams{Tz: "Mars/Olympus"})
	assert.ErrorContains(t, err, "timezone")
}
