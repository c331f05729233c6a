package timeframe

import (
	"fmt"
	"strconv"
	"time"
)

// defaultWindowDays is how far back the window reaches when no start is given.
const defaultWindowDays = 30

type ParserParams struct {
	StartAt string
	EndAt   string
	Tz      string
}

// Parser resolves start/end strings against a timezone and a clock.
type Parser struct {
	timeProvider TimeProvider
}

func NewParser(timeProvider ...TimeProvider) *Parser {
	var provider TimeProvider = DefaultTimeProvider{}
	if len(timeProvider) > 0 && timeProvider[0] != nil {
		provider = timeProvider[0]
	}
	return &Parser{timeProvider: provider}
}

// Parse builds the export window. Each bound accepts either epoch
// milliseconds or a "2006-01-02" date interpreted in params.Tz; a date used
// as the end bound means end of that day. Missing end defaults to now,
// missing start to 30 days before the end.
func (p *Parser) Parse(params ParserParams) (Window, error) {
	tz := params.Tz
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Window{}, fmt.Errorf("error loading timezone: %w", err)
	}

	now := p.timeProvider.Now(loc)

	end, err := p.parseBound(params.EndAt, now, loc, true)
	if err != nil {
		return Window{}, fmt.Errorf("invalid end of window: %w", err)
	}

	defaultStart := end.AddDate(0, 0, -defaultWindowDays)
	start, err := p.parseBound(params.StartAt, defaultStart, loc, false)
	if err != nil {
		return Window{}, fmt.Errorf("invalid start of window: %w", err)
	}

	w := Window{StartAt: start.UnixMilli(), EndAt: end.UnixMilli()}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

func (p *Parser) parseBound(value string, fallback time.Time, loc *time.Location, isEnd bool) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}

	// Epoch milliseconds pass through unchanged.
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		if ms < 0 {
			return time.Time{}, fmt.Errorf("negative epoch value %q", value)
		}
		return time.UnixMilli(ms), nil
	}

	date, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected epoch milliseconds or YYYY-MM-DD, got %q", value)
	}
	if isEnd {
		// An end date means the whole day is included.
		return time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 999000000, loc), nil
	}
	return date, nil
}
