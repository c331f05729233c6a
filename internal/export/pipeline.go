package export

import (
	"context"
	"fmt"
	"log/slog"

	"umamiexport/internal/auth"
	"umamiexport/internal/timeframe"
	"umamiexport/internal/umami"
)

// Client is the full API surface the pipeline consumes.
type Client interface {
	auth.API
	PageFetcher
}

// Params configures one pipeline run.
type Params struct {
	Auth      auth.Inputs
	WebsiteID string
	Window    timeframe.Window
	Limit     int
}

// Run executes the whole export: resolve auth, exchange credentials,
// paginate and aggregate. Any fatal error aborts the run; there is no
// partial-result mode.
func Run(ctx context.Context, client Client, logger *slog.Logger, params Params) (Totals, error) {
	if params.Limit <= 0 {
		return nil, fmt.Errorf("page limit must be a positive integer, got %d", params.Limit)
	}
	if err := params.Window.Validate(); err != nil {
		return nil, err
	}

	spec, err := auth.Resolve(params.Auth)
	if err != nil {
		return nil, err
	}
	logger.Debug("auth mode resolved", slog.String("mode", string(spec.Mode)))

	creds, err := auth.Exchange(ctx, client, logger, spec, params.WebsiteID)
	if err != nil {
		return nil, err
	}
	logger.Info("credentials ready",
		slog.String("mode", string(spec.Mode)),
		slog.String("website_id", creds.WebsiteID))

	totals := Totals{}
	err = Paginate(ctx, client, logger, creds, params.Window, params.Limit, func(page []umami.Row) error {
		Accumulate(totals, page)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("export aggregated", slog.Int("paths", len(totals)))
	return totals, nil
}
