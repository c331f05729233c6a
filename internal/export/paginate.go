package export

import (
	"context"
	"log/slog"

	"umamiexport/internal/auth"
	"umamiexport/internal/timeframe"
	"umamiexport/internal/umami"
)

// PageFetcher is the one call the pagination loop needs from the API client.
type PageFetcher interface {
	MetricsPage(ctx context.Context, websiteID string, headers map[string]string, startAt, endAt int64, limit, offset int) ([]umami.Row, error)
}

// Paginate walks the offset/limit cursor from zero and hands every
// non-empty page to visit. An empty page is the only terminal condition:
// the server carries no total-row hint, and no maximum page count is
// imposed. That makes iteration unbounded against a server that never
// returns an empty page, a deliberate trade-off since the server is
// trusted to report a bounded window. Any fetch or visit error stops the
// walk immediately.
func Paginate(ctx context.Context, fetcher PageFetcher, logger *slog.Logger, creds auth.Credentials, window timeframe.Window, limit int, visit func(page []umami.Row) error) error {
	offset := 0
	for {
		page, err := fetcher.MetricsPage(ctx, creds.WebsiteID, creds.Headers, window.StartAt, window.EndAt, limit, offset)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}
		logger.Debug("fetched metrics page",
			slog.Int("offset", offset),
			slog.Int("rows", len(page)))
		if err := visit(page); err != nil {
			return err
		}
		offset += limit
	}
}
