// Package export runs the export pipeline: paginate the metrics endpoint,
// fold rows into per-path visitor totals, and write the result out.
package export

import (
	"math"
	"strconv"

	"umamiexport/internal/pkg/pathnorm"
	"umamiexport/internal/umami"
)

// Totals maps a normalized path to its summed visitor count. Counts are
// float64 because the server does not guarantee integral values.
type Totals map[string]float64

// Accumulate folds one page of rows into totals. Rows whose visitors field
// does not coerce to a finite number are skipped; a single malformed row
// must not abort an otherwise valid export. The fold is commutative, so
// row and page order never affect the result.
func Accumulate(totals Totals, page []umami.Row) {
	for _, row := range page {
		visitors, ok := coerceNumber(row["visitors"])
		if !ok {
			continue
		}
		name, _ := row["name"].(string)
		totals[pathnorm.Normalize(name)] += visitors
	}
}

// coerceNumber accepts the numeric spellings seen in the wild: JSON numbers
// and numeric strings. Everything else, including NaN and infinities, is
// rejected.
func coerceNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
