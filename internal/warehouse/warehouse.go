package warehouse

import (
	"context"

	"xchange/internal/tabular"
)

// Warehouse appends parsed tables to their target tables. Loads are
// append-only: reprocessing an archive duplicates rows, it never corrupts.
type Warehouse interface {
	Append(ctx context.Context, tableID string, tbl *tabular.Table) error
}
