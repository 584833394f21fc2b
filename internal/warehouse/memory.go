package warehouse

import (
	"context"
	"sync"

	"xchange/internal/tabular"
)

// MemoryWarehouse collects appended rows in memory, for tests.
type MemoryWarehouse struct {
	mu     sync.Mutex
	tables map[string]*tabular.Table
}

// NewMemoryWarehouse creates an empty in-memory warehouse.
func NewMemoryWarehouse() *MemoryWarehouse {
	return &MemoryWarehouse{tables: make(map[string]*tabular.Table)}
}

func (w *MemoryWarehouse) Append(_ context.Context, tableID string, tbl *tabular.Table) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	existing, ok := w.tables[tableID]
	if !ok {
		existing = &tabular.Table{Schema: tbl.Schema}
		w.tables[tableID] = existing
	}
	existing.Rows = append(existing.Rows, tbl.Rows...)
	return nil
}

// Table returns the accumulated table, or nil if nothing was loaded.
func (w *MemoryWarehouse) Table(tableID string) *tabular.Table {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tables[tableID]
}

// RowCount returns the number of rows loaded into the table.
func (w *MemoryWarehouse) RowCount(tableID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if tbl, ok := w.tables[tableID]; ok {
		return len(tbl.Rows)
	}
	return 0
}
