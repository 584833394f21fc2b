package ingest

import (
	"xchange/internal/models"
	"xchange/internal/tabular"
)

type memberTarget struct {
	Table  string
	Schema tabular.Schema
}

// memberTables maps archive member names to their target warehouse table and
// declared column schema. Members missing from this map are skipped with a
// warning, not failed.
var memberTables = map[string]memberTarget{
	models.MemberOrders:    {Table: models.TableOrders, Schema: models.OrdersSchema},
	models.MemberOrderRows: {Table: models.TableOrderRows, Schema: models.OrderRowsSchema},
}
