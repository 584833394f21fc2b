package models

import (
	"time"

	"github.com/govalues/decimal"

	"xchange/internal/tabular"
)

// Order is one synthetic customer order.
type Order struct {
	ID           string
	CustomerName string
	Price        decimal.Decimal
	Currency     string
	OrderDate    time.Time
	City         string
	Country      string
}

// OrderRow is one line item of an order.
type OrderRow struct {
	OrderID      string
	ProductName  string
	PricePerUnit decimal.Decimal
	Quantity     int64
	TotalPrice   decimal.Decimal
}

// Batch is one generation run's output: the orders table and its rows table,
// built together and immutable afterwards.
type Batch struct {
	Orders []Order
	Rows   []OrderRow
}

// OrdersTable converts the batch's orders into a schema-bound table,
// preserving the canonical column order.
func (b *Batch) OrdersTable() *tabular.Table {
	rows := make([][]any, 0, len(b.Orders))
	for _, o := range b.Orders {
		rows = append(rows, []any{
			o.ID, o.CustomerName, o.Price, o.Currency, o.OrderDate, o.City, o.Country,
		})
	}
	return &tabular.Table{Schema: OrdersSchema, Rows: rows}
}

// OrderRowsTable converts the batch's line items into a schema-bound table.
func (b *Batch) OrderRowsTable() *tabular.Table {
	rows := make([][]any, 0, len(b.Rows))
	for _, r := range b.Rows {
		rows = append(rows, []any{
			r.OrderID, r.ProductName, r.PricePerUnit, r.Quantity, r.TotalPrice,
		})
	}
	return &tabular.Table{Schema: OrderRowsSchema, Rows: rows}
}
