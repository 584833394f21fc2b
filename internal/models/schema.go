package models

import "xchange/internal/tabular"

// Archive member names. The container holds exactly these two members.
const (
	MemberOrders    = "orders.csv"
	MemberOrderRows = "rows_of_orders.csv"
)

// Warehouse table names the members load into.
const (
	TableOrders    = "orders"
	TableOrderRows = "rows_of_orders"
)

// OrdersSchema is the declared schema of the orders.csv member.
var OrdersSchema = tabular.Schema{Columns: []tabular.Column{
	{Name: "order_id", Type: tabular.String, Length: 50, Required: true},
	{Name: "customer_name", Type: tabular.String, Required: true},
	{Name: "price", Type: tabular.Decimal, Precision: 7, Scale: 2, Required: true},
	{Name: "currency", Type: tabular.String, Length: 3, Required: true},
	{Name: "order_date", Type: tabular.Date, Required: true},
	{Name: "city", Type: tabular.String, Required: true},
	{Name: "country", Type: tabular.String, Length: 2, Required: true},
}}

// OrderRowsSchema is the declared schema of the rows_of_orders.csv member.
var OrderRowsSchema = tabular.Schema{Columns: []tabular.Column{
	{Name: "order_id", Type: tabular.String, Length: 50, Required: true},
	{Name: "product_name", Type: tabular.String, Required: true},
	{Name: "price_per_unit", Type: tabular.Decimal, Precision: 7, Scale: 2, Required: true},
	{Name: "quantity", Type: tabular.Integer, Required: true},
	{Name: "total_price", Type: tabular.Decimal, Precision: 7, Scale: 2, Required: true},
}}
