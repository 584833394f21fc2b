package warehouse

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/govalues/decimal"

	"xchange/internal/tabular"
)

// BigQueryWarehouse appends tables to BigQuery via the streaming inserter,
// matching the original deployment target.
type BigQueryWarehouse struct {
	client  *bigquery.Client
	dataset string
}

// NewBigQueryWarehouse creates a warehouse writing into one dataset.
func NewBigQueryWarehouse(ctx context.Context, projectID, dataset string) (*BigQueryWarehouse, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create bigquery client: %w", err)
	}
	return &BigQueryWarehouse{client: client, dataset: dataset}, nil
}

// Close releases the underlying client.
func (w *BigQueryWarehouse) Close() error {
	return w.client.Close()
}

// Append ensures the target table exists with the member's declared schema
// and streams every row into it.
func (w *BigQueryWarehouse) Append(ctx context.Context, tableID string, tbl *tabular.Table) error {
	table := w.client.Dataset(w.dataset).Table(tableID)
	schema := bqSchema(tbl.Schema)

	if _, err := table.Metadata(ctx); err != nil {
		if err := table.Create(ctx, &bigquery.TableMetadata{Schema: schema}); err != nil {
			return fmt.Errorf("create table %s: %w", tableID, err)
		}
	}

	savers := make([]*bigquery.ValuesSaver, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		values, err := bqValues(row, tbl.Schema)
		if err != nil {
			return err
		}
		savers = append(savers, &bigquery.ValuesSaver{Schema: schema, Row: values})
	}
	if err := table.Inserter().Put(ctx, savers); err != nil {
		return fmt.Errorf("stream into %s: %w", tableID, err)
	}
	return nil
}

func bqSchema(s tabular.Schema) bigquery.Schema {
	fields := make(bigquery.Schema, 0, len(s.Columns))
	for _, c := range s.Columns {
		field := &bigquery.FieldSchema{Name: c.Name, Required: c.Required}
		switch c.Type {
		case tabular.String:
			field.Type = bigquery.StringFieldType
			if c.Length > 0 {
				field.MaxLength = int64(c.Length)
			}
		case tabular.Integer:
			field.Type = bigquery.IntegerFieldType
		case tabular.Decimal:
			field.Type = bigquery.NumericFieldType
		case tabular.Date:
			field.Type = bigquery.DateFieldType
		}
		fields = append(fields, field)
	}
	return fields
}

func bqValues(row []any, s tabular.Schema) ([]bigquery.Value, error) {
	if len(row) != len(s.Columns) {
		return nil, fmt.Errorf("row has %d cells, schema has %d columns", len(row), len(s.Columns))
	}
	values := make([]bigquery.Value, len(row))
	for i, cell := range row {
		switch v := cell.(type) {
		case decimal.Decimal:
			rat, ok := new(big.Rat).SetString(v.String())
			if !ok {
				return nil, fmt.Errorf("column %q: bad decimal %q", s.Columns[i].Name, v.String())
			}
			values[i] = rat
		case time.Time:
			values[i] = civil.DateOf(v)
		default:
			values[i] = v
		}
	}
	return values, nil
}
