package tabular

// Type is the semantic type of a column.
type Type int

const (
	String Type = iota
	Integer
	Decimal
	Date
)

// Column describes one column of a tabular dataset.
type Column struct {
	Name string
	Type Type
	// Length bounds string columns when non-zero (VARCHAR(n) on the warehouse side).
	Length int
	// Precision and Scale bound decimal columns.
	Precision int
	Scale     int
	Required  bool
}

// Schema is an ordered list of columns. Order is significant: it defines
// both the CSV header and the warehouse column order.
type Schema struct {
	Columns []Column
}

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}
