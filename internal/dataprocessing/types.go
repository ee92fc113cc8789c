package dataprocessing

// SkipReason classifies why a file contributed no rows.
type SkipReason int

const (
	// SkipNone means the file produced at least one output row.
	SkipNone SkipReason = iota
	SkipEmpty
	SkipNoData
	SkipUnreadable
	SkipMissingColumns
	SkipNoMatchingProduct
	SkipNoValidRows
)

// String returns the reason's stable label, used in logs and metrics.
func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipEmpty:
		return "empty"
	case SkipNoData:
		return "no-data"
	case SkipUnreadable:
		return "unreadable"
	case SkipMissingColumns:
		return "missing-columns"
	case SkipNoMatchingProduct:
		return "no-matching-product"
	case SkipNoValidRows:
		return "no-valid-rows"
	default:
		return "unknown"
	}
}

// Table is a parsed CSV file: a header row plus data rows. Every row has
// exactly len(Columns) cells; cells missing from short rows are "".
type Table struct {
	Columns []string
	Rows    [][]string
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Number is a coerced numeric cell. Valid is false when the cell did not
// hold a finite decimal number.
type Number struct {
	Value float64
	Valid bool
}

// Record is one target-product row after numeric coercion.
type Record struct {
	Product  string
	Quantity Number
	Price    Number
	Date     string
	Region   string
}

// Valid reports whether both numeric fields coerced successfully.
func (r Record) Valid() bool {
	return r.Quantity.Valid && r.Price.Valid
}

// OutputRow is the persisted shape: Sales, Date, Region.
type OutputRow struct {
	Sales  float64
	Date   string
	Region string
}

// Strings renders the row in output column order.
func (r OutputRow) Strings() []string {
	return []string{FormatSales(r.Sales), r.Date, r.Region}
}
