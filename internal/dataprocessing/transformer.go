package dataprocessing

import (
	"slices"
	"sort"
	"strings"
)

// DefaultRequiredColumns are the normalized names every input file must carry.
var DefaultRequiredColumns = []string{"product", "quantity", "price", "date", "region"}

// TransformResult is the outcome of transforming one table.
type TransformResult struct {
	Rows           []OutputRow
	Skip           SkipReason
	MissingColumns []string
	// Matched counts rows whose product equals the target product.
	Matched int
	// Dropped counts matched rows removed for non-numeric quantity or price.
	Dropped int
}

// Transformer turns a raw table into output rows for a single product.
type Transformer struct {
	required []string
	product  string
}

// NewTransformer creates a transformer. The default columns are always
// required; extra names in required are checked in addition.
func NewTransformer(required []string, product string) *Transformer {
	merged := append([]string(nil), DefaultRequiredColumns...)
	for _, name := range required {
		name = NormalizeHeader(name)
		if name != "" && !slices.Contains(merged, name) {
			merged = append(merged, name)
		}
	}
	return &Transformer{required: merged, product: product}
}

// Product returns the product literal rows are filtered on.
func (t *Transformer) Product() string {
	return t.product
}

// NormalizeHeader lowercases a column name and trims surrounding whitespace.
func NormalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// columnIndex maps normalized names to their position. When two headers
// normalize to the same name the first one wins.
func columnIndex(columns []string) map[string]int {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		name := NormalizeHeader(c)
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}
	return index
}

// Transform validates the schema, filters to the target product, coerces
// quantity and price, drops invalid rows and computes sales. A result with
// no rows always carries a skip reason.
func (t *Transformer) Transform(table *Table) TransformResult {
	if table.Len() == 0 {
		return TransformResult{Skip: SkipNoData}
	}

	index := columnIndex(table.Columns)

	var missing []string
	for _, name := range t.required {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return TransformResult{Skip: SkipMissingColumns, MissingColumns: missing}
	}

	result := TransformResult{}
	for _, row := range table.Rows {
		if row[index["product"]] != t.product {
			continue
		}
		result.Matched++

		record := Record{
			Product:  row[index["product"]],
			Quantity: ParseNumber(row[index["quantity"]]),
			Price:    ParseNumber(row[index["price"]]),
			Date:     row[index["date"]],
			Region:   row[index["region"]],
		}
		if !record.Valid() {
			result.Dropped++
			continue
		}

		result.Rows = append(result.Rows, OutputRow{
			Sales:  record.Quantity.Value * record.Price.Value,
			Date:   record.Date,
			Region: record.Region,
		})
	}

	switch {
	case result.Matched == 0:
		result.Skip = SkipNoMatchingProduct
	case len(result.Rows) == 0:
		result.Skip = SkipNoValidRows
	}

	return result
}
