package dataprocessing

// Aggregate concatenates the rows of every qualifying file in the order the
// results are given. Files that were skipped or produced no rows add nothing.
func Aggregate(results []FileResult) []OutputRow {
	total := 0
	for _, r := range results {
		total += len(r.rows)
	}

	combined := make([]OutputRow, 0, total)
	for _, r := range results {
		if r.Skip != SkipNone {
			continue
		}
		combined = append(combined, r.rows...)
	}
	return combined
}

// Records renders rows in output column order.
func Records(rows []OutputRow) [][]string {
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = row.Strings()
	}
	return records
}
