// Package dataprocessing turns a directory of daily sales CSV files into a
// single Sales,Date,Region table for one product.
//
// # Architecture
//
// The package is organized into three stages applied per file and then once
// over all files:
//
// 1. Loader: ParseCSV reads tolerant CSV into a Table or classifies the file
// as empty, no-data or unreadable
// 2. Transformer: normalizes headers, checks required columns, filters to the
// target product, coerces quantity and price and computes sales
// 3. Aggregator: concatenates qualifying files in discovery order
//
// Pipeline wires the stages to file discovery, the CSV exporter and
// telemetry. A file that fails any stage contributes no rows and the run
// continues; only the final write can fail a run.
//
// # Usage
//
//	p, err := dataprocessing.NewPipeline(dataprocessing.OptionsFromConfig(cfg.Pipeline), os.Stdout, logger, tel)
//	if err != nil {
//	    return err
//	}
//	summary, err := p.Run(ctx)
//
// # Numbers
//
// Quantity and price accept plain decimal or exponent notation with optional
// sign and surrounding whitespace. Values that do not parse, or overflow to
// infinity, drop the row. Sales are written as the shortest round-tripping
// decimal with at least one fractional digit, e.g. 35.0.
package dataprocessing
