// Package files provides file discovery and file management for the
// formatter's input directory.
//
// Discovery enumerates candidate input files in lexical name order, which is
// the order rows appear in the merged output. Manager reads inputs and
// replaces the output atomically.
//
// Example usage:
//
//	discovery := files.NewDiscovery()
//	inputs, err := discovery.FindCSVFiles("data")
//	inputs, sawOutput := files.ExcludeName(inputs, "formatted_sales.csv")
//
//	manager := files.NewManager("data", logger)
//	err = manager.WriteFile("formatted_sales.csv", payload)
package files
