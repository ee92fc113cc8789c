package config

// Application constants
const (
	AppName    = "salescli"
	AppVersion = "1.0.0"

	// OutputHeaderSales, OutputHeaderDate and OutputHeaderRegion are the
	// display names of the output columns, in file order.
	OutputHeaderSales  = "Sales"
	OutputHeaderDate   = "Date"
	OutputHeaderRegion = "Region"

	// CSVExtension is matched case-insensitively during discovery.
	CSVExtension = ".csv"

	// XLSXExtension replaces the output extension for the spreadsheet mirror.
	XLSXExtension = ".xlsx"

	// Directory and file permissions for everything the formatter creates
	DirPermissions  = 0755
	FilePermissions = 0644
)

// OutputHeader returns the fixed header row of the output file.
func OutputHeader() []string {
	return []string{OutputHeaderSales, OutputHeaderDate, OutputHeaderRegion}
}
