package domain

// Report is a printable summary produced by the operator CLI.
type Report struct {
	Title    string
	Subtitle string
	Sections []ReportSection
}

type ReportSection struct {
	Title   string
	Summary map[string]interface{}
	Details []ReportDetail
}

type ReportDetail struct {
	Name        string
	Value       interface{}
	Unit        string
	Description string
}
