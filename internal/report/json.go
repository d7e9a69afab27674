// internal/report/json.go
package report

import "encoding/json"

// JSONFormatter outputs a RunReport as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format marshals the report as indented JSON.
func (f *JSONFormatter) Format(r *RunReport) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
