package validation

import (
	"fmt"
	"strings"
)

// Level indicates which validation stage produced the result.
type Level string

const (
	LevelConfig Level = "config"
	LevelLayout Level = "layout"
)

// Severity indicates how critical a validation result is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Result is a single validation finding.
type Result struct {
	Level       Level    `json:"level"`
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	Path        string   `json:"path"`
	ActualValue any      `json:"actual_value,omitempty"`
	Expected    string   `json:"expected,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Report is the complete validation output.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []Result `json:"errors"`
	Warnings []Result `json:"warnings"`
	Info     []Result `json:"info"`
	Summary  string   `json:"summary"`
}

// NewReport creates an empty valid report.
func NewReport() *Report {
	r := &Report{
		Valid:    true,
		Errors:   []Result{},
		Warnings: []Result{},
		Info:     []Result{},
	}
	r.updateSummary()
	return r
}

// AddError adds an error result and marks the report invalid.
func (r *Report) AddError(result Result) {
	result.Severity = SeverityError
	r.Errors = append(r.Errors, result)
	r.Valid = false
	r.updateSummary()
}

// AddWarning adds a warning result.
func (r *Report) AddWarning(result Result) {
	result.Severity = SeverityWarning
	r.Warnings = append(r.Warnings, result)
	r.updateSummary()
}

// AddInfo adds an informational result.
func (r *Report) AddInfo(result Result) {
	result.Severity = SeverityInfo
	r.Info = append(r.Info, result)
	r.updateSummary()
}

// Merge combines another report into this one.
func (r *Report) Merge(other *Report) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Info = append(r.Info, other.Info...)
	if !other.Valid {
		r.Valid = false
	}
	r.updateSummary()
}

// ConfigErr returns a *ConfigError when the report holds errors, nil otherwise.
func (r *Report) ConfigErr() error {
	if r.Valid {
		return nil
	}
	return &ConfigError{Report: r}
}

func (r *Report) updateSummary() {
	r.Summary = fmt.Sprintf("%d errors, %d warnings, %d info",
		len(r.Errors), len(r.Warnings), len(r.Info))
}

// ConfigError reports malformed configuration found before any placement
// work. The caller recovers by supplying corrected values.
type ConfigError struct {
	Report *Report
}

func (e *ConfigError) Error() string {
	if e.Report == nil || len(e.Report.Errors) == 0 {
		return "invalid configuration"
	}
	msgs := make([]string, 0, len(e.Report.Errors))
	for _, res := range e.Report.Errors {
		msgs = append(msgs, res.Message)
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// WithPathPrefix returns a copy of r with prefix prepended to every path.
func (r *Report) WithPathPrefix(prefix string) *Report {
	out := NewReport()
	for _, res := range r.Errors {
		res.Path = prefix + res.Path
		out.AddError(res)
	}
	for _, res := range r.Warnings {
		res.Path = prefix + res.Path
		out.AddWarning(res)
	}
	for _, res := range r.Info {
		res.Path = prefix + res.Path
		out.AddInfo(res)
	}
	return out
}
