// Package report assembles assessment results into exportable reports.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"envirocheck/internal/compliance"
	"envirocheck/pkg/schema"
)

// FormatVersion is written into JSON exports.
const FormatVersion = "1.0.0"

const dateLayout = "2006-01-02"

// Report is one compliance report for a single standard.
type Report struct {
	Title      string                    `json:"title"`
	Regulation schema.Standard           `json:"regulation"`
	Date       string                    `json:"date"` // YYYY-MM-DD
	Results    []schema.AssessmentResult `json:"results"`
	Summary    schema.ComplianceStats    `json:"summary"`
}

// Build assembles a report and computes its summary.
func Build(title string, standard schema.Standard, date time.Time, results []schema.AssessmentResult) Report {
	if results == nil {
		results = []schema.AssessmentResult{}
	}
	return Report{
		Title:      title,
		Regulation: standard,
		Date:       date.Format(dateLayout),
		Results:    results,
		Summary:    compliance.Stats(results),
	}
}

// ComplianceRate is the share of passing results in percent, or 0 for an
// empty report.
func (r Report) ComplianceRate() float64 {
	if r.Summary.Total == 0 {
		return 0
	}
	return float64(r.Summary.Pass) / float64(r.Summary.Total) * 100
}

// Filename returns the conventional file name for the report, e.g.
// EnviroReport_20240115.csv.
func (r Report) Filename(ext string) string {
	return fmt.Sprintf("EnviroReport_%s.%s", strings.ReplaceAll(r.Date, "-", ""), strings.TrimPrefix(ext, "."))
}

var csvHeader = []string{"Parameter", "Unit", "Mean Value", "Max Value", "Limit", "Type", "% of Limit", "Status"}

// WriteCSV writes a commented preamble followed by one row per result.
func WriteCSV(w io.Writer, r Report) error {
	preamble := []string{
		"# Environmental Compliance Report",
		"# Regulation: " + r.Regulation.Name,
		"# Date: " + r.Date,
		fmt.Sprintf("# Summary: %d Pass, %d Warning, %d Fail", r.Summary.Pass, r.Summary.Warning, r.Summary.Fail),
		"",
	}
	if _, err := io.WriteString(w, strings.Join(preamble, "\n")+"\n"); err != nil {
		return fmt.Errorf("write preamble: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, res := range r.Results {
		record := []string{
			res.ParameterName,
			res.Unit,
			fixed(res.MeanValue, 2),
			fixed(res.MaxValue, 2),
			strconv.FormatFloat(res.Limit, 'f', -1, 64),
			string(res.Type),
			fixed(res.PercentOfLimit, 1) + "%",
			string(res.Status),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %s: %w", res.ParameterID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteJSON writes the report with export metadata as indented JSON.
func WriteJSON(w io.Writer, r Report, exportedAt time.Time) error {
	doc := struct {
		Report
		ExportedAt string `json:"exportedAt"`
		Version    string `json:"version"`
	}{
		Report:     r,
		ExportedAt: exportedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
		Version:    FormatVersion,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func fixed(v float64, digits int) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', digits, 64)
}
