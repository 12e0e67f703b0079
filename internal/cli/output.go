package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"envirocheck/internal/core"
	"envirocheck/pkg/schema"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatNumber(v float64) string {
	if math.IsInf(v, 1) {
		return "Infinity"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeDataset(w io.Writer, wb *core.Workbench, format string) error {
	columns := wb.Columns()
	rows := wb.Rows()

	switch format {
	case FormatJSON:
		return writeJSON(w, struct {
			Standard string             `json:"standard"`
			Seed     string             `json:"seed"`
			Samples  int                `json:"samples"`
			Rows     []schema.SampleRow `json:"rows"`
		}{wb.Standard().ID, wb.Seed(), wb.SampleCount(), rows})

	case FormatCSV:
		cw := csv.NewWriter(w)
		header := append([]string{"Parameter", "Unit", "Limit", "Type"}, columns...)
		if err := cw.Write(header); err != nil {
			return err
		}
		for _, row := range rows {
			record := []string{row.ParameterName, row.Unit, formatNumber(row.Limit), string(row.Type)}
			for _, col := range columns {
				record = append(record, row.Cell(col).String())
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}

	fmt.Fprintf(w, "Standard: %s (%s)\n", wb.Standard().Name, wb.Standard().ID)
	fmt.Fprintf(w, "Seed:     %s\n\n", wb.Seed())

	tw := newTable(w)
	fmt.Fprintf(tw, "Parameter\tUnit\tLimit\tType\t%s\n", strings.Join(columns, "\t"))
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = row.Cell(col).String()
			if cells[i] == "" {
				cells[i] = "-"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", row.ParameterName, row.Unit, formatNumber(row.Limit), row.Type, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func writeAssessment(w io.Writer, wb *core.Workbench, format string) error {
	results := wb.Results()
	stats := wb.Stats()

	if format == FormatJSON {
		return writeJSON(w, struct {
			Standard string                    `json:"standard"`
			Seed     string                    `json:"seed"`
			Results  []schema.AssessmentResult `json:"results"`
			Summary  schema.ComplianceStats    `json:"summary"`
		}{wb.Standard().ID, wb.Seed(), results, stats})
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "Parameter\tUnit\tLimit\tType\tMean\tMax\t% of Limit\tStatus")
	for _, res := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%.2f\t%s%%\t%s\n",
			res.ParameterName, res.Unit, formatNumber(res.Limit), res.Type,
			res.MeanValue, res.MaxValue, formatNumber(res.PercentOfLimit), res.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d Pass, %d Warning, %d Fail (%d total)\n", stats.Pass, stats.Warning, stats.Fail, stats.Total)
	return err
}

func writeStandards(w io.Writer, standards []schema.Standard) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCategory\tParameters\tName")
	for _, s := range standards {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.ID, s.Category, len(s.Parameters), s.Name)
	}
	return tw.Flush()
}

func writeHistory(w io.Writer, events []schema.ChangelogEvent) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "Time\tEvent\tDetail")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Timestamp().UTC().Format(time.RFC3339), e.EventType(), eventDetail(e))
	}
	return tw.Flush()
}

func eventDetail(e schema.ChangelogEvent) string {
	switch ev := e.(type) {
	case *schema.StandardAdded:
		return ev.Standard.ID
	case *schema.StandardUpdated:
		return ev.NewStandard.ID
	case *schema.StandardDeleted:
		return ev.StandardID
	case *schema.StandardsReplaced:
		return fmt.Sprintf("%s (%d standards)", ev.Reason, len(ev.Standards))
	}
	return ""
}
