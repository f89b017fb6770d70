package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/wage-engine/wage"
)

// DefaultCurrency prefixes rates and the summary wage.
const DefaultCurrency = "₹"

// RulesNote closes every CSV export.
const RulesNote = "1 hour recess time deducted from regular hours. Overtime (after 6 PM) is 1.5x hourly rate. All Sunday hours are treated as overtime."

// Header returns the 12 CSV column names.
func Header(currency string) []string {
	return []string{
		"Date", "Day", "IN Time", "OUT Time",
		"Raw Hours", "Regular Hours", "Overtime Hours", "Hourly Rate",
		fmt.Sprintf("Regular Wage (%s)", currency),
		fmt.Sprintf("Overtime Wage (%s)", currency),
		fmt.Sprintf("Total Wage (%s)", currency),
		"Status",
	}
}

// WriteCSV writes rep as CSV: header, one line per row, a blank line and the
// summary block.
func WriteCSV(w io.Writer, rep Report, currency string) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(Header(currency)); err != nil {
		return err
	}

	for _, r := range rep.Rows {
		record := []string{
			r.DisplayDate,
			r.Day,
			r.InTime,
			r.OutTime,
			fixed(r.RawHours),
			fixed(r.RegularHours),
			fixed(r.OvertimeHours),
			currency + fixed(r.HourlyRate),
			fixed(r.RegularWage),
			fixed(r.OvertimeWage),
			fixed(r.DailyWage),
			string(r.Status),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	s := rep.Summary
	summary := [][]string{
		{},
		{"SUMMARY"},
		{"Total Work Days", strconv.Itoa(s.WorkDays)},
		{"Total Absent Days", strconv.Itoa(s.AbsentDays)},
		{"Total Hours (After Recess)", fixed(s.TotalHours)},
		{"Total Wage", currency + fixed(s.TotalWage)},
		{"Note", RulesNote},
	}
	if err := cw.WriteAll(summary); err != nil {
		return err
	}

	return cw.Error()
}

// CSV renders the export for c.
func CSV(c wage.Collection, currency string) (string, error) {
	rep, err := Build(c)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := WriteCSV(&b, rep, currency); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return b.String(), nil
}

func fixed(d decimal.Decimal) string { return d.StringFixed(2) }
