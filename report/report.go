/*
Package report derives totals, the chronological report table and the CSV
export from a wage.Collection.

Every view is built from Classify, which sorts entries by date and turns each
one into a Row. The JSON report and the CSV export therefore cannot drift
apart in ordering or in how absent days are shown.
*/
package report

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/wage-engine/wage"
)

// Status classifies a row.
type Status string

const (
	StatusWork   Status = "Work"
	StatusAbsent Status = "Absent"
)

const (
	// DisplayDateLayout is the dd/mm/yyyy layout used in reports.
	DisplayDateLayout = "02/01/2006"

	notApplicable = "N/A"
)

// Row is one entry prepared for display. Numeric fields are zero for absent
// days, except HourlyRate which is kept.
type Row struct {
	Key         string
	DisplayDate string
	Day         string
	Status      Status

	InTime  string
	OutTime string

	RawHours      decimal.Decimal
	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal
	Hours         decimal.Decimal
	HourlyRate    decimal.Decimal
	RegularWage   decimal.Decimal
	OvertimeWage  decimal.Decimal
	DailyWage     decimal.Decimal
}

// Summary aggregates worked rows. Averages are per worked day and zero when
// nothing was worked.
type Summary struct {
	WorkDays           int
	AbsentDays         int
	TotalHours         decimal.Decimal
	TotalWage          decimal.Decimal
	AverageHoursPerDay decimal.Decimal
	AverageWagePerDay  decimal.Decimal
}

// Report is the full table plus its summary.
type Report struct {
	Rows    []Row
	Summary Summary
}

// Totals is the headline figure set shown next to the calendar.
type Totals struct {
	TotalHours        decimal.Decimal
	TotalWage         decimal.Decimal
	AverageHourlyRate decimal.Decimal
}

// Classify returns one Row per entry, ascending by date. ISO keys sort
// lexicographically in calendar order.
func Classify(c wage.Collection) ([]Row, error) {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]Row, 0, len(keys))
	for _, k := range keys {
		t, err := wage.ParseDate(k)
		if err != nil {
			return nil, fmt.Errorf("invalid entry date %q: %w", k, err)
		}
		rows = append(rows, newRow(k, t.Format(DisplayDateLayout), t.Weekday().String(), c[k]))
	}
	return rows, nil
}

func newRow(key, display, day string, e wage.Entry) Row {
	row := Row{
		Key:         key,
		DisplayDate: display,
		Day:         day,
		HourlyRate:  e.HourlyRate,
	}

	if e.Shift == nil {
		row.Status = StatusAbsent
		row.InTime = notApplicable
		row.OutTime = notApplicable
		return row
	}

	s := e.Shift
	row.Status = StatusWork
	row.InTime = s.In
	row.OutTime = s.Out
	row.RawHours = s.RawHours
	row.RegularHours = s.RegularHours
	row.OvertimeHours = s.OvertimeHours
	row.Hours = s.Hours()
	row.RegularWage = s.RegularWage
	row.OvertimeWage = s.OvertimeWage
	row.DailyWage = s.TotalWage()
	return row
}

// Build classifies c and summarizes it.
func Build(c wage.Collection) (Report, error) {
	rows, err := Classify(c)
	if err != nil {
		return Report{}, err
	}
	return Report{Rows: rows, Summary: Summarize(rows)}, nil
}

// Summarize aggregates rows.
func Summarize(rows []Row) Summary {
	s := Summary{
		TotalHours:         decimal.Zero,
		TotalWage:          decimal.Zero,
		AverageHoursPerDay: decimal.Zero,
		AverageWagePerDay:  decimal.Zero,
	}
	for _, r := range rows {
		if r.Status == StatusAbsent {
			s.AbsentDays++
			continue
		}
		s.WorkDays++
		s.TotalHours = s.TotalHours.Add(r.Hours)
		s.TotalWage = s.TotalWage.Add(r.DailyWage)
	}

	if s.WorkDays > 0 {
		n := decimal.NewFromInt(int64(s.WorkDays))
		s.AverageHoursPerDay = s.TotalHours.Div(n)
		s.AverageWagePerDay = s.TotalWage.Div(n)
	}
	return s
}

// ComputeTotals sums hours and wage over worked entries and averages their
// rates. With no worked entries the average is the default rate.
func ComputeTotals(c wage.Collection) Totals {
	t := Totals{
		TotalHours:        decimal.Zero,
		TotalWage:         decimal.Zero,
		AverageHourlyRate: wage.DefaultHourlyRate,
	}

	rateSum := decimal.Zero
	worked := 0
	for _, e := range c {
		if e.Absent() {
			continue
		}
		worked++
		t.TotalHours = t.TotalHours.Add(e.Hours())
		t.TotalWage = t.TotalWage.Add(e.TotalWage())
		rateSum = rateSum.Add(e.HourlyRate)
	}

	if worked > 0 {
		t.AverageHourlyRate = rateSum.Div(decimal.NewFromInt(int64(worked)))
	}
	return t
}
