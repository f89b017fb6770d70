/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures exchanged with the browser UI. Field names
  follow the UI's existing contract (snake_case, e.g. "in_time",
  "total_wage"), independent of the internal wage types.

NAMING CONVENTION:
  - *DTO: values returned to clients
  - *Request: request bodies from clients
  - *Response: response wrappers

NUMBERS:
  The engine computes with decimal.Decimal. DTOs carry float64 because the
  UI does arithmetic on them; conversion happens only here. Totals and
  summaries are rounded to 2 decimals, per-entry figures are not.

SEE ALSO:
  - handlers.go: Uses these types
  - wage/types.go: Entry and Shift
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/wage-engine/report"
	"github.com/warp/wage-engine/wage"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// SaveEntryRequest saves one day. Times are ignored when Absent is set.
type SaveEntryRequest struct {
	Date       string   `json:"date"`
	InTime     string   `json:"in_time"`
	OutTime    string   `json:"out_time"`
	HourlyRate *float64 `json:"hourly_rate,omitempty"`
	Absent     bool     `json:"absent"`
}

// DeleteEntryRequest deletes one day.
type DeleteEntryRequest struct {
	Date string `json:"date"`
}

// DeleteMonthRequest deletes every day of a month. Month is 1-12.
type DeleteMonthRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// SaveEntryResponse echoes the computed figures of a saved day.
type SaveEntryResponse struct {
	Success       bool    `json:"success"`
	Hours         float64 `json:"hours"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	TotalWage     float64 `json:"total_wage"`
}

// SuccessResponse acknowledges a mutation.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// DeleteMonthResponse reports how many days were removed.
type DeleteMonthResponse struct {
	Success      bool `json:"success"`
	DeletedCount int  `json:"deleted_count"`
}

// EntryDTO is one stored day as returned by /api/get_entries.
type EntryDTO struct {
	InTime        string  `json:"in_time"`
	OutTime       string  `json:"out_time"`
	Hours         float64 `json:"hours"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	RawHours      float64 `json:"raw_hours"`
	HourlyRate    float64 `json:"hourly_rate"`
	RegularWage   float64 `json:"regular_wage"`
	OvertimeWage  float64 `json:"overtime_wage"`
	TotalWage     float64 `json:"total_wage"`
	Absent        bool    `json:"absent"`
}

// TotalsDTO is the headline summary.
type TotalsDTO struct {
	TotalHours float64 `json:"total_hours"`
	TotalWage  float64 `json:"total_wage"`
	HourlyRate float64 `json:"hourly_rate"`
}

// ReportRowDTO is one line of the report table.
type ReportRowDTO struct {
	Date          string  `json:"date"`
	Day           string  `json:"day"`
	InTime        string  `json:"in_time"`
	OutTime       string  `json:"out_time"`
	RawHours      float64 `json:"raw_hours"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	Hours         float64 `json:"hours"`
	HourlyRate    float64 `json:"hourly_rate"`
	RegularWage   float64 `json:"regular_wage"`
	OvertimeWage  float64 `json:"overtime_wage"`
	DailyWage     float64 `json:"daily_wage"`
	Status        string  `json:"status"`
}

// SummaryDTO aggregates the report table.
type SummaryDTO struct {
	TotalWorkDays      int     `json:"total_work_days"`
	TotalAbsentDays    int     `json:"total_absent_days"`
	TotalHours         float64 `json:"total_hours"`
	TotalWage          float64 `json:"total_wage"`
	AverageHoursPerDay float64 `json:"average_hours_per_day"`
	AverageWagePerDay  float64 `json:"average_wage_per_day"`
}

// ReportDataResponse is the report page payload.
type ReportDataResponse struct {
	Success bool           `json:"success"`
	Data    []ReportRowDTO `json:"data"`
	Summary SummaryDTO     `json:"summary"`
}

// GenerateReportResponse carries the CSV export as text.
type GenerateReportResponse struct {
	Success bool   `json:"success"`
	Report  string `json:"report"`
}

// FailureResponse is returned by report endpoints when generation fails.
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toFloat(d decimal.Decimal) float64 { return d.InexactFloat64() }

func round2(d decimal.Decimal) float64 { return d.Round(2).InexactFloat64() }

func toEntryDTO(e wage.Entry) EntryDTO {
	if e.Shift == nil {
		return EntryDTO{
			InTime:     "00:00",
			OutTime:    "00:00",
			HourlyRate: toFloat(e.HourlyRate),
			Absent:     true,
		}
	}

	s := e.Shift
	return EntryDTO{
		InTime:        s.In,
		OutTime:       s.Out,
		Hours:         toFloat(s.Hours()),
		RegularHours:  toFloat(s.RegularHours),
		OvertimeHours: toFloat(s.OvertimeHours),
		RawHours:      toFloat(s.RawHours),
		HourlyRate:    toFloat(e.HourlyRate),
		RegularWage:   toFloat(s.RegularWage),
		OvertimeWage:  toFloat(s.OvertimeWage),
		TotalWage:     toFloat(s.TotalWage()),
	}
}

func toEntryDTOs(c wage.Collection) map[string]EntryDTO {
	dtos := make(map[string]EntryDTO, len(c))
	for date, e := range c {
		dtos[date] = toEntryDTO(e)
	}
	return dtos
}

func toReportRowDTO(r report.Row) ReportRowDTO {
	return ReportRowDTO{
		Date:          r.DisplayDate,
		Day:           r.Day,
		InTime:        r.InTime,
		OutTime:       r.OutTime,
		RawHours:      toFloat(r.RawHours),
		RegularHours:  toFloat(r.RegularHours),
		OvertimeHours: toFloat(r.OvertimeHours),
		Hours:         toFloat(r.Hours),
		HourlyRate:    toFloat(r.HourlyRate),
		RegularWage:   toFloat(r.RegularWage),
		OvertimeWage:  toFloat(r.OvertimeWage),
		DailyWage:     toFloat(r.DailyWage),
		Status:        string(r.Status),
	}
}

func toSummaryDTO(s report.Summary) SummaryDTO {
	return SummaryDTO{
		TotalWorkDays:      s.WorkDays,
		TotalAbsentDays:    s.AbsentDays,
		TotalHours:         round2(s.TotalHours),
		TotalWage:          round2(s.TotalWage),
		AverageHoursPerDay: round2(s.AverageHoursPerDay),
		AverageWagePerDay:  round2(s.AverageWagePerDay),
	}
}
