/*
handlers.go - HTTP API handlers for the wage tracker

PURPOSE:
  Exposes the wage engine to the browser UI. Handles HTTP request/response
  and JSON serialization, and delegates to the entry store and report
  package.

ENDPOINTS:
  Entries:
    POST   /api/save_entry            Save (replace) one day
    DELETE /api/delete_entry          Delete one day
    DELETE /api/delete_month          Delete every day of a month
    GET    /api/get_entries           All days keyed by date

  Reports:
    GET    /api/calculate_total_wage  Total hours, wage, average rate
    GET    /api/get_report_data       Sorted rows + summary
    GET    /api/generate_report       CSV export wrapped in JSON
    GET    /api/report.csv            CSV export as a file download

REQUEST FLOW:
  1. Decode the JSON body
  2. Call the entry store (which validates and computes)
  3. Serialize the response

ERROR HANDLING:
  - 400: validation errors, malformed body
  - 404: delete target not found
  - 500: storage or report failures, as {"success": false, "error": ...}
         on report endpoints

SECURITY NOTE:
  No authentication. The service has a single user.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/wage-engine/report"
	"github.com/warp/wage-engine/wage"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Entries  *wage.EntryStore
	Logger   *slog.Logger
	Currency string
}

// NewHandler creates a handler over entries. A nil logger uses slog.Default.
func NewHandler(entries *wage.EntryStore, logger *slog.Logger, currency string) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if currency == "" {
		currency = report.DefaultCurrency
	}
	return &Handler{
		Entries:  entries,
		Logger:   logger,
		Currency: currency,
	}
}

// =============================================================================
// ENTRY HANDLERS
// =============================================================================

// SaveEntry saves one day, replacing any previous record for the date.
// POST /api/save_entry
func (h *Handler) SaveEntry(w http.ResponseWriter, r *http.Request) {
	var req SaveEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	save := wage.SaveRequest{
		Date:    req.Date,
		InTime:  req.InTime,
		OutTime: req.OutTime,
		Absent:  req.Absent,
	}
	if req.HourlyRate != nil {
		rate := decimal.NewFromFloat(*req.HourlyRate)
		save.HourlyRate = &rate
	}

	date, entry, err := h.Entries.Save(r.Context(), save)
	if err != nil {
		if wage.IsClientError(err) {
			writeValidationError(w, err)
			return
		}
		h.serverError(w, r, "Failed to save entry", err)
		return
	}

	h.Logger.InfoContext(r.Context(), "entry saved", "date", date, "absent", entry.Absent())

	dto := toEntryDTO(entry)
	writeJSON(w, http.StatusOK, SaveEntryResponse{
		Success:       true,
		Hours:         dto.Hours,
		RegularHours:  dto.RegularHours,
		OvertimeHours: dto.OvertimeHours,
		TotalWage:     dto.TotalWage,
	})
}

// DeleteEntry deletes one day.
// DELETE /api/delete_entry
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	var req DeleteEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	err := h.Entries.Delete(r.Context(), req.Date)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
	case wage.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Entry not found", nil)
	case wage.IsClientError(err):
		writeValidationError(w, err)
	default:
		h.serverError(w, r, "Failed to delete entry", err)
	}
}

// DeleteMonth deletes every day of a month.
// DELETE /api/delete_month
func (h *Handler) DeleteMonth(w http.ResponseWriter, r *http.Request) {
	var req DeleteMonthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Year == 0 || req.Month == 0 {
		writeError(w, http.StatusBadRequest, "Missing year or month field", nil)
		return
	}
	if req.Month < 1 || req.Month > 12 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid month: %d", req.Month), nil)
		return
	}

	n, err := h.Entries.DeleteMonth(r.Context(), req.Year, req.Month)
	if err != nil {
		h.serverError(w, r, "Failed to delete month", err)
		return
	}

	h.Logger.InfoContext(r.Context(), "month deleted",
		"month", wage.MonthPrefix(req.Year, req.Month), "deleted", n)

	writeJSON(w, http.StatusOK, DeleteMonthResponse{Success: true, DeletedCount: n})
}

// GetEntries returns every stored day keyed by date.
// GET /api/get_entries
func (h *Handler) GetEntries(w http.ResponseWriter, r *http.Request) {
	c, err := h.Entries.Load(r.Context())
	if err != nil {
		h.serverError(w, r, "Failed to load entries", err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTOs(c))
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// CalculateTotalWage returns total hours, total wage and the mean rate.
// GET /api/calculate_total_wage
func (h *Handler) CalculateTotalWage(w http.ResponseWriter, r *http.Request) {
	c, err := h.Entries.Load(r.Context())
	if err != nil {
		h.serverError(w, r, "Failed to load entries", err)
		return
	}

	t := report.ComputeTotals(c)
	writeJSON(w, http.StatusOK, TotalsDTO{
		TotalHours: round2(t.TotalHours),
		TotalWage:  round2(t.TotalWage),
		HourlyRate: round2(t.AverageHourlyRate),
	})
}

// GetReportData returns the report table and summary.
// GET /api/get_report_data
func (h *Handler) GetReportData(w http.ResponseWriter, r *http.Request) {
	c, err := h.Entries.Load(r.Context())
	if err != nil {
		h.reportFailure(w, r, err)
		return
	}

	rep, err := report.Build(c)
	if err != nil {
		h.reportFailure(w, r, err)
		return
	}

	rows := make([]ReportRowDTO, len(rep.Rows))
	for i, row := range rep.Rows {
		rows[i] = toReportRowDTO(row)
	}

	writeJSON(w, http.StatusOK, ReportDataResponse{
		Success: true,
		Data:    rows,
		Summary: toSummaryDTO(rep.Summary),
	})
}

// GenerateReport returns the CSV export inside a JSON payload.
// GET /api/generate_report
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	csv, err := h.renderCSV(r)
	if err != nil {
		h.reportFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, GenerateReportResponse{Success: true, Report: csv})
}

// DownloadReport returns the CSV export as an attachment.
// GET /api/report.csv
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	csv, err := h.renderCSV(r)
	if err != nil {
		h.reportFailure(w, r, err)
		return
	}

	filename := fmt.Sprintf("wage_report_%s.csv", time.Now().Format(wage.DateLayout))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csv))
}

func (h *Handler) renderCSV(r *http.Request) (string, error) {
	c, err := h.Entries.Load(r.Context())
	if err != nil {
		return "", err
	}
	return report.CSV(c, h.Currency)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeValidationError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error(), Code: "validation_error"}
	var verr *wage.ValidationError
	if errors.As(err, &verr) {
		resp.Error = verr.Message
		if verr.Field != "" {
			resp.Details = map[string]string{"field": verr.Field}
		}
	}
	writeJSON(w, http.StatusBadRequest, resp)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, message string, err error) {
	h.Logger.ErrorContext(r.Context(), message, "path", r.URL.Path, "err", err)
	writeError(w, http.StatusInternalServerError, message, err)
}

func (h *Handler) reportFailure(w http.ResponseWriter, r *http.Request, err error) {
	h.Logger.ErrorContext(r.Context(), "report generation failed", "path", r.URL.Path, "err", err)
	writeJSON(w, http.StatusInternalServerError, FailureResponse{Success: false, Error: err.Error()})
}
