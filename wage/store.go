/*
store.go - Entry store over a whole-document backend

PURPOSE:
  Keeps the collection of daily entries. Every operation loads the full
  collection from the backend, changes it in memory and writes the full
  collection back. There is no cache between calls and no partial write.

KEY INTERFACES:
  Backend:    reads and replaces the whole collection
  EntryStore: load, save (upsert), delete, delete-by-month

CONCURRENCY:
  EntryStore does no locking. Two concurrent writers both read, both modify
  and both replace; the last Replace wins and the other change is lost.

IMPLEMENTATIONS:
  - wage/store/memory.go:     in-memory backend for tests and dev
  - store/jsonfile/jsonfile.go: JSON document on disk

SEE ALSO:
  - rules.go: how a Shift is computed
  - errors.go: ValidationError, NotFoundError
*/
package wage

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// BACKEND - whole-document persistence
// =============================================================================

// Backend persists a Collection as one document.
type Backend interface {
	// Load returns the stored collection, or an empty one if nothing has
	// been stored yet.
	Load(ctx context.Context) (Collection, error)

	// Replace overwrites the stored collection with c.
	Replace(ctx context.Context, c Collection) error
}

// =============================================================================
// SAVE REQUEST
// =============================================================================

// SaveRequest is the parsed input of a save. A nil HourlyRate means the
// caller did not send one.
type SaveRequest struct {
	Date       string
	InTime     string
	OutTime    string
	HourlyRate *decimal.Decimal
	Absent     bool
}

// BuildEntry validates req and computes the entry for its date.
// Times are ignored for absent days.
func BuildEntry(req SaveRequest) (string, Entry, error) {
	date := strings.TrimSpace(req.Date)
	if date == "" {
		return "", Entry{}, &ValidationError{Field: "date", Message: "Missing date field"}
	}
	if _, err := ParseDate(date); err != nil {
		return "", Entry{}, &ValidationError{Field: "date", Message: "invalid date (use YYYY-MM-DD)"}
	}

	rate := DefaultHourlyRate
	if req.HourlyRate != nil {
		if !req.HourlyRate.IsPositive() {
			return "", Entry{}, &ValidationError{Field: "hourly_rate", Message: "must be positive"}
		}
		rate = *req.HourlyRate
	}

	if req.Absent {
		return date, NewAbsentEntry(rate), nil
	}

	if strings.TrimSpace(req.InTime) == "" || strings.TrimSpace(req.OutTime) == "" {
		return "", Entry{}, &ValidationError{Message: "Missing required fields"}
	}
	in, err := ParseClock(req.InTime)
	if err != nil {
		return "", Entry{}, &ValidationError{Field: "in_time", Message: "invalid time (use HH:MM)"}
	}
	out, err := ParseClock(req.OutTime)
	if err != nil {
		return "", Entry{}, &ValidationError{Field: "out_time", Message: "invalid time (use HH:MM)"}
	}

	restDay := IsRestDay(date)
	shift := ApplyRecess(SplitShift(in, out, restDay), restDay, rate)
	shift.In = FormatClock(in)
	shift.Out = FormatClock(out)

	return date, Entry{HourlyRate: rate, Shift: &shift}, nil
}

// =============================================================================
// ENTRY STORE
// =============================================================================

// EntryStore applies entry operations to a Backend.
type EntryStore struct {
	backend Backend
}

// NewEntryStore creates a store over backend.
func NewEntryStore(backend Backend) (*EntryStore, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	return &EntryStore{backend: backend}, nil
}

// Load returns every stored entry.
func (s *EntryStore) Load(ctx context.Context) (Collection, error) {
	c, err := s.backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	if c == nil {
		c = Collection{}
	}
	return c, nil
}

// Save computes the entry for req and replaces whatever was stored for its
// date. It returns the date key and the stored entry.
func (s *EntryStore) Save(ctx context.Context, req SaveRequest) (string, Entry, error) {
	date, entry, err := BuildEntry(req)
	if err != nil {
		return "", Entry{}, err
	}

	c, err := s.Load(ctx)
	if err != nil {
		return "", Entry{}, err
	}
	c[date] = entry

	if err := s.persist(ctx, c); err != nil {
		return "", Entry{}, err
	}
	return date, entry, nil
}

// Delete removes the entry for date.
func (s *EntryStore) Delete(ctx context.Context, date string) error {
	if strings.TrimSpace(date) == "" {
		return &ValidationError{Field: "date", Message: "Missing date field"}
	}

	c, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if _, ok := c[date]; !ok {
		return &NotFoundError{Date: date}
	}
	delete(c, date)

	return s.persist(ctx, c)
}

// DeleteMonth removes every entry dated in year-month and returns how many
// were removed. Removing nothing is not an error.
func (s *EntryStore) DeleteMonth(ctx context.Context, year, month int) (int, error) {
	c, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}

	prefix := MonthPrefix(year, month)
	removed := 0
	for date := range c {
		if strings.HasPrefix(date, prefix) {
			delete(c, date)
			removed++
		}
	}

	if err := s.persist(ctx, c); err != nil {
		return 0, err
	}
	return removed, nil
}

// MonthPrefix returns the key prefix shared by all dates of a month.
func MonthPrefix(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

func (s *EntryStore) persist(ctx context.Context, c Collection) error {
	if err := s.backend.Replace(ctx, c); err != nil {
		return fmt.Errorf("persist entries: %w", err)
	}
	return nil
}
