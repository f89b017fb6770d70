/*
Package wage provides the hours and wage engine for daily time entries.

PURPOSE:
  Turns a clock-in/clock-out pair for one calendar date into billable
  regular and overtime hours and the wage earned for them, and keeps the
  resulting entries in a single keyed collection.

KEY CONCEPTS IN THIS FILE (types.go):
  - Entry: one calendar date, either absent or worked
  - Shift: the computed figures of a worked day
  - Collection: all entries keyed by ISO date (YYYY-MM-DD)
  - Rule constants: default rate, overtime multiplier, recess, threshold

DESIGN PRINCIPLES:
  1. Absent and worked days are different shapes. An absent Entry has no
     Shift at all instead of a Shift full of zeros.
  2. Precision: hours and money use decimal.Decimal.
  3. Totals are derived (Hours, TotalWage), never stored separately, so they
     cannot disagree with their parts.

USAGE:
  split := wage.ElapsedSplit("09:00", "19:00", false)
  shift := wage.ApplyRecess(split, false, wage.DefaultHourlyRate)
  shift.TotalWage() // 475

SEE ALSO:
  - time.go:  clock parsing and the regular/overtime split
  - rules.go: recess deduction and wage calculation
  - store.go: EntryStore and the Backend interface
*/
package wage

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RULE CONSTANTS
// =============================================================================

var (
	// DefaultHourlyRate applies when a caller does not send a rate.
	DefaultHourlyRate = decimal.NewFromInt(50)

	// OvertimeMultiplier scales the hourly rate for overtime hours.
	OvertimeMultiplier = decimal.NewFromFloat(1.5)
)

const (
	// OvertimeThreshold is the time of day after which work is overtime.
	OvertimeThreshold = 18 * time.Hour

	// Recess is deducted once per worked day.
	Recess = time.Hour

	// RestDay is the weekday on which every worked hour is overtime.
	RestDay = time.Sunday

	// DateLayout is the layout of collection keys.
	DateLayout = "2006-01-02"

	// ClockLayout is the layout of in/out times.
	ClockLayout = "15:04"
)

// =============================================================================
// ENTRY - one calendar date
// =============================================================================

// Entry is the record kept for one date. A nil Shift means the day was
// marked absent; HourlyRate is then kept for record keeping only.
type Entry struct {
	HourlyRate decimal.Decimal
	Shift      *Shift
}

// Absent reports whether the entry marks a day without work.
func (e Entry) Absent() bool { return e.Shift == nil }

// Hours returns billable hours, zero for absent days.
func (e Entry) Hours() decimal.Decimal {
	if e.Shift == nil {
		return decimal.Zero
	}
	return e.Shift.Hours()
}

// TotalWage returns the day's wage, zero for absent days.
func (e Entry) TotalWage() decimal.Decimal {
	if e.Shift == nil {
		return decimal.Zero
	}
	return e.Shift.TotalWage()
}

// NewAbsentEntry returns an absent entry carrying rate.
func NewAbsentEntry(rate decimal.Decimal) Entry {
	return Entry{HourlyRate: rate}
}

// Shift holds the computed figures of a worked day.
// RegularHours and OvertimeHours are billable, i.e. after recess.
type Shift struct {
	In  string
	Out string

	RawHours      decimal.Decimal
	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal

	RegularWage  decimal.Decimal
	OvertimeWage decimal.Decimal
}

// Hours returns billable hours after recess.
func (s Shift) Hours() decimal.Decimal     { return s.RegularHours.Add(s.OvertimeHours) }
// TotalWage returns regular plus overtime wage.
func (s Shift) TotalWage() decimal.Decimal { return s.RegularWage.Add(s.OvertimeWage) }

// =============================================================================
// COLLECTION
// =============================================================================

// Collection maps ISO dates to entries. Dates are the only identity.
type Collection map[string]Entry

// Clone returns a copy whose entries do not share Shift pointers with c.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for date, e := range c {
		if e.Shift != nil {
			s := *e.Shift
			e.Shift = &s
		}
		out[date] = e
	}
	return out
}
