/*
Package jsonfile provides a file-backed wage.Backend.

PURPOSE:
  Stores the whole entry collection as one indented JSON object keyed by
  date. The file is human readable and is rewritten in full on every
  mutation.

DOCUMENT LAYOUT:
  {
    "2024-03-04": {
      "in_time": "09:00", "out_time": "19:00",
      "hours": 9, "regular_hours": 8, "overtime_hours": 1, "raw_hours": 10,
      "hourly_rate": 50, "regular_wage": 400, "overtime_wage": 75,
      "total_wage": 475, "absent": false
    }
  }

  Numbers are written as exact decimal literals. Documents written before a
  field existed are read with defaults: hourly_rate 50, raw_hours = hours,
  everything else zero.

WRITES:
  Each write goes to its own <path>.*.tmp file, which is then renamed over
  <path> while holding the store mutex. Readers see either the old or the new
  document, never a partial one. Concurrent writers still race at
  whole-document granularity (last rename wins).

CORRUPTION:
  A document that cannot be decoded is copied to <path>.corrupt and Load
  fails. The document itself is left in place, so every later Load fails
  the same way until it is repaired. It is never silently replaced with an
  empty collection.
*/
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/warp/wage-engine/wage"
)

// Store reads and writes one JSON document.
type Store struct {
	path string

	// mu serializes publishing a document; it does not cover Load.
	mu sync.Mutex
}

// New returns a backend for the document at path. The file need not exist.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("jsonfile: empty path")
	}
	return &Store{path: path}, nil
}

// Path returns the document location.
func (s *Store) Path() string { return s.path }

// Load reads the document. A missing file is an empty collection.
func (s *Store) Load(_ context.Context) (wage.Collection, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return wage.Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", s.path, err)
	}

	var doc map[string]record
	if err := json.Unmarshal(data, &doc); err != nil {
		backupPath := s.path + ".corrupt"
		if werr := os.WriteFile(backupPath, data, 0o600); werr != nil {
			return nil, fmt.Errorf("corrupt JSON in %s (backup failed: %v): %w", s.path, werr, err)
		}
		return nil, fmt.Errorf("corrupt JSON in %s (copied to %s): %w", s.path, backupPath, err)
	}

	c := make(wage.Collection, len(doc))
	for date, r := range doc {
		e, err := r.toEntry()
		if err != nil {
			return nil, fmt.Errorf("entry %s in %s: %w", date, s.path, err)
		}
		c[date] = e
	}
	return c, nil
}

// Replace atomically rewrites the document with c.
func (s *Store) Replace(_ context.Context, c wage.Collection) error {
	doc := make(map[string]record, len(c))
	for date, e := range c {
		doc[date] = fromEntry(e)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("storage error creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error closing temp file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// =============================================================================
// RECORD - on-disk shape of one entry
// =============================================================================

type record struct {
	InTime        string      `json:"in_time"`
	OutTime       string      `json:"out_time"`
	Hours         json.Number `json:"hours,omitempty"`
	RegularHours  json.Number `json:"regular_hours,omitempty"`
	OvertimeHours json.Number `json:"overtime_hours,omitempty"`
	RawHours      json.Number `json:"raw_hours,omitempty"`
	HourlyRate    json.Number `json:"hourly_rate,omitempty"`
	RegularWage   json.Number `json:"regular_wage,omitempty"`
	OvertimeWage  json.Number `json:"overtime_wage,omitempty"`
	TotalWage     json.Number `json:"total_wage,omitempty"`
	Absent        bool        `json:"absent"`
}

const absentClock = "00:00"

func fromEntry(e wage.Entry) record {
	if e.Shift == nil {
		return record{
			InTime:        absentClock,
			OutTime:       absentClock,
			Hours:         number(decimal.Zero),
			RegularHours:  number(decimal.Zero),
			OvertimeHours: number(decimal.Zero),
			RawHours:      number(decimal.Zero),
			HourlyRate:    number(e.HourlyRate),
			RegularWage:   number(decimal.Zero),
			OvertimeWage:  number(decimal.Zero),
			TotalWage:     number(decimal.Zero),
			Absent:        true,
		}
	}

	s := e.Shift
	return record{
		InTime:        s.In,
		OutTime:       s.Out,
		Hours:         number(s.Hours()),
		RegularHours:  number(s.RegularHours),
		OvertimeHours: number(s.OvertimeHours),
		RawHours:      number(s.RawHours),
		HourlyRate:    number(e.HourlyRate),
		RegularWage:   number(s.RegularWage),
		OvertimeWage:  number(s.OvertimeWage),
		TotalWage:     number(s.TotalWage()),
	}
}

func (r record) toEntry() (wage.Entry, error) {
	var p numberParser
	rate := p.parse(r.HourlyRate, wage.DefaultHourlyRate)
	hours := p.parse(r.Hours, decimal.Zero)
	regular := p.parse(r.RegularHours, decimal.Zero)
	overtime := p.parse(r.OvertimeHours, decimal.Zero)
	raw := p.parse(r.RawHours, hours)
	regularWage := p.parse(r.RegularWage, decimal.Zero)
	overtimeWage := p.parse(r.OvertimeWage, decimal.Zero)
	totalWage := p.parse(r.TotalWage, decimal.Zero)
	if p.err != nil {
		return wage.Entry{}, p.err
	}

	if r.Absent {
		return wage.NewAbsentEntry(rate), nil
	}

	// Documents that only recorded totals keep them as regular figures.
	if r.RegularHours == "" && r.OvertimeHours == "" {
		regular = hours
	}
	if r.RegularWage == "" && r.OvertimeWage == "" {
		regularWage = totalWage
	}

	return wage.Entry{
		HourlyRate: rate,
		Shift: &wage.Shift{
			In:            r.InTime,
			Out:           r.OutTime,
			RawHours:      raw,
			RegularHours:  regular,
			OvertimeHours: overtime,
			RegularWage:   regularWage,
			OvertimeWage:  overtimeWage,
		},
	}, nil
}

func number(d decimal.Decimal) json.Number { return json.Number(d.String()) }

// numberParser keeps the first parse error so fields can be read in a row.
type numberParser struct {
	err error
}

func (p *numberParser) parse(n json.Number, def decimal.Decimal) decimal.Decimal {
	if n == "" || p.err != nil {
		return def
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		p.err = fmt.Errorf("invalid number %q: %w", n, err)
		return def
	}
	return d
}
