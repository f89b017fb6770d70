package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/wage-engine/wage"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *Store {
	s, err := New(filepath.Join(t.TempDir(), "data", "wage_data.json"))
	require.NoError(t, err)
	return s
}

func mustBuild(t *testing.T, req wage.SaveRequest) (string, wage.Entry) {
	date, e, err := wage.BuildEntry(req)
	require.NoError(t, err)
	return date, e
}

func assertDecEq(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

// =============================================================================
// TESTS
// =============================================================================

func TestNew_EmptyPath(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)

	c, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Empty(t, c)
}

func TestReplaceThenLoad_RoundTrip(t *testing.T) {
	// GIVEN: a worked weekday, a Sunday with a fractional rate and an absent day
	// WHEN: the collection is written and read back
	// THEN: every figure survives exactly

	s := newTestStore(t)
	ctx := context.Background()

	rate := decimal.RequireFromString("62.75")
	d1, e1 := mustBuild(t, wage.SaveRequest{Date: "2024-03-04", InTime: "09:00", OutTime: "19:00"})
	d2, e2 := mustBuild(t, wage.SaveRequest{Date: "2024-03-10", InTime: "08:20", OutTime: "15:05", HourlyRate: &rate})
	d3, e3 := mustBuild(t, wage.SaveRequest{Date: "2024-03-05", HourlyRate: &rate, Absent: true})

	require.NoError(t, s.Replace(ctx, wage.Collection{d1: e1, d2: e2, d3: e3}))

	c, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, c, 3)

	for date, want := range map[string]wage.Entry{d1: e1, d2: e2} {
		got := c[date]
		require.NotNil(t, got.Shift, date)
		assert.Equal(t, want.Shift.In, got.Shift.In)
		assert.Equal(t, want.Shift.Out, got.Shift.Out)
		assertDecEq(t, want.HourlyRate.String(), got.HourlyRate)
		assertDecEq(t, want.Shift.RawHours.String(), got.Shift.RawHours)
		assertDecEq(t, want.Shift.RegularHours.String(), got.Shift.RegularHours)
		assertDecEq(t, want.Shift.OvertimeHours.String(), got.Shift.OvertimeHours)
		assertDecEq(t, want.Shift.RegularWage.String(), got.Shift.RegularWage)
		assertDecEq(t, want.Shift.OvertimeWage.String(), got.Shift.OvertimeWage)
	}

	assert.True(t, c[d3].Absent())
	assertDecEq(t, "62.75", c[d3].HourlyRate)
}

func TestReplace_DocumentIsReadable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d1, e1 := mustBuild(t, wage.SaveRequest{Date: "2024-03-04", InTime: "09:00", OutTime: "19:00"})
	d2, e2 := mustBuild(t, wage.SaveRequest{Date: "2024-03-05", Absent: true})
	require.NoError(t, s.Replace(ctx, wage.Collection{d1: e1, d2: e2}))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	doc := string(data)

	assert.Contains(t, doc, `"2024-03-04": {`)
	assert.Contains(t, doc, `"in_time": "09:00"`)
	assert.Contains(t, doc, `"total_wage": 475`)
	assert.Contains(t, doc, `"raw_hours": 10`)
	assert.Contains(t, doc, `"absent": true`)
	assert.Contains(t, doc, `"out_time": "00:00"`)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(s.Path()), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temp files must not be left behind")
}

func TestLoad_LegacyDocumentDefaults(t *testing.T) {
	// GIVEN: a document written before rate and split fields existed
	// WHEN: it is loaded
	// THEN: rate defaults to 50, raw hours to hours, totals become regular

	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o700))
	legacy := `{"2024-01-08": {"in_time": "09:00", "out_time": "17:00", "hours": 7, "total_wage": 350}}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(legacy), 0o600))

	c, err := s.Load(context.Background())
	require.NoError(t, err)

	e := c["2024-01-08"]
	require.NotNil(t, e.Shift)
	assertDecEq(t, "50", e.HourlyRate)
	assertDecEq(t, "7", e.Shift.RawHours)
	assertDecEq(t, "7", e.Shift.RegularHours)
	assertDecEq(t, "0", e.Shift.OvertimeHours)
	assertDecEq(t, "350", e.TotalWage())
	assertDecEq(t, "7", e.Hours())
}

func TestLoad_CorruptDocumentIsBackedUp(t *testing.T) {
	// GIVEN: a document that is not valid JSON
	// WHEN: it is loaded twice
	// THEN: both loads fail, a copy is kept and the document stays in place

	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o700))
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o600))

	_, err := s.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt JSON")

	backup, err := os.ReadFile(s.Path() + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(backup))

	doc, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(doc))

	_, err = s.Load(context.Background())
	assert.Error(t, err, "a corrupt document keeps failing")
}

func TestLoad_TypeMismatchKeepsDocument(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o700))
	doc := `{"2024-03-04": {"in_time": 900, "out_time": "17:00"}}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(doc), 0o600))

	entries, err := wage.NewEntryStore(s)
	require.NoError(t, err)

	_, err = entries.Load(context.Background())
	require.Error(t, err)
	_, _, err = entries.Save(context.Background(), wage.SaveRequest{Date: "2024-03-05", Absent: true})
	require.Error(t, err, "a save must not overwrite a document it could not read")

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, doc, string(data))
}

func TestReplace_ConcurrentWritersNeverTearDocument(t *testing.T) {
	// GIVEN: a large and a small collection
	// WHEN: several goroutines replace the document with them at once
	// THEN: every write succeeds and the document always decodes to one of them

	s := newTestStore(t)
	ctx := context.Background()

	large := wage.Collection{}
	for day := 1; day <= 28; day++ {
		for month := 1; month <= 12; month++ {
			date, e := mustBuild(t, wage.SaveRequest{
				Date: fmt.Sprintf("2023-%02d-%02d", month, day), InTime: "08:00", OutTime: "19:30",
			})
			large[date] = e
		}
	}
	date, e := mustBuild(t, wage.SaveRequest{Date: "2024-03-04", InTime: "09:00", OutTime: "17:00"})
	small := wage.Collection{date: e}

	for round := 0; round < 50; round++ {
		var wg sync.WaitGroup
		errs := make(chan error, 4)
		for i := 0; i < 4; i++ {
			c := large
			if i%2 == 1 {
				c = small
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- s.Replace(ctx, c)
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err, "round %d", round)
		}

		got, err := s.Load(ctx)
		require.NoError(t, err, "round %d", round)
		assert.Contains(t, []int{len(large), len(small)}, len(got))
	}

	_, err := os.Stat(s.Path() + ".corrupt")
	assert.True(t, os.IsNotExist(err))
}

func TestEntryStoreOverFile(t *testing.T) {
	// GIVEN: an EntryStore on a file backend
	// WHEN: a month is saved and then deleted
	// THEN: a fresh store on the same file sees only what remains

	s := newTestStore(t)
	ctx := context.Background()

	entries, err := wage.NewEntryStore(s)
	require.NoError(t, err)
	for _, d := range []string{"2024-02-29", "2024-03-01", "2024-03-02"} {
		_, _, err := entries.Save(ctx, wage.SaveRequest{Date: d, InTime: "09:00", OutTime: "18:30"})
		require.NoError(t, err)
	}
	n, err := entries.DeleteMonth(ctx, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	reopened, err := New(s.Path())
	require.NoError(t, err)
	c, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, c, 1)
	assert.Contains(t, c, "2024-02-29")
}
