package delivery

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"farmer-market-web/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func newTestService(now time.Time) (*service, *storage.MemoryStore) {
	mem := storage.NewMemoryStore()
	s := NewService(mem).(*service)
	s.now = func() time.Time { return now }
	s.newID = func(t time.Time) string { return "DEL-" + t.Format("2006") + "-500" }
	return s, mem
}

func TestSeed(t *testing.T) {
	rows := Seed()

	require.Len(t, rows, 11)
	ids := map[string]bool{}
	for _, d := range rows {
		assert.False(t, ids[d.ID], "duplicate id %s", d.ID)
		ids[d.ID] = true
		_, ok := d.Time()
		assert.True(t, ok, d.ID)
	}
	assert.Equal(t, 3, DelayedCount(rows))

	rows[0].ProduceSummary[0] = "changed"
	assert.Equal(t, "Fresh Tomatoes", Seed()[0].ProduceSummary[0])
}

func TestList_SeedsEmptyStorage(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestService(time.Now())
	require.NoError(t, mem.Set(ctx, LegacyStorageKey, "[]"))

	got := s.List(ctx)

	assert.Len(t, got, 11)
	_, ok, _ := mem.Get(ctx, StorageKey)
	assert.True(t, ok)
	_, ok, _ = mem.Get(ctx, LegacyStorageKey)
	assert.False(t, ok)
}

func TestQuery(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 10, 26, 12, 0, 0, 0, time.Local)
	s, _ := newTestService(now)

	t.Run("Delayed filter", func(t *testing.T) {
		v := s.Query(ctx, Filter{Status: "Delayed", Range: RangeAll}, 1)
		assert.Equal(t, 3, v.Total)
		for _, d := range v.Items {
			assert.Equal(t, StatusDelayed, d.Status)
		}
		assert.Equal(t, 3, v.DelayedCount)
	})

	t.Run("Default window is seven days", func(t *testing.T) {
		v := s.Query(ctx, DefaultFilter(), 1)
		for _, d := range v.Items {
			when, _ := d.Time()
			assert.LessOrEqual(t, now.Sub(when), 7*24*time.Hour)
		}
		assert.Equal(t, 9, v.Total)
	})

	t.Run("Paginates by seven", func(t *testing.T) {
		v := s.Query(ctx, Filter{Range: RangeAll}, 2)
		assert.Equal(t, 2, v.TotalPages)
		assert.Len(t, v.Items, 4)
	})

	t.Run("Search matches id or recipient", func(t *testing.T) {
		assert.Len(t, s.Filtered(ctx, Filter{Search: "del-2025-10", Range: RangeAll}), 10)
		assert.Len(t, s.Filtered(ctx, Filter{Search: "  GROCER ", Range: RangeAll}), 2)
	})

	t.Run("Recipient filter", func(t *testing.T) {
		got := s.Filtered(ctx, Filter{Recipient: "Harvest Hub", Range: RangeAll})
		require.Len(t, got, 1)
		assert.Equal(t, "DEL-2025-110", got[0].ID)
	})

	t.Run("Recipients list", func(t *testing.T) {
		v := s.Query(ctx, DefaultFilter(), 1)
		assert.Equal(t, "All", v.Recipients[0])
		assert.Len(t, v.Recipients, 12)
	})
}

func TestSchedule(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s, _ := newTestService(now)

	d, err := s.Schedule(ctx, ScheduleForm{
		Produce:   " Yam, ,Cassava ,",
		WeightLbs: "12.5",
		Crates:    "x",
	})
	require.NoError(t, err)

	assert.Equal(t, "DEL-2026-500", d.ID)
	assert.Equal(t, UnknownRecipient, d.Recipient)
	assert.Equal(t, []string{"Yam", "Cassava"}, d.ProduceSummary)
	assert.Equal(t, 12.5, d.WeightLbs)
	assert.Equal(t, 0, d.Crates)
	assert.Equal(t, StatusScheduled, d.Status)
	assert.Equal(t, "2026-03-01T09:00:00.000Z", d.Datetime)

	list := s.List(ctx)
	assert.Len(t, list, 12)
	assert.Equal(t, d.ID, list[0].ID)

	_, err = s.Schedule(ctx, ScheduleForm{Datetime: "tomorrow"})
	assert.ErrorIs(t, err, ErrInvalidWhen)
}

func TestSchedule_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC))
	s.newID = randomID

	for range 200 {
		_, err := s.Schedule(ctx, ScheduleForm{Recipient: "Green Grocers"})
		require.NoError(t, err)
	}

	list := s.List(ctx)
	require.Len(t, list, 211)
	seen := map[string]bool{}
	for _, d := range list {
		assert.False(t, seen[d.ID], "duplicate id %s", d.ID)
		seen[d.ID] = true
	}

	t.Run("Fixed generator still yields distinct ids", func(t *testing.T) {
		s, _ := newTestService(time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC))
		s.newID = func(time.Time) string { return "DEL-2025-106" }

		a, _ := s.Schedule(ctx, ScheduleForm{})
		b, _ := s.Schedule(ctx, ScheduleForm{})

		assert.Equal(t, "DEL-2025-106-2", a.ID)
		assert.Equal(t, "DEL-2025-106-3", b.ID)
		d, err := s.CycleStatus(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, a.ID, d.ID)
	})
}

func TestCycleStatus(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(time.Now())

	d, err := s.CycleStatus(ctx, "DEL-2025-105")
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, d.Status)

	d, _ = s.CycleStatus(ctx, "DEL-2025-105")
	assert.Equal(t, StatusInTransit, d.Status)

	_, err = s.CycleStatus(ctx, "DEL-0000-000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWriteCSV(t *testing.T) {
	rows := []Delivery{{
		ID:             "DEL-1",
		Datetime:       "bad",
		Recipient:      `Joe "The" Grocer`,
		ProduceSummary: []string{"Yam", "Okra"},
		WeightLbs:      10,
		Crates:         2,
		Status:         StatusDelayed,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"Shipment ID","Date/Time","Recipient","Location","Produce Summary","Weight (lbs)","Crates","Status"`, lines[0])
	assert.Equal(t, `"DEL-1","bad","Joe ""The"" Grocer","","Yam; Okra","10","2","Delayed"`, lines[1])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, Seed()[:2]))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	sheet := file.Sheets[0]
	assert.Equal(t, "Deliveries", sheet.Name)
	assert.Equal(t, 3, sheet.MaxRow)
	assert.Equal(t, "Shipment ID", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "DEL-2025-101", sheet.Rows[1].Cells[0].String())
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2025, 10, 26, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "deliveries_export_2025-10-26.csv", ExportFileName(now, "csv"))
}
