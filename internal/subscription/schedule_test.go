package subscription

import (
	"testing"
	"time"

	"dailydairy-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateScheduleDaily(t *testing.T) {
	start := day(2026, time.March, 1)

	items, err := GenerateSchedule(start, 30, models.ScheduleDaily, 1, nil, nil)
	require.NoError(t, err)
	require.Len(t, items, 30)

	assert.Equal(t, start, items[0].Date)
	assert.Equal(t, day(2026, time.March, 30), items[29].Date)
	for _, it := range items {
		assert.Equal(t, 1.0, it.Quantity)
	}
	assert.Equal(t, 30.0, TotalQuantity(items))
}

func TestGenerateScheduleDailyTruncatesTime(t *testing.T) {
	start := time.Date(2026, time.March, 1, 14, 30, 12, 0, time.UTC)

	items, err := GenerateSchedule(start, 2, models.ScheduleDaily, 1, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, day(2026, time.March, 1), items[0].Date)
	assert.Equal(t, day(2026, time.March, 2), items[1].Date)
}

func TestGenerateScheduleAlternateDays(t *testing.T) {
	start := day(2026, time.March, 1)
	alt := 3.0

	items, err := GenerateSchedule(start, 10, models.ScheduleAlternateDays, 2, &alt, nil)
	require.NoError(t, err)
	require.Len(t, items, 5)

	// offsets 0,2,4,6,8 with quantity alternating 2/3
	wantQty := []float64{2, 3, 2, 3, 2}
	for i, it := range items {
		assert.Equal(t, start.AddDate(0, 0, i*2), it.Date)
		assert.Equal(t, wantQty[i], it.Quantity)
	}
	assert.Equal(t, 12.0, TotalQuantity(items))
}

func TestGenerateScheduleAlternateDaysWithoutAltQty(t *testing.T) {
	start := day(2026, time.March, 1)

	items, err := GenerateSchedule(start, 7, models.ScheduleAlternateDays, 1.5, nil, nil)
	require.NoError(t, err)
	require.Len(t, items, 4)
	for _, it := range items {
		assert.Equal(t, 1.5, it.Quantity)
	}
}

func TestGenerateScheduleDay1Day2(t *testing.T) {
	start := day(2026, time.March, 1)
	alt := 1.0

	items, err := GenerateSchedule(start, 5, models.ScheduleDay1Day2, 2, &alt, nil)
	require.NoError(t, err)
	require.Len(t, items, 5)

	wantQty := []float64{2, 1, 2, 1, 2}
	for i, it := range items {
		assert.Equal(t, start.AddDate(0, 0, i), it.Date)
		assert.Equal(t, wantQty[i], it.Quantity)
	}
}

func TestGenerateScheduleDay1Day2FallsBackToDaily(t *testing.T) {
	start := day(2026, time.March, 1)
	zero := 0.0

	items, err := GenerateSchedule(start, 4, models.ScheduleDay1Day2, 2, &zero, nil)
	require.NoError(t, err)
	for _, it := range items {
		assert.Equal(t, 2.0, it.Quantity)
	}
}

func TestGenerateScheduleWeekdays(t *testing.T) {
	// 2026-03-02 is a Monday
	start := day(2026, time.March, 2)

	items, err := GenerateSchedule(start, 14, models.ScheduleWeekdays, 1, nil, []string{"monday", " Thursday "})
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, day(2026, time.March, 2), items[0].Date)
	assert.Equal(t, day(2026, time.March, 5), items[1].Date)
	assert.Equal(t, day(2026, time.March, 9), items[2].Date)
	assert.Equal(t, day(2026, time.March, 12), items[3].Date)
}

func TestGenerateScheduleWeekdaysRequiresSelection(t *testing.T) {
	_, err := GenerateSchedule(day(2026, time.March, 2), 7, models.ScheduleWeekdays, 1, nil, nil)
	assert.Error(t, err)
}

func TestGenerateScheduleRejectsBadInput(t *testing.T) {
	start := day(2026, time.March, 1)

	_, err := GenerateSchedule(start, 0, models.ScheduleDaily, 1, nil, nil)
	assert.Error(t, err)

	_, err = GenerateSchedule(start, 91, models.ScheduleDaily, 1, nil, nil)
	assert.Error(t, err)

	_, err = GenerateSchedule(start, 7, models.ScheduleDaily, 0, nil, nil)
	assert.Error(t, err)

	_, err = GenerateSchedule(start, 7, models.ScheduleType("FORTNIGHTLY"), 1, nil, nil)
	assert.Error(t, err)
}
