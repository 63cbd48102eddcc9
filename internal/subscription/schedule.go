package subscription

import (
	"fmt"
	"strings"
	"time"

	"dailydairy-backend/internal/models"
)

// ScheduleItem is one planned delivery day.
type ScheduleItem struct {
	Date     time.Time
	Quantity float64
}

const maxPeriodDays = 90

// GenerateSchedule expands a subscription configuration into its ordered
// (date, quantity) delivery days.
//
//   - DAILY: every day, constant qty.
//   - ALTERNATE_DAYS: day offsets 0,2,4,...; with a valid altQty the quantity
//     alternates qty/altQty across successive delivery days.
//   - DAY1_DAY2: every day, quantity alternating qty/altQty starting with qty;
//     behaves like DAILY when altQty is missing or not positive.
//   - WEEKDAYS: only days whose weekday name is in weekdays, constant qty.
func GenerateSchedule(start time.Time, period int, scheduleType models.ScheduleType, qty float64, altQty *float64, weekdays []string) ([]ScheduleItem, error) {
	if period < 1 || period > maxPeriodDays {
		return nil, fmt.Errorf("period must be between 1 and %d days", maxPeriodDays)
	}
	if qty <= 0 {
		return nil, fmt.Errorf("qty must be positive")
	}

	start = truncateToDay(start)
	alt := 0.0
	hasAlt := false
	if altQty != nil && *altQty > 0 {
		alt = *altQty
		hasAlt = true
	}

	items := make([]ScheduleItem, 0, period)

	switch scheduleType {
	case models.ScheduleDaily:
		for i := 0; i < period; i++ {
			items = append(items, ScheduleItem{Date: start.AddDate(0, 0, i), Quantity: qty})
		}

	case models.ScheduleAlternateDays:
		useAlt := false
		for i := 0; i < period; i += 2 {
			q := qty
			if hasAlt && useAlt {
				q = alt
			}
			items = append(items, ScheduleItem{Date: start.AddDate(0, 0, i), Quantity: q})
			useAlt = !useAlt
		}

	case models.ScheduleDay1Day2:
		for i := 0; i < period; i++ {
			q := qty
			if hasAlt && i%2 == 1 {
				q = alt
			}
			items = append(items, ScheduleItem{Date: start.AddDate(0, 0, i), Quantity: q})
		}

	case models.ScheduleWeekdays:
		selected := make(map[string]bool, len(weekdays))
		for _, w := range weekdays {
			selected[strings.ToUpper(strings.TrimSpace(w))] = true
		}
		if len(selected) == 0 {
			return nil, fmt.Errorf("at least one weekday must be selected")
		}
		for i := 0; i < period; i++ {
			d := start.AddDate(0, 0, i)
			if selected[strings.ToUpper(d.Weekday().String())] {
				items = append(items, ScheduleItem{Date: d, Quantity: qty})
			}
		}

	default:
		return nil, fmt.Errorf("unknown schedule type: %s", scheduleType)
	}

	return items, nil
}

// TotalQuantity sums the quantities of a generated schedule.
func TotalQuantity(items []ScheduleItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
