package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"upkeep/internal/models"
)

// SortKeyLast orders unrecognized schedule descriptions after every real
// group.
const SortKeyLast = math.MaxFloat64

// RecurrenceService computes scheduling metadata for recurring tasks.
type RecurrenceService struct {
	now func() time.Time
}

func NewRecurrenceService() *RecurrenceService {
	return &RecurrenceService{now: time.Now}
}

// NextDueDate advances the task's completion base by its recurrence
// interval. The base is the last completion when present, otherwise the
// creation time. Addition is calendar-correct: adding a month lands on the
// same day of the next month, not a fixed number of hours later.
func (r *RecurrenceService) NextDueDate(task models.Task) time.Time {
	base := task.CreatedAt
	if task.LastCompletedDate != nil {
		base = *task.LastCompletedDate
	}

	switch task.RecurringUnit {
	case models.RecurringUnitDays:
		return base.AddDate(0, 0, task.RecurringInterval)
	case models.RecurringUnitWeeks:
		return base.AddDate(0, 0, 7*task.RecurringInterval)
	case models.RecurringUnitMonths:
		return base.AddDate(0, task.RecurringInterval, 0)
	default:
		return base
	}
}

// IsOverdue reports whether the task's next due date has passed.
func (r *RecurrenceService) IsOverdue(task models.Task) bool {
	return r.NextDueDate(task).Before(r.now())
}

// ScheduleDescription renders "Every N Unit(s)", singular when N is 1
// ("Every Week", "Every 2 Weeks"). The string doubles as a stable grouping
// key for recurring tasks.
func (r *RecurrenceService) ScheduleDescription(task models.Task) string {
	var singular, plural string
	switch task.RecurringUnit {
	case models.RecurringUnitDays:
		singular, plural = "Day", "Days"
	case models.RecurringUnitWeeks:
		singular, plural = "Week", "Weeks"
	case models.RecurringUnitMonths:
		singular, plural = "Month", "Months"
	default:
		return ""
	}

	if task.RecurringInterval == 1 {
		return "Every " + singular
	}
	return fmt.Sprintf("Every %d %s", task.RecurringInterval, plural)
}

// SortKey converts a schedule description back to a total-weeks magnitude
// for ordering groups from most to least frequent; months count as 4 weeks.
// It only understands the strings ScheduleDescription produces — anything
// else sorts last. Not a general parser.
func (r *RecurrenceService) SortKey(description string) float64 {
	rest, ok := strings.CutPrefix(description, "Every ")
	if !ok {
		return SortKeyLast
	}

	interval := 1
	unit := rest
	if fields := strings.Fields(rest); len(fields) == 2 {
		parsed, err := strconv.Atoi(fields[0])
		if err != nil {
			return SortKeyLast
		}
		interval = parsed
		unit = fields[1]
	}

	var weeksPerUnit float64
	switch unit {
	case "Day", "Days":
		weeksPerUnit = 1.0 / 7.0
	case "Week", "Weeks":
		weeksPerUnit = 1
	case "Month", "Months":
		weeksPerUnit = 4
	default:
		return SortKeyLast
	}

	return float64(interval) * weeksPerUnit
}
