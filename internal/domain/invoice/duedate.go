package invoice

import (
	"fmt"
	"time"
)

// DisplayStatus is the date-derived status shown on the dashboard,
// as opposed to the stored Status.
type DisplayStatus string

const (
	DisplayPaid     DisplayStatus = "Pago"
	DisplayOverdue  DisplayStatus = "Atrasado"
	DisplayDueToday DisplayStatus = "VenceHoje"
	DisplayDueSoon  DisplayStatus = "Vencendo"
	DisplayNormal   DisplayStatus = "EmDia"
)

// Upcoming-window sizes in days. Students get the short window for the
// "due soon" highlight; the teacher dashboard looks a full week ahead.
const (
	StudentDueSoonWindow  = 3
	TeacherUpcomingWindow = 7
)

// DaysUntil returns the number of calendar days between now and the due
// date. Both instants are normalized to midnight, so time of day never
// affects the result. Negative means the due date has passed.
func DaysUntil(due, now time.Time) int {
	d := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(n).Hours() / 24)
}

// Classify derives the display status of inv at the reference instant
// now. A stored Pago status always wins over the date buckets. The
// window argument is the DueSoon horizon in days (see StudentDueSoonWindow
// and TeacherUpcomingWindow).
func Classify(inv *Invoice, now time.Time, window int) DisplayStatus {
	if inv.Status == StatusPaid {
		return DisplayPaid
	}
	diffDays := DaysUntil(inv.DueDate, now)
	switch {
	case diffDays < 0:
		return DisplayOverdue
	case diffDays == 0:
		return DisplayDueToday
	case diffDays <= window:
		return DisplayDueSoon
	default:
		return DisplayNormal
	}
}

// RemainingText renders the human-readable remaining time for a
// day difference as computed by DaysUntil.
func RemainingText(diffDays int) string {
	switch {
	case diffDays < 0:
		return fmt.Sprintf("%d dias atrasado", -diffDays)
	case diffDays == 0:
		return "Vence hoje"
	case diffDays == 1:
		return "Vence amanhã"
	default:
		return fmt.Sprintf("%d dias", diffDays)
	}
}
