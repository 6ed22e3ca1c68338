package notification

import (
	"fmt"
	"time"
)

// Kind selects the pop-up styling: warning for payment milestones,
// info for bulletin activity.
type Kind string

const (
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Milestone is a named due-date threshold that triggers a notification.
type Milestone string

const (
	MilestoneDueSoon  Milestone = "3days" // reminder window before the due date
	MilestoneDueToday Milestone = "today"
	MilestoneOverdue  Milestone = "late" // one day past due
)

// InvoiceKey builds the deduplication id for an (invoice, milestone)
// pair. The notifier never emits the same key twice within a session.
func InvoiceKey(invoiceID string, m Milestone) string {
	return fmt.Sprintf("fatura-%s-%s", invoiceID, m)
}

// PostKey builds the deduplication id for a bulletin post notification.
func PostKey(postID string) string {
	return fmt.Sprintf("recado-%s", postID)
}

// Notification is a transient pop-up. It lives in memory until its
// auto-dismiss timer fires or the user dismisses it, whichever comes first.
type Notification struct {
	ID        string // dedup key, see InvoiceKey and PostKey
	Title     string
	Message   string
	Kind      Kind
	CreatedAt time.Time
}
