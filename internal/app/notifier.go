package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"pota_dashboard/internal/domain/invoice"
	"pota_dashboard/internal/domain/notification"
	"pota_dashboard/internal/domain/post"
	"pota_dashboard/internal/domain/user"
	"pota_dashboard/internal/domain/whatsapp"
	"pota_dashboard/internal/infra/scheduler"
)

// Notifier maintains the per-user pop-up notifications. A scan walks
// the invoice and post stores and emits at most one notification per
// (entity, milestone) pair for the whole session; dismissed or expired
// notifications are never re-emitted. Every emitted notification is
// auto-dismissed after a fixed delay unless the user dismisses it first.
type Notifier struct {
	mu          sync.Mutex
	userRepo    user.Repository
	invoiceRepo invoice.Repository
	postRepo    post.Repository
	clock       scheduler.Clock
	logger      *logrus.Logger

	ttl          time.Duration // auto-dismiss delay
	reminderDays int           // the "due soon" milestone, in days before due
	startedAt    time.Time     // posts published before this are considered read

	active map[string][]*notification.Notification // keyed by user ID, newest first
	seen   map[string]map[string]bool              // userID -> emitted notification ids
	timers map[string]scheduler.Timer              // userID+"/"+notifID -> dismiss timer
	closed bool
}

func NewNotifier(
	ur user.Repository,
	ir invoice.Repository,
	pr post.Repository,
	clock scheduler.Clock,
	logger *logrus.Logger,
	ttl time.Duration,
	reminderDays int,
) *Notifier {
	return &Notifier{
		userRepo:     ur,
		invoiceRepo:  ir,
		postRepo:     pr,
		clock:        clock,
		logger:       logger,
		ttl:          ttl,
		reminderDays: reminderDays,
		startedAt:    clock.Now(),
		active:       make(map[string][]*notification.Notification),
		seen:         make(map[string]map[string]bool),
		timers:       make(map[string]scheduler.Timer),
	}
}

// Scan checks every student's pending invoices against the payment
// milestones and the bulletin for posts published since session start.
// Re-running it with unchanged state emits nothing.
func (n *Notifier) Scan(ctx context.Context) error {
	now := n.clock.Now()

	users, err := n.userRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users for scan: %w", err)
	}

	posts, err := n.postRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list posts for scan: %w", err)
	}

	for _, u := range users {
		if u.IsTeacher() {
			continue
		}
		if err := n.scanInvoices(ctx, u, now); err != nil {
			return err
		}
		n.scanPosts(u, posts, now)
	}
	return nil
}

func (n *Notifier) scanInvoices(ctx context.Context, u *user.User, now time.Time) error {
	invoices, err := n.invoiceRepo.ListByUser(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("failed to list invoices for user %s: %w", u.ID, err)
	}

	for _, inv := range invoices {
		if inv.Status != invoice.StatusPending {
			continue
		}
		diffDays := invoice.DaysUntil(inv.DueDate, now)
		amount := whatsapp.FormatBRL(inv.Amount)

		switch diffDays {
		case n.reminderDays:
			n.emit(u.ID, &notification.Notification{
				ID:      notification.InvoiceKey(inv.ID, notification.MilestoneDueSoon),
				Title:   "Lembrete de Pagamento",
				Message: fmt.Sprintf("Sua mensalidade de %s vence em %d dias (%s)", amount, diffDays, whatsapp.FormatDate(inv.DueDate)),
				Kind:    notification.KindWarning,
			}, now)
		case 0:
			n.emit(u.ID, &notification.Notification{
				ID:      notification.InvoiceKey(inv.ID, notification.MilestoneDueToday),
				Title:   "Vencimento Hoje!",
				Message: fmt.Sprintf("Sua mensalidade de %s vence hoje", amount),
				Kind:    notification.KindWarning,
			}, now)
		case -1:
			n.emit(u.ID, &notification.Notification{
				ID:      notification.InvoiceKey(inv.ID, notification.MilestoneOverdue),
				Title:   "Pagamento em Atraso",
				Message: fmt.Sprintf("Sua mensalidade de %s está atrasada desde ontem", amount),
				Kind:    notification.KindWarning,
			}, now)
		}
	}
	return nil
}

func (n *Notifier) scanPosts(u *user.User, posts []*post.Post, now time.Time) {
	for _, p := range posts {
		if !p.Author.IsTeacher() || !p.PublishedAt.After(n.startedAt) {
			continue
		}
		n.emit(u.ID, &notification.Notification{
			ID:      notification.PostKey(p.ID),
			Title:   "Novo Recado no Mural",
			Message: fmt.Sprintf("%s publicou: %s", p.Author.FullName, excerpt(p.Message)),
			Kind:    notification.KindInfo,
		}, now)
	}
}

// emit adds the notification to the user's active set unless its id was
// already emitted this session, and arms the auto-dismiss timer.
func (n *Notifier) emit(userID string, notif *notification.Notification, now time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	if n.seen[userID] == nil {
		n.seen[userID] = make(map[string]bool)
	}
	if n.seen[userID][notif.ID] {
		return
	}
	n.seen[userID][notif.ID] = true

	notif.CreatedAt = now
	n.active[userID] = append([]*notification.Notification{notif}, n.active[userID]...)

	id := notif.ID
	n.timers[timerKey(userID, id)] = n.clock.AfterFunc(n.ttl, func() {
		n.logger.Debugf("Notification %s for user %s expired.", id, userID)
		n.remove(userID, id)
	})
	n.logger.Infof("Notification %s emitted for user %s.", notif.ID, userID)
}

// Active returns the user's currently visible notifications, newest first.
func (n *Notifier) Active(userID string) []notification.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]notification.Notification, 0, len(n.active[userID]))
	for _, notif := range n.active[userID] {
		out = append(out, *notif)
	}
	return out
}

// Dismiss removes a notification before its timer fires. Dismissing an
// id that is not visible is a no-op; either way the id stays marked as
// seen and is never emitted again.
func (n *Notifier) Dismiss(userID, id string) {
	n.remove(userID, id)
}

func (n *Notifier) remove(userID, id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if t, ok := n.timers[timerKey(userID, id)]; ok {
		t.Stop()
		delete(n.timers, timerKey(userID, id))
	}
	list := n.active[userID]
	for i, notif := range list {
		if notif.ID == id {
			n.active[userID] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Close cancels every pending dismiss timer. No notification callback
// fires into torn-down state after Close returns.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.closed = true
	for k, t := range n.timers {
		t.Stop()
		delete(n.timers, k)
	}
	n.active = make(map[string][]*notification.Notification)
}

func timerKey(userID, notifID string) string {
	return userID + "/" + notifID
}

func excerpt(msg string) string {
	const max = 80
	runes := []rune(msg)
	if len(runes) <= max {
		return msg
	}
	return string(runes[:max]) + "…"
}
