package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pota_dashboard/internal/domain/invoice"
	"pota_dashboard/internal/domain/user"
	"pota_dashboard/internal/domain/whatsapp"
	"pota_dashboard/internal/infra/memdb"
)

func newTestBilling(t *testing.T, now time.Time) (*BillingService, *memdb.UserRepository, *memdb.InvoiceRepository) {
	t.Helper()
	users, invoices, _, err := memdb.Seed()
	require.NoError(t, err)

	svc := NewBillingService(
		invoices,
		users,
		whatsapp.DefaultTemplates(),
		"professor@pota.com",
		whatsapp.DefaultCountryCode,
		invoice.StudentDueSoonWindow,
		invoice.TeacherUpcomingWindow,
		newFakeClock(now),
		testLogger(),
	)
	return svc, users, invoices
}

func getUser(t *testing.T, users *memdb.UserRepository, id string) *user.User {
	t.Helper()
	u, err := users.GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func TestBillingService_ListInvoices_RoleScoping(t *testing.T) {
	now := time.Date(2024, 1, 22, 10, 0, 0, 0, time.Local)
	svc, users, _ := newTestBilling(t, now)
	ctx := context.Background()

	all, err := svc.ListInvoices(ctx, getUser(t, users, "1"))
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := svc.ListInvoices(ctx, getUser(t, users, "2"))
	require.NoError(t, err)
	require.Len(t, mine, 2)
	// Invoice 1 is due in exactly 3 days: DueSoon for the student window.
	assert.Equal(t, invoice.DisplayDueSoon, mine[0].DisplayStatus)
	assert.Equal(t, 3, mine[0].DiffDays)
	assert.Equal(t, "3 dias", mine[0].Remaining)
}

func TestBillingService_MarkPaid_RoundTrip(t *testing.T) {
	now := time.Date(2024, 1, 22, 10, 0, 0, 0, time.Local)
	svc, users, _ := newTestBilling(t, now)
	ctx := context.Background()

	rescans := 0
	svc.SetOnChange(func() { rescans++ })

	inv, err := svc.MarkPaid(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusPaid, inv.Status)
	assert.Equal(t, 1, rescans)

	// The change is visible through subsequent listings.
	mine, err := svc.ListInvoices(ctx, getUser(t, users, "2"))
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusPaid, mine[0].Invoice.Status)
	assert.Equal(t, invoice.DisplayPaid, mine[0].DisplayStatus)

	// Marking again is a no-op and does not trigger another rescan.
	again, err := svc.MarkPaid(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusPaid, again.Status)
	assert.Equal(t, 1, rescans)
}

func TestBillingService_MarkPaid_FromOverdue(t *testing.T) {
	now := time.Date(2024, 2, 1, 10, 0, 0, 0, time.Local)
	svc, _, _ := newTestBilling(t, now)

	inv, err := svc.MarkPaid(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusPaid, inv.Status)
}

func TestBillingService_MarkPaid_Unknown(t *testing.T) {
	svc, _, _ := newTestBilling(t, time.Now())
	_, err := svc.MarkPaid(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, memdb.ErrInvoiceNotFound)
}

func TestBillingService_Summary(t *testing.T) {
	// 2024-01-22: invoices 1 (due 25/01, Pendente) and 3 (due 25/02,
	// Pendente) are open, invoice 2 (due 28/01) is stored Atrasado but
	// not yet past due.
	now := time.Date(2024, 1, 22, 10, 0, 0, 0, time.Local)
	svc, _, _ := newTestBilling(t, now)

	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.PendingCount)
	assert.Equal(t, "R$ 300,00", whatsapp.FormatBRL(sum.PendingTotal))
	assert.Equal(t, 1, sum.DueSoonCount)
	assert.Equal(t, 0, sum.OverdueCount)

	// A week later invoice 2 is genuinely overdue and invoice 1 still pending.
	svc2, _, _ := newTestBilling(t, time.Date(2024, 1, 29, 10, 0, 0, 0, time.Local))
	sum, err = svc2.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.OverdueCount)
}

func TestBillingService_ReminderLink(t *testing.T) {
	now := time.Date(2024, 1, 22, 10, 0, 0, 0, time.Local)
	svc, _, _ := newTestBilling(t, now)

	msg, err := svc.ReminderLink(context.Background(), "1")
	require.NoError(t, err)

	assert.Contains(t, msg.Text, "Olá João Santos")
	assert.Contains(t, msg.Text, "R$ 150,00")
	assert.Contains(t, msg.Text, "25/01/2024")
	assert.Contains(t, msg.Text, "PIX: professor@pota.com")
	assert.True(t, strings.HasPrefix(msg.Link, "https://wa.me/5511888888888?text="), msg.Link)
}

func TestBillingService_ReminderLink_OverdueTemplate(t *testing.T) {
	now := time.Date(2024, 2, 1, 10, 0, 0, 0, time.Local)
	svc, _, _ := newTestBilling(t, now)

	msg, err := svc.ReminderLink(context.Background(), "2")
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "4 dias atrasado")
	assert.Contains(t, msg.Text, "28/01/2024")
}

func TestBillingService_PaymentLink(t *testing.T) {
	now := time.Date(2024, 1, 22, 10, 0, 0, 0, time.Local)
	svc, users, _ := newTestBilling(t, now)
	ctx := context.Background()

	msg, err := svc.PaymentLink(ctx, getUser(t, users, "2"), "1")
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "aqui é João Santos")
	assert.Contains(t, msg.Text, "R$ 150,00")
	// The confirmation goes to the teacher's number.
	assert.True(t, strings.HasPrefix(msg.Link, "https://wa.me/5511999999999?text="), msg.Link)

	// Another student's invoice is off limits.
	_, err = svc.PaymentLink(ctx, getUser(t, users, "3"), "1")
	assert.ErrorIs(t, err, ErrNotInvoiceOwner)
}
