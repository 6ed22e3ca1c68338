package app

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"pota_dashboard/internal/domain/invoice"
	"pota_dashboard/internal/domain/user"
	"pota_dashboard/internal/domain/whatsapp"
	"pota_dashboard/internal/infra/scheduler"
)

var (
	ErrNoTeacherAccount = fmt.Errorf("no teacher account is seeded")
	ErrNotInvoiceOwner  = fmt.Errorf("invoice belongs to another student")
)

// InvoiceView is an invoice enriched with its date-derived display
// status and remaining-time text for the reference instant of the call.
type InvoiceView struct {
	Invoice       invoice.Invoice
	DisplayStatus invoice.DisplayStatus
	DiffDays      int
	Remaining     string
}

// BillingSummary backs the teacher dashboard cards.
type BillingSummary struct {
	PendingCount int
	PendingTotal decimal.Decimal
	DueSoonCount int // pending, due within the teacher window
	OverdueCount int // past due and not paid, regardless of stored status
	UpcomingDays int
}

// ReminderMessage is a rendered WhatsApp message plus its deep link.
// The link is only ever constructed, never opened or sent from here.
type ReminderMessage struct {
	Text string
	Link string
}

// BillingService implements the invoice operations of both dashboards.
type BillingService struct {
	invoiceRepo   invoice.Repository
	userRepo      user.Repository
	templates     whatsapp.Templates
	pixKey        string
	countryCode   string
	studentWindow int
	teacherWindow int
	clock         scheduler.Clock
	logger        *logrus.Logger
	onChange      func() // notifier rescan hook; may be nil
}

func NewBillingService(
	ir invoice.Repository,
	ur user.Repository,
	templates whatsapp.Templates,
	pixKey string,
	countryCode string,
	studentWindow int,
	teacherWindow int,
	clock scheduler.Clock,
	logger *logrus.Logger,
) *BillingService {
	return &BillingService{
		invoiceRepo:   ir,
		userRepo:      ur,
		templates:     templates,
		pixKey:        pixKey,
		countryCode:   countryCode,
		studentWindow: studentWindow,
		teacherWindow: teacherWindow,
		clock:         clock,
		logger:        logger,
	}
}

// SetOnChange registers a hook invoked after every mutation, used to
// trigger a notification rescan.
func (s *BillingService) SetOnChange(f func()) {
	s.onChange = f
}

// ListInvoices returns the invoices visible to actor: the teacher sees
// every invoice, a student only their own. Each is classified against
// the role's due-soon window at the current instant.
func (s *BillingService) ListInvoices(ctx context.Context, actor *user.User) ([]InvoiceView, error) {
	var (
		invoices []*invoice.Invoice
		err      error
		window   = s.studentWindow
	)
	if actor.IsTeacher() {
		invoices, err = s.invoiceRepo.ListAll(ctx)
		window = s.teacherWindow
	} else {
		invoices, err = s.invoiceRepo.ListByUser(ctx, actor.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	now := s.clock.Now()
	views := make([]InvoiceView, 0, len(invoices))
	for _, inv := range invoices {
		diffDays := invoice.DaysUntil(inv.DueDate, now)
		views = append(views, InvoiceView{
			Invoice:       *inv,
			DisplayStatus: invoice.Classify(inv, now, window),
			DiffDays:      diffDays,
			Remaining:     invoice.RemainingText(diffDays),
		})
	}
	return views, nil
}

// Summary aggregates the teacher dashboard counters.
func (s *BillingService) Summary(ctx context.Context) (*BillingSummary, error) {
	invoices, err := s.invoiceRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices for summary: %w", err)
	}

	now := s.clock.Now()
	sum := &BillingSummary{PendingTotal: decimal.Zero, UpcomingDays: s.teacherWindow}
	for _, inv := range invoices {
		diffDays := invoice.DaysUntil(inv.DueDate, now)
		if inv.Status == invoice.StatusPending {
			sum.PendingCount++
			sum.PendingTotal = sum.PendingTotal.Add(inv.Amount)
			if diffDays >= 0 && diffDays <= s.teacherWindow {
				sum.DueSoonCount++
			}
		}
		if inv.Status != invoice.StatusPaid && diffDays < 0 {
			sum.OverdueCount++
		}
	}
	return sum, nil
}

// MarkPaid transitions an invoice to Pago. Calling it on an invoice
// that is already paid is a no-op; there is no reverse transition.
func (s *BillingService) MarkPaid(ctx context.Context, invoiceID string) (*invoice.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if inv.Status == invoice.StatusPaid {
		s.logger.Infof("Invoice %s is already marked as paid. No action needed.", invoiceID)
		return inv, nil
	}

	inv.Status = invoice.StatusPaid
	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to update invoice %s: %w", invoiceID, err)
	}
	s.logger.Infof("Invoice %s marked as paid.", invoiceID)

	if s.onChange != nil {
		s.onChange()
	}
	return inv, nil
}

// ReminderLink renders the teacher's payment reminder for an invoice
// and builds the WhatsApp deep link to the owing student. The template
// is selected by the invoice's current milestone.
func (s *BillingService) ReminderLink(ctx context.Context, invoiceID string) (*ReminderMessage, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	diffDays := invoice.DaysUntil(inv.DueDate, now)

	var tpl string
	switch {
	case inv.Status != invoice.StatusPaid && diffDays < 0:
		tpl = s.templates.Overdue
	case inv.Status != invoice.StatusPaid && diffDays == 0:
		tpl = s.templates.DueToday
	default:
		tpl = s.templates.Reminder
	}

	text := whatsapp.Render(tpl, whatsapp.MessageData{
		Name:          inv.User.FullName,
		Amount:        inv.Amount,
		DueDate:       inv.DueDate,
		RemainingText: invoice.RemainingText(diffDays),
		PixKey:        s.pixKey,
	})

	link, err := whatsapp.Link(inv.User.WhatsAppPhone, s.countryCode, text)
	if err != nil {
		return nil, fmt.Errorf("cannot build reminder link for invoice %s: %w", invoiceID, err)
	}
	return &ReminderMessage{Text: text, Link: link}, nil
}

// PaymentLink renders the student's proof-of-payment message for one of
// their invoices and links it to the teacher's WhatsApp.
func (s *BillingService) PaymentLink(ctx context.Context, actor *user.User, invoiceID string) (*ReminderMessage, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !actor.IsTeacher() && inv.UserID != actor.ID {
		return nil, ErrNotInvoiceOwner
	}

	teacher, err := s.findTeacher(ctx)
	if err != nil {
		return nil, err
	}

	text := whatsapp.Render(s.templates.PaymentConfirmation, whatsapp.MessageData{
		Name:          actor.FullName,
		Amount:        inv.Amount,
		DueDate:       inv.DueDate,
		RemainingText: invoice.RemainingText(invoice.DaysUntil(inv.DueDate, s.clock.Now())),
		PixKey:        s.pixKey,
	})

	link, err := whatsapp.Link(teacher.WhatsAppPhone, s.countryCode, text)
	if err != nil {
		return nil, fmt.Errorf("cannot build payment link for invoice %s: %w", invoiceID, err)
	}
	return &ReminderMessage{Text: text, Link: link}, nil
}

func (s *BillingService) findTeacher(ctx context.Context) (*user.User, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for _, u := range users {
		if u.IsTeacher() {
			return u, nil
		}
	}
	return nil, ErrNoTeacherAccount
}
