package memdb

import (
	"context"
	"fmt"
	"sync"

	"pota_dashboard/internal/domain/invoice"
)

var ErrInvoiceNotFound = fmt.Errorf("invoice not found")

// InvoiceRepository is an in-memory implementation of invoice.Repository.
// Listing preserves insertion order, matching the seeded fixture order.
type InvoiceRepository struct {
	mu    sync.RWMutex
	table map[string]*invoice.Invoice
	order []string
}

func NewInvoiceRepository() *InvoiceRepository {
	return &InvoiceRepository{table: make(map[string]*invoice.Invoice)}
}

func (r *InvoiceRepository) add(inv *invoice.Invoice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *inv
	r.table[inv.ID] = &cp
	r.order = append(r.order, inv.ID)
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*invoice.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if inv, ok := r.table[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, ErrInvoiceNotFound
}

func (r *InvoiceRepository) ListByUser(ctx context.Context, userID string) ([]*invoice.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	invoices := make([]*invoice.Invoice, 0)
	for _, id := range r.order {
		if inv := r.table[id]; inv.UserID == userID {
			cp := *inv
			invoices = append(invoices, &cp)
		}
	}
	return invoices, nil
}

func (r *InvoiceRepository) ListAll(ctx context.Context) ([]*invoice.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	invoices := make([]*invoice.Invoice, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.table[id]
		invoices = append(invoices, &cp)
	}
	return invoices, nil
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.table[inv.ID]; !ok {
		return ErrInvoiceNotFound
	}
	cp := *inv
	r.table[inv.ID] = &cp
	return nil
}
