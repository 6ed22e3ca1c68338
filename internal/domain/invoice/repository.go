package invoice

import (
	"context"
)

// Repository defines the operations for persisting and retrieving Invoice entities.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Invoice, error)
	ListByUser(ctx context.Context, userID string) ([]*Invoice, error)
	ListAll(ctx context.Context) ([]*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
}
