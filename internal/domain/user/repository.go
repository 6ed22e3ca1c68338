package user

import (
	"context"
)

// Repository defines the operations for retrieving User entities.
// Users are seeded once, so there are no mutating methods.
type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListAll(ctx context.Context) ([]*User, error)
}
