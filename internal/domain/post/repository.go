package post

import (
	"context"
)

// Repository defines the operations for persisting and retrieving Post entities.
type Repository interface {
	// Append stores a new post. Listing order is newest-first.
	Append(ctx context.Context, p *Post) error
	List(ctx context.Context) ([]*Post, error)
	// FilterByAuthor returns posts whose author name contains the given
	// substring, case-insensitively. An empty substring matches everything.
	FilterByAuthor(ctx context.Context, nameSubstring string) ([]*Post, error)
}
