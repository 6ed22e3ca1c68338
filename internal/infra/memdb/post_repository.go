package memdb

import (
	"context"
	"strings"
	"sync"

	"pota_dashboard/internal/domain/post"
)

// PostRepository is an in-memory implementation of post.Repository.
// Posts are kept newest-first; Append prepends.
type PostRepository struct {
	mu    sync.RWMutex
	posts []*post.Post
}

func NewPostRepository() *PostRepository {
	return &PostRepository{}
}

func (r *PostRepository) Append(ctx context.Context, p *post.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *p
	r.posts = append([]*post.Post{&cp}, r.posts...)
	return nil
}

func (r *PostRepository) List(ctx context.Context) ([]*post.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]*post.Post, 0, len(r.posts))
	for _, p := range r.posts {
		cp := *p
		posts = append(posts, &cp)
	}
	return posts, nil
}

func (r *PostRepository) FilterByAuthor(ctx context.Context, nameSubstring string) ([]*post.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(nameSubstring)
	posts := make([]*post.Post, 0)
	for _, p := range r.posts {
		if needle == "" || strings.Contains(strings.ToLower(p.Author.FullName), needle) {
			cp := *p
			posts = append(posts, &cp)
		}
	}
	return posts, nil
}
