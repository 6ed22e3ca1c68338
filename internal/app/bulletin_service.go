package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pota_dashboard/internal/domain/post"
	"pota_dashboard/internal/domain/user"
	"pota_dashboard/internal/infra/scheduler"
)

var (
	ErrEmptyMessage = fmt.Errorf("post message must not be empty")
	ErrNotTeacher   = fmt.Errorf("only the teacher may publish posts")
)

// BulletinService manages the shared bulletin board ("mural").
type BulletinService struct {
	postRepo post.Repository
	clock    scheduler.Clock
	logger   *logrus.Logger
	onChange func() // notifier rescan hook; may be nil
}

func NewBulletinService(pr post.Repository, clock scheduler.Clock, logger *logrus.Logger) *BulletinService {
	return &BulletinService{postRepo: pr, clock: clock, logger: logger}
}

// SetOnChange registers a hook invoked after a post is published.
func (s *BulletinService) SetOnChange(f func()) {
	s.onChange = f
}

// AddPost publishes a new bulletin message authored by the teacher.
// Whitespace-only messages are rejected; the form state stays untouched
// for the caller to fix.
func (s *BulletinService) AddPost(ctx context.Context, author *user.User, text string) (*post.Post, error) {
	if !author.IsTeacher() {
		return nil, ErrNotTeacher
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	p := &post.Post{
		ID:          uuid.NewString(),
		AuthorID:    author.ID,
		Author:      *author,
		Message:     text,
		PublishedAt: s.clock.Now(),
	}
	if err := s.postRepo.Append(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to store post: %w", err)
	}
	s.logger.Infof("Post %s published by %s.", p.ID, author.FullName)

	if s.onChange != nil {
		s.onChange()
	}
	return p, nil
}

// ListPosts returns every post, newest first.
func (s *BulletinService) ListPosts(ctx context.Context) ([]*post.Post, error) {
	return s.postRepo.List(ctx)
}

// FilterPosts returns the posts whose author name contains the given
// substring, case-insensitively, preserving newest-first order.
func (s *BulletinService) FilterPosts(ctx context.Context, authorName string) ([]*post.Post, error) {
	return s.postRepo.FilterByAuthor(ctx, authorName)
}
