package post

import (
	"time"

	"pota_dashboard/internal/domain/user"
)

// Post is a bulletin-board message authored by the teacher. Posts are
// never edited or deleted.
type Post struct {
	ID          string
	AuthorID    string
	Author      user.User
	Message     string
	PublishedAt time.Time
}
