package memdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pota_dashboard/internal/domain/post"
	"pota_dashboard/internal/domain/user"
)

func TestPostRepository_NewestFirst(t *testing.T) {
	_, _, repo, err := Seed()
	require.NoError(t, err)
	ctx := context.Background()

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "3", posts[0].ID)
	assert.Equal(t, "1", posts[2].ID)

	p := &post.Post{
		ID:          "new",
		AuthorID:    "1",
		Author:      user.User{ID: "1", FullName: "Maria Silva", Role: user.RoleTeacher},
		Message:     "Aviso novo",
		PublishedAt: time.Now(),
	}
	require.NoError(t, repo.Append(ctx, p))

	posts, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 4)
	assert.Equal(t, "new", posts[0].ID)
}

func TestPostRepository_FilterByAuthor(t *testing.T) {
	_, _, repo, err := Seed()
	require.NoError(t, err)
	ctx := context.Background()

	matched, err := repo.FilterByAuthor(ctx, "mArIa")
	require.NoError(t, err)
	assert.Len(t, matched, 3)

	matched, err = repo.FilterByAuthor(ctx, "silva")
	require.NoError(t, err)
	assert.Len(t, matched, 3)

	matched, err = repo.FilterByAuthor(ctx, "ninguém")
	require.NoError(t, err)
	assert.Empty(t, matched)

	// Empty filter matches everything.
	matched, err = repo.FilterByAuthor(ctx, "")
	require.NoError(t, err)
	assert.Len(t, matched, 3)
}
