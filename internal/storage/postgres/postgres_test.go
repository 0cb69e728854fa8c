package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	cfgStorage "github.com/IlianBuh/Blog-service/internal/config/storage"
	"github.com/IlianBuh/Blog-service/internal/domain/models"
	"github.com/IlianBuh/Blog-service/internal/storage"
	"github.com/brianvoe/gofakeit"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const migrationsPath = "file://../../../migrations"

// newTestStorage connects to TEST_DATABASE_URL and recreates the schema
func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	m, err := migrate.New(migrationsPath, dsn)
	require.NoError(t, err)
	if err = m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err)
	}
	require.NoError(t, m.Up())

	s, err := Open(cfgStorage.DriverPQ, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })

	return s
}

func TestFilterClause(t *testing.T) {
	where, args := filterClause(models.PostFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = filterClause(models.PostFilter{GroupId: 3, AuthorId: 7})
	assert.Equal(t, "\n\tWHERE p.group_id = $1 AND p.author_id = $2", where)
	assert.Equal(t, []any{int64(3), int64(7)}, args)

	where, args = filterClause(models.PostFilter{AuthorId: 7})
	assert.Equal(t, "\n\tWHERE p.author_id = $1", where)
	assert.Equal(t, []any{int64(7)}, args)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("sqlite", "file::memory:")
	require.ErrorIs(t, err, storage.ErrUnknownDriver)
}

func TestDSN(t *testing.T) {
	dsn := DSN(cfgStorage.Config{
		DBName: "blog", User: "u", Password: "p", Host: "db", Port: 5432, Timeout: 3,
	})

	assert.Equal(t, "postgres://u:p@db:5432/blog?connect_timeout=3&sslmode=disable", dsn)
}

func TestStorage_PostLifecycle(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	author := models.User{Id: 1, Username: "leo"}
	require.NoError(t, s.SaveUser(ctx, author))
	require.NoError(t, s.SaveUser(ctx, author))
	require.ErrorIs(t, s.SaveUser(ctx, models.User{Id: 2, Username: "leo"}), storage.ErrUserExists)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO groups(title, slug, description) VALUES ('Cats', 'cats', 'about cats')`)
	require.NoError(t, err)

	group, err := s.Group(ctx, "cats")
	require.NoError(t, err)

	_, err = s.Group(ctx, "dogs")
	require.ErrorIs(t, err, storage.ErrNotFound)

	var ids []int64
	for i := 0; i < 12; i++ {
		post := models.Post{Text: gofakeit.Sentence(8), Author: author}
		if i%2 == 0 {
			post.Group = &group
		}
		id, _, err := s.SavePost(ctx, post)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	count, err := s.CountPosts(ctx, models.PostFilter{})
	require.NoError(t, err)
	assert.Equal(t, 12, count)

	count, err = s.CountPosts(ctx, models.PostFilter{GroupId: group.Id})
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	page, err := s.ListPosts(ctx, models.PostFilter{AuthorId: author.Id}, 10, 10)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[1], page[0].Id)
	assert.Equal(t, ids[0], page[1].Id)
	require.NotNil(t, page[1].Group)
	assert.Equal(t, "cats", page[1].Group.Slug)

	post, err := s.Post(ctx, ids[3])
	require.NoError(t, err)
	assert.Nil(t, post.Group)
	assert.Equal(t, author, post.Author)

	post.Text = "updated"
	post.Group = &group
	require.NoError(t, s.UpdatePost(ctx, post))

	post, err = s.Post(ctx, ids[3])
	require.NoError(t, err)
	assert.Equal(t, "updated", post.Text)
	require.NotNil(t, post.Group)

	_, err = s.Post(ctx, 100500)
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.ErrorIs(t, s.UpdatePost(ctx, models.Post{Id: 100500, Text: "x"}), storage.ErrNotFound)

	user, err := s.User(ctx, "leo")
	require.NoError(t, err)
	assert.Equal(t, author, user)

	groups, err := s.Groups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}
