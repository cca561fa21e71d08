package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &User{ID: uuid.NewString(), Username: "alice", Email: "alice@example.com", PasswordHash: "hash"}
	require.NoError(t, s.CreateUser(ctx, u))

	byEmail, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &User{ID: uuid.NewString(), Username: "alice", Email: "dupe@example.com", PasswordHash: "hash"}
	require.NoError(t, s.CreateUser(ctx, u))

	dup := &User{ID: uuid.NewString(), Username: "alice2", Email: "dupe@example.com", PasswordHash: "hash"}
	err := s.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestGetUserByEmailNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostCRUDScopedToUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := uuid.NewString()
	p := &Post{ID: uuid.NewString(), UserID: userID, Title: "hello", Body: "world"}
	require.NoError(t, s.CreatePost(ctx, p))

	posts, err := s.ListPosts(ctx, userID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "hello", posts[0].Title)

	got, err := s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "world", got.Body)

	require.NoError(t, s.DeletePost(ctx, p.ID, userID))
	_, err = s.GetPost(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePostWrongOwnerFails(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := &Post{ID: uuid.NewString(), UserID: "owner-1", Title: "t", Body: "b"}
	require.NoError(t, s.CreatePost(ctx, p))

	err := s.DeletePost(ctx, p.ID, "owner-2")
	assert.ErrorIs(t, err, ErrNotFound)
}
