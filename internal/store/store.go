// Package store implements the illustrative persistence layer behind the
// application layer's auth/CRUD routes: users (for auth) and posts (the
// CRUD resource), each scoped by owning user. spec.md §1 names "SQL
// storage" as an out-of-scope collaborator of the core spec; this package
// is the concrete, in-workspace implementation SPEC_FULL.md's application
// layer needs to actually run.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// User is one registered account.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Post is one CRUD resource, owned by a user.
type Post struct {
	ID        string
	UserID    string
	Title     string
	Body      string
	CreatedAt time.Time
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
}

// PostStore persists posts, scoped to their owning user.
type PostStore interface {
	CreatePost(ctx context.Context, p *Post) error
	ListPosts(ctx context.Context, userID string) ([]*Post, error)
	GetPost(ctx context.Context, id string) (*Post, error)
	DeletePost(ctx context.Context, id, userID string) error
}
