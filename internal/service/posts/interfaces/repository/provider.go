package repository

import (
	"context"

	"github.com/IlianBuh/Blog-service/internal/domain/models"
)

type Provider interface {
	// CountPosts counts posts matching the filter
	CountPosts(ctx context.Context, filter models.PostFilter) (int, error)
	// ListPosts returns posts matching the filter ordered by recency
	ListPosts(ctx context.Context, filter models.PostFilter, offset int, limit int) ([]models.Post, error)
	// Post returns post with its author and group
	Post(ctx context.Context, postId int64) (models.Post, error)
	// Group returns group by slug
	Group(ctx context.Context, slug string) (models.Group, error)
	// Groups returns all groups
	Groups(ctx context.Context) ([]models.Group, error)
	// User returns user by username
	User(ctx context.Context, username string) (models.User, error)
}
