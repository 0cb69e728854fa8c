package repository

import (
	"context"
	"time"

	"github.com/IlianBuh/Blog-service/internal/domain/models"
)

type Saver interface {
	// SaveUser saves the user or refreshes the existing one
	SaveUser(ctx context.Context, user models.User) error
	// SavePost saves the record. Return values: postId, publication date, error
	SavePost(ctx context.Context, post models.Post) (int64, time.Time, error)
}
