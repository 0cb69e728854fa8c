package repository

import (
	"context"

	"github.com/IlianBuh/Blog-service/internal/domain/models"
)

type Updater interface {
	// UpdatePost updates text and group of the record
	UpdatePost(ctx context.Context, post models.Post) error
}
