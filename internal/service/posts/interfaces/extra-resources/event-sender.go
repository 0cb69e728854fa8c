package extraresources

import (
	"context"

	"github.com/IlianBuh/Blog-service/internal/domain/models"
)

type EventSender interface {
	Send(ctx context.Context, page []models.Event) error
}
