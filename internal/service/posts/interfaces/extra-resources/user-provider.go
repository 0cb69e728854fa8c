package extraresources

import (
	"context"
)

type UserProvider interface {
	Exists(ctx context.Context, uuid int64) (isExists bool, err error)
}
