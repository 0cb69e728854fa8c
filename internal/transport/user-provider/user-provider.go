package userprovider

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/IlianBuh/Blog-service/internal/lib/errors"
	"github.com/IlianBuh/Blog-service/internal/lib/logger/sl"
	userinfov1 "github.com/IlianBuh/SSO_Protobuf/gen/go/userinfo"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// UserProvider asks SSO service whether identities are still known
type UserProvider struct {
	log        *slog.Logger
	timeout    time.Duration
	client     userinfov1.UserInfoClient
	connection *grpc.ClientConn
}

func New(
	log *slog.Logger,
	host string,
	port int,
	timeout time.Duration,
) (*UserProvider, error) {
	const op = "user-provider.New"

	cc, err := grpc.NewClient(
		composeServerAddress(host, port),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, errors.Fail(op, err)
	}

	return newProvider(log, timeout, userinfov1.NewUserInfoClient(cc), cc), nil
}

func newProvider(
	log *slog.Logger,
	timeout time.Duration,
	client userinfov1.UserInfoClient,
	cc *grpc.ClientConn,
) *UserProvider {
	return &UserProvider{
		log:        log,
		timeout:    timeout,
		client:     client,
		connection: cc,
	}
}

func composeServerAddress(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}

// Exists reports whether SSO knows identity with uuid. Ids which can't
// be issued by SSO are reported as unknown without a call
func (u *UserProvider) Exists(ctx context.Context, uuid int64) (isExists bool, err error) {
	const op = "user-provider.Exists"

	if uuid <= 0 || uuid > math.MaxInt32 {
		return false, nil
	}

	if u.timeout > 0 {
		var cncl context.CancelFunc
		ctx, cncl = context.WithTimeout(ctx, u.timeout)
		defer cncl()
	}

	resp, err := u.client.UsersExist(
		ctx,
		&userinfov1.UsersExistRequest{Uuid: []int32{int32(uuid)}},
	)
	if err != nil {
		return false, errors.Fail(op, err)
	}

	return resp.GetExist(), nil
}

func (u *UserProvider) Stop() {
	const op = "user-provider.Stop"
	log := u.log.With(slog.String("op", op))
	log.Info("stopping user-provider")

	if u.connection == nil {
		return
	}

	err := u.connection.Close()
	if err != nil {
		log.Error("failed to close connection", sl.Err(err))
		return
	}

	log.Info("connection is closed")
}
