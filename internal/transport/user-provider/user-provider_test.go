package userprovider

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	userinfov1 "github.com/IlianBuh/SSO_Protobuf/gen/go/userinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

type userInfoMock struct {
	userinfov1.UserInfoClient
	known map[int32]bool
	err   error
	asked [][]int32
}

func (m *userInfoMock) UsersExist(
	_ context.Context,
	in *userinfov1.UsersExistRequest,
	_ ...grpc.CallOption,
) (*userinfov1.UsersExistResponse, error) {
	m.asked = append(m.asked, in.GetUuid())
	if m.err != nil {
		return nil, m.err
	}

	for _, id := range in.GetUuid() {
		if !m.known[id] {
			return &userinfov1.UsersExistResponse{Exist: false}, nil
		}
	}

	return &userinfov1.UsersExistResponse{Exist: true}, nil
}

func TestExists(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mock := &userInfoMock{known: map[int32]bool{7: true}}
	u := newProvider(log, time.Second, mock, nil)

	tests := []struct {
		name string
		uuid int64
		want bool
	}{
		{name: "known", uuid: 7, want: true},
		{name: "unknown", uuid: 8},
		{name: "zero", uuid: 0},
		{name: "overflow", uuid: 1 << 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := u.Exists(context.Background(), tt.uuid)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	assert.Equal(t, [][]int32{{7}, {8}}, mock.asked)
}

func TestExists_Error(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	sso := errors.New("sso is down")
	u := newProvider(log, time.Second, &userInfoMock{err: sso}, nil)

	_, err := u.Exists(context.Background(), 1)
	require.ErrorIs(t, err, sso)

	u.Stop()
}
