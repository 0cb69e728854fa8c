package grpcserver_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/IlianBuh/Blog-service/internal/config/blog"
	"github.com/IlianBuh/Blog-service/internal/domain/models"
	"github.com/IlianBuh/Blog-service/internal/service/posts"
	grpcserver "github.com/IlianBuh/Blog-service/internal/transport/grpc-server"
	"github.com/IlianBuh/Blog-service/tests/mocks"
	postv1 "github.com/IlianBuh/Posts-Protobuf/gen/go"
	"github.com/brianvoe/gofakeit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

var leo = models.User{Id: 1, Username: "leo"}

func setUp(t *testing.T) (postv1.PostClient, *mocks.Repository) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := mocks.NewRepository()
	srvc := posts.New(log, repo, repo, repo, blog.Config{PageSize: 10, TitleLength: 30}, time.Second, nil, nil)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	grpcserver.Register(srv, srvc, time.Second)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	cc, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cc.Close() })

	return postv1.NewPostClient(cc), repo
}

func TestCreate(t *testing.T) {
	client, repo := setUp(t)
	cats := repo.AddGroup("Cats", "cats", "all about cats")
	content := gofakeit.Sentence(8)

	resp, err := client.Create(context.Background(), &postv1.CreateRequest{
		UserId:  leo.Id,
		Login:   leo.Username,
		Header:  "header",
		Content: content,
		Themes:  []string{"cats"},
	})
	require.NoError(t, err)

	stored, ok := repo.Stored(resp.GetPostId())
	require.True(t, ok)
	assert.Equal(t, content, stored.Text)
	assert.Equal(t, leo, stored.Author)
	require.NotNil(t, stored.Group)
	assert.Equal(t, cats.Id, stored.Group.Id)

	resp, err = client.Create(context.Background(), &postv1.CreateRequest{
		UserId: leo.Id,
		Login:  leo.Username,
		Header: "only header",
	})
	require.NoError(t, err)

	stored, _ = repo.Stored(resp.GetPostId())
	assert.Equal(t, "only header", stored.Text)
	assert.Nil(t, stored.Group)
}

func TestCreate_Invalid(t *testing.T) {
	client, repo := setUp(t)
	repo.AddGroup("Cats", "cats", "all about cats")

	tests := []struct {
		name string
		req  *postv1.CreateRequest
	}{
		{name: "no user", req: &postv1.CreateRequest{Login: "leo", Content: "text"}},
		{name: "no login", req: &postv1.CreateRequest{UserId: 1, Content: "text"}},
		{name: "no text", req: &postv1.CreateRequest{UserId: 1, Login: "leo"}},
		{name: "many themes", req: &postv1.CreateRequest{UserId: 1, Login: "leo", Content: "text", Themes: []string{"a", "b"}}},
		{name: "unknown theme", req: &postv1.CreateRequest{UserId: 1, Login: "leo", Content: "text", Themes: []string{"dogs"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Create(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}

	assert.Equal(t, 0, repo.Len())
}

func TestCreate_LoginTaken(t *testing.T) {
	client, repo := setUp(t)
	repo.AddUser(models.User{Id: 100, Username: leo.Username})

	_, err := client.Create(context.Background(), &postv1.CreateRequest{
		UserId:  leo.Id,
		Login:   leo.Username,
		Content: "text",
	})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
	assert.Equal(t, 0, repo.Len())
}

func TestUpdate(t *testing.T) {
	client, repo := setUp(t)
	cats := repo.AddGroup("Cats", "cats", "all about cats")
	repo.AddGroup("Dogs", "dogs", "all about dogs")
	post := repo.AddPost(leo, "original", &cats)

	_, err := client.Update(context.Background(), &postv1.UpdateRequest{
		UserId: leo.Id,
		PostId: post.Id,
		Themes: []string{"dogs"},
	})
	require.NoError(t, err)

	stored, _ := repo.Stored(post.Id)
	assert.Equal(t, "original", stored.Text)
	require.NotNil(t, stored.Group)
	assert.Equal(t, "dogs", stored.Group.Slug)

	_, err = client.Update(context.Background(), &postv1.UpdateRequest{
		UserId:  leo.Id,
		PostId:  post.Id,
		Content: "edited",
	})
	require.NoError(t, err)

	stored, _ = repo.Stored(post.Id)
	assert.Equal(t, "edited", stored.Text)
	assert.Equal(t, "dogs", stored.Group.Slug)
}

func TestUpdate_Errors(t *testing.T) {
	client, repo := setUp(t)
	post := repo.AddPost(leo, "original", nil)

	_, err := client.Update(context.Background(), &postv1.UpdateRequest{
		UserId:  2,
		PostId:  post.Id,
		Content: "hijacked",
	})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = client.Update(context.Background(), &postv1.UpdateRequest{
		UserId:  leo.Id,
		PostId:  100500,
		Content: "text",
	})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.Update(context.Background(), &postv1.UpdateRequest{UserId: leo.Id})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	stored, _ := repo.Stored(post.Id)
	assert.Equal(t, "original", stored.Text)
}

func TestDelete_Unimplemented(t *testing.T) {
	client, _ := setUp(t)

	_, err := client.Delete(context.Background(), &postv1.DeleteRequest{UserId: 1, PostId: 1})
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}
