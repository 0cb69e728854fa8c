package suite

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/IlianBuh/Blog-service/internal/config/blog"
	"github.com/IlianBuh/Blog-service/internal/domain/models"
	"github.com/IlianBuh/Blog-service/internal/service/posts"
	httpserver "github.com/IlianBuh/Blog-service/internal/transport/http-server"
	"github.com/IlianBuh/Blog-service/tests/mocks"
	"github.com/stretchr/testify/require"
)

const (
	Secret   = "test-secret"
	Cookie   = "token"
	LoginURL = "/auth/login/"
)

// Suite wires post service and http server over in-memory mocks
type Suite struct {
	t       *testing.T
	Repo    *mocks.Repository
	Users   *mocks.UserMock
	Sender  *mocks.SenderMock
	Post    *posts.PostService
	Auth    *httpserver.Authenticator
	Metrics *httpserver.Metrics
	Server  *httpserver.Server
}

func New(t *testing.T) *Suite {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	repo := mocks.NewRepository()
	users := &mocks.UserMock{}
	sender := &mocks.SenderMock{}

	postService := posts.New(
		log, repo, repo, repo,
		blog.Config{PageSize: 10, TitleLength: 30},
		time.Second,
		users,
		sender,
	)

	render, err := httpserver.NewTemplateRenderer("")
	require.NoError(t, err)

	auth := httpserver.NewAuthenticator(log, Secret, Cookie)
	metrics := httpserver.NewMetrics()

	return &Suite{
		t:       t,
		Repo:    repo,
		Users:   users,
		Sender:  sender,
		Post:    postService,
		Auth:    auth,
		Metrics: metrics,
		Server:  httpserver.New(log, postService, render, auth, metrics, LoginURL),
	}
}

// Token issues valid token of the user
func (s *Suite) Token(user models.User) string {
	s.t.Helper()

	token, err := s.Auth.Issue(user, time.Hour)
	require.NoError(s.t, err)

	return token
}

// Get performs GET request on behalf of user. Nil user is anonymous
func (s *Suite) Get(path string, user *models.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)

	return s.do(req, user)
}

// PostForm submits form on behalf of user. Nil user is anonymous
func (s *Suite) PostForm(path string, form url.Values, user *models.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return s.do(req, user)
}

func (s *Suite) do(req *http.Request, user *models.User) *httptest.ResponseRecorder {
	if user != nil {
		req.AddCookie(&http.Cookie{Name: Cookie, Value: s.Token(*user)})
	}

	rec := httptest.NewRecorder()
	s.Server.ServeHTTP(rec, req)

	return rec
}
