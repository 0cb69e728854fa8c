package httpserver_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpserver "github.com/IlianBuh/Blog-service/internal/transport/http-server"
	"github.com/brianvoe/gofakeit"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nolog = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestAuthenticator_IssueParse(t *testing.T) {
	auth := httpserver.NewAuthenticator(nolog, gofakeit.Sentence(4), "token")

	token, err := auth.Issue(leo, time.Hour)
	require.NoError(t, err)

	user, err := auth.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, leo, user)
}

func TestAuthenticator_ParseRejects(t *testing.T) {
	const secret = "secret"
	auth := httpserver.NewAuthenticator(nolog, secret, "token")
	other := httpserver.NewAuthenticator(nolog, "other-secret", "token")

	expired, err := auth.Issue(leo, -time.Minute)
	require.NoError(t, err)

	foreign, err := other.Issue(leo, time.Hour)
	require.NoError(t, err)

	noLogin, err := jwt.NewWithClaims(jwt.SigningMethodHS256, httpserver.Claims{UID: 1}).SignedString([]byte(secret))
	require.NoError(t, err)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, httpserver.Claims{UID: 1, Login: "leo"}).
		SignedString([]byte(secret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not.a.token"},
		{name: "expired", token: expired},
		{name: "foreign secret", token: foreign},
		{name: "no login", token: noLogin},
		{name: "wrong algorithm", token: wrongAlg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Parse(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestAuthenticator_NoSecret(t *testing.T) {
	auth := httpserver.NewAuthenticator(nolog, "", "token")

	_, err := auth.Issue(leo, time.Hour)
	require.ErrorIs(t, err, httpserver.ErrNoSecret)

	_, err = auth.Parse("whatever")
	require.ErrorIs(t, err, httpserver.ErrNoSecret)
}

func TestAuthenticator_Identify(t *testing.T) {
	auth := httpserver.NewAuthenticator(nolog, "secret", "token")
	token, err := auth.Issue(leo, time.Hour)
	require.NoError(t, err)

	var (
		got    bool
		viewer string
	)
	h := auth.Identify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := httpserver.Identity(r.Context())
		got, viewer = ok, user.Username
	}))

	tests := []struct {
		name   string
		prep   func(r *http.Request)
		wantOk bool
	}{
		{name: "anonymous", prep: func(*http.Request) {}},
		{name: "bearer", prep: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, wantOk: true},
		{name: "cookie", prep: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: token}) }, wantOk: true},
		{name: "invalid cookie", prep: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: "bad"}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, viewer = false, ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prep(req)

			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.wantOk, got)
			if tt.wantOk {
				assert.Equal(t, leo.Username, viewer)
			}
		})
	}
}
