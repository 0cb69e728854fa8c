package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/IlianBuh/Blog-service/internal/domain/models"
	"github.com/IlianBuh/Blog-service/internal/lib/logger/sl"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSecret     = errors.New("auth secret is not configured")
	ErrInvalidToken = errors.New("invalid token")
)

type identityKey struct{}

// Claims issued by SSO service. Login is the username of the identity
type Claims struct {
	UID   int64  `json:"uid"`
	Login string `json:"login"`
	jwt.RegisteredClaims
}

// Authenticator resolves identity of the request from HS256 token passed
// either in 'Authorization: Bearer' header or in the cookie
type Authenticator struct {
	log    *slog.Logger
	secret []byte
	cookie string
}

func NewAuthenticator(log *slog.Logger, secret string, cookie string) *Authenticator {
	return &Authenticator{
		log:    log,
		secret: []byte(secret),
		cookie: cookie,
	}
}

// Identity returns identity of the request if it was authenticated
func Identity(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(identityKey{}).(models.User)
	return user, ok
}

// WithIdentity returns copy of ctx carrying the identity
func WithIdentity(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, identityKey{}, user)
}

// Identify puts identity into request context. Requests without valid
// token pass through as anonymous
func (a *Authenticator) Identify(next http.Handler) http.Handler {
	const op = "httpserver.Identify"

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := a.token(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := a.Parse(token)
		if err != nil {
			a.log.Debug("request is treated as anonymous", slog.String("op", op), sl.Err(err))
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), user)))
	})
}

// Parse validates token and extracts identity from it
func (a *Authenticator) Parse(token string) (models.User, error) {
	if len(a.secret) == 0 {
		return models.User{}, ErrNoSecret
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(*jwt.Token) (any, error) {
			return a.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return models.User{}, err
	}
	if !parsed.Valid || claims.UID <= 0 || strings.TrimSpace(claims.Login) == "" {
		return models.User{}, ErrInvalidToken
	}

	return models.User{Id: claims.UID, Username: claims.Login}, nil
}

// Issue signs token for the user valid for ttl
func (a *Authenticator) Issue(user models.User, ttl time.Duration) (string, error) {
	if len(a.secret) == 0 {
		return "", ErrNoSecret
	}

	now := time.Now()
	claims := Claims{
		UID:   user.Id,
		Login: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *Authenticator) token(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}

	if a.cookie == "" {
		return ""
	}
	c, err := r.Cookie(a.cookie)
	if err != nil {
		return ""
	}

	return c.Value
}

// requireAuth redirects anonymous requests to login page keeping the
// requested path in 'next' parameter
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := Identity(r.Context()); !ok {
			s.toLogin(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) toLogin(w http.ResponseWriter, r *http.Request) {
	target := s.loginURL + "?next=" + url.QueryEscape(r.URL.RequestURI())
	http.Redirect(w, r, target, http.StatusFound)
}
