package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/IlianBuh/Blog-service/internal/domain/models"
	"github.com/IlianBuh/Blog-service/internal/service/posts"
	"github.com/gorilla/mux"
)

const (
	routeIndex      = "index"
	routeGroupPosts = "group_posts"
	routeProfile    = "profile"
	routePostDetail = "post_detail"
	routePostCreate = "post_create"
	routePostEdit   = "post_edit"
)

type PostService interface {
	// Index returns page of all posts
	Index(ctx context.Context, page string) (posts.Listing, error)

	// GroupPosts returns page of posts of the group
	GroupPosts(ctx context.Context, slug string, page string) (posts.GroupListing, error)

	// Profile returns page of posts of the user and their total number
	Profile(ctx context.Context, username string, page string) (posts.ProfileListing, error)

	// Detail returns the post, its title and number of posts of its author
	Detail(ctx context.Context, postId int64) (posts.PostDetail, error)

	// CreateForm returns empty post form
	CreateForm(ctx context.Context) (*posts.Form, error)

	// Create validates the form and saves new post of author
	Create(ctx context.Context, author models.User, form *posts.Form) (models.Post, error)

	// EditForm returns form filled with the post if editor is its author
	EditForm(ctx context.Context, postId int64, editor models.User) (*posts.Form, models.Post, error)

	// Edit validates the form and applies it to the post if editor is its author
	Edit(ctx context.Context, postId int64, editor models.User, form *posts.Form) (models.Post, error)
}

type Server struct {
	log      *slog.Logger
	srvc     PostService
	render   Renderer
	auth     *Authenticator
	router   *mux.Router
	loginURL string
}

// New builds router serving blog pages. metrics may be nil
func New(
	log *slog.Logger,
	srvc PostService,
	render Renderer,
	auth *Authenticator,
	metrics *Metrics,
	loginURL string,
) *Server {
	s := &Server{
		log:      log,
		srvc:     srvc,
		render:   render,
		auth:     auth,
		router:   mux.NewRouter(),
		loginURL: loginURL,
	}

	r := s.router
	r.NotFoundHandler = http.HandlerFunc(s.notFound)

	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
	if metrics != nil {
		r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	}

	pages := r.NewRoute().Subrouter()
	pages.Use(s.recoverer, s.logRequests)
	if metrics != nil {
		pages.Use(metrics.Middleware)
	}
	pages.Use(auth.Identify)

	pages.HandleFunc("/", s.index).
		Methods(http.MethodGet).Name(routeIndex)
	pages.HandleFunc("/group/{slug}/", s.groupPosts).
		Methods(http.MethodGet).Name(routeGroupPosts)
	pages.HandleFunc("/profile/{username}/", s.profile).
		Methods(http.MethodGet).Name(routeProfile)
	pages.HandleFunc("/posts/{post_id:[0-9]+}/", s.postDetail).
		Methods(http.MethodGet).Name(routePostDetail)
	pages.Handle("/create/", s.requireAuth(http.HandlerFunc(s.postCreate))).
		Methods(http.MethodGet, http.MethodPost).Name(routePostCreate)
	pages.Handle("/posts/{post_id:[0-9]+}/edit/", s.requireAuth(http.HandlerFunc(s.postEdit))).
		Methods(http.MethodGet, http.MethodPost).Name(routePostEdit)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// url reverses the named route with pairs of variables
func (s *Server) url(name string, pairs ...string) (string, error) {
	u, err := s.router.Get(name).URL(pairs...)
	if err != nil {
		return "", err
	}

	return u.String(), nil
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
