package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/IlianBuh/Blog-service/internal/domain/models"
	"github.com/IlianBuh/Blog-service/internal/lib/logger/sl"
	"github.com/IlianBuh/Blog-service/internal/lib/paginator"
	"github.com/IlianBuh/Blog-service/internal/service/posts"
	"github.com/gorilla/mux"
)

const pageParam = "page"

// base is shared by all page views
type base struct {
	Viewer *models.User
}

type indexView struct {
	base
	Page  paginator.Page
	Posts []models.Post
}

type groupView struct {
	base
	Group models.Group
	Page  paginator.Page
	Posts []models.Post
}

type profileView struct {
	base
	Author     models.User
	PostsCount int
	Page       paginator.Page
	Posts      []models.Post
}

type detailView struct {
	base
	Post       models.Post
	Title      string
	PostsCount int
	CanEdit    bool
}

type formView struct {
	base
	Form   *posts.Form
	Post   *models.Post
	IsEdit bool
}

type notFoundView struct {
	base
	Path string
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	listing, err := s.srvc.Index(r.Context(), r.URL.Query().Get(pageParam))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.page(w, r, http.StatusOK, "index.html", indexView{
		base:  s.base(r),
		Page:  listing.Page,
		Posts: listing.Posts,
	})
}

func (s *Server) groupPosts(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	listing, err := s.srvc.GroupPosts(r.Context(), slug, r.URL.Query().Get(pageParam))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.page(w, r, http.StatusOK, "group_list.html", groupView{
		base:  s.base(r),
		Group: listing.Group,
		Page:  listing.Page,
		Posts: listing.Posts,
	})
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	listing, err := s.srvc.Profile(r.Context(), username, r.URL.Query().Get(pageParam))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.page(w, r, http.StatusOK, "profile.html", profileView{
		base:       s.base(r),
		Author:     listing.Author,
		PostsCount: listing.PostsCount,
		Page:       listing.Page,
		Posts:      listing.Posts,
	})
}

func (s *Server) postDetail(w http.ResponseWriter, r *http.Request) {
	postId, ok := s.postId(w, r)
	if !ok {
		return
	}

	detail, err := s.srvc.Detail(r.Context(), postId)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	view := detailView{
		base:       s.base(r),
		Post:       detail.Post,
		Title:      detail.Title,
		PostsCount: detail.PostsCount,
	}
	view.CanEdit = view.Viewer != nil && view.Viewer.Id == detail.Post.Author.Id

	s.page(w, r, http.StatusOK, "post_detail.html", view)
}

func (s *Server) postCreate(w http.ResponseWriter, r *http.Request) {
	const op = "httpserver.postCreate"
	user, _ := Identity(r.Context())

	if r.Method != http.MethodPost {
		form, err := s.srvc.CreateForm(r.Context())
		if err != nil {
			s.fail(w, r, err)
			return
		}

		s.page(w, r, http.StatusOK, "create_post.html", formView{base: s.base(r), Form: form})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	form := posts.NewForm(r.PostForm.Get(posts.FieldText), r.PostForm.Get(posts.FieldGroup))
	post, err := s.srvc.Create(r.Context(), user, form)
	switch {
	case err == nil:
		s.redirect(w, r, routeProfile, "username", post.Author.Username)
	case errors.Is(err, posts.ErrInvalidForm):
		s.page(w, r, http.StatusOK, "create_post.html", formView{base: s.base(r), Form: form})
	case errors.Is(err, posts.ErrUserNotFound), errors.Is(err, posts.ErrLoginTaken):
		s.log.Warn(
			"identity can't author posts",
			slog.String("op", op),
			slog.Int64("user-id", user.Id),
			sl.Err(err),
		)
		s.toLogin(w, r)
	default:
		s.fail(w, r, err)
	}
}

func (s *Server) postEdit(w http.ResponseWriter, r *http.Request) {
	user, _ := Identity(r.Context())

	postId, ok := s.postId(w, r)
	if !ok {
		return
	}
	id := strconv.FormatInt(postId, 10)

	if r.Method != http.MethodPost {
		form, post, err := s.srvc.EditForm(r.Context(), postId, user)
		switch {
		case err == nil:
			s.page(w, r, http.StatusOK, "create_post.html", formView{
				base:   s.base(r),
				Form:   form,
				Post:   &post,
				IsEdit: true,
			})
		case errors.Is(err, posts.ErrNotAuthor):
			s.redirect(w, r, routePostDetail, "post_id", id)
		default:
			s.fail(w, r, err)
		}
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	form := posts.NewForm(r.PostForm.Get(posts.FieldText), r.PostForm.Get(posts.FieldGroup))
	post, err := s.srvc.Edit(r.Context(), postId, user, form)
	switch {
	case err == nil, errors.Is(err, posts.ErrNotAuthor):
		s.redirect(w, r, routePostDetail, "post_id", id)
	case errors.Is(err, posts.ErrInvalidForm):
		s.page(w, r, http.StatusOK, "create_post.html", formView{
			base:   s.base(r),
			Form:   form,
			Post:   &post,
			IsEdit: true,
		})
	default:
		s.fail(w, r, err)
	}
}

// postId parses post id path variable. Overflowing id is answered with not found
func (s *Server) postId(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["post_id"], 10, 64)
	if err != nil {
		s.notFound(w, r)
		return 0, false
	}

	return id, true
}

func (s *Server) base(r *http.Request) base {
	if user, ok := Identity(r.Context()); ok {
		return base{Viewer: &user}
	}

	return base{}
}

func (s *Server) page(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	const op = "httpserver.page"

	if err := s.render.Render(w, status, name, data); err != nil {
		s.log.Error(
			"failed to render page",
			slog.String("op", op),
			slog.String("template", name),
			sl.Err(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, route string, pairs ...string) {
	const op = "httpserver.redirect"

	target, err := s.url(route, pairs...)
	if err != nil {
		s.log.Error("failed to build url", slog.String("op", op), slog.String("route", route), sl.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}

// fail answers with not found page or internal error
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	const op = "httpserver.fail"

	if errors.Is(err, posts.ErrNotFound) {
		s.notFound(w, r)
		return
	}

	s.log.Error(
		"failed to handle request",
		slog.String("op", op),
		slog.String("path", r.URL.Path),
		sl.Err(err),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusNotFound, "404.html", notFoundView{base: s.base(r), Path: r.URL.Path})
}
