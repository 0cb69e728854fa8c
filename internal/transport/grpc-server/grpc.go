package grpcserver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/IlianBuh/Blog-service/internal/domain/models"
	"github.com/IlianBuh/Blog-service/internal/service/posts"
	"github.com/IlianBuh/Blog-service/internal/transport/validate"
	postv1 "github.com/IlianBuh/Posts-Protobuf/gen/go"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type PostService interface {
	// Group returns group by slug
	Group(ctx context.Context, slug string) (models.Group, error)

	// Create validates the form and saves new post of author
	Create(ctx context.Context, author models.User, form *posts.Form) (models.Post, error)

	// EditForm returns form filled with the post if editor is its author
	EditForm(ctx context.Context, postId int64, editor models.User) (*posts.Form, models.Post, error)

	// Edit validates the form and applies it to the post if editor is its author
	Edit(ctx context.Context, postId int64, editor models.User, form *posts.Form) (models.Post, error)
}

type ServerAPI struct {
	postv1.UnimplementedPostServer
	srvc    PostService
	timeout time.Duration
}

// Register registers serverAPI on srv grpc-server
func Register(srv grpc.ServiceRegistrar, post PostService, timeout time.Duration) {
	postv1.RegisterPostServer(srv, &ServerAPI{srvc: post, timeout: timeout})
}

// Create makes request to service layer to create a new post.
// Text of the post is content or header if content is empty,
// the only theme is the slug of the group
func (s *ServerAPI) Create(ctx context.Context, req *postv1.CreateRequest) (*postv1.CreateResponse, error) {
	var err error
	if err = ctx.Err(); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	if err = validate.Id(req.GetUserId()); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err = validate.Login(req.GetLogin()); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err = validate.Themes(req.GetThemes()); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	group, err := s.groupId(ctx, req.GetThemes(), "")
	if err != nil {
		return nil, err
	}

	author := models.User{Id: req.GetUserId(), Username: req.GetLogin()}
	form := posts.NewForm(text(req.GetHeader(), req.GetContent(), ""), group)

	post, err := s.srvc.Create(ctx, author, form)
	if err != nil {
		return nil, toStatus(err, form)
	}

	return &postv1.CreateResponse{PostId: post.Id}, nil
}

// Update makes request to service layer to change the existing post.
// Empty text fields keep old text, empty themes keep old group
func (s *ServerAPI) Update(ctx context.Context, req *postv1.UpdateRequest) (*postv1.UpdateResponse, error) {
	var err error
	if err = ctx.Err(); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	if err = validate.Id(req.GetUserId()); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err = validate.Id(req.GetPostId()); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err = validate.Themes(req.GetThemes()); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	ctx, cnl := context.WithTimeout(ctx, s.timeout)
	defer cnl()

	editor := models.User{Id: req.GetUserId()}

	current, _, err := s.srvc.EditForm(ctx, req.GetPostId(), editor)
	if err != nil {
		return nil, toStatus(err, nil)
	}

	group, err := s.groupId(ctx, req.GetThemes(), current.Group)
	if err != nil {
		return nil, err
	}

	form := posts.NewForm(text(req.GetHeader(), req.GetContent(), current.Text), group)
	if _, err = s.srvc.Edit(ctx, req.GetPostId(), editor, form); err != nil {
		return nil, toStatus(err, form)
	}

	return &postv1.UpdateResponse{}, nil
}

// groupId resolves the only theme into id of the group. Without themes
// fallback is returned
func (s *ServerAPI) groupId(ctx context.Context, themes []string, fallback string) (string, error) {
	if len(themes) == 0 {
		return fallback, nil
	}

	group, err := s.srvc.Group(ctx, strings.TrimSpace(themes[0]))
	if err != nil {
		if errors.Is(err, posts.ErrNotFound) {
			return "", status.Error(codes.InvalidArgument, "unknown theme")
		}
		return "", status.Error(codes.Internal, codes.Internal.String())
	}

	return strconv.FormatInt(group.Id, 10), nil
}

func text(header, content, fallback string) string {
	switch {
	case strings.TrimSpace(content) != "":
		return content
	case strings.TrimSpace(header) != "":
		return header
	default:
		return fallback
	}
}

// toStatus maps service errors onto grpc status
func toStatus(err error, form *posts.Form) error {
	switch {
	case errors.Is(err, posts.ErrInvalidForm):
		return status.Error(codes.InvalidArgument, formErrors(form))
	case errors.Is(err, posts.ErrUserNotFound):
		return status.Error(codes.InvalidArgument, "user does not exist")
	case errors.Is(err, posts.ErrLoginTaken):
		return status.Error(codes.AlreadyExists, "login belongs to another user")
	case errors.Is(err, posts.ErrNotFound):
		return status.Error(codes.NotFound, "post is not found")
	case errors.Is(err, posts.ErrNotAuthor):
		return status.Error(codes.PermissionDenied, "only author can edit the post")
	default:
		return status.Error(codes.Internal, codes.Internal.String())
	}
}

func formErrors(form *posts.Form) string {
	if form == nil || len(form.Errors) == 0 {
		return "invalid post"
	}

	fields := make([]string, 0, len(form.Errors))
	for field := range form.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, strings.Join(form.Errors[field], " ")))
	}

	return strings.Join(msgs, "; ")
}
