package posts

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/IlianBuh/Blog-service/internal/config/blog"
	"github.com/IlianBuh/Blog-service/internal/domain/models"
	errs "github.com/IlianBuh/Blog-service/internal/lib/errors"
	"github.com/IlianBuh/Blog-service/internal/lib/logger/sl"
	"github.com/IlianBuh/Blog-service/internal/lib/mapper"
	"github.com/IlianBuh/Blog-service/internal/lib/paginator"
	extraresources "github.com/IlianBuh/Blog-service/internal/service/posts/interfaces/extra-resources"
	"github.com/IlianBuh/Blog-service/internal/service/posts/interfaces/repository"
	"github.com/IlianBuh/Blog-service/internal/storage"
	"github.com/IlianBuh/Blog-service/internal/storage/events"
)

type PostService struct {
	log      *slog.Logger
	prvdr    repository.Provider
	svr      repository.Saver
	updtr    repository.Updater
	cfg      blog.Config
	timeout  time.Duration
	usrPrvdr extraresources.UserProvider
	sender   extraresources.EventSender
}

// Listing is a page of posts
type Listing struct {
	Page  paginator.Page
	Posts []models.Post
}

type GroupListing struct {
	Listing
	Group models.Group
}

type ProfileListing struct {
	Listing
	Author     models.User
	PostsCount int
}

type PostDetail struct {
	Post       models.Post
	Title      string
	PostsCount int
}

// New creates post service. usrPrvdr and sender are optional: when nil,
// identities are not checked and events are not published
func New(
	log *slog.Logger,
	prvdr repository.Provider,
	svr repository.Saver,
	updtr repository.Updater,
	cfg blog.Config,
	timeout time.Duration,
	usrPrvdr extraresources.UserProvider,
	sender extraresources.EventSender,
) *PostService {
	return &PostService{
		log:      log,
		prvdr:    prvdr,
		svr:      svr,
		updtr:    updtr,
		cfg:      cfg,
		timeout:  timeout,
		usrPrvdr: usrPrvdr,
		sender:   sender,
	}
}

// Index returns page of all posts.
// Only [ErrInternal] can be returned
func (p *PostService) Index(ctx context.Context, page string) (Listing, error) {
	const op = "post-service.Index"

	ctx, cncl := context.WithTimeout(ctx, p.timeout)
	defer cncl()

	listing, err := p.listing(ctx, models.PostFilter{}, page)
	if err != nil {
		return Listing{}, errs.Fail(op, err)
	}

	return listing, nil
}

// GroupPosts returns page of posts of the group with slug.
// Only [ErrInternal] or [ErrNotFound] can be returned
func (p *PostService) GroupPosts(ctx context.Context, slug string, page string) (GroupListing, error) {
	const op = "post-service.GroupPosts"
	log := p.log.With(slog.String("op", op))

	ctx, cncl := context.WithTimeout(ctx, p.timeout)
	defer cncl()

	group, err := p.prvdr.Group(ctx, slug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Debug("group is not found", slog.String("slug", slug))
			return GroupListing{}, errs.Fail(op, ErrNotFound)
		}

		log.Error("failed to get group", sl.Err(err))
		return GroupListing{}, errs.Fail(op, ErrInternal)
	}

	listing, err := p.listing(ctx, models.PostFilter{GroupId: group.Id}, page)
	if err != nil {
		return GroupListing{}, errs.Fail(op, err)
	}

	return GroupListing{Listing: listing, Group: group}, nil
}

// Profile returns page of posts of the user with username.
// Only [ErrInternal] or [ErrNotFound] can be returned
func (p *PostService) Profile(ctx context.Context, username string, page string) (ProfileListing, error) {
	const op = "post-service.Profile"
	log := p.log.With(slog.String("op", op))

	ctx, cncl := context.WithTimeout(ctx, p.timeout)
	defer cncl()

	author, err := p.prvdr.User(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Debug("user is not found", slog.String("username", username))
			return ProfileListing{}, errs.Fail(op, ErrNotFound)
		}

		log.Error("failed to get user", sl.Err(err))
		return ProfileListing{}, errs.Fail(op, ErrInternal)
	}

	listing, err := p.listing(ctx, models.PostFilter{AuthorId: author.Id}, page)
	if err != nil {
		return ProfileListing{}, errs.Fail(op, err)
	}

	return ProfileListing{
		Listing:    listing,
		Author:     author,
		PostsCount: listing.Page.Count,
	}, nil
}

// Detail returns post with its title and number of posts of its author.
// Only [ErrInternal] or [ErrNotFound] can be returned
func (p *PostService) Detail(ctx context.Context, postId int64) (PostDetail, error) {
	const op = "post-service.Detail"
	log := p.log.With(slog.String("op", op))

	ctx, cncl := context.WithTimeout(ctx, p.timeout)
	defer cncl()

	post, err := p.post(ctx, postId)
	if err != nil {
		return PostDetail{}, errs.Fail(op, err)
	}

	count, err := p.prvdr.CountPosts(ctx, models.PostFilter{AuthorId: post.Author.Id})
	if err != nil {
		log.Error("failed to count posts of author", sl.Err(err))
		return PostDetail{}, errs.Fail(op, ErrInternal)
	}

	return PostDetail{
		Post:       post,
		Title:      Truncate(post.Text, p.cfg.TitleLength),
		PostsCount: count,
	}, nil
}

// Group returns group by slug.
// Only [ErrInternal] or [ErrNotFound] can be returned
func (p *PostService) Group(ctx context.Context, slug string) (models.Group, error) {
	const op = "post-service.Group"

	ctx, cncl := context.WithTimeout(ctx, p.timeout)
	defer cncl()

	group, err := p.prvdr.Group(ctx, slug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Group{}, errs.Fail(op, ErrNotFound)
		}

		p.log.Error("failed to get group", slog.String("op", op), sl.Err(err))
		return models.Group{}, errs.Fail(op, ErrInternal)
	}

	return group, nil
}

// CreateForm returns empty form with available groups.
// Only [ErrInternal] can be returned
func (p *PostService) CreateForm(ctx context.Context) (*Form, error) {
	const op = "post-service.CreateForm"

	ctx, cncl := context.WithTimeout(ctx, p.timeout)
	defer cncl()

	groups, err := p.groups(ctx)
	if err != nil {
		return nil, errs.Fail(op, err)
	}

	return &Form{Groups: groups}, nil
}

// Create validates the form and saves new post written by author.
// On invalid form [ErrInvalidForm] is returned and form carries field errors.
// Only [ErrInternal], [ErrInvalidForm], [ErrUserNotFound] or [ErrLoginTaken] can be returned
func (p *PostService) Create(ctx context.Context, author models.User, form *Form) (models.Post, error) {
	const op = "post-service.Create"
	log := p.log.With(slog.String("op", op))
	log.Info(
		"starting to create new post",
		slog.Int64("user-id", author.Id),
		slog.String("username", author.Username),
	)

	sendErr := func(err error) (models.Post, error) {
		return models.Post{}, errs.Fail(op, err)
	}

	if err := ctx.Err(); err != nil {
		log.Error("failed to create - context is canceled", sl.Err(err))
		return sendErr(ErrInternal)
	}
	ctx, cncl := context.WithTimeout(ctx, p.timeout)
	defer cncl()

	groups, err := p.groups(ctx)
	if err != nil {
		return sendErr(err)
	}

	if !form.Validate(groups) {
		log.Info("form is invalid", slog.Any("errors", form.Errors))
		return sendErr(ErrInvalidForm)
	}

	if err = p.checkUserExisting(ctx, author.Id); err != nil {
		return sendErr(err)
	}

	if err = p.svr.SaveUser(ctx, author); err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("login is taken by another user", slog.String("username", author.Username))
			return sendErr(ErrLoginTaken)
		}

		log.Error("failed to save author", sl.Err(err))
		return sendErr(ErrInternal)
	}

	post := models.Post{Author: author}
	form.bind(&post)

	post.Id, post.PubDate, err = p.svr.SavePost(ctx, post)
	if err != nil {
		log.Error("failed to save post", sl.Err(err))
		return sendErr(ErrInternal)
	}

	log.Info("post is saved", slog.Int64("post-id", post.Id))
	p.publish(ctx, events.TypeCreated, post)

	return post, nil
}

// EditForm returns form filled with the post values if editor is its author.
// Only [ErrInternal], [ErrNotFound] or [ErrNotAuthor] can be returned
func (p *PostService) EditForm(ctx context.Context, postId int64, editor models.User) (*Form, models.Post, error) {
	const op = "post-service.EditForm"

	ctx, cncl := context.WithTimeout(ctx, p.timeout)
	defer cncl()

	post, err := p.authoredPost(ctx, postId, editor)
	if err != nil {
		return nil, models.Post{}, errs.Fail(op, err)
	}

	groups, err := p.groups(ctx)
	if err != nil {
		return nil, models.Post{}, errs.Fail(op, err)
	}

	form := formFromPost(post)
	form.Groups = groups

	return form, post, nil
}

// Edit validates the form and applies it to the post if editor is its author.
// On invalid form [ErrInvalidForm] is returned along with the unchanged post.
// Only [ErrInternal], [ErrNotFound], [ErrNotAuthor] or [ErrInvalidForm] can be returned
func (p *PostService) Edit(ctx context.Context, postId int64, editor models.User, form *Form) (models.Post, error) {
	const op = "post-service.Edit"
	log := p.log.With(slog.String("op", op))
	log.Info(
		"starting to edit post",
		slog.Int64("post-id", postId),
		slog.Int64("user-id", editor.Id),
	)

	if err := ctx.Err(); err != nil {
		log.Error("failed to edit - context is canceled", sl.Err(err))
		return models.Post{}, errs.Fail(op, ErrInternal)
	}
	ctx, cncl := context.WithTimeout(ctx, p.timeout)
	defer cncl()

	post, err := p.authoredPost(ctx, postId, editor)
	if err != nil {
		return models.Post{}, errs.Fail(op, err)
	}

	groups, err := p.groups(ctx)
	if err != nil {
		return models.Post{}, errs.Fail(op, err)
	}

	if !form.Validate(groups) {
		log.Info("form is invalid", slog.Any("errors", form.Errors))
		return post, errs.Fail(op, ErrInvalidForm)
	}

	form.bind(&post)

	if err = p.updtr.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn("post disappeared before update", slog.Int64("post-id", postId))
			return models.Post{}, errs.Fail(op, ErrNotFound)
		}

		log.Error("failed to update post", sl.Err(err))
		return models.Post{}, errs.Fail(op, ErrInternal)
	}

	log.Info("post is updated")
	p.publish(ctx, events.TypeUpdated, post)

	return post, nil
}

// Truncate returns first n characters of text
func Truncate(text string, n int) string {
	runes := []rune(text)
	if n < 0 || len(runes) <= n {
		return text
	}

	return string(runes[:n])
}

// listing counts posts matching the filter and fetches the requested page
func (p *PostService) listing(ctx context.Context, filter models.PostFilter, rawPage string) (Listing, error) {
	const op = "post-service.listing"
	log := p.log.With(slog.String("op", op))

	count, err := p.prvdr.CountPosts(ctx, filter)
	if err != nil {
		log.Error("failed to count posts", sl.Err(err))
		return Listing{}, errs.Fail(op, ErrInternal)
	}

	page := paginator.New(count, p.cfg.PageSize).Page(rawPage)

	posts := []models.Post{}
	if page.Limit() > 0 {
		posts, err = p.prvdr.ListPosts(ctx, filter, page.Offset(), page.Limit())
		if err != nil {
			log.Error("failed to list posts", sl.Err(err))
			return Listing{}, errs.Fail(op, ErrInternal)
		}
	}

	log.Debug(
		"page is fetched",
		slog.Int("page", page.Number),
		slog.Any("post-ids", mapper.PostsToIds(posts)),
	)

	return Listing{Page: page, Posts: posts}, nil
}

// post fetches post and translates storage errors
func (p *PostService) post(ctx context.Context, postId int64) (models.Post, error) {
	const op = "post-service.post"

	post, err := p.prvdr.Post(ctx, postId)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			p.log.Debug("post is not found", slog.String("op", op), slog.Int64("post-id", postId))
			return models.Post{}, errs.Fail(op, ErrNotFound)
		}

		p.log.Error("failed to get post", slog.String("op", op), sl.Err(err))
		return models.Post{}, errs.Fail(op, ErrInternal)
	}

	return post, nil
}

// authoredPost fetches post and checks that editor is its author
func (p *PostService) authoredPost(ctx context.Context, postId int64, editor models.User) (models.Post, error) {
	const op = "post-service.authoredPost"

	post, err := p.post(ctx, postId)
	if err != nil {
		return models.Post{}, errs.Fail(op, err)
	}

	if post.Author.Id != editor.Id {
		p.log.Debug(
			"user is not author of the post",
			slog.String("op", op),
			slog.Int64("post-id", postId),
			slog.Int64("user-id", editor.Id),
		)
		return post, errs.Fail(op, ErrNotAuthor)
	}

	return post, nil
}

func (p *PostService) groups(ctx context.Context) ([]models.Group, error) {
	const op = "post-service.groups"

	groups, err := p.prvdr.Groups(ctx)
	if err != nil {
		p.log.Error("failed to list groups", slog.String("op", op), sl.Err(err))
		return nil, errs.Fail(op, ErrInternal)
	}

	return groups, nil
}

// checkUserExisting checks if user exists. If user does not exist,
// return error, otherwise return nil. Without user provider every
// user is considered existing.
//
// It can return either [ErrInternal] or [ErrUserNotFound]
func (p *PostService) checkUserExisting(
	ctx context.Context,
	userId int64,
) error {
	const op = "post-service.checkUserExisting"

	if p.usrPrvdr == nil {
		return nil
	}

	log := p.log.With(slog.String("op", op))

	ok, err := p.usrPrvdr.Exists(ctx, userId)
	if err != nil {
		log.Error("failed to check users' existing", sl.Err(err))
		return errs.Fail(op, ErrInternal)
	}
	if !ok {
		log.Warn(
			"user does not exist",
			slog.Int64("uuid", userId),
		)
		return errs.Fail(op, ErrUserNotFound)
	}

	return nil
}

// publish sends event about the post. Failure is logged and not returned:
// the post is already stored
func (p *PostService) publish(ctx context.Context, eventType string, post models.Post) {
	const op = "post-service.publish"

	if p.sender == nil {
		return
	}

	log := p.log.With(slog.String("op", op))

	event, err := mapper.PostToEvent(eventType, post, Truncate(post.Text, p.cfg.TitleLength))
	if err != nil {
		log.Error("failed to build event", sl.Err(err))
		return
	}

	if err = p.sender.Send(ctx, []models.Event{event}); err != nil {
		log.Error("failed to send event", sl.Err(err))
	}
}
