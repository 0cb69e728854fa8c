package mocks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/IlianBuh/Blog-service/internal/domain/models"
	"github.com/IlianBuh/Blog-service/internal/storage"
)

// Repository is in-memory storage of posts, groups and users
type Repository struct {
	mu     sync.Mutex
	posts  []models.Post
	groups []models.Group
	users  []models.User
	clock  time.Time

	// Err is returned by every method when set
	Err error
}

func NewRepository() *Repository {
	return &Repository{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// AddGroup stores group and returns it with assigned id
func (r *Repository) AddGroup(title, slug, description string) models.Group {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := models.Group{
		Id:          int64(len(r.groups) + 1),
		Title:       title,
		Slug:        slug,
		Description: description,
	}
	r.groups = append(r.groups, g)

	return g
}

// AddUser stores user as is
func (r *Repository) AddUser(user models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.saveUser(user)
}

// AddPost stores post of author in optional group and returns it
func (r *Repository) AddPost(author models.User, text string, group *models.Group) models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.saveUser(author)

	return r.savePost(models.Post{Text: text, Author: author, Group: group})
}

// Stored returns stored post as is
func (r *Repository) Stored(postId int64) (models.Post, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.posts {
		if p.Id == postId {
			return p, true
		}
	}

	return models.Post{}, false
}

// Len returns number of stored posts
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.posts)
}

func (r *Repository) CountPosts(_ context.Context, filter models.PostFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return 0, r.Err
	}

	return len(r.filter(filter)), nil
}

func (r *Repository) ListPosts(
	_ context.Context,
	filter models.PostFilter,
	offset int,
	limit int,
) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	posts := r.filter(filter)
	if offset >= len(posts) {
		return []models.Post{}, nil
	}

	return posts[offset:min(len(posts), offset+limit)], nil
}

func (r *Repository) Post(_ context.Context, postId int64) (models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return models.Post{}, r.Err
	}

	for _, p := range r.posts {
		if p.Id == postId {
			return r.resolve(p), nil
		}
	}

	return models.Post{}, storage.ErrNotFound
}

func (r *Repository) Group(_ context.Context, slug string) (models.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return models.Group{}, r.Err
	}

	for _, g := range r.groups {
		if g.Slug == slug {
			return g, nil
		}
	}

	return models.Group{}, storage.ErrNotFound
}

func (r *Repository) Groups(_ context.Context) ([]models.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	return append([]models.Group(nil), r.groups...), nil
}

func (r *Repository) User(_ context.Context, username string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return models.User{}, r.Err
	}

	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}

	return models.User{}, storage.ErrNotFound
}

func (r *Repository) SaveUser(_ context.Context, user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}

	for _, u := range r.users {
		if u.Username == user.Username && u.Id != user.Id {
			return storage.ErrUserExists
		}
	}
	r.saveUser(user)

	return nil
}

func (r *Repository) SavePost(_ context.Context, post models.Post) (int64, time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return 0, time.Time{}, r.Err
	}

	saved := r.savePost(post)

	return saved.Id, saved.PubDate, nil
}

func (r *Repository) UpdatePost(_ context.Context, post models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}

	for i := range r.posts {
		if r.posts[i].Id == post.Id {
			r.posts[i].Text = post.Text
			r.posts[i].Group = post.Group
			return nil
		}
	}

	return storage.ErrNotFound
}

func (r *Repository) saveUser(user models.User) {
	for i := range r.users {
		if r.users[i].Id == user.Id {
			r.users[i] = user
			return
		}
	}
	r.users = append(r.users, user)
}

func (r *Repository) savePost(post models.Post) models.Post {
	r.clock = r.clock.Add(time.Minute)

	post.Id = int64(len(r.posts) + 1)
	post.PubDate = r.clock
	r.posts = append(r.posts, post)

	return post
}

// filter returns resolved posts matching the filter, newest first
func (r *Repository) filter(filter models.PostFilter) []models.Post {
	res := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if filter.AuthorId != 0 && p.Author.Id != filter.AuthorId {
			continue
		}
		if filter.GroupId != 0 && (p.Group == nil || p.Group.Id != filter.GroupId) {
			continue
		}
		res = append(res, r.resolve(p))
	}

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].PubDate.Equal(res[j].PubDate) {
			return res[i].Id > res[j].Id
		}
		return res[i].PubDate.After(res[j].PubDate)
	})

	return res
}

// resolve refreshes author of the post as a join would
func (r *Repository) resolve(p models.Post) models.Post {
	for _, u := range r.users {
		if u.Id == p.Author.Id {
			p.Author = u
		}
	}

	return p
}

// ErrUnavailable imitates database failure
var ErrUnavailable = errors.New("database is unavailable")
