package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	cfgStorage "github.com/IlianBuh/Blog-service/internal/config/storage"
	"github.com/IlianBuh/Blog-service/internal/domain/models"
	"github.com/IlianBuh/Blog-service/internal/storage"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type Storage struct {
	db *sqlx.DB
}

// postRow is a post joined with its author and optional group
type postRow struct {
	Id               int64          `db:"id"`
	Text             string         `db:"text"`
	PubDate          time.Time      `db:"pub_date"`
	AuthorId         int64          `db:"author_id"`
	AuthorUsername   string         `db:"author_username"`
	GroupId          sql.NullInt64  `db:"group_id"`
	GroupTitle       sql.NullString `db:"group_title"`
	GroupSlug        sql.NullString `db:"group_slug"`
	GroupDescription sql.NullString `db:"group_description"`
}

type groupRow struct {
	Id          int64  `db:"id"`
	Title       string `db:"title"`
	Slug        string `db:"slug"`
	Description string `db:"description"`
}

type userRow struct {
	Id       int64  `db:"id"`
	Username string `db:"username"`
}

const selectPosts = `
	SELECT p.id, p.text, p.pub_date,
	       u.id AS author_id, u.username AS author_username,
	       g.id AS group_id, g.title AS group_title,
	       g.slug AS group_slug, g.description AS group_description
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN groups g ON g.id = p.group_id`

// New opens connection pool with the configured driver and checks it
func New(cfg cfgStorage.Config) (*Storage, error) {
	const op = "postgres.New"

	s, err := Open(cfg.Driver, DSN(cfg))
	if err != nil {
		return nil, fail(op, err)
	}

	if cfg.MaxOpenConns > 0 {
		s.db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		s.db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	return s, nil
}

// Open connects to the database by dsn using driver 'postgres' (lib/pq)
// or 'pgx' (jackc/pgx)
func Open(driver string, dsn string) (*Storage, error) {
	const op = "postgres.Open"

	switch driver {
	case cfgStorage.DriverPQ, cfgStorage.DriverPGX:
	default:
		return nil, fail(op, fmt.Errorf("%w: %q", storage.ErrUnknownDriver, driver))
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fail(op, err)
	}

	return &Storage{db: db}, nil
}

// DSN composes connection url of the database. Credentials are escaped
func DSN(cfg cfgStorage.Config) string {
	query := url.Values{}
	query.Set("sslmode", "disable")
	if cfg.Timeout > 0 {
		query.Set("connect_timeout", strconv.Itoa(cfg.Timeout))
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.DBName,
		RawQuery: query.Encode(),
	}

	return u.String()
}

// Stop closes connection pool
func (s *Storage) Stop() error {
	const op = "postgres.Stop"

	if err := s.db.Close(); err != nil {
		return fail(op, err)
	}

	return nil
}

// CountPosts counts posts matching the filter
func (s *Storage) CountPosts(ctx context.Context, filter models.PostFilter) (int, error) {
	const op = "postgres.CountPosts"

	where, args := filterClause(filter)

	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts p`+where, args...)
	if err != nil {
		return 0, fail(op, err)
	}

	return count, nil
}

// ListPosts returns window of posts matching the filter, newest first
func (s *Storage) ListPosts(
	ctx context.Context,
	filter models.PostFilter,
	offset int,
	limit int,
) ([]models.Post, error) {
	const op = "postgres.ListPosts"

	where, args := filterClause(filter)
	query := fmt.Sprintf(
		"%s%s\n\tORDER BY p.pub_date DESC, p.id DESC\n\tLIMIT $%d OFFSET $%d",
		selectPosts, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	var rows []postRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fail(op, err)
	}

	res := make([]models.Post, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.toModel())
	}

	return res, nil
}

// Post returns post by id with its author and group
func (s *Storage) Post(ctx context.Context, postId int64) (models.Post, error) {
	const op = "postgres.Post"

	var row postRow
	err := s.db.GetContext(ctx, &row, selectPosts+"\n\tWHERE p.id = $1", postId)
	if err != nil {
		return models.Post{}, fail(op, notFound(err))
	}

	return row.toModel(), nil
}

// Group returns group by its slug
func (s *Storage) Group(ctx context.Context, slug string) (models.Group, error) {
	const op = "postgres.Group"
	const selectGroup = `
		SELECT id, title, slug, description
		FROM groups
		WHERE slug = $1`

	var row groupRow
	if err := s.db.GetContext(ctx, &row, selectGroup, slug); err != nil {
		return models.Group{}, fail(op, notFound(err))
	}

	return row.toModel(), nil
}

// Groups returns all groups ordered by title
func (s *Storage) Groups(ctx context.Context) ([]models.Group, error) {
	const op = "postgres.Groups"
	const selectGroups = `
		SELECT id, title, slug, description
		FROM groups
		ORDER BY title, id`

	var rows []groupRow
	if err := s.db.SelectContext(ctx, &rows, selectGroups); err != nil {
		return nil, fail(op, err)
	}

	res := make([]models.Group, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.toModel())
	}

	return res, nil
}

// User returns user by username
func (s *Storage) User(ctx context.Context, username string) (models.User, error) {
	const op = "postgres.User"
	const selectUser = `
		SELECT id, username
		FROM users
		WHERE username = $1`

	var row userRow
	if err := s.db.GetContext(ctx, &row, selectUser, username); err != nil {
		return models.User{}, fail(op, notFound(err))
	}

	return models.User{Id: row.Id, Username: row.Username}, nil
}

// SaveUser inserts the user or refreshes username of the existing one
func (s *Storage) SaveUser(ctx context.Context, user models.User) error {
	const op = "postgres.SaveUser"
	const upsertUser = `
		INSERT INTO users(id, username)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username`

	if _, err := s.db.ExecContext(ctx, upsertUser, user.Id, user.Username); err != nil {
		if isUniqueViolation(err) {
			return fail(op, storage.ErrUserExists)
		}
		return fail(op, err)
	}

	return nil
}

// SavePost saves new post and returns its id and publication date
func (s *Storage) SavePost(ctx context.Context, post models.Post) (int64, time.Time, error) {
	const op = "postgres.SavePost"
	const insertPost = `
		INSERT INTO posts(text, author_id, group_id)
		VALUES ($1, $2, $3)
		RETURNING id, pub_date`

	var (
		postId  int64
		pubDate time.Time
	)
	row := s.db.QueryRowxContext(ctx, insertPost, post.Text, post.Author.Id, groupId(post.Group))
	if err := row.Scan(&postId, &pubDate); err != nil {
		return 0, time.Time{}, fail(op, err)
	}

	return postId, pubDate, nil
}

// UpdatePost overwrites text and group of the post. Author is never changed
func (s *Storage) UpdatePost(ctx context.Context, post models.Post) error {
	const op = "postgres.UpdatePost"
	const updatePost = `
		UPDATE posts SET text = $1, group_id = $2
		WHERE id = $3`

	res, err := s.db.ExecContext(ctx, updatePost, post.Text, groupId(post.Group), post.Id)
	if err != nil {
		return fail(op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fail(op, err)
	}
	if affected == 0 {
		return fail(op, storage.ErrNotFound)
	}

	return nil
}

// filterClause builds WHERE clause of the filter with positional arguments
func filterClause(filter models.PostFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if filter.GroupId != 0 {
		args = append(args, filter.GroupId)
		conds = append(conds, fmt.Sprintf("p.group_id = $%d", len(args)))
	}
	if filter.AuthorId != 0 {
		args = append(args, filter.AuthorId)
		conds = append(conds, fmt.Sprintf("p.author_id = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}

	return "\n\tWHERE " + strings.Join(conds, " AND "), args
}

func groupId(g *models.Group) sql.NullInt64 {
	if g == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: g.Id, Valid: true}
}

func (r postRow) toModel() models.Post {
	post := models.Post{
		Id:      r.Id,
		Text:    r.Text,
		PubDate: r.PubDate,
		Author: models.User{
			Id:       r.AuthorId,
			Username: r.AuthorUsername,
		},
	}

	if r.GroupId.Valid {
		post.Group = &models.Group{
			Id:          r.GroupId.Int64,
			Title:       r.GroupTitle.String,
			Slug:        r.GroupSlug.String,
			Description: r.GroupDescription.String,
		}
	}

	return post
}

func (r groupRow) toModel() models.Group {
	return models.Group{
		Id:          r.Id,
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
	}
}

// notFound replaces sql.ErrNoRows with storage.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}

	return err
}

// isUniqueViolation reports unique constraint violation for both drivers
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}

	return false
}

// fail assembles a new error with define structure
// Error message has pattern 'op':'err'
func fail(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
