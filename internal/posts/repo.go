package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkpost/inkpost/internal/platform/httpx"
)

// Repository defines persistence operations for posts.
type Repository interface {
	Create(ctx context.Context, post *Post) (*Post, error)
	Get(ctx context.Context, id uuid.UUID) (*Post, error)
	View(ctx context.Context, id uuid.UUID) (*Post, error)
	List(ctx context.Context) ([]Post, error)
	Update(ctx context.Context, post *Post) (*Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ImagePaths(ctx context.Context) ([]string, error)
}

const postColumns = `id, title, body, tags, image_url, views_count, owner_id, created_at, updated_at`

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts a new post owned by the creating identity.
func (r *PGRepository) Create(ctx context.Context, post *Post) (*Post, error) {
	const query = `INSERT INTO posts (id, title, body, tags, image_url, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx, query,
		post.ID, post.Title, post.Body, post.Tags, post.ImageURL, post.OwnerID,
	).Scan(&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// Get fetches a post without side effects.
func (r *PGRepository) Get(ctx context.Context, id uuid.UUID) (*Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	return r.scanPost(r.pool.QueryRow(ctx, query, id))
}

// View fetches a post and increments its view counter in one statement.
func (r *PGRepository) View(ctx context.Context, id uuid.UUID) (*Post, error) {
	query := `UPDATE posts SET views_count = views_count + 1 WHERE id = $1
		RETURNING ` + postColumns
	return r.scanPost(r.pool.QueryRow(ctx, query, id))
}

// List returns all posts, newest first.
func (r *PGRepository) List(ctx context.Context) ([]Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	out := []Post{}
	for rows.Next() {
		var post Post
		if err := rows.Scan(&post.ID, &post.Title, &post.Body, &post.Tags, &post.ImageURL,
			&post.ViewsCount, &post.OwnerID, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, post)
	}
	return out, rows.Err()
}

// Update rewrites the mutable columns of a post. Ownership is immutable
// and deliberately absent from the statement.
func (r *PGRepository) Update(ctx context.Context, post *Post) (*Post, error) {
	const query = `UPDATE posts
		SET title = $2, body = $3, tags = $4, image_url = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		post.ID, post.Title, post.Body, post.Tags, post.ImageURL,
	).Scan(&post.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: post not found", httpx.ErrNotFound)
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

// Delete removes a post.
func (r *PGRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: post not found", httpx.ErrNotFound)
	}
	return nil
}

// ImagePaths returns every image reference currently held by a post.
func (r *PGRepository) ImagePaths(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT image_url FROM posts WHERE image_url <> ''`)
	if err != nil {
		return nil, fmt.Errorf("list image paths: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan image path: %w", err)
		}
		out = append(out, path)
	}
	return out, rows.Err()
}

func (r *PGRepository) scanPost(row pgx.Row) (*Post, error) {
	var post Post
	err := row.Scan(&post.ID, &post.Title, &post.Body, &post.Tags, &post.ImageURL,
		&post.ViewsCount, &post.OwnerID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: post not found", httpx.ErrNotFound)
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return &post, nil
}

var _ Repository = (*PGRepository)(nil)
