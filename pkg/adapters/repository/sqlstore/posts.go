package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Team-NaBang/Bang-Backend/pkg/core/domain"
)

const postColumns = `id, title, summary, content, category, thumbnail, created_at, likes_count`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (domain.Post, error) {
	var p domain.Post
	var category string
	var created timestamp
	if err := row.Scan(&p.ID, &p.Title, &p.Summary, &p.Content, &category, &p.Thumbnail, &created, &p.Likes); err != nil {
		return p, err
	}
	p.Category = domain.Category(category)
	p.CreatedAt = created.Time
	return p, nil
}

func (r *Repository) Create(ctx context.Context, post *domain.Post) error {
	return mutate("create post", r.insertPost(ctx, post))
}

func (r *Repository) Restore(ctx context.Context, post *domain.Post) error {
	return mutate("restore post", r.insertPost(ctx, post))
}

func (r *Repository) insertPost(ctx context.Context, post *domain.Post) error {
	query := r.rebind(`INSERT INTO posts (` + postColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	return r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			post.ID, post.Title, post.Summary, post.Content, string(post.Category),
			post.Thumbnail, r.timeArg(post.CreatedAt), post.Likes,
		)
		return err
	})
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	query := r.rebind(`SELECT ` + postColumns + ` FROM posts WHERE id = ?`)

	p, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewPersistenceError("get post", err)
	}
	return &p, nil
}

// Update writes the mutable fields only; likes_count and created_at are
// owned by other operations.
// Update writes only the columns present in patch, so concurrent patches of
// different fields both land. The row is read back in the same transaction.
func (r *Repository) Update(ctx context.Context, id string, patch domain.PostPatch) (*domain.Post, error) {
	update := r.rebind(`UPDATE posts SET
		title = COALESCE(?, title),
		summary = COALESCE(?, summary),
		content = COALESCE(?, content),
		category = COALESCE(?, category),
		thumbnail = COALESCE(?, thumbnail)
		WHERE id = ?`)
	query := r.rebind(`SELECT ` + postColumns + ` FROM posts WHERE id = ?`)

	var post domain.Post
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var category *string
		if patch.Category != nil {
			c := string(*patch.Category)
			category = &c
		}
		res, err := tx.ExecContext(ctx, update,
			nullable(patch.Title), nullable(patch.Summary), nullable(patch.Content),
			nullable(category), nullable(patch.Thumbnail), id)
		if err != nil {
			return err
		}
		if err := requireRow(res); err != nil {
			return err
		}
		post, err = scanPost(tx.QueryRowContext(ctx, query, id))
		return err
	})
	if err != nil {
		return nil, mutate("update post", err)
	}
	return &post, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	query := r.rebind(`DELETE FROM posts WHERE id = ?`)
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, id)
		if err != nil {
			return err
		}
		return requireRow(res)
	})
	return mutate("delete post", err)
}

// IncrementLikes bumps the counter in a single statement so concurrent
// increments never lose updates.
func (r *Repository) IncrementLikes(ctx context.Context, id string) error {
	query := r.rebind(`UPDATE posts SET likes_count = likes_count + 1 WHERE id = ?`)
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, id)
		if err != nil {
			return err
		}
		return requireRow(res)
	})
	return mutate("increment likes", err)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) ListAll(ctx context.Context) ([]domain.Post, error) {
	return r.list(ctx, "list posts", `ORDER BY created_at DESC, id ASC`)
}

// ListPopular orders by likes, breaking ties by recency and then id.
func (r *Repository) ListPopular(ctx context.Context, limit int) ([]domain.Post, error) {
	return r.list(ctx, "list popular posts", `ORDER BY likes_count DESC, created_at DESC, id ASC LIMIT ?`, limit)
}

func (r *Repository) ListLatest(ctx context.Context, limit int) ([]domain.Post, error) {
	return r.list(ctx, "list latest posts", `ORDER BY created_at DESC, id ASC LIMIT ?`, limit)
}

func (r *Repository) list(ctx context.Context, op, suffix string, args ...interface{}) ([]domain.Post, error) {
	query := r.rebind(`SELECT ` + postColumns + ` FROM posts ` + suffix)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewPersistenceError(op, err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, domain.NewPersistenceError(op, err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewPersistenceError(op, err)
	}
	return posts, nil
}
