package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/raihan/pesonabangka/internal/model"
)

// PostgresPostRepo はPostgreSQLを使用したブログ記事リポジトリ。
type PostgresPostRepo struct {
	db *sql.DB
}

// NewPostgresPostRepo はPostgresPostRepoを生成する。
func NewPostgresPostRepo(db *sql.DB) *PostgresPostRepo {
	return &PostgresPostRepo{db: db}
}

// FindByID は指定IDの記事を取得する。見つからない場合はnilを返す。
func (r *PostgresPostRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	post := &model.Post{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, content, author, created_at FROM posts WHERE id = $1`,
		id,
	).Scan(&post.ID, &post.Title, &post.Content, &post.Author, &post.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, model.NewStoreUnavailableError(fmt.Errorf("failed to find post: %w", err))
	}

	return post, nil
}

// List は全記事を作成日時の降順で返す。
func (r *PostgresPostRepo) List(ctx context.Context) ([]*model.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, content, author, created_at FROM posts ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, model.NewStoreUnavailableError(fmt.Errorf("failed to list posts: %w", err))
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		post := &model.Post{}
		if err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.Author, &post.CreatedAt); err != nil {
			return nil, model.NewStoreUnavailableError(fmt.Errorf("failed to scan post: %w", err))
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewStoreUnavailableError(fmt.Errorf("failed to iterate posts: %w", err))
	}

	return posts, nil
}

// Create は記事を作成する。
func (r *PostgresPostRepo) Create(ctx context.Context, post *model.Post) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, title, content, author, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		post.ID, post.Title, post.Content, post.Author, post.CreatedAt,
	)
	if err != nil {
		return model.NewStoreUnavailableError(fmt.Errorf("failed to insert post: %w", err))
	}
	return nil
}

// compile-time interface check
var _ PostRepository = (*PostgresPostRepo)(nil)
