package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/pkg/database"
)

// PostgresCommentRepository implements CommentRepository using PostgreSQL
type PostgresCommentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(pool *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

// Create creates a new comment; ErrNotFound if the video does not exist
func (r *PostgresCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (id, video_id, owner_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		comment.ID,
		comment.VideoID,
		comment.OwnerID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if database.IsForeignKeyViolation(err, "") {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// ListByVideo lists comments on a video
func (r *PostgresCommentRepository) ListByVideo(ctx context.Context, videoID string, opts ListOptions) ([]*domain.Comment, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE video_id = $1`, videoID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	query := `
		SELECT c.id, c.video_id, c.owner_id, c.content, c.created_at, c.updated_at,
			u.username, u.full_name, u.avatar
		FROM comments c
		JOIN users u ON u.id = c.owner_id
		WHERE c.video_id = $1
		ORDER BY c.created_at DESC, c.id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, videoID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []*domain.Comment{}
	for rows.Next() {
		c := &domain.Comment{Owner: &domain.UserSummary{}}
		if err := rows.Scan(
			&c.ID,
			&c.VideoID,
			&c.OwnerID,
			&c.Content,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.Owner.Username,
			&c.Owner.FullName,
			&c.Owner.Avatar,
		); err != nil {
			return nil, 0, err
		}
		c.Owner.ID = c.OwnerID
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// Update changes a comment's content
func (r *PostgresCommentRepository) Update(ctx context.Context, id, ownerID, content string) (*domain.Comment, error) {
	query := `
		UPDATE comments
		SET content = $3, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, video_id, owner_id, content, created_at, updated_at
	`
	c := &domain.Comment{}
	err := r.pool.QueryRow(ctx, query, id, ownerID, content).Scan(
		&c.ID, &c.VideoID, &c.OwnerID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return c, nil
}

// Delete removes a comment
func (r *PostgresCommentRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete comment: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
