package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prasaddsahil07/vdoTube/internal/domain"
)

const tweetSelect = `t.id, t.owner_id, t.content, t.created_at, t.updated_at, u.username, u.full_name, u.avatar`

// PostgresTweetRepository implements TweetRepository using PostgreSQL
type PostgresTweetRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTweetRepository creates a new PostgresTweetRepository
func NewPostgresTweetRepository(pool *pgxpool.Pool) *PostgresTweetRepository {
	return &PostgresTweetRepository{pool: pool}
}

func scanTweet(row pgx.Row) (*domain.Tweet, error) {
	t := &domain.Tweet{Owner: &domain.UserSummary{}}
	if err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Content,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.Owner.Username,
		&t.Owner.FullName,
		&t.Owner.Avatar,
	); err != nil {
		return nil, err
	}
	t.Owner.ID = t.OwnerID
	return t, nil
}

func collectTweets(rows pgx.Rows) ([]*domain.Tweet, error) {
	tweets := []*domain.Tweet{}
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			return nil, err
		}
		tweets = append(tweets, t)
	}
	return tweets, rows.Err()
}

// Create creates a new tweet
func (r *PostgresTweetRepository) Create(ctx context.Context, tweet *domain.Tweet) error {
	query := `
		INSERT INTO tweets (id, owner_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.pool.Exec(ctx, query, tweet.ID, tweet.OwnerID, tweet.Content, tweet.CreatedAt, tweet.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create tweet: %w", err)
	}
	return nil
}

// GetByID retrieves a tweet by ID
func (r *PostgresTweetRepository) GetByID(ctx context.Context, id string) (*domain.Tweet, error) {
	query := `SELECT ` + tweetSelect + ` FROM tweets t JOIN users u ON u.id = t.owner_id WHERE t.id = $1`
	tweet, err := scanTweet(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return tweet, nil
}

// ListByOwner lists a user's tweets
func (r *PostgresTweetRepository) ListByOwner(ctx context.Context, ownerID string, opts ListOptions) ([]*domain.Tweet, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tweets WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tweets: %w", err)
	}

	query := `
		SELECT ` + tweetSelect + `
		FROM tweets t
		JOIN users u ON u.id = t.owner_id
		WHERE t.owner_id = $1
		ORDER BY t.created_at DESC, t.id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, ownerID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tweets: %w", err)
	}
	defer rows.Close()

	tweets, err := collectTweets(rows)
	if err != nil {
		return nil, 0, err
	}
	return tweets, total, nil
}

// List lists all tweets
func (r *PostgresTweetRepository) List(ctx context.Context, opts ListOptions) ([]*domain.Tweet, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tweets`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tweets: %w", err)
	}

	query := `
		SELECT ` + tweetSelect + `
		FROM tweets t
		JOIN users u ON u.id = t.owner_id
		ORDER BY t.created_at DESC, t.id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tweets: %w", err)
	}
	defer rows.Close()

	tweets, err := collectTweets(rows)
	if err != nil {
		return nil, 0, err
	}
	return tweets, total, nil
}

// Update changes a tweet's content
func (r *PostgresTweetRepository) Update(ctx context.Context, id, ownerID, content string) (*domain.Tweet, error) {
	query := `
		UPDATE tweets
		SET content = $3, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, owner_id, content, created_at, updated_at
	`
	t := &domain.Tweet{}
	err := r.pool.QueryRow(ctx, query, id, ownerID, content).Scan(&t.ID, &t.OwnerID, &t.Content, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update tweet: %w", err)
	}
	return t, nil
}

// Delete removes a tweet
func (r *PostgresTweetRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tweets WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete tweet: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
