package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/pkg/database"
)

const userColumns = `id, username, email, full_name, avatar, cover_image, password_hash, refresh_token_hash, created_at, updated_at`

// PostgresUserRepository implements UserRepository using PostgreSQL
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.Avatar,
		&user.CoverImage,
		&user.PasswordHash,
		&user.RefreshTokenHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// Create creates a new user
func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, full_name, avatar, cover_image, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.Avatar,
		user.CoverImage,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if database.IsUniqueViolation(err, "") {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

// GetByUsername retrieves a user by username
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

// GetByLogin retrieves a user by username or email; empty values never match
func (r *PostgresUserRepository) GetByLogin(ctx context.Context, username, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE ($1 <> '' AND username = $1) OR ($2 <> '' AND email = $2)
		LIMIT 1
	`
	return scanUser(r.pool.QueryRow(ctx, query, username, email))
}

// ExistsByUsernameOrEmail checks if a user exists with either identity
func (r *PostgresUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, username, email).Scan(&exists)
	return exists, err
}

// UpdateDetails updates full name and email
func (r *PostgresUserRepository) UpdateDetails(ctx context.Context, id, fullName, email string) (*domain.User, error) {
	query := `
		UPDATE users
		SET full_name = $2, email = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + userColumns
	user, err := scanUser(r.pool.QueryRow(ctx, query, id, fullName, email, time.Now()))
	if database.IsUniqueViolation(err, "users_email_key") {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user details: %w", err)
	}
	return user, nil
}

// UpdateAvatar stores a new avatar and returns the replaced one
func (r *PostgresUserRepository) UpdateAvatar(ctx context.Context, id, url string) (string, error) {
	return r.replaceImage(ctx, "avatar", id, url)
}

// UpdateCoverImage stores a new cover image and returns the replaced one
func (r *PostgresUserRepository) UpdateCoverImage(ctx context.Context, id, url string) (string, error) {
	return r.replaceImage(ctx, "cover_image", id, url)
}

// replaceImage swaps an image column and returns the old value in one statement.
// column is always one of the two constants above.
func (r *PostgresUserRepository) replaceImage(ctx context.Context, column, id, url string) (string, error) {
	query := `
		WITH old AS (
			SELECT ` + column + ` AS previous FROM users WHERE id = $1 FOR UPDATE
		)
		UPDATE users
		SET ` + column + ` = $2, updated_at = NOW()
		FROM old
		WHERE users.id = $1
		RETURNING old.previous
	`
	var previous string
	err := r.pool.QueryRow(ctx, query, id, url).Scan(&previous)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to update %s: %w", column, err)
	}
	return previous, nil
}

// UpdatePassword replaces the password hash
func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRefreshTokenHash overwrites the stored session digest
func (r *PostgresUserRepository) SetRefreshTokenHash(ctx context.Context, id string, hash *string) error {
	query := `UPDATE users SET refresh_token_hash = $2 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, hash)
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SwapRefreshTokenHash is the compare-and-swap used by refresh rotation
func (r *PostgresUserRepository) SwapRefreshTokenHash(ctx context.Context, id, presented, next string) (bool, error) {
	query := `
		UPDATE users
		SET refresh_token_hash = $3
		WHERE id = $1 AND refresh_token_hash = $2
	`
	tag, err := r.pool.Exec(ctx, query, id, presented, next)
	if err != nil {
		return false, fmt.Errorf("failed to rotate session: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// RecordWatch upserts the history entry so each video appears once, newest first
func (r *PostgresUserRepository) RecordWatch(ctx context.Context, userID, videoID string) error {
	query := `
		INSERT INTO watch_history (user_id, video_id, watched_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = EXCLUDED.watched_at
	`
	if _, err := r.pool.Exec(ctx, query, userID, videoID); err != nil {
		return fmt.Errorf("failed to record watch: %w", err)
	}
	return nil
}

// GetWatchHistory lists watched videos with their owners, most recent first
func (r *PostgresUserRepository) GetWatchHistory(ctx context.Context, userID string) ([]*domain.Video, error) {
	query := `
		SELECT ` + videoSelect + `
		FROM watch_history h
		JOIN videos v ON v.id = h.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE h.user_id = $1
		ORDER BY h.watched_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get watch history: %w", err)
	}
	defer rows.Close()
	return collectVideos(rows)
}
