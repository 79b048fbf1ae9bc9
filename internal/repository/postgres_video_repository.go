package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prasaddsahil07/vdoTube/internal/domain"
)

// videoSelect expects videos aliased v and owners aliased u
const videoSelect = `v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail, v.duration, v.views,
	v.is_published, v.created_at, v.updated_at, u.username, u.full_name, u.avatar`

// videoReturning is used where there is no owner join
const videoReturning = `id, owner_id, title, description, video_url, thumbnail, duration, views, is_published, created_at, updated_at`

var videoSortColumns = map[string]string{
	"createdAt":  "v.created_at",
	"created_at": "v.created_at",
	"views":      "v.views",
	"duration":   "v.duration",
	"title":      "v.title",
}

// PostgresVideoRepository implements VideoRepository using PostgreSQL
type PostgresVideoRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresVideoRepository creates a new PostgresVideoRepository
func NewPostgresVideoRepository(pool *pgxpool.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

func scanVideo(row pgx.Row) (*domain.Video, error) {
	v := &domain.Video{Owner: &domain.UserSummary{}}
	err := row.Scan(
		&v.ID,
		&v.OwnerID,
		&v.Title,
		&v.Description,
		&v.VideoURL,
		&v.Thumbnail,
		&v.Duration,
		&v.Views,
		&v.IsPublished,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.Owner.Username,
		&v.Owner.FullName,
		&v.Owner.Avatar,
	)
	if err != nil {
		return nil, err
	}
	v.Owner.ID = v.OwnerID
	return v, nil
}

func scanBareVideo(row pgx.Row) (*domain.Video, error) {
	v := &domain.Video{}
	err := row.Scan(
		&v.ID,
		&v.OwnerID,
		&v.Title,
		&v.Description,
		&v.VideoURL,
		&v.Thumbnail,
		&v.Duration,
		&v.Views,
		&v.IsPublished,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

func collectVideos(rows pgx.Rows) ([]*domain.Video, error) {
	videos := []*domain.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// Create creates a new video
func (r *PostgresVideoRepository) Create(ctx context.Context, video *domain.Video) error {
	query := `
		INSERT INTO videos (id, owner_id, title, description, video_url, thumbnail, duration, views, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		video.ID,
		video.OwnerID,
		video.Title,
		video.Description,
		video.VideoURL,
		video.Thumbnail,
		video.Duration,
		video.Views,
		video.IsPublished,
		video.CreatedAt,
		video.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}
	return nil
}

// GetByID retrieves a video by ID
func (r *PostgresVideoRepository) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	query := `
		SELECT ` + videoSelect + `
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.id = $1
	`
	video, err := scanVideo(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return video, nil
}

// List lists videos with filters and pagination
func (r *PostgresVideoRepository) List(ctx context.Context, filter *VideoFilter, opts ListOptions) ([]*domain.Video, int64, error) {
	if filter == nil {
		filter = &VideoFilter{}
	}

	var conditions []string
	var args []interface{}
	argNum := 1

	if !filter.IncludeUnpublished {
		conditions = append(conditions, "v.is_published = TRUE")
	}
	if filter.OwnerID != "" {
		conditions = append(conditions, fmt.Sprintf("v.owner_id = $%d", argNum))
		args = append(args, filter.OwnerID)
		argNum++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(v.title ILIKE $%d OR v.description ILIKE $%d)", argNum, argNum))
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		argNum++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := `SELECT COUNT(*) FROM videos v ` + where
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	sortColumn, ok := videoSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "v.created_at"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		%s
		ORDER BY %s %s, v.id
		LIMIT $%d OFFSET $%d
	`, videoSelect, where, sortColumn, direction, argNum, argNum+1)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	videos, err := collectVideos(rows)
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

// Update updates a video; the owner filter is part of the statement
func (r *PostgresVideoRepository) Update(ctx context.Context, video *domain.Video) (*domain.Video, error) {
	query := `
		UPDATE videos
		SET title = $3, description = $4, thumbnail = $5, updated_at = $6
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + videoReturning
	return scanBareVideo(r.pool.QueryRow(ctx, query,
		video.ID,
		video.OwnerID,
		video.Title,
		video.Description,
		video.Thumbnail,
		time.Now(),
	))
}

// Delete removes a video owned by ownerID
func (r *PostgresVideoRepository) Delete(ctx context.Context, id, ownerID string) (*domain.Video, error) {
	query := `DELETE FROM videos WHERE id = $1 AND owner_id = $2 RETURNING ` + videoReturning
	return scanBareVideo(r.pool.QueryRow(ctx, query, id, ownerID))
}

// TogglePublish flips the publish flag
func (r *PostgresVideoRepository) TogglePublish(ctx context.Context, id, ownerID string) (*domain.Video, error) {
	query := `
		UPDATE videos
		SET is_published = NOT is_published, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + videoReturning
	return scanBareVideo(r.pool.QueryRow(ctx, query, id, ownerID))
}

// IncrementViews adds one view
func (r *PostgresVideoRepository) IncrementViews(ctx context.Context, id string) error {
	query := `UPDATE videos SET views = views + 1 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// escapeLike escapes LIKE wildcards in user input
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
