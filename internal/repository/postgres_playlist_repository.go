package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prasaddsahil07/vdoTube/internal/domain"
)

// playlistSelect aggregates the ordered video ids of playlists aliased p
const playlistSelect = `
	SELECT p.id, p.owner_id, p.name, p.description, p.category, p.created_at, p.updated_at,
		COALESCE(
			ARRAY_AGG(pv.video_id::text ORDER BY pv.position) FILTER (WHERE pv.video_id IS NOT NULL),
			'{}'
		)::text[]
	FROM playlists p
	LEFT JOIN playlist_videos pv ON pv.playlist_id = p.id
`

// PostgresPlaylistRepository implements PlaylistRepository using PostgreSQL
type PostgresPlaylistRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPlaylistRepository creates a new PostgresPlaylistRepository
func NewPostgresPlaylistRepository(pool *pgxpool.Pool) *PostgresPlaylistRepository {
	return &PostgresPlaylistRepository{pool: pool}
}

func scanPlaylist(row pgx.Row) (*domain.Playlist, error) {
	p := &domain.Playlist{}
	if err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Description,
		&p.Category,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.VideoIDs,
	); err != nil {
		return nil, err
	}
	return p, nil
}

// Create creates a new playlist
func (r *PostgresPlaylistRepository) Create(ctx context.Context, playlist *domain.Playlist) error {
	query := `
		INSERT INTO playlists (id, owner_id, name, description, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		playlist.ID,
		playlist.OwnerID,
		playlist.Name,
		playlist.Description,
		playlist.Category,
		playlist.CreatedAt,
		playlist.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	return nil
}

// GetByID retrieves a playlist by ID
func (r *PostgresPlaylistRepository) GetByID(ctx context.Context, id string) (*domain.Playlist, error) {
	query := playlistSelect + ` WHERE p.id = $1 GROUP BY p.id`
	p, err := scanPlaylist(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// ListByOwner lists a user's playlists, newest first
func (r *PostgresPlaylistRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Playlist, error) {
	query := playlistSelect + ` WHERE p.owner_id = $1 GROUP BY p.id ORDER BY p.created_at DESC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	playlists := []*domain.Playlist{}
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

// ListVideos returns the playlist's videos in order, skipping other users' unpublished ones
func (r *PostgresPlaylistRepository) ListVideos(ctx context.Context, playlistID, viewerID string) ([]*domain.Video, error) {
	query := `
		SELECT ` + videoSelect + `
		FROM playlist_videos pv
		JOIN videos v ON v.id = pv.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE pv.playlist_id = $1 AND (v.is_published OR v.owner_id = $2)
		ORDER BY pv.position
	`
	rows, err := r.pool.Query(ctx, query, playlistID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlist videos: %w", err)
	}
	defer rows.Close()
	return collectVideos(rows)
}

// Update updates a playlist
func (r *PostgresPlaylistRepository) Update(ctx context.Context, id, ownerID string, update *PlaylistUpdate) (*domain.Playlist, error) {
	query := `
		UPDATE playlists
		SET name = COALESCE($3, name),
			description = COALESCE($4, description),
			category = COALESCE($5, category),
			updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
	`
	tag, err := r.pool.Exec(ctx, query, id, ownerID, update.Name, update.Description, update.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to update playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

// Delete removes a playlist; its membership rows cascade
func (r *PostgresPlaylistRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM playlists WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete playlist: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// AddVideo inserts the membership row and bumps updated_at in a single statement.
// The video must be published or belong to the owner. When nothing was inserted
// a follow-up read decides between a missing target and a duplicate.
func (r *PostgresPlaylistRepository) AddVideo(ctx context.Context, playlistID, ownerID, videoID string) error {
	query := `
		WITH p AS (
			SELECT id FROM playlists WHERE id = $1 AND owner_id = $2
		), v AS (
			SELECT id FROM videos WHERE id = $3 AND (is_published OR owner_id = $2)
		), inserted AS (
			INSERT INTO playlist_videos (playlist_id, video_id, position, added_at)
			SELECT p.id, v.id,
				COALESCE((SELECT MAX(position) + 1 FROM playlist_videos WHERE playlist_id = $1), 0),
				NOW()
			FROM p, v
			ON CONFLICT (playlist_id, video_id) DO NOTHING
			RETURNING playlist_id
		), touched AS (
			UPDATE playlists SET updated_at = NOW()
			WHERE id IN (SELECT playlist_id FROM inserted)
			RETURNING id
		)
		SELECT EXISTS(SELECT 1 FROM inserted)
	`
	var added bool
	if err := r.pool.QueryRow(ctx, query, playlistID, ownerID, videoID).Scan(&added); err != nil {
		return fmt.Errorf("failed to add video to playlist: %w", err)
	}
	if added {
		return nil
	}

	var playlistOwned, videoExists bool
	err := r.pool.QueryRow(ctx, `
		SELECT
			EXISTS(SELECT 1 FROM playlists WHERE id = $1 AND owner_id = $2),
			EXISTS(SELECT 1 FROM videos WHERE id = $3 AND (is_published OR owner_id = $2))
	`, playlistID, ownerID, videoID).Scan(&playlistOwned, &videoExists)
	if err != nil {
		return fmt.Errorf("failed to check playlist membership: %w", err)
	}
	if !playlistOwned || !videoExists {
		return ErrNotFound
	}
	return ErrDuplicate
}

// RemoveVideo deletes the membership row if the playlist belongs to ownerID,
// bumping updated_at in the same statement
func (r *PostgresPlaylistRepository) RemoveVideo(ctx context.Context, playlistID, ownerID, videoID string) error {
	query := `
		WITH removed AS (
			DELETE FROM playlist_videos pv
			USING playlists p
			WHERE pv.playlist_id = p.id
				AND p.id = $1 AND p.owner_id = $2 AND pv.video_id = $3
			RETURNING pv.playlist_id
		), touched AS (
			UPDATE playlists SET updated_at = NOW()
			WHERE id IN (SELECT playlist_id FROM removed)
			RETURNING id
		)
		SELECT EXISTS(SELECT 1 FROM removed)
	`
	var removed bool
	if err := r.pool.QueryRow(ctx, query, playlistID, ownerID, videoID).Scan(&removed); err != nil {
		return fmt.Errorf("failed to remove video from playlist: %w", err)
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}
