package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prasaddsahil07/vdoTube/internal/domain"
)

// toggleTable describes where a toggle kind is stored
type toggleTable struct {
	name        string
	actorCol    string
	targetCol   string
	kindCol     string // empty when the table holds a single kind
	targetTable string
}

var (
	likesTable = toggleTable{name: "likes", actorCol: "liked_by", targetCol: "target_id", kindCol: "target_kind"}
	subsTable  = toggleTable{name: "subscriptions", actorCol: "subscriber_id", targetCol: "channel_id"}
)

func tableFor(kind domain.ToggleKind) (toggleTable, error) {
	switch kind {
	case domain.ToggleKindVideo:
		t := likesTable
		t.targetTable = "videos"
		return t, nil
	case domain.ToggleKindComment:
		t := likesTable
		t.targetTable = "comments"
		return t, nil
	case domain.ToggleKindTweet:
		t := likesTable
		t.targetTable = "tweets"
		return t, nil
	case domain.ToggleKindChannel:
		t := subsTable
		t.targetTable = "users"
		return t, nil
	}
	return toggleTable{}, domain.ErrUnknownToggleKind
}

// match returns the WHERE clause selecting one relation row; $1 is the actor, $2 the target,
// and the kind (if any) is the last argument
func (t toggleTable) match(kindArg int) string {
	clause := fmt.Sprintf("%s = $1 AND %s = $2", t.actorCol, t.targetCol)
	if t.kindCol != "" {
		clause += fmt.Sprintf(" AND %s = $%d", t.kindCol, kindArg)
	}
	return clause
}

// PostgresToggleRepository implements ToggleRepository using PostgreSQL
type PostgresToggleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresToggleRepository creates a new PostgresToggleRepository
func NewPostgresToggleRepository(pool *pgxpool.Pool) *PostgresToggleRepository {
	return &PostgresToggleRepository{pool: pool}
}

// Toggle deletes the relation if present, else inserts it, as one statement.
// If neither happened a concurrent insert won the race; the relation is then removed
// and reported inactive.
func (r *PostgresToggleRepository) Toggle(ctx context.Context, actorID string, kind domain.ToggleKind, targetID string) (bool, error) {
	t, err := tableFor(kind)
	if err != nil {
		return false, err
	}

	insertCols := fmt.Sprintf("id, %s, %s, created_at", t.actorCol, t.targetCol)
	insertVals := "$3, $1, $2, NOW()"
	args := []interface{}{actorID, targetID, uuid.New().String()}
	if t.kindCol != "" {
		insertCols += ", " + t.kindCol
		insertVals += ", $4"
		args = append(args, string(kind))
	}

	query := fmt.Sprintf(`
		WITH deleted AS (
			DELETE FROM %[1]s WHERE %[2]s RETURNING 1
		), inserted AS (
			INSERT INTO %[1]s (%[3]s)
			SELECT %[4]s
			WHERE NOT EXISTS (SELECT 1 FROM deleted)
			ON CONFLICT DO NOTHING
			RETURNING 1
		)
		SELECT EXISTS(SELECT 1 FROM deleted), EXISTS(SELECT 1 FROM inserted)
	`, t.name, t.match(4), insertCols, insertVals)

	var removed, added bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&removed, &added); err != nil {
		return false, fmt.Errorf("failed to toggle %s: %w", kind, err)
	}
	if added {
		return true, nil
	}
	if removed {
		return false, nil
	}

	fallbackArgs := []interface{}{actorID, targetID}
	if t.kindCol != "" {
		fallbackArgs = append(fallbackArgs, string(kind))
	}
	fallback := fmt.Sprintf(`DELETE FROM %s WHERE %s`, t.name, t.match(3))
	if _, err := r.pool.Exec(ctx, fallback, fallbackArgs...); err != nil {
		return false, fmt.Errorf("failed to toggle %s: %w", kind, err)
	}
	return false, nil
}

// Exists reports whether the relation row is present
func (r *PostgresToggleRepository) Exists(ctx context.Context, actorID string, kind domain.ToggleKind, targetID string) (bool, error) {
	t, err := tableFor(kind)
	if err != nil {
		return false, err
	}

	args := []interface{}{actorID, targetID}
	if t.kindCol != "" {
		args = append(args, string(kind))
	}
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE %s)`, t.name, t.match(3))

	var exists bool
	err = r.pool.QueryRow(ctx, query, args...).Scan(&exists)
	return exists, err
}

// TargetExists reports whether the toggled target exists and the viewer may see it.
// Unpublished videos are visible to their owner only.
func (r *PostgresToggleRepository) TargetExists(ctx context.Context, viewerID string, kind domain.ToggleKind, targetID string) (bool, error) {
	t, err := tableFor(kind)
	if err != nil {
		return false, err
	}

	var exists bool
	if kind == domain.ToggleKindVideo {
		query := `SELECT EXISTS(SELECT 1 FROM videos WHERE id = $1 AND (is_published OR owner_id = $2))`
		err = r.pool.QueryRow(ctx, query, targetID, viewerID).Scan(&exists)
		return exists, err
	}

	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, t.targetTable)
	err = r.pool.QueryRow(ctx, query, targetID).Scan(&exists)
	return exists, err
}

// CountForTarget counts relation rows pointing at the target
func (r *PostgresToggleRepository) CountForTarget(ctx context.Context, kind domain.ToggleKind, targetID string) (int64, error) {
	t, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	args := []interface{}{targetID}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, t.name, t.targetCol)
	if t.kindCol != "" {
		query += fmt.Sprintf(` AND %s = $2`, t.kindCol)
		args = append(args, string(kind))
	}

	var count int64
	err = r.pool.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

// CountForActor counts relation rows owned by the actor, skipping dangling targets
func (r *PostgresToggleRepository) CountForActor(ctx context.Context, kind domain.ToggleKind, actorID string) (int64, error) {
	t, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	args := []interface{}{actorID}
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s r
		JOIN %s target ON target.id = r.%s
		WHERE r.%s = $1
	`, t.name, t.targetTable, t.targetCol, t.actorCol)
	if t.kindCol != "" {
		query += fmt.Sprintf(` AND r.%s = $2`, t.kindCol)
		args = append(args, string(kind))
	}

	var count int64
	err = r.pool.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

// ListLikedVideos lists videos liked by the actor that still exist and are visible to them
func (r *PostgresToggleRepository) ListLikedVideos(ctx context.Context, actorID string) ([]*domain.Video, error) {
	query := `
		SELECT ` + videoSelect + `
		FROM likes l
		JOIN videos v ON v.id = l.target_id
		JOIN users u ON u.id = v.owner_id
		WHERE l.liked_by = $1 AND l.target_kind = 'video'
			AND (v.is_published OR v.owner_id = $1)
		ORDER BY l.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list liked videos: %w", err)
	}
	defer rows.Close()
	return collectVideos(rows)
}

// ListLikedTweets lists tweets liked by the actor that still exist
func (r *PostgresToggleRepository) ListLikedTweets(ctx context.Context, actorID string) ([]*domain.Tweet, error) {
	query := `
		SELECT ` + tweetSelect + `
		FROM likes l
		JOIN tweets t ON t.id = l.target_id
		JOIN users u ON u.id = t.owner_id
		WHERE l.liked_by = $1 AND l.target_kind = 'tweet'
		ORDER BY l.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list liked tweets: %w", err)
	}
	defer rows.Close()
	return collectTweets(rows)
}

// ListSubscribers lists a channel's subscribers
func (r *PostgresToggleRepository) ListSubscribers(ctx context.Context, channelID string) ([]*domain.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.full_name, u.avatar
		FROM subscriptions s
		JOIN users u ON u.id = s.subscriber_id
		WHERE s.channel_id = $1
		ORDER BY s.created_at DESC
	`
	return r.listSummaries(ctx, query, channelID)
}

// ListSubscribedChannels lists the channels a user follows
func (r *PostgresToggleRepository) ListSubscribedChannels(ctx context.Context, subscriberID string) ([]*domain.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.full_name, u.avatar
		FROM subscriptions s
		JOIN users u ON u.id = s.channel_id
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at DESC
	`
	return r.listSummaries(ctx, query, subscriberID)
}

func (r *PostgresToggleRepository) listSummaries(ctx context.Context, query, id string) ([]*domain.UserSummary, error) {
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	users := []*domain.UserSummary{}
	for rows.Next() {
		u := &domain.UserSummary{}
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.Avatar); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// PostgresDashboardRepository implements DashboardRepository using PostgreSQL
type PostgresDashboardRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresDashboardRepository creates a new PostgresDashboardRepository
func NewPostgresDashboardRepository(pool *pgxpool.Pool) *PostgresDashboardRepository {
	return &PostgresDashboardRepository{pool: pool}
}

// ChannelStats computes totals for every video the channel owns, published or not
func (r *PostgresDashboardRepository) ChannelStats(ctx context.Context, channelID string) (*domain.ChannelStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM videos WHERE owner_id = $1),
			(SELECT COALESCE(SUM(views), 0)::bigint FROM videos WHERE owner_id = $1),
			(SELECT COUNT(*) FROM likes l JOIN videos v ON v.id = l.target_id
				WHERE l.target_kind = 'video' AND v.owner_id = $1),
			(SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1)
	`
	stats := &domain.ChannelStats{}
	err := r.pool.QueryRow(ctx, query, channelID).Scan(
		&stats.TotalVideos,
		&stats.TotalViews,
		&stats.TotalLikes,
		&stats.TotalSubscribers,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute channel stats: %w", err)
	}
	return stats, nil
}
