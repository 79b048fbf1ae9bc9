package repository

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/internal/migrations"
	"github.com/prasaddsahil07/vdoTube/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableFor(t *testing.T) {
	tests := []struct {
		kind        domain.ToggleKind
		table       string
		targetTable string
		hasKind     bool
	}{
		{domain.ToggleKindVideo, "likes", "videos", true},
		{domain.ToggleKindComment, "likes", "comments", true},
		{domain.ToggleKindTweet, "likes", "tweets", true},
		{domain.ToggleKindChannel, "subscriptions", "users", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			tbl, err := tableFor(tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.table, tbl.name)
			assert.Equal(t, tt.targetTable, tbl.targetTable)
			assert.Equal(t, tt.hasKind, tbl.kindCol != "")
		})
	}

	_, err := tableFor("playlist")
	assert.ErrorIs(t, err, domain.ErrUnknownToggleKind)
}

func TestToggleTable_Match(t *testing.T) {
	likes, _ := tableFor(domain.ToggleKindVideo)
	assert.Equal(t, "liked_by = $1 AND target_id = $2 AND target_kind = $4", likes.match(4))

	subs, _ := tableFor(domain.ToggleKindChannel)
	assert.Equal(t, "subscriber_id = $1 AND channel_id = $2", subs.match(3))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\d`, escapeLike(`c:\d`))
	assert.Equal(t, "plain", escapeLike("plain"))
}

// Integration tests - require PostgreSQL to be running

func setupIntegrationDB(t *testing.T) *database.PostgresDB {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	cfg := database.DefaultPostgresConfig()
	if host := os.Getenv("TEST_DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port, err := strconv.Atoi(os.Getenv("TEST_DB_PORT")); err == nil {
		cfg.Port = port
	}
	if user := os.Getenv("TEST_DB_USER"); user != "" {
		cfg.User = user
	}
	cfg.Password = os.Getenv("TEST_DB_PASSWORD")
	if name := os.Getenv("TEST_DB_NAME"); name != "" {
		cfg.Database = name
	}

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx, migrations.FS, database.MigrateUp))
	return db
}

func createTestUser(t *testing.T, repo *PostgresUserRepository, name string) *domain.User {
	t.Helper()
	suffix := uuid.New().String()[:8]
	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     name + suffix,
		Email:        name + suffix + "@example.com",
		FullName:     name,
		Avatar:       "http://media/avatar.png",
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserRepository_Integration(t *testing.T) {
	db := setupIntegrationDB(t)
	ctx := context.Background()
	users := NewPostgresUserRepository(db.Pool())

	alice := createTestUser(t, users, "alice")

	// duplicate username
	dup := *alice
	dup.ID = uuid.New().String()
	dup.Email = "other-" + alice.Email
	assert.ErrorIs(t, users.Create(ctx, &dup), ErrDuplicate)

	byLogin, err := users.GetByLogin(ctx, "", alice.Email)
	require.NoError(t, err)
	require.NotNil(t, byLogin)
	assert.Equal(t, alice.ID, byLogin.ID)

	missing, err := users.GetByLogin(ctx, "", "")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// compare-and-swap rotation
	first := "aaaa"
	require.NoError(t, users.SetRefreshTokenHash(ctx, alice.ID, &first))
	swapped, err := users.SwapRefreshTokenHash(ctx, alice.ID, "aaaa", "bbbb")
	require.NoError(t, err)
	assert.True(t, swapped)
	swapped, err = users.SwapRefreshTokenHash(ctx, alice.ID, "aaaa", "cccc")
	require.NoError(t, err)
	assert.False(t, swapped, "stale digest must not rotate")

	previous, err := users.UpdateAvatar(ctx, alice.ID, "http://media/new.png")
	require.NoError(t, err)
	assert.Equal(t, "http://media/avatar.png", previous)
}

func TestToggleRepository_Integration(t *testing.T) {
	db := setupIntegrationDB(t)
	ctx := context.Background()
	users := NewPostgresUserRepository(db.Pool())
	videos := NewPostgresVideoRepository(db.Pool())
	toggles := NewPostgresToggleRepository(db.Pool())

	alice := createTestUser(t, users, "alice")
	bob := createTestUser(t, users, "bob")

	now := time.Now()
	video := &domain.Video{
		ID: uuid.New().String(), OwnerID: bob.ID, Title: "v1", VideoURL: "u", Thumbnail: "t",
		IsPublished: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, videos.Create(ctx, video))

	for i, want := range []bool{true, false, true} {
		active, err := toggles.Toggle(ctx, alice.ID, domain.ToggleKindVideo, video.ID)
		require.NoError(t, err)
		assert.Equal(t, want, active, "toggle #%d", i+1)
	}

	liked, err := toggles.Exists(ctx, alice.ID, domain.ToggleKindVideo, video.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	likedVideos, err := toggles.ListLikedVideos(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, likedVideos, 1)
	assert.Equal(t, bob.Username, likedVideos[0].Owner.Username)

	subscribed, err := toggles.Toggle(ctx, alice.ID, domain.ToggleKindChannel, bob.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	count, err := toggles.CountForTarget(ctx, domain.ToggleKindChannel, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stats, err := NewPostgresDashboardRepository(db.Pool()).ChannelStats(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalVideos)
	assert.Equal(t, int64(1), stats.TotalLikes)
	assert.Equal(t, int64(1), stats.TotalSubscribers)

	draft := &domain.Video{
		ID: uuid.New().String(), OwnerID: bob.ID, Title: "draft", VideoURL: "u", Thumbnail: "t",
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, videos.Create(ctx, draft))

	visible, err := toggles.TargetExists(ctx, alice.ID, domain.ToggleKindVideo, draft.ID)
	require.NoError(t, err)
	assert.False(t, visible, "unpublished video must be hidden from other users")

	visible, err = toggles.TargetExists(ctx, bob.ID, domain.ToggleKindVideo, draft.ID)
	require.NoError(t, err)
	assert.True(t, visible, "owner sees their unpublished video")
}

func TestPlaylistRepository_Integration(t *testing.T) {
	db := setupIntegrationDB(t)
	ctx := context.Background()
	users := NewPostgresUserRepository(db.Pool())
	videos := NewPostgresVideoRepository(db.Pool())
	playlists := NewPostgresPlaylistRepository(db.Pool())

	alice := createTestUser(t, users, "alice")
	mallory := createTestUser(t, users, "mallory")

	now := time.Now()
	video := &domain.Video{
		ID: uuid.New().String(), OwnerID: alice.ID, Title: "v1", VideoURL: "u", Thumbnail: "t",
		IsPublished: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, videos.Create(ctx, video))

	playlist := &domain.Playlist{ID: uuid.New().String(), OwnerID: alice.ID, Name: "mix", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, playlists.Create(ctx, playlist))

	require.NoError(t, playlists.AddVideo(ctx, playlist.ID, alice.ID, video.ID))
	assert.ErrorIs(t, playlists.AddVideo(ctx, playlist.ID, alice.ID, video.ID), ErrDuplicate)
	assert.ErrorIs(t, playlists.AddVideo(ctx, playlist.ID, mallory.ID, video.ID), ErrNotFound)
	assert.ErrorIs(t, playlists.AddVideo(ctx, playlist.ID, alice.ID, uuid.New().String()), ErrNotFound)

	got, err := playlists.GetByID(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{video.ID}, got.VideoIDs)

	// a non-owner cannot delete
	deleted, err := playlists.Delete(ctx, playlist.ID, mallory.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	draft := &domain.Video{
		ID: uuid.New().String(), OwnerID: mallory.ID, Title: "draft", VideoURL: "u", Thumbnail: "t",
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, videos.Create(ctx, draft))
	assert.ErrorIs(t, playlists.AddVideo(ctx, playlist.ID, alice.ID, draft.ID), ErrNotFound)

	listed, err := playlists.ListVideos(ctx, playlist.ID, mallory.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, playlists.RemoveVideo(ctx, playlist.ID, alice.ID, video.ID))
	assert.ErrorIs(t, playlists.RemoveVideo(ctx, playlist.ID, alice.ID, video.ID), ErrNotFound)
}
