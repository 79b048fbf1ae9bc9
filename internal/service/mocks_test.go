package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/internal/repository"
)

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	users       map[string]*domain.User
	history     map[string][]string
	videos      *mockVideoRepository
	createError error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:   make(map[string]*domain.User),
		history: make(map[string][]string),
	}
}

func (r *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if r.createError != nil {
		return r.createError
	}
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *mockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *mockUserRepository) GetByLogin(ctx context.Context, username, email string) (*domain.User, error) {
	for _, u := range r.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *mockUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	u, _ := r.GetByLogin(ctx, username, email)
	return u != nil, nil
}

func (r *mockUserRepository) UpdateDetails(ctx context.Context, id, fullName, email string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	for _, other := range r.users {
		if other.ID != id && other.Email == email {
			return nil, repository.ErrDuplicate
		}
	}
	u.FullName = fullName
	u.Email = email
	copied := *u
	return &copied, nil
}

func (r *mockUserRepository) UpdateAvatar(ctx context.Context, id, url string) (string, error) {
	u, ok := r.users[id]
	if !ok {
		return "", repository.ErrNotFound
	}
	previous := u.Avatar
	u.Avatar = url
	return previous, nil
}

func (r *mockUserRepository) UpdateCoverImage(ctx context.Context, id, url string) (string, error) {
	u, ok := r.users[id]
	if !ok {
		return "", repository.ErrNotFound
	}
	previous := u.CoverImage
	u.CoverImage = url
	return previous, nil
}

func (r *mockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *mockUserRepository) SetRefreshTokenHash(ctx context.Context, id string, hash *string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshTokenHash = hash
	return nil
}

func (r *mockUserRepository) SwapRefreshTokenHash(ctx context.Context, id, presented, next string) (bool, error) {
	u, ok := r.users[id]
	if !ok || u.RefreshTokenHash == nil || *u.RefreshTokenHash != presented {
		return false, nil
	}
	u.RefreshTokenHash = &next
	return true, nil
}

func (r *mockUserRepository) RecordWatch(ctx context.Context, userID, videoID string) error {
	kept := []string{videoID}
	for _, id := range r.history[userID] {
		if id != videoID {
			kept = append(kept, id)
		}
	}
	r.history[userID] = kept
	return nil
}

func (r *mockUserRepository) GetWatchHistory(ctx context.Context, userID string) ([]*domain.Video, error) {
	var videos []*domain.Video
	for _, id := range r.history[userID] {
		if r.videos != nil {
			if v := r.videos.videos[id]; v != nil {
				videos = append(videos, v)
			}
		}
	}
	return videos, nil
}

// mockVideoRepository is a mock implementation of VideoRepository
type mockVideoRepository struct {
	videos map[string]*domain.Video
}

func newMockVideoRepository() *mockVideoRepository {
	return &mockVideoRepository{videos: make(map[string]*domain.Video)}
}

func (r *mockVideoRepository) Create(ctx context.Context, video *domain.Video) error {
	copied := *video
	r.videos[video.ID] = &copied
	return nil
}

func (r *mockVideoRepository) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	v, ok := r.videos[id]
	if !ok {
		return nil, nil
	}
	copied := *v
	return &copied, nil
}

func (r *mockVideoRepository) List(ctx context.Context, filter *repository.VideoFilter, opts repository.ListOptions) ([]*domain.Video, int64, error) {
	var matched []*domain.Video
	for _, v := range r.videos {
		if filter.OwnerID != "" && v.OwnerID != filter.OwnerID {
			continue
		}
		if !v.IsPublished && !filter.IncludeUnpublished {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(v.Title), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, v)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if opts.Offset >= len(matched) {
		return []*domain.Video{}, total, nil
	}
	end := opts.Offset + opts.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[opts.Offset:end], total, nil
}

func (r *mockVideoRepository) Update(ctx context.Context, video *domain.Video) (*domain.Video, error) {
	current, ok := r.videos[video.ID]
	if !ok || current.OwnerID != video.OwnerID {
		return nil, nil
	}
	copied := *video
	r.videos[video.ID] = &copied
	return video, nil
}

func (r *mockVideoRepository) Delete(ctx context.Context, id, ownerID string) (*domain.Video, error) {
	v, ok := r.videos[id]
	if !ok || v.OwnerID != ownerID {
		return nil, nil
	}
	delete(r.videos, id)
	return v, nil
}

func (r *mockVideoRepository) TogglePublish(ctx context.Context, id, ownerID string) (*domain.Video, error) {
	v, ok := r.videos[id]
	if !ok || v.OwnerID != ownerID {
		return nil, nil
	}
	v.IsPublished = !v.IsPublished
	copied := *v
	return &copied, nil
}

func (r *mockVideoRepository) IncrementViews(ctx context.Context, id string) error {
	v, ok := r.videos[id]
	if !ok {
		return repository.ErrNotFound
	}
	v.Views++
	return nil
}

// mockToggleRepository is a mock implementation of ToggleRepository
type mockToggleRepository struct {
	relations map[string]bool
	targets   map[string]bool
	users     *mockUserRepository
	videos    *mockVideoRepository
	failWith  error
}

func newMockToggleRepository(users *mockUserRepository) *mockToggleRepository {
	return &mockToggleRepository{
		relations: make(map[string]bool),
		targets:   make(map[string]bool),
		users:     users,
	}
}

func toggleKey(actorID string, kind domain.ToggleKind, targetID string) string {
	return actorID + "|" + string(kind) + "|" + targetID
}

func (r *mockToggleRepository) addTarget(kind domain.ToggleKind, id string) {
	r.targets[string(kind)+"|"+id] = true
}

func (r *mockToggleRepository) Toggle(ctx context.Context, actorID string, kind domain.ToggleKind, targetID string) (bool, error) {
	if r.failWith != nil {
		return false, r.failWith
	}
	key := toggleKey(actorID, kind, targetID)
	if r.relations[key] {
		delete(r.relations, key)
		return false, nil
	}
	r.relations[key] = true
	return true, nil
}

func (r *mockToggleRepository) Exists(ctx context.Context, actorID string, kind domain.ToggleKind, targetID string) (bool, error) {
	return r.relations[toggleKey(actorID, kind, targetID)], nil
}

func (r *mockToggleRepository) TargetExists(ctx context.Context, viewerID string, kind domain.ToggleKind, targetID string) (bool, error) {
	if kind == domain.ToggleKindChannel && r.users != nil {
		_, ok := r.users.users[targetID]
		return ok, nil
	}
	if kind == domain.ToggleKindVideo && r.videos != nil {
		v := r.videos.videos[targetID]
		return v != nil && (v.IsPublished || v.OwnerID == viewerID), nil
	}
	return r.targets[string(kind)+"|"+targetID], nil
}

func (r *mockToggleRepository) CountForTarget(ctx context.Context, kind domain.ToggleKind, targetID string) (int64, error) {
	var n int64
	suffix := "|" + string(kind) + "|" + targetID
	for key := range r.relations {
		if strings.HasSuffix(key, suffix) {
			n++
		}
	}
	return n, nil
}

func (r *mockToggleRepository) CountForActor(ctx context.Context, kind domain.ToggleKind, actorID string) (int64, error) {
	var n int64
	prefix := actorID + "|" + string(kind) + "|"
	for key := range r.relations {
		if strings.HasPrefix(key, prefix) {
			n++
		}
	}
	return n, nil
}

func (r *mockToggleRepository) ListLikedVideos(ctx context.Context, actorID string) ([]*domain.Video, error) {
	return []*domain.Video{}, nil
}

func (r *mockToggleRepository) ListLikedTweets(ctx context.Context, actorID string) ([]*domain.Tweet, error) {
	return []*domain.Tweet{}, nil
}

func (r *mockToggleRepository) ListSubscribers(ctx context.Context, channelID string) ([]*domain.UserSummary, error) {
	var out []*domain.UserSummary
	suffix := "|" + string(domain.ToggleKindChannel) + "|" + channelID
	for key := range r.relations {
		if strings.HasSuffix(key, suffix) {
			out = append(out, &domain.UserSummary{ID: strings.TrimSuffix(key, suffix)})
		}
	}
	return out, nil
}

func (r *mockToggleRepository) ListSubscribedChannels(ctx context.Context, subscriberID string) ([]*domain.UserSummary, error) {
	var out []*domain.UserSummary
	prefix := subscriberID + "|" + string(domain.ToggleKindChannel) + "|"
	for key := range r.relations {
		if strings.HasPrefix(key, prefix) {
			out = append(out, &domain.UserSummary{ID: strings.TrimPrefix(key, prefix)})
		}
	}
	return out, nil
}

// mockPlaylistRepository is a mock implementation of PlaylistRepository
type mockPlaylistRepository struct {
	playlists map[string]*domain.Playlist
	videos    *mockVideoRepository
}

func newMockPlaylistRepository(videos *mockVideoRepository) *mockPlaylistRepository {
	return &mockPlaylistRepository{
		playlists: make(map[string]*domain.Playlist),
		videos:    videos,
	}
}

func (r *mockPlaylistRepository) Create(ctx context.Context, playlist *domain.Playlist) error {
	copied := *playlist
	r.playlists[playlist.ID] = &copied
	return nil
}

func (r *mockPlaylistRepository) GetByID(ctx context.Context, id string) (*domain.Playlist, error) {
	p, ok := r.playlists[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	copied.VideoIDs = append([]string{}, p.VideoIDs...)
	return &copied, nil
}

func (r *mockPlaylistRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Playlist, error) {
	var out []*domain.Playlist
	for _, p := range r.playlists {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *mockPlaylistRepository) ListVideos(ctx context.Context, playlistID, viewerID string) ([]*domain.Video, error) {
	videos := []*domain.Video{}
	p, ok := r.playlists[playlistID]
	if !ok {
		return videos, nil
	}
	for _, id := range p.VideoIDs {
		if v := r.videos.videos[id]; v != nil && (v.IsPublished || v.OwnerID == viewerID) {
			videos = append(videos, v)
		}
	}
	return videos, nil
}

func (r *mockPlaylistRepository) Update(ctx context.Context, id, ownerID string, update *repository.PlaylistUpdate) (*domain.Playlist, error) {
	p, ok := r.playlists[id]
	if !ok || p.OwnerID != ownerID {
		return nil, nil
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Category != nil {
		p.Category = *update.Category
	}
	return r.GetByID(ctx, id)
}

func (r *mockPlaylistRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	p, ok := r.playlists[id]
	if !ok || p.OwnerID != ownerID {
		return false, nil
	}
	delete(r.playlists, id)
	return true, nil
}

func (r *mockPlaylistRepository) AddVideo(ctx context.Context, playlistID, ownerID, videoID string) error {
	p, ok := r.playlists[playlistID]
	v := r.videos.videos[videoID]
	if !ok || p.OwnerID != ownerID || v == nil || (!v.IsPublished && v.OwnerID != ownerID) {
		return repository.ErrNotFound
	}
	if p.HasVideo(videoID) {
		return repository.ErrDuplicate
	}
	p.VideoIDs = append(p.VideoIDs, videoID)
	return nil
}

func (r *mockPlaylistRepository) RemoveVideo(ctx context.Context, playlistID, ownerID, videoID string) error {
	p, ok := r.playlists[playlistID]
	if !ok || p.OwnerID != ownerID || !p.HasVideo(videoID) {
		return repository.ErrNotFound
	}
	kept := p.VideoIDs[:0]
	for _, id := range p.VideoIDs {
		if id != videoID {
			kept = append(kept, id)
		}
	}
	p.VideoIDs = kept
	return nil
}

// mockMediaService records uploads and discards without touching a store
type mockMediaService struct {
	uploaded  []string
	discarded []string
	uploadErr error
}

func (m *mockMediaService) Upload(ctx context.Context, localPath, folder string) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	url := "https://cdn.test/" + folder + "/" + localPath
	m.uploaded = append(m.uploaded, url)
	return url, nil
}

func (m *mockMediaService) Discard(ctx context.Context, url, ownerID, reason string) {
	if url != "" {
		m.discarded = append(m.discarded, url)
	}
}

func (m *mockMediaService) Purge(ctx context.Context, url string) error {
	return nil
}

// recordingPublisher keeps every event it is given
type recordingPublisher struct {
	activities []*domain.ActivityEvent
	discarded  []*domain.MediaDiscardedEvent
	async      bool
	failMedia  bool
}

func (p *recordingPublisher) PublishActivity(ctx context.Context, event *domain.ActivityEvent) {
	p.activities = append(p.activities, event)
}

func (p *recordingPublisher) PublishMediaDiscarded(ctx context.Context, event *domain.MediaDiscardedEvent) error {
	if p.failMedia {
		return errors.New("broker unavailable")
	}
	p.discarded = append(p.discarded, event)
	return nil
}

func (p *recordingPublisher) Async() bool { return p.async }

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.activities))
	for _, e := range p.activities {
		out = append(out, e.Type)
	}
	return out
}
