package handler

import (
	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/internal/dto"
)

func toUserResponse(u *domain.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toOwnerResponse(s *domain.UserSummary) *dto.OwnerResponse {
	if s == nil {
		return nil
	}
	return &dto.OwnerResponse{
		ID:       s.ID,
		Username: s.Username,
		FullName: s.FullName,
		Avatar:   s.Avatar,
	}
}

func toOwnerResponses(in []*domain.UserSummary) []*dto.OwnerResponse {
	out := make([]*dto.OwnerResponse, 0, len(in))
	for _, s := range in {
		out = append(out, toOwnerResponse(s))
	}
	return out
}

func toVideoResponse(v *domain.Video) *dto.VideoResponse {
	return &dto.VideoResponse{
		ID:          v.ID,
		OwnerID:     v.OwnerID,
		Owner:       toOwnerResponse(v.Owner),
		Title:       v.Title,
		Description: v.Description,
		VideoFile:   v.VideoURL,
		Thumbnail:   v.Thumbnail,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func toVideoResponses(in []*domain.Video) []*dto.VideoResponse {
	out := make([]*dto.VideoResponse, 0, len(in))
	for _, v := range in {
		out = append(out, toVideoResponse(v))
	}
	return out
}

func toTweetResponse(t *domain.Tweet) *dto.TweetResponse {
	return &dto.TweetResponse{
		ID:        t.ID,
		OwnerID:   t.OwnerID,
		Owner:     toOwnerResponse(t.Owner),
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toTweetResponses(in []*domain.Tweet) []*dto.TweetResponse {
	out := make([]*dto.TweetResponse, 0, len(in))
	for _, t := range in {
		out = append(out, toTweetResponse(t))
	}
	return out
}

func toCommentResponse(cm *domain.Comment) *dto.CommentResponse {
	return &dto.CommentResponse{
		ID:        cm.ID,
		VideoID:   cm.VideoID,
		OwnerID:   cm.OwnerID,
		Owner:     toOwnerResponse(cm.Owner),
		Content:   cm.Content,
		CreatedAt: cm.CreatedAt,
		UpdatedAt: cm.UpdatedAt,
	}
}

func toCommentResponses(in []*domain.Comment) []*dto.CommentResponse {
	out := make([]*dto.CommentResponse, 0, len(in))
	for _, cm := range in {
		out = append(out, toCommentResponse(cm))
	}
	return out
}

func toPlaylistResponse(p *domain.Playlist) *dto.PlaylistResponse {
	resp := &dto.PlaylistResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		VideoIDs:    p.VideoIDs,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if resp.VideoIDs == nil {
		resp.VideoIDs = []string{}
	}
	if p.Videos != nil {
		resp.Videos = toVideoResponses(p.Videos)
	}
	return resp
}

func toPlaylistResponses(in []*domain.Playlist) []*dto.PlaylistResponse {
	out := make([]*dto.PlaylistResponse, 0, len(in))
	for _, p := range in {
		out = append(out, toPlaylistResponse(p))
	}
	return out
}
