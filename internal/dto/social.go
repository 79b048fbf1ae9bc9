package dto

// LikeToggleResponse is returned by POST /likes/toggle/*
type LikeToggleResponse struct {
	TargetID string `json:"targetId"`
	Kind     string `json:"kind"`
	Liked    bool   `json:"liked"`
}

// IsLikedResponse is returned by GET /likes/isLiked/*
type IsLikedResponse struct {
	IsLiked bool `json:"isLiked"`
}

// SubscriptionToggleResponse is returned by POST /subscriptions/c/:channelId
type SubscriptionToggleResponse struct {
	ChannelID        string `json:"channelId"`
	Subscribed       bool   `json:"subscribed"`
	SubscribersCount int64  `json:"subscribersCount"`
}

// IsSubscribedResponse is returned by GET /subscriptions/isSubscribed/:channelId
type IsSubscribedResponse struct {
	IsSubscribed bool `json:"isSubscribed"`
}

// SubscribersResponse lists a channel's subscribers
type SubscribersResponse struct {
	Subscribers      []*OwnerResponse `json:"subscribers"`
	SubscribersCount int64            `json:"subscribersCount"`
}

// SubscribedChannelsResponse lists the channels a user follows
type SubscribedChannelsResponse struct {
	Channels      []*OwnerResponse `json:"channels"`
	ChannelsCount int64            `json:"channelsCount"`
}

// ChannelStatsResponse is the dashboard summary for a channel
type ChannelStatsResponse struct {
	TotalVideos      int64 `json:"totalVideos"`
	TotalViews       int64 `json:"totalViews"`
	TotalLikes       int64 `json:"totalLikes"`
	TotalSubscribers int64 `json:"totalSubscribers"`
}
