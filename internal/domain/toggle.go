package domain

import "errors"

// ToggleKind names the target type of a toggle relation
type ToggleKind string

const (
	ToggleKindVideo   ToggleKind = "video"
	ToggleKindComment ToggleKind = "comment"
	ToggleKindTweet   ToggleKind = "tweet"
	ToggleKindChannel ToggleKind = "channel"
)

// ErrUnknownToggleKind is returned for a kind outside the known set
var ErrUnknownToggleKind = errors.New("unknown toggle kind")

// IsLike reports whether the kind is stored in the likes relation
func (k ToggleKind) IsLike() bool {
	switch k {
	case ToggleKindVideo, ToggleKindComment, ToggleKindTweet:
		return true
	}
	return false
}

// Valid reports whether k is one of the known kinds
func (k ToggleKind) Valid() bool {
	return k.IsLike() || k == ToggleKindChannel
}

// ParseLikeKind maps the short route segment (v, c, t) to a like kind
func ParseLikeKind(s string) (ToggleKind, error) {
	switch s {
	case "v", "video":
		return ToggleKindVideo, nil
	case "c", "comment":
		return ToggleKindComment, nil
	case "t", "tweet":
		return ToggleKindTweet, nil
	}
	return "", ErrUnknownToggleKind
}

// ToggleResult is the state after a toggle
type ToggleResult struct {
	Kind     ToggleKind
	TargetID string
	Active   bool
}
