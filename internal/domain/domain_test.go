package domain

import "testing"

func TestParseLikeKind(t *testing.T) {
	tests := []struct {
		in      string
		want    ToggleKind
		wantErr bool
	}{
		{"v", ToggleKindVideo, false},
		{"c", ToggleKindComment, false},
		{"t", ToggleKindTweet, false},
		{"video", ToggleKindVideo, false},
		{"x", "", true},
		{"channel", "", true},
	}

	for _, tt := range tests {
		got, err := ParseLikeKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLikeKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLikeKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToggleKind_Classification(t *testing.T) {
	if !ToggleKindTweet.IsLike() || ToggleKindChannel.IsLike() {
		t.Error("IsLike() misclassified")
	}
	if !ToggleKindChannel.Valid() || ToggleKind("playlist").Valid() {
		t.Error("Valid() misclassified")
	}
}

func TestUser_Sanitized(t *testing.T) {
	hash := "digest"
	u := &User{ID: "u1", Username: "alice", PasswordHash: "bcrypt", RefreshTokenHash: &hash}

	if !u.HasSession() {
		t.Fatal("expected active session")
	}

	clean := u.Sanitized()
	if clean.PasswordHash != "" || clean.RefreshTokenHash != nil {
		t.Error("Sanitized() leaked secrets")
	}
	if u.PasswordHash != "bcrypt" {
		t.Error("Sanitized() mutated the original")
	}
	if (*User)(nil).Sanitized() != nil {
		t.Error("Sanitized() on nil should return nil")
	}
}

func TestPlaylist_HasVideo(t *testing.T) {
	p := &Playlist{VideoIDs: []string{"a", "b"}}
	if !p.HasVideo("b") || p.HasVideo("c") {
		t.Error("HasVideo() wrong")
	}
}
