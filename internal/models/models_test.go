package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefUnmarshal(t *testing.T) {
	var p Post
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"p1","author":"u1"}`), &p))
	assert.Equal(t, Ref{ID: "u1"}, p.Author)

	require.NoError(t, json.Unmarshal([]byte(`{"_id":"p1","author":{"_id":"u2","name":"Bob","avatarUrl":"a.png"}}`), &p))
	assert.Equal(t, Ref{ID: "u2", Name: "Bob", AvatarURL: "a.png"}, p.Author)

	assert.Error(t, json.Unmarshal([]byte(`{"author":42}`), &p))
}

func TestPostReplace(t *testing.T) {
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	orig := &Post{ID: "p1", Author: Ref{ID: "u1"}, CreatedAt: created, Content: "old", Image: "a.png", CommentCount: 2, Reactions: Reactions{Like: 3}}

	got := orig.Replace(&Post{ID: "other", Author: Ref{ID: "u9"}, Content: "new"})

	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, "u1", got.Author.ID)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, "new", got.Content)
	assert.Empty(t, got.Image, "cleared image is not kept")
	assert.Zero(t, got.CommentCount)
	assert.True(t, got.Reactions.IsZero())
	assert.Equal(t, "old", orig.Content, "receiver is not modified")

	assert.Equal(t, orig, orig.Replace(nil))
}

func TestCommentReplace(t *testing.T) {
	orig := &Comment{ID: "c1", PostID: "p1", Author: Ref{ID: "u1"}, Content: "old", Reactions: Reactions{Like: 1}}

	got := orig.Replace(&Comment{ID: "c1", PostID: "p9", Content: "new"})

	assert.Equal(t, "p1", got.PostID)
	assert.Equal(t, "u1", got.Author.ID)
	assert.Equal(t, "new", got.Content)
	assert.True(t, got.Reactions.IsZero())
}

func TestWithReactionsCopies(t *testing.T) {
	c := &Comment{ID: "c1", Reactions: Reactions{Like: 100, Dislike: 50}}
	got := c.WithReactions(Reactions{Like: 7, Dislike: 1})

	assert.Equal(t, Reactions{Like: 7, Dislike: 1}, got.Reactions)
	assert.Equal(t, Reactions{Like: 100, Dislike: 50}, c.Reactions)
}

func TestAttachmentStored(t *testing.T) {
	var nilAtt *Attachment
	assert.False(t, nilAtt.Stored())
	assert.True(t, (&Attachment{URL: "https://x/a.png"}).Stored())
	assert.False(t, (&Attachment{URL: "https://x/a.png", Data: []byte{1}}).Stored())
	assert.False(t, (&Attachment{Data: []byte{1}}).Stored())
}

func TestEnums(t *testing.T) {
	assert.True(t, EmojiLike.Valid())
	assert.True(t, EmojiDislike.Valid())
	assert.False(t, Emoji("heart").Valid())
	assert.True(t, TargetComment.Valid())
	assert.False(t, TargetType("post").Valid())
}

func TestProfileUpdateApply(t *testing.T) {
	name := "Ann B."
	friends := 0
	u := User{ID: "u1", Name: "Ann", City: "Hanoi", FriendCount: 4}

	got := ProfileUpdate{Name: &name, FriendCount: &friends}.Apply(u)

	assert.Equal(t, "Ann B.", got.Name)
	assert.Equal(t, "Hanoi", got.City)
	assert.Equal(t, 0, got.FriendCount)
	assert.Equal(t, "Ann", u.Name)
}

func TestFriendshipStateFor(t *testing.T) {
	tests := []struct {
		name string
		f    *Friendship
		want FriendState
	}{
		{"no relation", nil, FriendStateNone},
		{"accepted", &Friendship{From: "b", To: "a", Status: FriendshipAccepted}, FriendStateFriend},
		{"declined", &Friendship{From: "a", To: "b", Status: FriendshipDeclined}, FriendStateDeclined},
		{"sent by me", &Friendship{From: "a", To: "b", Status: FriendshipPending}, FriendStateRequestSent},
		{"sent to me", &Friendship{From: "b", To: "a", Status: FriendshipPending}, FriendStateWaiting},
		{"unrelated pair", &Friendship{From: "c", To: "d", Status: FriendshipPending}, FriendStateNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.StateFor("a", "b"))
		})
	}

	self := &Friendship{From: "a", To: "a", Status: FriendshipAccepted}
	assert.Equal(t, FriendStateNone, self.StateFor("a", "a"))
}
