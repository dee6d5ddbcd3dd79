package models

type Emoji string

const (
	EmojiLike    Emoji = "like"
	EmojiDislike Emoji = "dislike"
)

func (e Emoji) Valid() bool {
	switch e {
	case EmojiLike, EmojiDislike:
		return true
	}
	return false
}

type TargetType string

const (
	TargetPost    TargetType = "Post"
	TargetComment TargetType = "Comment"
)

func (t TargetType) Valid() bool {
	switch t {
	case TargetPost, TargetComment:
		return true
	}
	return false
}

type Reactions struct {
	Like    int `json:"like"`
	Dislike int `json:"dislike"`
}

func (r Reactions) IsZero() bool {
	return r.Like == 0 && r.Dislike == 0
}

type ReactionRequest struct {
	TargetType TargetType `json:"targetType"`
	TargetID   string     `json:"targetId"`
	Emoji      Emoji      `json:"emoji"`
}
