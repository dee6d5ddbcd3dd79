package models

import (
	"encoding/json"
	"time"
)

type Post struct {
	ID           string    `json:"_id"`
	Author       Ref       `json:"author"`
	Content      string    `json:"content"`
	Image        string    `json:"image,omitempty"`
	CommentCount int       `json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`
	Reactions    Reactions `json:"reactions"`
}

type Comment struct {
	ID        string    `json:"_id"`
	Author    Ref       `json:"author"`
	PostID    string    `json:"post"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Reactions Reactions `json:"reactions"`
}

// Ref points at the author of a record. The API sends either a bare id or
// a populated user object; both decode into Ref.
type Ref struct {
	ID        string `json:"_id"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*r = Ref{ID: id}
		return nil
	}
	type plain Ref
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Ref(p)
	return nil
}

type PostPage struct {
	Count int     `json:"count"`
	Posts []*Post `json:"posts"`
}

type CommentPage struct {
	Count    int        `json:"count"`
	Comments []*Comment `json:"comments"`
	Page     int        `json:"page"`
}

// Attachment is either an already stored URL or raw bytes that still need
// to be uploaded.
type Attachment struct {
	URL         string
	Data        []byte
	Filename    string
	ContentType string
}

// Stored reports whether the attachment already lives in external storage.
func (a *Attachment) Stored() bool {
	return a != nil && a.URL != "" && len(a.Data) == 0
}

type PostDraft struct {
	Content string
	Image   *Attachment
}

func (p *Post) EntityID() string { return p.ID }

func (p *Post) Clone() *Post {
	cp := *p
	return &cp
}

func (p *Post) WithReactions(r Reactions) *Post {
	cp := p.Clone()
	cp.Reactions = r
	return cp
}

// Replace returns a copy of update, the full record the API sent back
// after an edit. ID, Author and CreatedAt keep the values of p.
func (p *Post) Replace(update *Post) *Post {
	if update == nil {
		return p.Clone()
	}
	cp := update.Clone()
	cp.ID, cp.Author, cp.CreatedAt = p.ID, p.Author, p.CreatedAt
	return cp
}

func (c *Comment) EntityID() string { return c.ID }

func (c *Comment) Clone() *Comment {
	cp := *c
	return &cp
}

func (c *Comment) WithReactions(r Reactions) *Comment {
	cp := c.Clone()
	cp.Reactions = r
	return cp
}

func (c *Comment) Replace(update *Comment) *Comment {
	if update == nil {
		return c.Clone()
	}
	cp := update.Clone()
	cp.ID, cp.PostID, cp.Author, cp.CreatedAt = c.ID, c.PostID, c.Author, c.CreatedAt
	return cp
}
