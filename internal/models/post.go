package models

import "time"

// Post is a short text post. Likes and comments are embedded in the row and
// written together with it; Version guards concurrent mutation.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Likes     []Like    `gorm:"serializer:json;type:text" json:"likes"`
	Comments  []Comment `gorm:"serializer:json;type:text" json:"comments"`
	Version   uint      `gorm:"not null;default:1" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"date"`
	UpdatedAt time.Time `json:"-"`
}

// Like marks that a user liked a post.
type Like struct {
	ID     string `json:"id"`
	UserID uint   `json:"user"`
}

// Comment is a reply on a post, with the author's name and avatar as of writing.
type Comment struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`
}

// HasLike reports whether userID already liked the post.
func (p *Post) HasLike(userID uint) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// AddLike prepends a like so the list stays newest first.
func (p *Post) AddLike(like Like) {
	p.Likes = append([]Like{like}, p.Likes...)
}

// RemoveLike drops the like owned by userID and reports whether one was found.
func (p *Post) RemoveLike(userID uint) bool {
	for i, l := range p.Likes {
		if l.UserID == userID {
			p.Likes = append(p.Likes[:i:i], p.Likes[i+1:]...)
			return true
		}
	}
	return false
}

// AddComment prepends a comment so the list stays newest first.
func (p *Post) AddComment(comment Comment) {
	p.Comments = append([]Comment{comment}, p.Comments...)
}

// FindComment returns the comment with the given id, or nil.
func (p *Post) FindComment(id string) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i]
		}
	}
	return nil
}

// RemoveComment drops the comment with the given id and reports whether one was found.
func (p *Post) RemoveComment(id string) bool {
	for i, c := range p.Comments {
		if c.ID == id {
			p.Comments = append(p.Comments[:i:i], p.Comments[i+1:]...)
			return true
		}
	}
	return false
}

// Normalize replaces nil collections with empty ones so they render as [].
func (p *Post) Normalize() {
	if p.Likes == nil {
		p.Likes = []Like{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}
