package domain

import (
	"errors"
	"time"
)

var ErrPostNotFound = errors.New("post not found")

// Comment is embedded in its post; the author projection is denormalized at
// read time, only the id is stored.
type Comment struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Post is a wall publication. LikedBy holds each user id at most once;
// liking is a toggle.
type Post struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	AuthorID  string    `json:"author_id" bson:"author_id"`
	Content   string    `json:"content" bson:"content"`
	Image     string    `json:"image,omitempty" bson:"image,omitempty"`
	LikedBy   []string  `json:"liked_by" bson:"liked_by"`
	Comments  []Comment `json:"comments" bson:"comments"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Liked reports whether userID is in the like list.
func (p *Post) Liked(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}
