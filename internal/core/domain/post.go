package domain

import (
	"errors"
	"time"
)

var ErrPostNotFound = errors.New("post not found")
var ErrForbidden = errors.New("not the owner")
var ErrNoImage = errors.New("no image provided")
var ErrUnsupportedImage = errors.New("unsupported image type")

// Post is a single feed entry. CreatorID records the author at creation time
// and is never mutated afterwards; ownership checks compare against it.
type Post struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	ImageURL  string    `json:"image_url" bson:"image_url"`
	CreatorID string    `json:"creator_id" bson:"creator_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// OwnedBy reports whether userID is the post's creator.
func (p *Post) OwnedBy(userID string) bool {
	return p.CreatorID == userID
}
