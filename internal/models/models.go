package models

import (
	"slices"
	"time"
)

// DefaultAuthor is used when a post carries no author.
const DefaultAuthor = "Admin"

type User struct {
	UserID       string    `json:"id" db:"user_id" bson:"_id"`
	Username     string    `json:"username" db:"username" bson:"username"`
	PasswordHash string    `json:"-" db:"password_hash" bson:"password_hash"`
	IsAdmin      bool      `json:"isAdmin" db:"is_admin" bson:"is_admin"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at" bson:"created_at"`
}

type Post struct {
	PostID        string    `json:"id" bson:"_id"`
	Title         string    `json:"title" bson:"title"`
	Content       string    `json:"content" bson:"content"`
	Excerpt       string    `json:"excerpt" bson:"excerpt"`
	Author        string    `json:"author" bson:"author"`
	Tags          []string  `json:"tags" bson:"tags"`
	FeaturedImage string    `json:"featuredImage,omitempty" bson:"featured_image,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updated_at"`
}

// PostFields is a partial post. A nil field was not supplied by the caller.
type PostFields struct {
	Title         *string   `json:"title,omitempty"`
	Content       *string   `json:"content,omitempty"`
	Excerpt       *string   `json:"excerpt,omitempty"`
	Author        *string   `json:"author,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
	FeaturedImage *string   `json:"featuredImage,omitempty"`
}

// Apply merges the supplied fields over p. ID and CreatedAt are never touched.
func (f PostFields) Apply(p *Post) {
	if f.Title != nil {
		p.Title = *f.Title
	}
	if f.Content != nil {
		p.Content = *f.Content
	}
	if f.Excerpt != nil {
		p.Excerpt = *f.Excerpt
	}
	if f.Author != nil {
		p.Author = *f.Author
	}
	if f.Tags != nil {
		p.Tags = append([]string{}, (*f.Tags)...)
	}
	if f.FeaturedImage != nil {
		p.FeaturedImage = *f.FeaturedImage
	}
}

// HasTag reports whether the post is labelled with tag.
func (p *Post) HasTag(tag string) bool {
	return slices.Contains(p.Tags, tag)
}

// Normalize fills the defaults a stored post must carry.
func (p *Post) Normalize() {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Author == "" {
		p.Author = DefaultAuthor
	}
}

// Clone returns a copy that shares no slices with p.
func (p Post) Clone() Post {
	p.Tags = append([]string{}, p.Tags...)
	return p
}
