package domain

import (
	"time"

	"github.com/lib/pq"
)

type (
	PostId    = int64
	CommentId = string // uuid, unique within the owning post
)

// UserIdSet is a reaction set persisted as a postgres bigint array.
// Membership is checked linearly: sets stay small enough that a map
// is not worth the round trip through pq.
type UserIdSet = pq.Int64Array

// Comment is owned by its Post and only ever mutated through the
// post aggregate.
type Comment struct {
	Id         CommentId `json:"id"`
	Author     UserId    `json:"author"`
	Text       string    `json:"text"`
	Likes      int       `json:"likes"`
	Dislikes   int       `json:"dislikes"`
	LikedBy    UserIdSet `json:"liked_by"`
	DislikedBy UserIdSet `json:"disliked_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Post struct {
	Id           PostId     `json:"id"`
	Author       UserId     `json:"author"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Likes        int        `json:"likes"`
	Dislikes     int        `json:"dislikes"`
	LikedBy      UserIdSet  `json:"liked_by"`
	DislikedBy   UserIdSet  `json:"disliked_by"`
	Comments     []*Comment `json:"comments"`
	CommentCount int        `json:"comment_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FindComment returns the comment with the given id, or nil.
func (p *Post) FindComment(id CommentId) *Comment {
	for _, c := range p.Comments {
		if c.Id == id {
			return c
		}
	}
	return nil
}
