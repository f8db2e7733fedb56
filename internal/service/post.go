package service

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/pulsepost-dev/pulsepost/internal/domain"
	"github.com/pulsepost-dev/pulsepost/internal/errors"
	"github.com/pulsepost-dev/pulsepost/internal/logger"
)

type PostService interface {
	Create(authorId domain.UserId, title, content string) (*domain.Post, error)
	Get(id domain.PostId) (*domain.Post, error)
	List() ([]*domain.Post, error)
	Delete(actor *domain.User, id domain.PostId) error

	ToggleLike(userId domain.UserId, postId domain.PostId) (*domain.Post, error)
	ToggleDislike(userId domain.UserId, postId domain.PostId) (*domain.Post, error)

	AddComment(authorId domain.UserId, postId domain.PostId, text string) (*domain.Post, error)
	DeleteComment(actor *domain.User, postId domain.PostId, commentId domain.CommentId) error
	ToggleCommentLike(userId domain.UserId, postId domain.PostId, commentId domain.CommentId) (*domain.Post, error)
	ToggleCommentDislike(userId domain.UserId, postId domain.PostId, commentId domain.CommentId) (*domain.Post, error)
}

type Post struct {
	storage   PostStorage
	validator PostValidator
	sanitizer *bluemonday.Policy
}

type PostStorage interface {
	CreatePost(authorId domain.UserId, title, content string) (*domain.Post, error)
	GetPost(id domain.PostId) (*domain.Post, error)
	ListPosts() ([]*domain.Post, error)
	DeletePost(id domain.PostId) error
	TogglePostReaction(userId domain.UserId, postId domain.PostId, kind domain.ReactionKind) (*domain.Post, error)
	AddComment(postId domain.PostId, comment domain.Comment) (*domain.Post, error)
	DeleteComment(postId domain.PostId, commentId domain.CommentId) error
	ToggleCommentReaction(userId domain.UserId, postId domain.PostId, commentId domain.CommentId, kind domain.ReactionKind) (*domain.Post, error)
}

type PostValidator interface {
	Title(title string) error
	Content(content string) error
	CommentText(text string) error
}

var errForbidden = &errors.ErrorWithStatusCode{Message: "Forbidden", StatusCode: http.StatusForbidden}

func NewPost(storage PostStorage, validator PostValidator) *Post {
	return &Post{
		storage:   storage,
		validator: validator,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (p *Post) Create(authorId domain.UserId, title, content string) (*domain.Post, error) {
	title = p.sanitizer.Sanitize(title)
	content = p.sanitizer.Sanitize(content)
	if err := p.validator.Title(title); err != nil {
		return nil, err
	}
	if err := p.validator.Content(content); err != nil {
		return nil, err
	}

	return p.storage.CreatePost(authorId, title, content)
}

func (p *Post) Get(id domain.PostId) (*domain.Post, error) {
	return p.storage.GetPost(id)
}

func (p *Post) List() ([]*domain.Post, error) {
	return p.storage.ListPosts()
}

// Delete removes the post and its comments. Missing post reports 404
// before the policy check; a denied actor on an existing post gets 403.
func (p *Post) Delete(actor *domain.User, id domain.PostId) error {
	post, err := p.storage.GetPost(id)
	if err != nil {
		return err
	}
	if !domain.CanDelete(actor, post.Author) {
		return errForbidden
	}

	logger.Log.Info("deleting post", "post_id", id, "actor_id", actor.Id)
	return p.storage.DeletePost(id)
}

func (p *Post) ToggleLike(userId domain.UserId, postId domain.PostId) (*domain.Post, error) {
	return p.storage.TogglePostReaction(userId, postId, domain.ReactionLike)
}

func (p *Post) ToggleDislike(userId domain.UserId, postId domain.PostId) (*domain.Post, error) {
	return p.storage.TogglePostReaction(userId, postId, domain.ReactionDislike)
}

func (p *Post) AddComment(authorId domain.UserId, postId domain.PostId, text string) (*domain.Post, error) {
	text = p.sanitizer.Sanitize(text)
	if err := p.validator.CommentText(text); err != nil {
		return nil, err
	}

	comment := domain.Comment{
		Id:     uuid.NewString(),
		Author: authorId,
		Text:   text,
	}
	return p.storage.AddComment(postId, comment)
}

func (p *Post) DeleteComment(actor *domain.User, postId domain.PostId, commentId domain.CommentId) error {
	if err := validateCommentId(commentId); err != nil {
		return err
	}

	post, err := p.storage.GetPost(postId)
	if err != nil {
		return err
	}
	comment := post.FindComment(commentId)
	if comment == nil {
		return &errors.ErrorWithStatusCode{Message: "Comment not found", StatusCode: http.StatusNotFound}
	}
	if !domain.CanDelete(actor, comment.Author) {
		return errForbidden
	}

	return p.storage.DeleteComment(postId, commentId)
}

func (p *Post) ToggleCommentLike(userId domain.UserId, postId domain.PostId, commentId domain.CommentId) (*domain.Post, error) {
	if err := validateCommentId(commentId); err != nil {
		return nil, err
	}
	return p.storage.ToggleCommentReaction(userId, postId, commentId, domain.ReactionLike)
}

func (p *Post) ToggleCommentDislike(userId domain.UserId, postId domain.PostId, commentId domain.CommentId) (*domain.Post, error) {
	if err := validateCommentId(commentId); err != nil {
		return nil, err
	}
	return p.storage.ToggleCommentReaction(userId, postId, commentId, domain.ReactionDislike)
}

// validateCommentId rejects ids that can't possibly resolve. Reported as
// 404 rather than 400: a malformed id and an unknown id look the same to
// the caller.
func validateCommentId(id domain.CommentId) error {
	if _, err := uuid.Parse(id); err != nil {
		return &errors.ErrorWithStatusCode{Message: "Comment not found", StatusCode: http.StatusNotFound}
	}
	return nil
}
