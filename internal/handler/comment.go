package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pulsepost-dev/pulsepost/internal/domain"
	"github.com/pulsepost-dev/pulsepost/internal/utils"
)

type createCommentRequest struct {
	Text string `validate:"required" json:"text"`
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	user := actor(w, r)
	if user == nil {
		return
	}

	postId, err := postIdParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body createCommentRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.post.AddComment(user.Id, postId, body.Text)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user := actor(w, r)
	if user == nil {
		return
	}

	postId, err := postIdParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	commentId := chi.URLParam(r, "comment")

	if err := h.post.DeleteComment(user, postId, commentId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": commentId, "message": "Comment deleted"})
}

func (h *Handler) LikeComment(w http.ResponseWriter, r *http.Request) {
	h.toggleCommentReaction(w, r, h.post.ToggleCommentLike)
}

func (h *Handler) DislikeComment(w http.ResponseWriter, r *http.Request) {
	h.toggleCommentReaction(w, r, h.post.ToggleCommentDislike)
}

func (h *Handler) toggleCommentReaction(w http.ResponseWriter, r *http.Request, toggle func(domain.UserId, domain.PostId, domain.CommentId) (*domain.Post, error)) {
	user := actor(w, r)
	if user == nil {
		return
	}

	postId, err := postIdParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	commentId := chi.URLParam(r, "comment")

	post, err := toggle(user.Id, postId, commentId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}
