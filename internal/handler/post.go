package handler

import (
	"net/http"

	"github.com/pulsepost-dev/pulsepost/internal/domain"
	"github.com/pulsepost-dev/pulsepost/internal/utils"
)

type createPostRequest struct {
	Title   string `validate:"required" json:"title"`
	Content string `validate:"required" json:"content"`
}

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.post.List()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	postId, err := postIdParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.post.Get(postId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user := actor(w, r)
	if user == nil {
		return
	}

	var body createPostRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.post.Create(user.Id, body.Title, body.Content)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	user := actor(w, r)
	if user == nil {
		return
	}

	postId, err := postIdParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.post.Delete(user, postId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": postId, "message": "Post deleted"})
}

func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	h.togglePostReaction(w, r, h.post.ToggleLike)
}

func (h *Handler) DislikePost(w http.ResponseWriter, r *http.Request) {
	h.togglePostReaction(w, r, h.post.ToggleDislike)
}

func (h *Handler) togglePostReaction(w http.ResponseWriter, r *http.Request, toggle func(domain.UserId, domain.PostId) (*domain.Post, error)) {
	user := actor(w, r)
	if user == nil {
		return
	}

	postId, err := postIdParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := toggle(user.Id, postId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}
