package handler

import (
	"net/http"
	"time"

	"github.com/pulsepost-dev/pulsepost/internal/domain"
	"github.com/pulsepost-dev/pulsepost/internal/utils"
)

type registerRequest struct {
	Username string `validate:"required" json:"username"`
	Email    string `validate:"required" json:"email"`
	Password string `validate:"required" json:"password"`
}

type loginRequest struct {
	Email    string `validate:"required" json:"email"`
	Password string `validate:"required" json:"password"`
}

type authResponse struct {
	Id        domain.UserId `json:"id"`
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	Role      domain.Role   `json:"role"`
	Token     string        `json:"token"`
	CreatedAt time.Time     `json:"created_at"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	result, err := h.auth.Register(body.Username, body.Email, body.Password)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Id:        result.User.Id,
		Username:  result.User.Username,
		Email:     result.User.Email,
		Role:      result.User.Role,
		Token:     result.Token,
		CreatedAt: result.User.CreatedAt,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	result, err := h.auth.Login(body.Email, body.Password)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Id:        result.User.Id,
		Username:  result.User.Username,
		Email:     result.User.Email,
		Role:      result.User.Role,
		Token:     result.Token,
		CreatedAt: result.User.CreatedAt,
	})
}

// Profile returns the public projection of the authenticated user.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user := actor(w, r)
	if user == nil {
		return
	}
	writeJSON(w, http.StatusOK, user.Public())
}
