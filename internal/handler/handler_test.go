package handler

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"

	"github.com/pulsepost-dev/pulsepost/internal/domain"
	mw "github.com/pulsepost-dev/pulsepost/internal/middleware"
	"github.com/pulsepost-dev/pulsepost/internal/service"
)

type MockAuthService struct {
	MockRegister     func(username, email, password string) (*service.AuthResult, error)
	MockLogin        func(email, password string) (*service.AuthResult, error)
	MockResolveActor func(token string) (*domain.User, error)
}

func (m *MockAuthService) Register(username, email, password string) (*service.AuthResult, error) {
	if m.MockRegister != nil {
		return m.MockRegister(username, email, password)
	}
	return &service.AuthResult{}, nil
}

func (m *MockAuthService) Login(email, password string) (*service.AuthResult, error) {
	if m.MockLogin != nil {
		return m.MockLogin(email, password)
	}
	return &service.AuthResult{}, nil
}

func (m *MockAuthService) ResolveActor(token string) (*domain.User, error) {
	if m.MockResolveActor != nil {
		return m.MockResolveActor(token)
	}
	return &domain.User{}, nil
}

type MockPostService struct {
	MockCreate               func(authorId domain.UserId, title, content string) (*domain.Post, error)
	MockGet                  func(id domain.PostId) (*domain.Post, error)
	MockList                 func() ([]*domain.Post, error)
	MockDelete               func(actor *domain.User, id domain.PostId) error
	MockToggleLike           func(userId domain.UserId, postId domain.PostId) (*domain.Post, error)
	MockToggleDislike        func(userId domain.UserId, postId domain.PostId) (*domain.Post, error)
	MockAddComment           func(authorId domain.UserId, postId domain.PostId, text string) (*domain.Post, error)
	MockDeleteComment        func(actor *domain.User, postId domain.PostId, commentId domain.CommentId) error
	MockToggleCommentLike    func(userId domain.UserId, postId domain.PostId, commentId domain.CommentId) (*domain.Post, error)
	MockToggleCommentDislike func(userId domain.UserId, postId domain.PostId, commentId domain.CommentId) (*domain.Post, error)
}

func (m *MockPostService) Create(authorId domain.UserId, title, content string) (*domain.Post, error) {
	if m.MockCreate != nil {
		return m.MockCreate(authorId, title, content)
	}
	return &domain.Post{}, nil
}

func (m *MockPostService) Get(id domain.PostId) (*domain.Post, error) {
	if m.MockGet != nil {
		return m.MockGet(id)
	}
	return &domain.Post{}, nil
}

func (m *MockPostService) List() ([]*domain.Post, error) {
	if m.MockList != nil {
		return m.MockList()
	}
	return nil, nil
}

func (m *MockPostService) Delete(actor *domain.User, id domain.PostId) error {
	if m.MockDelete != nil {
		return m.MockDelete(actor, id)
	}
	return nil
}

func (m *MockPostService) ToggleLike(userId domain.UserId, postId domain.PostId) (*domain.Post, error) {
	if m.MockToggleLike != nil {
		return m.MockToggleLike(userId, postId)
	}
	return &domain.Post{}, nil
}

func (m *MockPostService) ToggleDislike(userId domain.UserId, postId domain.PostId) (*domain.Post, error) {
	if m.MockToggleDislike != nil {
		return m.MockToggleDislike(userId, postId)
	}
	return &domain.Post{}, nil
}

func (m *MockPostService) AddComment(authorId domain.UserId, postId domain.PostId, text string) (*domain.Post, error) {
	if m.MockAddComment != nil {
		return m.MockAddComment(authorId, postId, text)
	}
	return &domain.Post{}, nil
}

func (m *MockPostService) DeleteComment(actor *domain.User, postId domain.PostId, commentId domain.CommentId) error {
	if m.MockDeleteComment != nil {
		return m.MockDeleteComment(actor, postId, commentId)
	}
	return nil
}

func (m *MockPostService) ToggleCommentLike(userId domain.UserId, postId domain.PostId, commentId domain.CommentId) (*domain.Post, error) {
	if m.MockToggleCommentLike != nil {
		return m.MockToggleCommentLike(userId, postId, commentId)
	}
	return &domain.Post{}, nil
}

func (m *MockPostService) ToggleCommentDislike(userId domain.UserId, postId domain.PostId, commentId domain.CommentId) (*domain.Post, error) {
	if m.MockToggleCommentDislike != nil {
		return m.MockToggleCommentDislike(userId, postId, commentId)
	}
	return &domain.Post{}, nil
}

// newTestRouter mirrors the production route layout without middleware so
// chi URL params resolve the same way they do in the real server.
func newTestRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/api/users/register", h.Register)
	r.Post("/api/users/login", h.Login)
	r.Get("/api/users/profile", h.Profile)
	r.Get("/api/posts", h.ListPosts)
	r.Post("/api/posts", h.CreatePost)
	r.Get("/api/posts/{post}", h.GetPost)
	r.Delete("/api/posts/{post}", h.DeletePost)
	r.Patch("/api/posts/{post}/like", h.LikePost)
	r.Patch("/api/posts/{post}/dislike", h.DislikePost)
	r.Post("/api/posts/{post}/comments", h.CreateComment)
	r.Delete("/api/posts/{post}/comments/{comment}", h.DeleteComment)
	r.Patch("/api/posts/{post}/comments/{comment}/like", h.LikeComment)
	r.Patch("/api/posts/{post}/comments/{comment}/dislike", h.DislikeComment)
	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	return r
}

func withActor(req *http.Request, user *domain.User) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), mw.ActorKey, user))
}

func doRequest(router *chi.Mux, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
