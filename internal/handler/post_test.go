package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsepost-dev/pulsepost/internal/domain"
	"github.com/pulsepost-dev/pulsepost/internal/errors"
)

func TestListPostsHandler(t *testing.T) {
	post := &MockPostService{
		MockList: func() ([]*domain.Post, error) {
			return []*domain.Post{{Id: 1, Title: "First"}, {Id: 2, Title: "Second"}}, nil
		},
	}
	router := newTestRouter(New(&MockAuthService{}, post, nil))

	w := doRequest(router, httptest.NewRequest("GET", "/api/posts", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var posts []*domain.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 2)
	assert.Equal(t, "First", posts[0].Title)
}

func TestGetPostHandler(t *testing.T) {
	post := &MockPostService{
		MockGet: func(id domain.PostId) (*domain.Post, error) {
			if id != 7 {
				return nil, &errors.ErrorWithStatusCode{Message: "Post not found", StatusCode: http.StatusNotFound}
			}
			return &domain.Post{Id: 7, Title: "Hello"}, nil
		},
	}
	router := newTestRouter(New(&MockAuthService{}, post, nil))

	t.Run("found", func(t *testing.T) {
		w := doRequest(router, httptest.NewRequest("GET", "/api/posts/7", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var p domain.Post
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
		assert.Equal(t, domain.PostId(7), p.Id)
	})

	t.Run("not found", func(t *testing.T) {
		w := doRequest(router, httptest.NewRequest("GET", "/api/posts/8", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		w := doRequest(router, httptest.NewRequest("GET", "/api/posts/abc", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreatePostHandler(t *testing.T) {
	user := &domain.User{Id: 1, Username: "alice", Role: domain.RoleUser}

	t.Run("success", func(t *testing.T) {
		post := &MockPostService{
			MockCreate: func(authorId domain.UserId, title, content string) (*domain.Post, error) {
				assert.Equal(t, user.Id, authorId)
				return &domain.Post{Id: 10, Author: authorId, Title: title, Content: content}, nil
			},
		}
		router := newTestRouter(New(&MockAuthService{}, post, nil))

		body := []byte(`{"title": "Hello", "content": "World"}`)
		req := withActor(httptest.NewRequest("POST", "/api/posts", bytes.NewBuffer(body)), user)
		w := doRequest(router, req)

		require.Equal(t, http.StatusCreated, w.Code)
		var p domain.Post
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
		assert.Equal(t, domain.PostId(10), p.Id)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		router := newTestRouter(New(&MockAuthService{}, &MockPostService{}, nil))
		body := []byte(`{"title": "Hello", "content": "World"}`)
		w := doRequest(router, httptest.NewRequest("POST", "/api/posts", bytes.NewBuffer(body)))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing title", func(t *testing.T) {
		router := newTestRouter(New(&MockAuthService{}, &MockPostService{}, nil))
		req := withActor(httptest.NewRequest("POST", "/api/posts", bytes.NewBufferString(`{"content": "x"}`)), user)
		w := doRequest(router, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeletePostHandler(t *testing.T) {
	user := &domain.User{Id: 1, Role: domain.RoleUser}

	t.Run("success", func(t *testing.T) {
		post := &MockPostService{
			MockDelete: func(actor *domain.User, id domain.PostId) error {
				assert.Equal(t, user.Id, actor.Id)
				assert.Equal(t, domain.PostId(5), id)
				return nil
			},
		}
		router := newTestRouter(New(&MockAuthService{}, post, nil))

		req := withActor(httptest.NewRequest("DELETE", "/api/posts/5", nil), user)
		w := doRequest(router, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Post deleted")
	})

	t.Run("forbidden", func(t *testing.T) {
		post := &MockPostService{
			MockDelete: func(actor *domain.User, id domain.PostId) error {
				return &errors.ErrorWithStatusCode{Message: "Forbidden", StatusCode: http.StatusForbidden}
			},
		}
		router := newTestRouter(New(&MockAuthService{}, post, nil))

		req := withActor(httptest.NewRequest("DELETE", "/api/posts/5", nil), user)
		w := doRequest(router, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		router := newTestRouter(New(&MockAuthService{}, &MockPostService{}, nil))
		w := doRequest(router, httptest.NewRequest("DELETE", "/api/posts/5", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestTogglePostReactionHandlers(t *testing.T) {
	user := &domain.User{Id: 9, Role: domain.RoleUser}

	t.Run("like routes to ToggleLike", func(t *testing.T) {
		var likeCalls, dislikeCalls int
		post := &MockPostService{
			MockToggleLike: func(userId domain.UserId, postId domain.PostId) (*domain.Post, error) {
				likeCalls++
				assert.Equal(t, user.Id, userId)
				return &domain.Post{Id: postId, Likes: 1, LikedBy: domain.UserIdSet{userId}}, nil
			},
			MockToggleDislike: func(userId domain.UserId, postId domain.PostId) (*domain.Post, error) {
				dislikeCalls++
				return &domain.Post{Id: postId}, nil
			},
		}
		router := newTestRouter(New(&MockAuthService{}, post, nil))

		req := withActor(httptest.NewRequest("PATCH", "/api/posts/3/like", nil), user)
		w := doRequest(router, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, likeCalls)
		assert.Equal(t, 0, dislikeCalls)
		var p domain.Post
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
		assert.Equal(t, 1, p.Likes)
	})

	t.Run("dislike routes to ToggleDislike", func(t *testing.T) {
		called := false
		post := &MockPostService{
			MockToggleDislike: func(userId domain.UserId, postId domain.PostId) (*domain.Post, error) {
				called = true
				return &domain.Post{Id: postId, Dislikes: 1}, nil
			},
		}
		router := newTestRouter(New(&MockAuthService{}, post, nil))

		req := withActor(httptest.NewRequest("PATCH", "/api/posts/3/dislike", nil), user)
		w := doRequest(router, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
	})

	t.Run("missing post", func(t *testing.T) {
		post := &MockPostService{
			MockToggleLike: func(userId domain.UserId, postId domain.PostId) (*domain.Post, error) {
				return nil, &errors.ErrorWithStatusCode{Message: "Post not found", StatusCode: http.StatusNotFound}
			},
		}
		router := newTestRouter(New(&MockAuthService{}, post, nil))

		req := withActor(httptest.NewRequest("PATCH", "/api/posts/999/like", nil), user)
		w := doRequest(router, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		router := newTestRouter(New(&MockAuthService{}, &MockPostService{}, nil))
		w := doRequest(router, httptest.NewRequest("PATCH", "/api/posts/3/like", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
