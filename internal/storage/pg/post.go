package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"

	"github.com/pulsepost-dev/pulsepost/internal/domain"
	internal_errors "github.com/pulsepost-dev/pulsepost/internal/errors"
)

var errPostNotFound = &internal_errors.ErrorWithStatusCode{Message: "Post not found", StatusCode: http.StatusNotFound}
var errCommentNotFound = &internal_errors.ErrorWithStatusCode{Message: "Comment not found", StatusCode: http.StatusNotFound}

const postColumns = "id, author_id, title, content, likes, dislikes, liked_by, disliked_by, comment_count, created_at, updated_at"
const commentColumns = "id, author_id, body, liked_by, disliked_by, created_at, updated_at"

// =========================================================================
// Public Methods (satisfy the service.PostStorage interface)
// =========================================================================

func (s *Storage) CreatePost(authorId domain.UserId, title, content string) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var post *domain.Post
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		post, err = s.createPost(tx, authorId, title, content)
		return err
	})
	return post, err
}

func (s *Storage) GetPost(id domain.PostId) (*domain.Post, error) {
	return s.getPost(s.db, id)
}

// ListPosts returns every post with embedded comments, newest post first.
func (s *Storage) ListPosts() ([]*domain.Post, error) {
	posts, err := s.listPosts(s.db)
	if err != nil {
		return nil, err
	}
	if err := s.attachComments(s.db, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// DeletePost removes the post; comments go with it via ON DELETE CASCADE,
// so the whole aggregate disappears in one statement.
func (s *Storage) DeletePost(id domain.PostId) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec("DELETE FROM posts WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}
		rowsDeleted, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows for post deletion: %w", err)
		}
		if rowsDeleted == 0 {
			return errPostNotFound
		}
		return nil
	})
}

// TogglePostReaction applies the like/dislike toggle under the post row
// lock, then recomputes the denormalized counters from the set sizes in
// the same transaction.
func (s *Storage) TogglePostReaction(userId domain.UserId, postId domain.PostId, kind domain.ReactionKind) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var post *domain.Post
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		sets, err := s.lockPostReactions(tx, postId)
		if err != nil {
			return err
		}

		next := sets.Toggle(userId, kind)
		_, err = tx.Exec(
			"UPDATE posts SET liked_by = $1, disliked_by = $2, likes = $3, dislikes = $4, updated_at = now() WHERE id = $5",
			next.LikedBy, next.DislikedBy, len(next.LikedBy), len(next.DislikedBy), postId,
		)
		if err != nil {
			return fmt.Errorf("failed to update post reactions: %w", err)
		}

		post, err = s.getPost(tx, postId)
		return err
	})
	return post, err
}

// AddComment appends a comment to the post and returns the updated
// aggregate. The post row lock keeps the comment count consistent with
// concurrent writers.
func (s *Storage) AddComment(postId domain.PostId, comment domain.Comment) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var post *domain.Post
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.lockPost(tx, postId); err != nil {
			return err
		}

		_, err := tx.Exec(
			"INSERT INTO comments(id, post_id, author_id, body) VALUES($1, $2, $3, $4)",
			comment.Id, postId, comment.Author, comment.Text,
		)
		if err != nil {
			return fmt.Errorf("failed to insert comment: %w", err)
		}
		_, err = tx.Exec(
			"UPDATE posts SET comment_count = comment_count + 1, updated_at = now() WHERE id = $1",
			postId,
		)
		if err != nil {
			return fmt.Errorf("failed to bump comment count: %w", err)
		}

		post, err = s.getPost(tx, postId)
		return err
	})
	return post, err
}

func (s *Storage) DeleteComment(postId domain.PostId, commentId domain.CommentId) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.lockPost(tx, postId); err != nil {
			return err
		}

		result, err := tx.Exec("DELETE FROM comments WHERE id = $1 AND post_id = $2", commentId, postId)
		if err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		rowsDeleted, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows for comment deletion: %w", err)
		}
		if rowsDeleted == 0 {
			return errCommentNotFound
		}

		_, err = tx.Exec(
			"UPDATE posts SET comment_count = comment_count - 1, updated_at = now() WHERE id = $1",
			postId,
		)
		if err != nil {
			return fmt.Errorf("failed to decrement comment count: %w", err)
		}
		return nil
	})
}

// ToggleCommentReaction is the comment-scoped reaction toggle. The post
// row lock serializes all mutations of the aggregate, comments included.
func (s *Storage) ToggleCommentReaction(userId domain.UserId, postId domain.PostId, commentId domain.CommentId, kind domain.ReactionKind) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var post *domain.Post
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.lockPost(tx, postId); err != nil {
			return err
		}

		var sets domain.ReactionSets
		err := tx.QueryRow(
			"SELECT liked_by, disliked_by FROM comments WHERE id = $1 AND post_id = $2",
			commentId, postId,
		).Scan(&sets.LikedBy, &sets.DislikedBy)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errCommentNotFound
			}
			return fmt.Errorf("failed to query comment reactions: %w", err)
		}

		next := sets.Toggle(userId, kind)
		_, err = tx.Exec(
			"UPDATE comments SET liked_by = $1, disliked_by = $2, updated_at = now() WHERE id = $3",
			next.LikedBy, next.DislikedBy, commentId,
		)
		if err != nil {
			return fmt.Errorf("failed to update comment reactions: %w", err)
		}

		post, err = s.getPost(tx, postId)
		return err
	})
	return post, err
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) createPost(q Querier, authorId domain.UserId, title, content string) (*domain.Post, error) {
	post := &domain.Post{Comments: []*domain.Comment{}}
	err := q.QueryRow(
		"INSERT INTO posts(author_id, title, content) VALUES($1, $2, $3) RETURNING "+postColumns,
		authorId, title, content,
	).Scan(&post.Id, &post.Author, &post.Title, &post.Content,
		&post.Likes, &post.Dislikes, &post.LikedBy, &post.DislikedBy,
		&post.CommentCount, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}
	return post, nil
}

func (s *Storage) getPost(q Querier, id domain.PostId) (*domain.Post, error) {
	post := &domain.Post{}
	err := q.QueryRow(
		"SELECT "+postColumns+" FROM posts WHERE id = $1", id,
	).Scan(&post.Id, &post.Author, &post.Title, &post.Content,
		&post.Likes, &post.Dislikes, &post.LikedBy, &post.DislikedBy,
		&post.CommentCount, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errPostNotFound
		}
		return nil, fmt.Errorf("failed to query post: %w", err)
	}
	if err := s.attachComments(q, []*domain.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Storage) listPosts(q Querier) ([]*domain.Post, error) {
	rows, err := q.Query("SELECT " + postColumns + " FROM posts ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []*domain.Post{}
	for rows.Next() {
		post := &domain.Post{}
		err := rows.Scan(&post.Id, &post.Author, &post.Title, &post.Content,
			&post.Likes, &post.Dislikes, &post.LikedBy, &post.DislikedBy,
			&post.CommentCount, &post.CreatedAt, &post.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

// attachComments loads comments for the given posts in insertion order.
func (s *Storage) attachComments(q Querier, posts []*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make(pq.Int64Array, 0, len(posts))
	byId := make(map[domain.PostId]*domain.Post, len(posts))
	for _, p := range posts {
		p.Comments = []*domain.Comment{}
		ids = append(ids, p.Id)
		byId[p.Id] = p
	}

	rows, err := q.Query(
		"SELECT post_id, "+commentColumns+" FROM comments WHERE post_id = ANY($1) ORDER BY created_at, id",
		ids,
	)
	if err != nil {
		return fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postId domain.PostId
		c := &domain.Comment{}
		err := rows.Scan(&postId, &c.Id, &c.Author, &c.Text,
			&c.LikedBy, &c.DislikedBy, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to scan comment: %w", err)
		}
		c.Likes = len(c.LikedBy)
		c.Dislikes = len(c.DislikedBy)
		byId[postId].Comments = append(byId[postId].Comments, c)
	}
	return rows.Err()
}

// lockPost takes the aggregate lock on the post row.
func (s *Storage) lockPost(tx *sql.Tx, id domain.PostId) error {
	var found domain.PostId
	err := tx.QueryRow("SELECT id FROM posts WHERE id = $1 FOR UPDATE", id).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errPostNotFound
		}
		return fmt.Errorf("failed to lock post: %w", err)
	}
	return nil
}

// lockPostReactions takes the aggregate lock and returns the current
// reaction sets in one round trip.
func (s *Storage) lockPostReactions(tx *sql.Tx, id domain.PostId) (domain.ReactionSets, error) {
	var sets domain.ReactionSets
	err := tx.QueryRow(
		"SELECT liked_by, disliked_by FROM posts WHERE id = $1 FOR UPDATE", id,
	).Scan(&sets.LikedBy, &sets.DislikedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ReactionSets{}, errPostNotFound
		}
		return domain.ReactionSets{}, fmt.Errorf("failed to lock post reactions: %w", err)
	}
	return sets, nil
}
