package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vibeshare/vibeshare/internal/core/domain"
	"github.com/vibeshare/vibeshare/internal/core/ports"
)

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) ports.PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (id, user_id, user_name, user_avatar, type, media, caption, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.UserID, post.UserName, post.UserAvatar, post.Type, post.Media,
		post.Caption, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	query := `
		SELECT id, user_id, user_name, user_avatar, type, media, caption, created_at, updated_at
		FROM posts
		WHERE id = $1
	`
	post := &domain.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.UserID, &post.UserName, &post.UserAvatar, &post.Type,
		&post.Media, &post.Caption, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	if err := r.hydrate(ctx, []*domain.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) List(ctx context.Context, filter ports.FeedFilter) ([]*domain.Post, error) {
	query := `
		SELECT id, user_id, user_name, user_avatar, type, media, caption, created_at, updated_at
		FROM posts
	`
	var conditions []string
	var args []interface{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.ExcludeOwnerID != nil {
		args = append(args, *filter.ExcludeOwnerID)
		conditions = append(conditions, fmt.Sprintf("user_id <> $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(caption ILIKE $%d OR user_name ILIKE $%d)", len(args), len(args)))
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		post := &domain.Post{}
		err := rows.Scan(
			&post.ID, &post.UserID, &post.UserName, &post.UserAvatar, &post.Type,
			&post.Media, &post.Caption, &post.CreatedAt, &post.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	if err := r.hydrate(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) UpdateCaption(ctx context.Context, id uuid.UUID, caption string) error {
	query := `UPDATE posts SET caption = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, caption, id)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return requireRow(result, domain.ErrPostNotFound)
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Likes and comments go with the post via ON DELETE CASCADE.
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return requireRow(result, domain.ErrPostNotFound)
}

func (r *postRepository) AddLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	query := `
		INSERT INTO post_likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to add like: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *postRepository) RemoveLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	query := `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove like: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *postRepository) ListLikers(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT user_id FROM post_likes WHERE post_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list likes: %w", err)
	}
	defer rows.Close()

	likers := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan like: %w", err)
		}
		likers = append(likers, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate likes: %w", err)
	}
	return likers, nil
}

func (r *postRepository) AddComment(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO post_comments (id, post_id, user_id, user_name, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.PostID, comment.UserID, comment.UserName, comment.Text, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func (r *postRepository) GetComment(ctx context.Context, postID, commentID uuid.UUID) (*domain.Comment, error) {
	query := `
		SELECT id, post_id, user_id, user_name, text, created_at
		FROM post_comments
		WHERE id = $1 AND post_id = $2
	`
	comment := &domain.Comment{}
	err := r.db.QueryRowContext(ctx, query, commentID, postID).Scan(
		&comment.ID, &comment.PostID, &comment.UserID, &comment.UserName, &comment.Text, &comment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, nil
}

func (r *postRepository) DeleteComment(ctx context.Context, postID, commentID uuid.UUID) error {
	query := `DELETE FROM post_comments WHERE id = $1 AND post_id = $2`
	result, err := r.db.ExecContext(ctx, query, commentID, postID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return requireRow(result, domain.ErrCommentNotFound)
}

// hydrate loads the liked-by sets and comment threads for a batch of posts.
func (r *postRepository) hydrate(ctx context.Context, posts []*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Post, len(posts))
	ids := make([]uuid.UUID, 0, len(posts))
	for _, post := range posts {
		post.LikedBy = []uuid.UUID{}
		post.Comments = []domain.Comment{}
		byID[post.ID] = post
		ids = append(ids, post.ID)
	}

	likeRows, err := r.db.QueryContext(ctx,
		`SELECT post_id, user_id FROM post_likes WHERE post_id = ANY($1) ORDER BY created_at`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("failed to fetch likes: %w", err)
	}
	defer likeRows.Close()
	for likeRows.Next() {
		var postID, userID uuid.UUID
		if err := likeRows.Scan(&postID, &userID); err != nil {
			return fmt.Errorf("failed to scan like: %w", err)
		}
		if post, ok := byID[postID]; ok {
			post.LikedBy = append(post.LikedBy, userID)
		}
	}
	if err := likeRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate likes: %w", err)
	}

	commentRows, err := r.db.QueryContext(ctx,
		`SELECT id, post_id, user_id, user_name, text, created_at
		 FROM post_comments WHERE post_id = ANY($1) ORDER BY created_at`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("failed to fetch comments: %w", err)
	}
	defer commentRows.Close()
	for commentRows.Next() {
		var comment domain.Comment
		err := commentRows.Scan(
			&comment.ID, &comment.PostID, &comment.UserID, &comment.UserName,
			&comment.Text, &comment.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to scan comment: %w", err)
		}
		if post, ok := byID[comment.PostID]; ok {
			post.Comments = append(post.Comments, comment)
		}
	}
	if err := commentRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate comments: %w", err)
	}

	for _, post := range posts {
		post.Likes = len(post.LikedBy)
	}
	return nil
}

func requireRow(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
