package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sakhi-junction/internal/model"
	"sakhi-junction/pkg/apierror"
)

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

const postColumns = `p.id, p.author_id, u.name, p.title, p.content, p.excerpt, p.slug,
	p.category, p.tags, p.post_type, p.is_anonymous, p.anonymous_name, p.visibility,
	p.status, p.views, p.shares, p.reading_time, p.published_at, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id) AS like_count,
	(SELECT COUNT(*) FROM post_comments c WHERE c.post_id = p.id) AS comment_count`

const engagementExpr = `((SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id)
	+ 3 * (SELECT COUNT(*) FROM post_comments c WHERE c.post_id = p.id)
	+ 5 * p.shares + 0.1 * p.views)`

func scanPost(row pgx.Row) (model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.Author.Name, &p.Title, &p.Content, &p.Excerpt,
		&p.Slug, &p.Category, &p.Tags, &p.PostType, &p.IsAnonymous, &p.AnonymousName,
		&p.Visibility, &p.Status, &p.Views, &p.Shares, &p.ReadingTime, &p.PublishedAt,
		&p.CreatedAt, &p.UpdatedAt, &p.LikeCount, &p.CommentCount)
	if err != nil {
		return model.Post{}, err
	}
	p.Author.ID = p.AuthorID
	return p, nil
}

// List returns one page of published posts plus the unpaged total for the
// same filter set.
func (r *PostRepository) List(ctx context.Context, q model.PostQuery) ([]model.Post, int, error) {
	where := []string{"p.status = 'published'"}
	args := []any{}

	if q.Category != "" {
		args = append(args, q.Category)
		where = append(where, fmt.Sprintf("p.category = $%d", len(args)))
	}
	if q.Search != "" {
		args = append(args, q.Search)
		where = append(where, fmt.Sprintf("p.search_vector @@ plainto_tsquery('english', $%d)", len(args)))
	}
	if q.PublicOnly {
		where = append(where, "p.visibility = 'public'")
	}
	if q.TrendingSince != nil {
		args = append(args, *q.TrendingSince)
		where = append(where, fmt.Sprintf("p.created_at >= $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countSQL := "SELECT COUNT(*) FROM posts p WHERE " + whereClause
	if err := r.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	var orderBy string
	switch q.Sort {
	case "oldest":
		orderBy = "p.created_at ASC"
	case "popular":
		orderBy = "like_count DESC, comment_count DESC, p.created_at DESC"
	case "trending":
		orderBy = engagementExpr + " DESC, p.created_at DESC"
	default:
		orderBy = "p.created_at DESC"
	}

	args = append(args, q.Limit, (q.Page-1)*q.Limit)
	listSQL := fmt.Sprintf(`SELECT %s FROM posts p JOIN users u ON u.id = p.author_id
		WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		postColumns, whereClause, orderBy, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}

	return posts, total, rows.Err()
}

// FindByID loads a post regardless of status; callers decide whether drafts
// or archived posts are visible for their use case.
func (r *PostRepository) FindByID(ctx context.Context, id string) (model.Post, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s FROM posts p JOIN users u ON u.id = p.author_id WHERE p.id = $1`,
		postColumns), id)

	p, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Post{}, apierror.NotFound("Post not found")
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

func (r *PostRepository) Create(ctx context.Context, p model.Post) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO posts (id, author_id, title, content, excerpt, slug, category, tags,
		                    post_type, is_anonymous, anonymous_name, visibility, status,
		                    reading_time, published_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		p.ID, p.AuthorID, p.Title, p.Content, p.Excerpt, p.Slug, p.Category, p.Tags,
		p.PostType, p.IsAnonymous, p.AnonymousName, p.Visibility, p.Status,
		p.ReadingTime, p.PublishedAt, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *PostRepository) Update(ctx context.Context, p model.Post) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE posts SET title = $2, content = $3, excerpt = $4, category = $5, tags = $6,
		        post_type = $7, is_anonymous = $8, anonymous_name = $9, status = $10,
		        reading_time = $11, updated_at = $12
		 WHERE id = $1`,
		p.ID, p.Title, p.Content, p.Excerpt, p.Category, p.Tags,
		p.PostType, p.IsAnonymous, p.AnonymousName, p.Status,
		p.ReadingTime, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("Post not found")
	}
	return nil
}

func (r *PostRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE posts SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

func (r *PostRepository) IncrementShares(ctx context.Context, id string) (int, error) {
	var shares int
	err := r.pool.QueryRow(ctx,
		`UPDATE posts SET shares = shares + 1 WHERE id = $1 RETURNING shares`, id).Scan(&shares)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apierror.NotFound("Post not found")
	}
	if err != nil {
		return 0, fmt.Errorf("increment shares: %w", err)
	}
	return shares, nil
}

func (r *PostRepository) IsLikedBy(ctx context.Context, postID string, userID string) (bool, error) {
	var liked bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)`,
		postID, userID).Scan(&liked)
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return liked, nil
}

func (r *PostRepository) AddLike(ctx context.Context, postID string, userID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO post_likes (post_id, user_id, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (post_id, user_id) DO NOTHING`,
		postID, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("add like: %w", err)
	}
	return nil
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID string, userID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return fmt.Errorf("remove like: %w", err)
	}
	return nil
}

// LikedSet reports which of the given posts the user has liked, in one query.
func (r *PostRepository) LikedSet(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT post_id FROM post_likes WHERE user_id = $1 AND post_id = ANY($2)`,
		userID, postIDs)
	if err != nil {
		return nil, fmt.Errorf("liked set: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan liked set: %w", err)
		}
		liked[id] = true
	}

	return liked, rows.Err()
}

func (r *PostRepository) LikeCount(ctx context.Context, postID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

func (r *PostRepository) AddComment(ctx context.Context, c model.Comment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO post_comments (id, post_id, user_id, content, is_anonymous, anonymous_name, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.PostID, c.UserID, c.Content, c.IsAnonymous, c.AnonymousName, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	return nil
}

func (r *PostRepository) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.post_id, c.user_id, u.name, c.content, c.is_anonymous, c.anonymous_name, c.created_at
		 FROM post_comments c JOIN users u ON u.id = c.user_id
		 WHERE c.post_id = $1 ORDER BY c.created_at ASC`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Author.Name, &c.Content,
			&c.IsAnonymous, &c.AnonymousName, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.Author.ID = c.UserID
		comments = append(comments, c)
	}

	return comments, rows.Err()
}
