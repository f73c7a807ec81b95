package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"sakhi-junction/internal/event"
	"sakhi-junction/internal/model"
	"sakhi-junction/internal/util"
	"sakhi-junction/pkg/apierror"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
	excerptLimit    = 150
)

type postStore interface {
	List(ctx context.Context, q model.PostQuery) ([]model.Post, int, error)
	FindByID(ctx context.Context, id string) (model.Post, error)
	Create(ctx context.Context, p model.Post) error
	Update(ctx context.Context, p model.Post) error
	IncrementViews(ctx context.Context, id string) error
	IncrementShares(ctx context.Context, id string) (int, error)
	IsLikedBy(ctx context.Context, postID string, userID string) (bool, error)
	AddLike(ctx context.Context, postID string, userID string) error
	RemoveLike(ctx context.Context, postID string, userID string) error
	LikeCount(ctx context.Context, postID string) (int, error)
	LikedSet(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
	AddComment(ctx context.Context, c model.Comment) error
	ListComments(ctx context.Context, postID string) ([]model.Comment, error)
}

type notificationStore interface {
	Insert(ctx context.Context, n model.Notification) error
}

// PostService owns the community feed: listing, detail, authoring, likes,
// comments and shares. Anonymous masking happens here so no handler can leak
// an anonymous author's identity by accident.
type PostService struct {
	posts          postStore
	notifications  notificationStore
	bus            event.Bus
	trendingWindow time.Duration
}

func NewPostService(posts postStore, notifications notificationStore, bus event.Bus, trendingWindow time.Duration) *PostService {
	if trendingWindow <= 0 {
		trendingWindow = 7 * 24 * time.Hour
	}

	return &PostService{
		posts:          posts,
		notifications:  notifications,
		bus:            bus,
		trendingWindow: trendingWindow,
	}
}

// List returns one feed page. An anonymous viewer only sees public posts;
// a nil viewer also skips the per-post liked flag.
func (s *PostService) List(ctx context.Context, viewer *model.AuthUser, page, limit int, category, search, sort string) ([]model.Post, model.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	if category != "" && !model.ValidCategory(category) {
		return nil, model.Pagination{}, apierror.BadRequest("Invalid category")
	}
	if sort == "" {
		sort = "newest"
	}
	if !model.ValidSort(sort) {
		return nil, model.Pagination{}, apierror.BadRequest("Invalid sort option")
	}

	q := model.PostQuery{
		Page:       page,
		Limit:      limit,
		Category:   category,
		Search:     strings.TrimSpace(search),
		Sort:       sort,
		PublicOnly: viewer == nil,
	}
	if sort == "trending" {
		since := time.Now().UTC().Add(-s.trendingWindow)
		q.TrendingSince = &since
	}

	posts, total, err := s.posts.List(ctx, q)
	if err != nil {
		return nil, model.Pagination{}, err
	}

	if viewer != nil && len(posts) > 0 {
		ids := make([]string, len(posts))
		for i := range posts {
			ids[i] = posts[i].ID
		}
		liked, err := s.posts.LikedSet(ctx, viewer.ID, ids)
		if err != nil {
			return nil, model.Pagination{}, err
		}
		for i := range posts {
			flag := liked[posts[i].ID]
			posts[i].IsLikedByUser = &flag
		}
	}

	for i := range posts {
		posts[i].MaskAnonymous()
	}

	totalPages := (total + limit - 1) / limit
	meta := model.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}

	return posts, meta, nil
}

// Get loads one post for display. Unpublished posts are visible only to
// their author or an admin; non-public posts require a signed-in viewer.
func (s *PostService) Get(ctx context.Context, viewer *model.AuthUser, id string) (model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return model.Post{}, err
	}

	if post.Status != model.PostStatusPublished {
		if viewer == nil || (viewer.ID != post.AuthorID && !viewer.IsAdmin()) {
			return model.Post{}, apierror.NotFound("Post not found")
		}
	}

	if post.Visibility != model.VisibilityPublic && viewer == nil {
		return model.Post{}, apierror.Forbidden("Please log in to view this post")
	}

	// View counting is fire-and-forget; a failed bump never hides the post.
	if err := s.posts.IncrementViews(ctx, post.ID); err != nil {
		slog.Warn("increment views failed", "post_id", post.ID, "error", err)
	} else {
		post.Views++
	}

	if viewer != nil {
		liked, err := s.posts.IsLikedBy(ctx, post.ID, viewer.ID)
		if err != nil {
			return model.Post{}, err
		}
		post.IsLikedByUser = &liked
	}

	post.MaskAnonymous()
	return post, nil
}

func (s *PostService) Create(ctx context.Context, author model.AuthUser, req model.CreatePostRequest) (model.Post, error) {
	if !model.ValidCategory(req.Category) {
		return model.Post{}, apierror.BadRequest("Invalid category")
	}

	postType := req.PostType
	if postType == "" {
		postType = "text"
	}
	if !model.ValidPostType(postType) {
		return model.Post{}, apierror.BadRequest("Invalid post type")
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = model.VisibilityPublic
	}
	switch visibility {
	case model.VisibilityPublic, model.VisibilityCommunityOnly, model.VisibilityFollowersOnly:
	default:
		return model.Post{}, apierror.BadRequest("Invalid visibility")
	}

	content := strings.TrimSpace(req.Content)
	excerpt := strings.TrimSpace(req.Excerpt)
	if excerpt == "" {
		excerpt = util.Excerpt(content, excerptLimit)
	}

	now := time.Now().UTC()
	post := model.Post{
		ID:            uuid.NewString(),
		AuthorID:      author.ID,
		Author:        model.PostAuthor{ID: author.ID, Name: author.Name},
		Title:         strings.TrimSpace(req.Title),
		Content:       content,
		Excerpt:       excerpt,
		Slug:          util.Slugify(req.Title, now),
		Category:      req.Category,
		Tags:          req.Tags,
		PostType:      postType,
		IsAnonymous:   req.IsAnonymous,
		AnonymousName: strings.TrimSpace(req.AnonymousName),
		Visibility:    visibility,
		Status:        model.PostStatusPublished,
		ReadingTime:   util.ReadingTime(content),
		PublishedAt:   &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return model.Post{}, err
	}

	s.publish(event.TypePostCreated, author.ID, map[string]string{
		"post_id":  post.ID,
		"category": post.Category,
	})

	post.MaskAnonymous()
	return post, nil
}

// Update applies only the fields present in the payload. The caller has
// already passed the ownership gate with the loaded post in hand.
func (s *PostService) Update(ctx context.Context, post model.Post, req model.UpdatePostRequest) (model.Post, error) {
	if req.Category != nil {
		if !model.ValidCategory(*req.Category) {
			return model.Post{}, apierror.BadRequest("Invalid category")
		}
		post.Category = *req.Category
	}
	if req.PostType != nil {
		if !model.ValidPostType(*req.PostType) {
			return model.Post{}, apierror.BadRequest("Invalid post type")
		}
		post.PostType = *req.PostType
	}
	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		post.Content = strings.TrimSpace(*req.Content)
		post.ReadingTime = util.ReadingTime(post.Content)
		if req.Excerpt == nil {
			post.Excerpt = util.Excerpt(post.Content, excerptLimit)
		}
	}
	if req.Excerpt != nil {
		post.Excerpt = strings.TrimSpace(*req.Excerpt)
	}
	if req.Tags != nil {
		post.Tags = *req.Tags
	}
	if req.IsAnonymous != nil {
		post.IsAnonymous = *req.IsAnonymous
	}
	if req.AnonymousName != nil {
		post.AnonymousName = strings.TrimSpace(*req.AnonymousName)
	}
	post.UpdatedAt = time.Now().UTC()

	if err := s.posts.Update(ctx, post); err != nil {
		return model.Post{}, err
	}

	post.MaskAnonymous()
	return post, nil
}

// Delete archives the post instead of removing the row, so moderation and
// the author's own history survive.
func (s *PostService) Delete(ctx context.Context, post model.Post) error {
	post.Status = model.PostStatusArchived
	post.UpdatedAt = time.Now().UTC()
	return s.posts.Update(ctx, post)
}

// ToggleLike flips the caller's like on a published post and returns the
// resulting state plus the fresh count.
func (s *PostService) ToggleLike(ctx context.Context, actor model.AuthUser, postID string) (bool, int, error) {
	post, err := s.findPublished(ctx, postID)
	if err != nil {
		return false, 0, err
	}

	liked, err := s.posts.IsLikedBy(ctx, post.ID, actor.ID)
	if err != nil {
		return false, 0, err
	}

	if liked {
		if err := s.posts.RemoveLike(ctx, post.ID, actor.ID); err != nil {
			return false, 0, err
		}
		s.publish(event.TypePostUnliked, actor.ID, map[string]string{"post_id": post.ID})
	} else {
		if err := s.posts.AddLike(ctx, post.ID, actor.ID); err != nil {
			return false, 0, err
		}
		s.publish(event.TypePostLiked, actor.ID, map[string]string{"post_id": post.ID})
		s.notify(ctx, post, actor.ID, actor.Name, model.NotificationPostLiked,
			fmt.Sprintf("%s liked your post", actor.Name))
	}

	count, err := s.posts.LikeCount(ctx, post.ID)
	if err != nil {
		return false, 0, err
	}

	return !liked, count, nil
}

func (s *PostService) AddComment(ctx context.Context, actor model.AuthUser, postID string, req model.CommentRequest) (model.Comment, error) {
	post, err := s.findPublished(ctx, postID)
	if err != nil {
		return model.Comment{}, err
	}

	comment := model.Comment{
		ID:            uuid.NewString(),
		PostID:        post.ID,
		UserID:        actor.ID,
		Author:        model.PostAuthor{ID: actor.ID, Name: actor.Name},
		Content:       strings.TrimSpace(req.Content),
		IsAnonymous:   req.IsAnonymous,
		AnonymousName: strings.TrimSpace(req.AnonymousName),
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.posts.AddComment(ctx, comment); err != nil {
		return model.Comment{}, err
	}

	// Mask before the notification fan-out so an anonymous commenter's real
	// name never reaches the post author.
	comment.MaskAnonymous()

	s.publish(event.TypePostCommented, actor.ID, map[string]string{"post_id": post.ID})
	s.notify(ctx, post, actor.ID, comment.Author.Name, model.NotificationPostCommented,
		fmt.Sprintf("%s commented on your post", comment.Author.Name))

	return comment, nil
}

func (s *PostService) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	if _, err := s.findPublished(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.posts.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}

	for i := range comments {
		comments[i].MaskAnonymous()
	}
	return comments, nil
}

func (s *PostService) Share(ctx context.Context, actor model.AuthUser, postID string) (int, error) {
	post, err := s.findPublished(ctx, postID)
	if err != nil {
		return 0, err
	}

	shares, err := s.posts.IncrementShares(ctx, post.ID)
	if err != nil {
		return 0, err
	}

	s.publish(event.TypePostShared, actor.ID, map[string]string{"post_id": post.ID})
	return shares, nil
}

// Lookup feeds the ownership gate: the post plus its owner in one fetch.
func (s *PostService) Lookup(ctx context.Context, id string) (any, string, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return post, post.AuthorID, nil
}

func (s *PostService) findPublished(ctx context.Context, postID string) (model.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return model.Post{}, err
	}
	if post.Status != model.PostStatusPublished {
		return model.Post{}, apierror.NotFound("Post not found")
	}
	return post, nil
}

// notify records an in-app notification for the post's author, skipping
// self-interactions. Callers pass the display name, so masked actors stay
// masked in the notification too.
func (s *PostService) notify(ctx context.Context, post model.Post, actorID string, actorName string, kind string, message string) {
	if post.AuthorID == actorID {
		return
	}

	n := model.Notification{
		ID:        uuid.NewString(),
		UserID:    post.AuthorID,
		Type:      kind,
		ActorName: actorName,
		PostID:    post.ID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.notifications.Insert(ctx, n); err != nil {
		slog.Warn("insert notification failed", "post_id", post.ID, "error", err)
	}
}

func (s *PostService) publish(t event.Type, actorID string, payload any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		ActorID:   actorID,
	})
}
