package model

import "time"

const DefaultAnonymousName = "Anonymous Sister"

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
	PostStatusHidden    = "hidden"
)

const (
	VisibilityPublic        = "public"
	VisibilityCommunityOnly = "community_only"
	VisibilityFollowersOnly = "followers_only"
)

var PostCategories = []string{
	"menstrual_health",
	"mental_health",
	"reproductive_health",
	"pcos",
	"nutrition",
	"fitness",
	"self_defense",
	"cancer_awareness",
	"general_wellness",
	"relationships",
	"career",
	"motherhood",
	"personal_story",
	"question",
	"support",
}

var PostTypes = []string{"text", "question", "story", "tip", "article", "resource"}

var PostSorts = []string{"newest", "oldest", "popular", "trending"}

func ValidCategory(c string) bool { return contains(PostCategories, c) }
func ValidPostType(t string) bool { return contains(PostTypes, t) }
func ValidSort(s string) bool     { return contains(PostSorts, s) }

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

type Post struct {
	ID            string     `json:"id"`
	AuthorID      string     `json:"-"`
	Author        PostAuthor `json:"author"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt,omitempty"`
	Slug          string     `json:"slug,omitempty"`
	Category      string     `json:"category"`
	Tags          []string   `json:"tags,omitempty"`
	PostType      string     `json:"post_type"`
	IsAnonymous   bool       `json:"is_anonymous"`
	AnonymousName string     `json:"-"`
	Visibility    string     `json:"visibility"`
	Status        string     `json:"status"`
	Views         int        `json:"views"`
	Shares        int        `json:"shares"`
	LikeCount     int        `json:"like_count"`
	CommentCount  int        `json:"comment_count"`
	ReadingTime   int        `json:"reading_time,omitempty"`
	IsLikedByUser *bool      `json:"is_liked_by_user,omitempty"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type PostAuthor struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// EngagementScore weighs interactions the way the feed ranks trending posts:
// comments and shares count for more than raw likes or views.
func (p Post) EngagementScore() float64 {
	return float64(p.LikeCount) + 3*float64(p.CommentCount) + 5*float64(p.Shares) + 0.1*float64(p.Views)
}

// MaskAnonymous replaces author identity on anonymous posts before the post
// leaves the service layer.
func (p *Post) MaskAnonymous() {
	if !p.IsAnonymous {
		return
	}
	name := p.AnonymousName
	if name == "" {
		name = DefaultAnonymousName
	}
	p.Author = PostAuthor{Name: name}
}

type Comment struct {
	ID            string     `json:"id"`
	PostID        string     `json:"post_id"`
	UserID        string     `json:"-"`
	Author        PostAuthor `json:"author"`
	Content       string     `json:"content"`
	IsAnonymous   bool       `json:"is_anonymous"`
	AnonymousName string     `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (c *Comment) MaskAnonymous() {
	if !c.IsAnonymous {
		return
	}
	name := c.AnonymousName
	if name == "" {
		name = DefaultAnonymousName
	}
	c.Author = PostAuthor{Name: name}
}

// PostQuery captures the feed listing parameters after validation.
type PostQuery struct {
	Page          int
	Limit         int
	Category      string
	Search        string
	Sort          string
	PublicOnly    bool
	TrendingSince *time.Time
}
