package service

import (
	"context"
	"strconv"
	"time"

	"tribune/internal/models"
	"tribune/internal/observability"
	"tribune/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// PageSize is the fixed number of posts per feed page.
const PageSize = 10

// Page describes the pagination state of one feed page. Page numbers are
// 1-based; an empty feed still reports one (empty) page.
type Page struct {
	Number     int   `json:"number"`
	TotalPages int   `json:"total_pages"`
	TotalCount int64 `json:"total_count"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ParsePage interprets a raw page parameter leniently: anything that is not a
// positive integer (empty, garbage, zero, negative) resolves to page 1.
// Out-of-range values are clamped later, once the total is known.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// FeedService assembles paginated post feeds for the four feed views.
type FeedService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
}

// NewFeedService creates a new FeedService.
func NewFeedService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
) *FeedService {
	return &FeedService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
	}
}

// GlobalFeed returns the requested page of all posts, newest first.
func (s *FeedService) GlobalFeed(ctx context.Context, page int) ([]*models.Post, Page, error) {
	return s.paginate(ctx, "global", page, s.postRepo.Count, s.postRepo.List)
}

// GroupFeed returns the requested page of a group's posts. The group must
// exist; an unknown slug is a not-found error rather than an empty feed.
func (s *FeedService) GroupFeed(ctx context.Context, slug string, page int) (*models.Group, []*models.Post, Page, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, Page{}, err
	}

	posts, p, err := s.paginate(ctx, "group", page,
		func(ctx context.Context) (int64, error) {
			return s.postRepo.CountByGroup(ctx, group.ID)
		},
		func(ctx context.Context, limit, offset int) ([]*models.Post, error) {
			return s.postRepo.ListByGroup(ctx, group.ID, limit, offset)
		},
	)
	return group, posts, p, err
}

// ProfileFeed returns the requested page of a single author's posts.
func (s *FeedService) ProfileFeed(ctx context.Context, username string, page int) (*models.User, []*models.Post, Page, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, Page{}, err
	}

	posts, p, err := s.paginate(ctx, "profile", page,
		func(ctx context.Context) (int64, error) {
			return s.postRepo.CountByAuthor(ctx, author.ID)
		},
		func(ctx context.Context, limit, offset int) ([]*models.Post, error) {
			return s.postRepo.ListByAuthor(ctx, author.ID, limit, offset)
		},
	)
	return author, posts, p, err
}

// FollowingFeed returns the requested page of posts authored by users the
// viewer follows. A viewer with no follows gets an empty first page.
func (s *FeedService) FollowingFeed(ctx context.Context, viewerID uint, page int) ([]*models.Post, Page, error) {
	if viewerID == 0 {
		return nil, Page{}, models.NewUnauthorizedError("Authentication required")
	}

	return s.paginate(ctx, "following", page,
		func(ctx context.Context) (int64, error) {
			return s.postRepo.CountByFollowed(ctx, viewerID)
		},
		func(ctx context.Context, limit, offset int) ([]*models.Post, error) {
			return s.postRepo.ListByFollowed(ctx, viewerID, limit, offset)
		},
	)
}

// paginate runs the count-clamp-fetch cycle shared by every feed view.
func (s *FeedService) paginate(
	ctx context.Context,
	view string,
	page int,
	count func(ctx context.Context) (int64, error),
	list func(ctx context.Context, limit, offset int) ([]*models.Post, error),
) ([]*models.Post, Page, error) {
	ctx, span := observability.Tracer.Start(ctx, "feed."+view)
	defer span.End()
	start := time.Now()

	total, err := count(ctx)
	if err != nil {
		return nil, Page{}, err
	}

	totalPages := int((total + PageSize - 1) / PageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	posts, err := list(ctx, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, Page{}, err
	}

	span.SetAttributes(
		attribute.Int("feed.page", page),
		attribute.Int64("feed.total_count", total),
	)
	observability.ObserveFeedQuery(view, start)

	return posts, Page{
		Number:     page,
		TotalPages: totalPages,
		TotalCount: total,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}, nil
}
