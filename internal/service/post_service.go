package service

import (
	"context"

	"tribune/internal/models"
	"tribune/internal/repository"
	"tribune/internal/validation"
)

// PostService manages the post lifecycle: creation, owner-only edits and
// deletion, and single-post detail lookups.
type PostService struct {
	postRepo    repository.PostRepository
	groupRepo   repository.GroupRepository
	commentRepo repository.CommentRepository
}

// CreatePostInput carries the fields accepted when publishing a post.
type CreatePostInput struct {
	AuthorID  uint
	Text      string
	GroupSlug string
	ImageID   *uint
}

// UpdatePostInput carries the fields an author may change on their own post.
type UpdatePostInput struct {
	UserID    uint
	PostID    uint
	Text      string
	GroupSlug string
	ImageID   *uint
}

// PostDetail bundles a post with the author-level counters shown next to it.
type PostDetail struct {
	Post            *models.Post     `json:"post"`
	Comments        []*models.Comment `json:"comments"`
	AuthorPostCount int64            `json:"author_post_count"`
}

// NewPostService creates a new PostService.
func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	commentRepo repository.CommentRepository,
) *PostService {
	return &PostService{postRepo: postRepo, groupRepo: groupRepo, commentRepo: commentRepo}
}

// CreatePost publishes a new post. An empty GroupSlug leaves the post
// ungrouped; a non-empty slug must name an existing group.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.AuthorID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if err := validation.ValidatePostText(in.Text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post := &models.Post{
		Text:     in.Text,
		AuthorID: in.AuthorID,
		ImageID:  in.ImageID,
	}
	if in.GroupSlug != "" {
		group, err := s.groupRepo.GetBySlug(ctx, in.GroupSlug)
		if err != nil {
			return nil, err
		}
		post.GroupID = &group.ID
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost edits a post. Only the post's author may edit it; authorship
// itself never changes.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only edit your own posts")
	}
	if err := validation.ValidatePostText(in.Text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post.Text = in.Text
	post.GroupID = nil
	post.Group = nil
	if in.GroupSlug != "" {
		group, err := s.groupRepo.GetBySlug(ctx, in.GroupSlug)
		if err != nil {
			return nil, err
		}
		post.GroupID = &group.ID
	}
	if in.ImageID != nil {
		post.ImageID = in.ImageID
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes a post. Only the post's author may delete it.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// GetPost returns a single post by ID.
func (s *PostService) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// GetPostDetail returns a post together with its comments and the author's
// total post count.
func (s *PostService) GetPostDetail(ctx context.Context, postID uint) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	authorCount, err := s.postRepo.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Comments: comments, AuthorPostCount: authorCount}, nil
}
