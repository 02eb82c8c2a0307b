package service

import (
	"context"

	"tribune/internal/models"
	"tribune/internal/repository"
)

// FollowService manages the directed follow graph between users.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService creates a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Follow subscribes the viewer to the named author and reports whether the
// edge exists afterwards. Following yourself is a silent no-op that reports
// false, as is following someone you already follow (which reports true).
func (s *FollowService) Follow(ctx context.Context, followerID uint, username string) (bool, error) {
	if followerID == 0 {
		return false, models.NewUnauthorizedError("Authentication required")
	}

	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if author.ID == followerID {
		return false, nil
	}

	if err := s.followRepo.Create(ctx, followerID, author.ID); err != nil {
		return false, err
	}
	return true, nil
}

// Unfollow removes the viewer's subscription to the named author. Removing a
// subscription that does not exist succeeds without effect.
func (s *FollowService) Unfollow(ctx context.Context, followerID uint, username string) error {
	if followerID == 0 {
		return models.NewUnauthorizedError("Authentication required")
	}

	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if author.ID == followerID {
		return nil
	}

	return s.followRepo.Delete(ctx, followerID, author.ID)
}

// IsFollowing reports whether the viewer follows the given author. Anonymous
// viewers never follow anyone.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, authorID uint) (bool, error) {
	if followerID == 0 {
		return false, nil
	}
	return s.followRepo.Exists(ctx, followerID, authorID)
}

// CountFollowers returns the number of users following the given author.
func (s *FollowService) CountFollowers(ctx context.Context, authorID uint) (int64, error) {
	return s.followRepo.CountFollowers(ctx, authorID)
}
