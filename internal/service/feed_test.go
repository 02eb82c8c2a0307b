package service

import (
	"context"
	"testing"

	"tribune/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"0", 1},
		{"-3", 1},
		{"1", 1},
		{"2", 2},
		{"17", 17},
		{"1.5", 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParsePage(tc.raw), "raw=%q", tc.raw)
	}
}

// fixedFeedRepo returns a post repo stub that simulates total posts and
// records the limit/offset it was asked for.
func fixedFeedRepo(total int64) (*postRepoStub, *struct{ limit, offset int }) {
	seen := &struct{ limit, offset int }{-1, -1}
	repo := noopPostRepo()
	repo.countFn = func(_ context.Context) (int64, error) { return total, nil }
	repo.listFn = func(_ context.Context, limit, offset int) ([]*models.Post, error) {
		seen.limit, seen.offset = limit, offset
		n := int(total) - offset
		if n > limit {
			n = limit
		}
		if n < 0 {
			n = 0
		}
		posts := make([]*models.Post, n)
		for i := range posts {
			posts[i] = &models.Post{ID: uint(int(total) - offset - i)}
		}
		return posts, nil
	}
	return repo, seen
}

func TestFeedService_GlobalFeed_Pagination(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("thirteen posts fill two pages", func(t *testing.T) {
		t.Parallel()
		repo, _ := fixedFeedRepo(13)
		svc := NewFeedService(repo, noopGroupRepo(), noopUserRepo())

		posts, page, err := svc.GlobalFeed(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, posts, 10)
		assert.Equal(t, Page{Number: 1, TotalPages: 2, TotalCount: 13, HasNext: true}, page)

		posts, page, err = svc.GlobalFeed(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, posts, 3)
		assert.Equal(t, Page{Number: 2, TotalPages: 2, TotalCount: 13, HasPrev: true}, page)
	})

	t.Run("past-the-end page clamps to last", func(t *testing.T) {
		t.Parallel()
		repo, seen := fixedFeedRepo(13)
		svc := NewFeedService(repo, noopGroupRepo(), noopUserRepo())

		posts, page, err := svc.GlobalFeed(ctx, 99)
		require.NoError(t, err)
		assert.Equal(t, 2, page.Number)
		assert.Len(t, posts, 3)
		assert.Equal(t, 10, seen.offset)
	})

	t.Run("page below one clamps to first", func(t *testing.T) {
		t.Parallel()
		repo, seen := fixedFeedRepo(13)
		svc := NewFeedService(repo, noopGroupRepo(), noopUserRepo())

		_, page, err := svc.GlobalFeed(ctx, -5)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Number)
		assert.Equal(t, 0, seen.offset)
	})

	t.Run("empty feed still has one page", func(t *testing.T) {
		t.Parallel()
		repo, _ := fixedFeedRepo(0)
		svc := NewFeedService(repo, noopGroupRepo(), noopUserRepo())

		posts, page, err := svc.GlobalFeed(ctx, 7)
		require.NoError(t, err)
		assert.Empty(t, posts)
		assert.Equal(t, Page{Number: 1, TotalPages: 1, TotalCount: 0}, page)
	})

	t.Run("exact multiple has no trailing empty page", func(t *testing.T) {
		t.Parallel()
		repo, _ := fixedFeedRepo(20)
		svc := NewFeedService(repo, noopGroupRepo(), noopUserRepo())

		_, page, err := svc.GlobalFeed(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, 2, page.TotalPages)
		assert.Equal(t, 2, page.Number)
	})
}

func TestFeedService_GroupFeed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unknown group is not found", func(t *testing.T) {
		t.Parallel()
		groupRepo := noopGroupRepo()
		groupRepo.getBySlugFn = func(_ context.Context, slug string) (*models.Group, error) {
			return nil, models.NewNotFoundError("Group", slug)
		}
		svc := NewFeedService(noopPostRepo(), groupRepo, noopUserRepo())

		_, _, _, err := svc.GroupFeed(ctx, "ghost", 1)
		assertCode(t, err, models.CodeNotFound)
	})

	t.Run("scopes query to the group", func(t *testing.T) {
		t.Parallel()
		var queriedGroup uint
		repo := noopPostRepo()
		repo.countByGroupFn = func(_ context.Context, groupID uint) (int64, error) { return 1, nil }
		repo.listByGroupFn = func(_ context.Context, groupID uint, _, _ int) ([]*models.Post, error) {
			queriedGroup = groupID
			return []*models.Post{{ID: 5}}, nil
		}
		groupRepo := noopGroupRepo()
		groupRepo.getBySlugFn = func(_ context.Context, slug string) (*models.Group, error) {
			return &models.Group{ID: 42, Slug: slug, Title: "The Group"}, nil
		}
		svc := NewFeedService(repo, groupRepo, noopUserRepo())

		group, posts, page, err := svc.GroupFeed(ctx, "the-group", 1)
		require.NoError(t, err)
		assert.EqualValues(t, 42, queriedGroup)
		assert.Equal(t, "The Group", group.Title)
		assert.Len(t, posts, 1)
		assert.Equal(t, 1, page.TotalPages)
	})
}

func TestFeedService_ProfileFeed_UnknownUser(t *testing.T) {
	t.Parallel()

	userRepo := noopUserRepo()
	userRepo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		return nil, models.NewNotFoundError("User", username)
	}
	svc := NewFeedService(noopPostRepo(), noopGroupRepo(), userRepo)

	_, _, _, err := svc.ProfileFeed(context.Background(), "nobody", 1)
	assertCode(t, err, models.CodeNotFound)
}

func TestFeedService_FollowingFeed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("anonymous viewer is rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewFeedService(noopPostRepo(), noopGroupRepo(), noopUserRepo())
		_, _, err := svc.FollowingFeed(ctx, 0, 1)
		assertCode(t, err, models.CodeUnauthorized)
	})

	t.Run("viewer with no follows gets empty first page", func(t *testing.T) {
		t.Parallel()
		svc := NewFeedService(noopPostRepo(), noopGroupRepo(), noopUserRepo())
		posts, page, err := svc.FollowingFeed(ctx, 7, 3)
		require.NoError(t, err)
		assert.Empty(t, posts)
		assert.Equal(t, 1, page.Number)
	})

	t.Run("scopes query to the viewer", func(t *testing.T) {
		t.Parallel()
		var queriedViewer uint
		repo := noopPostRepo()
		repo.countByFollowedFn = func(_ context.Context, viewerID uint) (int64, error) { return 2, nil }
		repo.listByFollowedFn = func(_ context.Context, viewerID uint, _, _ int) ([]*models.Post, error) {
			queriedViewer = viewerID
			return []*models.Post{{ID: 2}, {ID: 1}}, nil
		}
		svc := NewFeedService(repo, noopGroupRepo(), noopUserRepo())

		posts, _, err := svc.FollowingFeed(ctx, 9, 1)
		require.NoError(t, err)
		assert.EqualValues(t, 9, queriedViewer)
		assert.Len(t, posts, 2)
	})
}
