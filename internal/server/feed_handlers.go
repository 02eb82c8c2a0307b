package server

import (
	"fmt"

	"tribune/internal/models"
	"tribune/internal/observability"
	"tribune/internal/service"

	"github.com/gofiber/fiber/v2"
)

// cachedPage serves whole feed pages from the page cache. Staleness within
// the TTL is accepted; writes do not invalidate, only expiry or an explicit
// clear does.
func (s *Server) cachedPage(baseKey, view string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("%s:%d", baseKey, service.ParsePage(c.Query("page")))

		if body, contentType, ok := s.pageCache.Get(key); ok {
			observability.FeedPageCacheHits.WithLabelValues(view).Inc()
			c.Set(fiber.HeaderContentType, contentType)
			return c.Send(body)
		}
		observability.FeedPageCacheMisses.WithLabelValues(view).Inc()

		if err := c.Next(); err != nil {
			return err
		}
		if c.Response().StatusCode() == fiber.StatusOK {
			s.pageCache.Set(key, string(c.Response().Header.ContentType()), c.Response().Body())
		}
		return nil
	}
}

// GetGlobalFeed handles GET /api/feed.
func (s *Server) GetGlobalFeed(c *fiber.Ctx) error {
	page := service.ParsePage(c.Query("page"))

	posts, pageInfo, err := s.feedService.GlobalFeed(c.Context(), page)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts": posts,
		"page":  pageInfo,
	})
}

// GetFollowingFeed handles GET /api/feed/following.
func (s *Server) GetFollowingFeed(c *fiber.Ctx) error {
	page := service.ParsePage(c.Query("page"))

	posts, pageInfo, err := s.feedService.FollowingFeed(c.Context(), viewerID(c), page)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts": posts,
		"page":  pageInfo,
	})
}

// GetGroupFeed handles GET /api/groups/:slug.
func (s *Server) GetGroupFeed(c *fiber.Ctx) error {
	page := service.ParsePage(c.Query("page"))

	group, posts, pageInfo, err := s.feedService.GroupFeed(c.Context(), c.Params("slug"), page)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"group": group,
		"posts": posts,
		"page":  pageInfo,
	})
}

// GetProfileFeed handles GET /api/profiles/:username. The response includes
// whether the viewer follows the profile's author.
func (s *Server) GetProfileFeed(c *fiber.Ctx) error {
	page := service.ParsePage(c.Query("page"))

	author, posts, pageInfo, err := s.feedService.ProfileFeed(c.Context(), c.Params("username"), page)
	if err != nil {
		return respondError(c, err)
	}

	following, err := s.followService.IsFollowing(c.Context(), viewerID(c), author.ID)
	if err != nil {
		return respondError(c, err)
	}
	followerCount, err := s.followService.CountFollowers(c.Context(), author.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"author":         author,
		"posts":          posts,
		"page":           pageInfo,
		"following":      following,
		"follower_count": followerCount,
	})
}

// GetGroups handles GET /api/groups.
func (s *Server) GetGroups(c *fiber.Ctx) error {
	groups, err := s.groupRepo.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"groups": groups})
}

// ClearFeedCache handles POST /api/cache/clear. Deployments and editorial
// fixes use this to drop stale pages before their TTL runs out.
func (s *Server) ClearFeedCache(c *fiber.Ctx) error {
	if viewerID(c) == 0 {
		return respondError(c, models.NewUnauthorizedError("Authentication required"))
	}
	s.pageCache.Clear()
	return c.JSON(fiber.Map{"status": "cleared"})
}
