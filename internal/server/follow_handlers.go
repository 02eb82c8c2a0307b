package server

import (
	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/profiles/:username/follow. The response
// reports the stored state, so a self-follow attempt answers false.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	following, err := s.followService.Follow(c.Context(), viewerID(c), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"following": following})
}

// UnfollowUser handles DELETE /api/profiles/:username/follow.
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	if err := s.followService.Unfollow(c.Context(), viewerID(c), c.Params("username")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"following": false})
}
