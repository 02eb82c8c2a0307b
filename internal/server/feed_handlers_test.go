package server

import (
	"context"
	"net/http"
	"testing"

	"tribune/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetGlobalFeed_Pagination(t *testing.T) {
	s, app, db := newTestServer(t)

	author := createTestUser(t, db, "writer")
	seedPosts(t, db, author, 13)

	t.Run("first page holds ten posts", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/feed/", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Len(t, body["posts"], 10)
		page := body["page"].(map[string]any)
		assert.EqualValues(t, 1, page["number"])
		assert.EqualValues(t, 2, page["total_pages"])
		assert.EqualValues(t, 13, page["total_count"])
	})

	t.Run("second page holds the remainder", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/feed/?page=2", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Len(t, body["posts"], 3)
	})

	t.Run("page beyond the end clamps to last", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/feed/?page=3", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		page := body["page"].(map[string]any)
		assert.EqualValues(t, 2, page["number"])
		assert.Len(t, body["posts"], 3)
	})

	t.Run("garbage page parameter falls back to one", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/feed/?page=banana", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		page := body["page"].(map[string]any)
		assert.EqualValues(t, 1, page["number"])
	})

	t.Run("newest post leads the feed", func(t *testing.T) {
		s.pageCache.Clear()
		resp := doJSON(t, app, http.MethodGet, "/api/feed/", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		posts := body["posts"].([]any)
		first := posts[0].(map[string]any)
		assert.Equal(t, "post 13", first["text"])
	})
}

func TestGetGlobalFeed_PageCache(t *testing.T) {
	s, app, db := newTestServer(t)

	author := createTestUser(t, db, "writer")
	post := createTestPost(t, db, author, "soon to vanish")

	first := readBody(t, doJSON(t, app, http.MethodGet, "/api/feed/", "", nil))

	// Deleting the post does not invalidate the cached page; within the TTL
	// the response is byte-identical.
	require.NoError(t, db.Delete(post).Error)
	cached := readBody(t, doJSON(t, app, http.MethodGet, "/api/feed/", "", nil))
	assert.Equal(t, first, cached)

	// An explicit clear drops the cached page immediately.
	s.pageCache.Clear()
	fresh := decodeBody(t, doJSON(t, app, http.MethodGet, "/api/feed/", "", nil))
	assert.Len(t, fresh["posts"], 0)
}

func TestClearFeedCache_RequiresAuth(t *testing.T) {
	_, app, _ := newTestServer(t)

	resp := doJSON(t, app, http.MethodPost, "/api/cache/clear", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestClearFeedCache(t *testing.T) {
	s, app, db := newTestServer(t)
	user := createTestUser(t, db, "admin")

	resp := doJSON(t, app, http.MethodPost, "/api/cache/clear", authHeader(t, s, user), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetGroupFeed(t *testing.T) {
	_, app, db := newTestServer(t)

	author := createTestUser(t, db, "writer")
	group := &models.Group{Title: "Gophers", Slug: "gophers", Description: "go talk"}
	require.NoError(t, db.Create(group).Error)
	require.NoError(t, db.Create(&models.Post{
		Text: "grouped post", AuthorID: author.ID, GroupID: &group.ID,
	}).Error)
	createTestPost(t, db, author, "ungrouped post")

	t.Run("returns only the group's posts", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/groups/gophers", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Len(t, body["posts"], 1)
		group := body["group"].(map[string]any)
		assert.Equal(t, "Gophers", group["title"])
	})

	t.Run("unknown slug is 404", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/groups/nope", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetProfileFeed(t *testing.T) {
	s, app, db := newTestServer(t)

	author := createTestUser(t, db, "writer")
	fan := createTestUser(t, db, "fan")
	createTestPost(t, db, author, "my post")
	require.NoError(t, s.followRepo.Create(context.Background(), fan.ID, author.ID))

	t.Run("anonymous viewer sees not-following", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/profiles/writer", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, false, body["following"])
		assert.EqualValues(t, 1, body["follower_count"])
		assert.Len(t, body["posts"], 1)
	})

	t.Run("follower sees following", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/profiles/writer", authHeader(t, s, fan), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, true, body["following"])
	})

	t.Run("unknown username is 404", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/profiles/nobody", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetFollowingFeed(t *testing.T) {
	s, app, db := newTestServer(t)

	author := createTestUser(t, db, "writer")
	other := createTestUser(t, db, "other")
	fan := createTestUser(t, db, "fan")
	createTestPost(t, db, author, "from writer")
	createTestPost(t, db, other, "from other")
	require.NoError(t, s.followRepo.Create(context.Background(), fan.ID, author.ID))

	t.Run("anonymous viewer is rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/feed/following", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("only followed authors appear", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/feed/following", authHeader(t, s, fan), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		posts := body["posts"].([]any)
		require.Len(t, posts, 1)
		assert.Equal(t, "from writer", posts[0].(map[string]any)["text"])
	})

	t.Run("unfollowing empties the feed", func(t *testing.T) {
		require.NoError(t, s.followRepo.Delete(context.Background(), fan.ID, author.ID))
		resp := doJSON(t, app, http.MethodGet, "/api/feed/following", authHeader(t, s, fan), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Len(t, body["posts"], 0)
	})
}
