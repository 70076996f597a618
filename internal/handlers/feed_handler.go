package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/storycircle/backend/internal/models"
	"github.com/storycircle/backend/internal/repositories"
)

// FeedHandler serves the home timeline: posts authored by the users the
// current user follows. Because every user follows themselves from signup,
// the feed always includes the user's own posts.
type FeedHandler struct {
	postRepository   *repositories.ContentRepository[models.Post, *models.Post]
	followRepository repositories.FollowRepository
	pageSize         int
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo *repositories.ContentRepository[models.Post, *models.Post], followRepo repositories.FollowRepository, pageSize int) *FeedHandler {
	return &FeedHandler{postRepository: postRepo, followRepository: followRepo, pageSize: pageSize}
}

// RegisterFeedRoutes registers the feed route
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns a page of posts from followed users, newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	followingIDs, err := h.followRepository.GetFollowingIDs(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(followingIDs) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"items": []models.Post{}, "total": 0, "page": 1})
	}

	page, limit := getPagination(c, h.pageSize)
	posts, total, err := h.postRepository.ListByAuthors(c.Request().Context(), followingIDs, page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"items": posts, "total": total, "page": page})
}
