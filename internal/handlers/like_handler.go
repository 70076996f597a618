package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/storycircle/backend/internal/cache"
	"github.com/storycircle/backend/internal/models"
	"github.com/storycircle/backend/internal/repositories"
)

// TargetExistsFunc checks that a like target is a persisted entity
type TargetExistsFunc func(ctx context.Context, id uint) (bool, error)

// LikeHandler handles like/unlike HTTP requests for every target kind
type LikeHandler struct {
	engagementRepository repositories.EngagementRepository
	exists               map[models.TargetKind]TargetExistsFunc
	likeCache            *cache.RedisCache // optional
	log                  zerolog.Logger
}

// NewLikeHandler creates a new LikeHandler. likeCache may be nil.
func NewLikeHandler(engagementRepo repositories.EngagementRepository, exists map[models.TargetKind]TargetExistsFunc, likeCache *cache.RedisCache, log zerolog.Logger) *LikeHandler {
	return &LikeHandler{
		engagementRepository: engagementRepo,
		exists:               exists,
		likeCache:            likeCache,
		log:                  log.With().Str("component", "likes").Logger(),
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/likes/:kind/:id", h.Like)
	g.DELETE("/likes/:kind/:id", h.Unlike)
	g.GET("/likes/:kind/status", h.GetLikeStatusBatch)
	g.GET("/likes/:kind/:id/status", h.GetLikeStatus)
	g.GET("/likes/:kind/:id/count", h.GetLikeCount)
}

func (h *LikeHandler) resolveTarget(c echo.Context) (models.TargetKind, uint, error) {
	kind := models.TargetKind(c.Param("kind"))
	if !kind.Valid() {
		return "", 0, echo.NewHTTPError(http.StatusBadRequest, "Unknown target kind")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return "", 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid target ID")
	}

	if check, ok := h.exists[kind]; ok {
		found, err := check(c.Request().Context(), uint(id))
		if err != nil {
			return "", 0, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if !found {
			return "", 0, echo.NewHTTPError(http.StatusNotFound, "Target not found")
		}
	}
	return kind, uint(id), nil
}

// Like records a like. Liking twice is not an error.
func (h *LikeHandler) Like(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	kind, targetID, err := h.resolveTarget(c)
	if err != nil {
		return err
	}

	if err := h.engagementRepository.Like(c.Request().Context(), currentUserID, kind, targetID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.invalidateCount(c.Request().Context(), kind, targetID)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": true}})
}

// Unlike removes a like. Unliking a never-liked target is not an error.
func (h *LikeHandler) Unlike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	kind, targetID, err := h.resolveTarget(c)
	if err != nil {
		return err
	}

	if err := h.engagementRepository.Unlike(c.Request().Context(), currentUserID, kind, targetID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.invalidateCount(c.Request().Context(), kind, targetID)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": false}})
}

// GetLikeStatus reports whether the current user has liked the target
func (h *LikeHandler) GetLikeStatus(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	kind, targetID, err := h.resolveTarget(c)
	if err != nil {
		return err
	}

	hasLiked, err := h.engagementRepository.HasLiked(c.Request().Context(), currentUserID, kind, targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"target_kind": kind, "target_id": targetID, "has_liked": hasLiked})
}

// GetLikeStatusBatch reports which of the given targets the current user has
// liked, so listings can be flagged with one request.
func (h *LikeHandler) GetLikeStatusBatch(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	kind := models.TargetKind(c.Param("kind"))
	if !kind.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown target kind")
	}

	var ids []uint
	for _, raw := range strings.Split(c.QueryParam("ids"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid target ID in 'ids'")
		}
		ids = append(ids, uint(id))
	}
	if len(ids) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing query parameter ids")
	}

	liked, err := h.engagementRepository.GetLikedTargetIDs(c.Request().Context(), currentUserID, kind, ids)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"target_kind": kind, "liked": liked})
}

// GetLikeCount returns the like counter for a target, served from the cache
// when warm.
func (h *LikeHandler) GetLikeCount(c echo.Context) error {
	kind, targetID, err := h.resolveTarget(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if h.likeCache != nil {
		count, hit, err := h.likeCache.GetLikeCount(ctx, string(kind), targetID)
		if err != nil {
			h.log.Warn().Err(err).Msg("like count cache read failed")
		} else if hit {
			return c.JSON(http.StatusOK, echo.Map{"target_kind": kind, "target_id": targetID, "likes_count": count})
		}
	}

	count, err := h.engagementRepository.CountLikes(ctx, kind, targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if h.likeCache != nil {
		if err := h.likeCache.SetLikeCount(ctx, string(kind), targetID, count); err != nil {
			h.log.Warn().Err(err).Msg("like count cache write failed")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"target_kind": kind, "target_id": targetID, "likes_count": count})
}

func (h *LikeHandler) invalidateCount(ctx context.Context, kind models.TargetKind, targetID uint) {
	if h.likeCache == nil {
		return
	}
	if err := h.likeCache.InvalidateLikeCount(ctx, string(kind), targetID); err != nil {
		h.log.Warn().Err(err).Msg("like count cache invalidation failed")
	}
}
