package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/storycircle/backend/internal/repositories"
	"github.com/storycircle/backend/internal/search"
)

// FetchByIDsFunc loads the stored entities behind a page of index hits,
// preserving the order of ids.
type FetchByIDsFunc func(ctx context.Context, ids []uint) (interface{}, error)

// ReindexFunc walks one collection's stored entities back into the index.
type ReindexFunc func(ctx context.Context) error

// SearchHandler serves full-text queries against the external index and
// resolves hits back to stored entities. When the index is not configured
// the search endpoints respond 503 rather than pretending to have results.
type SearchHandler struct {
	sync           *search.Synchronizer
	userRepository repositories.UserRepository
	fetch          map[string]FetchByIDsFunc
	reindex        map[string]ReindexFunc
	pageSize       int
	log            zerolog.Logger
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(sync *search.Synchronizer, userRepo repositories.UserRepository, fetch map[string]FetchByIDsFunc, reindex map[string]ReindexFunc, pageSize int, log zerolog.Logger) *SearchHandler {
	return &SearchHandler{
		sync:           sync,
		userRepository: userRepo,
		fetch:          fetch,
		reindex:        reindex,
		pageSize:       pageSize,
		log:            log.With().Str("component", "search").Logger(),
	}
}

// RegisterSearchRoutes registers search-related routes
func (h *SearchHandler) RegisterSearchRoutes(g *echo.Group) {
	g.GET("/search/:collection", h.Search)
	g.POST("/search/reindex", h.Reindex)
}

// Search runs a full-text query over one collection and returns the matching
// entities in relevance order
func (h *SearchHandler) Search(c echo.Context) error {
	collection := c.Param("collection")
	fetch, ok := h.fetch[collection]
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown collection")
	}

	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing query parameter q")
	}

	page, limit := getPagination(c, h.pageSize)
	ids, total, err := h.sync.Query(c.Request().Context(), collection, query, page, limit)
	if err != nil {
		if errors.Is(err, search.ErrDisabled) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "Search is not available")
		}
		h.log.Error().Err(err).Str("collection", collection).Msg("index query failed")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Search is not available")
	}

	items, err := fetch(c.Request().Context(), ids)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": total, "page": page})
}

// Reindex rebuilds the index from stored entities. Admin only.
func (h *SearchHandler) Reindex(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), currentUserID)
	if err != nil || !user.IsAdmin() {
		return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
	}

	if !h.sync.Enabled() {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Search is not available")
	}

	for collection, rebuild := range h.reindex {
		if err := rebuild(c.Request().Context()); err != nil {
			h.log.Error().Err(err).Str("collection", collection).Msg("reindex failed")
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		h.log.Info().Str("collection", collection).Msg("reindexed")
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
