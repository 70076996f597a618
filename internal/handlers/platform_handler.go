package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/storycircle/backend/internal/models"
	"github.com/storycircle/backend/internal/repositories"
)

// PlatformHandler wraps the generic content handler for platforms, whose
// create request carries a description instead of a story. Everything except
// creation is delegated to the embedded handler.
type PlatformHandler struct {
	*ContentHandler[models.Platform, *models.Platform]
}

// NewPlatformHandler creates a new PlatformHandler
func NewPlatformHandler(platformRepo *repositories.ContentRepository[models.Platform, *models.Platform], userRepo repositories.UserRepository, pageSize int) *PlatformHandler {
	inner := NewContentHandler(
		platformRepo,
		userRepo,
		"platforms",
		nil, // creation is handled below, with the platform-specific request
		func(p *models.Platform, req models.UpdateContentRequest) {
			if req.City != "" {
				p.City = req.City
			}
			if req.Category != "" {
				p.Category = req.Category
			}
			if req.Title != "" {
				p.Title = req.Title
			}
			if req.Description != "" {
				p.Description = req.Description
			} else if req.Story != "" {
				p.Description = req.Story
			}
			if req.Summary != "" {
				p.Summary = req.Summary
			}
		},
		func(p *models.Platform) uint { return p.UserID },
		pageSize,
	)
	return &PlatformHandler{ContentHandler: inner}
}

// RegisterPlatformRoutes registers platform routes. Registration is spelled
// out here so that POST binds the platform-specific Create rather than the
// embedded one.
func (h *PlatformHandler) RegisterPlatformRoutes(g *echo.Group) {
	g.POST("/platforms", h.Create)
	g.GET("/platforms", h.List)
	g.GET("/platforms/:id", h.Get)
	g.PUT("/platforms/:id", h.Update)
	g.DELETE("/platforms/:id", h.Delete)
	g.GET("/users/:id/platforms", h.ListByAuthor)
}

// Create inserts a new platform authored by the current user
func (h *PlatformHandler) Create(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Authenticated user not found in database")
	}
	if !user.Can(models.PermissionWrite) {
		return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
	}

	var req models.CreatePlatformRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	platform := &models.Platform{
		UserID:      currentUserID,
		City:        req.City,
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		Summary:     req.Summary,
	}
	if err := h.contentRepository.Create(c.Request().Context(), platform); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, platform)
}
