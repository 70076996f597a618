package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/storycircle/backend/internal/models"
	"github.com/storycircle/backend/internal/repositories"
	"gorm.io/gorm"
)

// ContentHandler handles CRUD for one story-shaped content kind (posts and
// blogs share the same request shape). The build and apply funcs bind the
// request DTOs to the concrete entity; ownerID reports the author for the
// author-only update/delete checks.
type ContentHandler[T any, P repositories.SearchablePtr[T]] struct {
	contentRepository *repositories.ContentRepository[T, P]
	userRepository    repositories.UserRepository
	prefix            string
	build             func(req models.CreateContentRequest, userID uint) P
	apply             func(entity P, req models.UpdateContentRequest)
	ownerID           func(entity P) uint
	pageSize          int
}

// NewContentHandler creates a ContentHandler for one content kind
func NewContentHandler[T any, P repositories.SearchablePtr[T]](
	contentRepo *repositories.ContentRepository[T, P],
	userRepo repositories.UserRepository,
	prefix string,
	build func(req models.CreateContentRequest, userID uint) P,
	apply func(entity P, req models.UpdateContentRequest),
	ownerID func(entity P) uint,
	pageSize int,
) *ContentHandler[T, P] {
	return &ContentHandler[T, P]{
		contentRepository: contentRepo,
		userRepository:    userRepo,
		prefix:            prefix,
		build:             build,
		apply:             apply,
		ownerID:           ownerID,
		pageSize:          pageSize,
	}
}

// RegisterContentRoutes registers CRUD routes under the handler's prefix
func (h *ContentHandler[T, P]) RegisterContentRoutes(g *echo.Group) {
	g.POST("/"+h.prefix, h.Create)
	g.GET("/"+h.prefix, h.List)
	g.GET("/"+h.prefix+"/:id", h.Get)
	g.PUT("/"+h.prefix+"/:id", h.Update)
	g.DELETE("/"+h.prefix+"/:id", h.Delete)
	g.GET("/users/:id/"+h.prefix, h.ListByAuthor)
}

// Create inserts a new entity authored by the current user
func (h *ContentHandler[T, P]) Create(c echo.Context) error {
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

	var req models.CreateContentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entity := h.build(req, currentUserID)
	if err := h.contentRepository.Create(c.Request().Context(), entity); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, entity)
}

// Get retrieves one entity by ID
func (h *ContentHandler[T, P]) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid ID")
	}

	entity, err := h.contentRepository.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, entity)
}

// List returns a page of entities, newest first
func (h *ContentHandler[T, P]) List(c echo.Context) error {
	page, limit := getPagination(c, h.pageSize)
	entities, total, err := h.contentRepository.List(c.Request().Context(), page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"items": entities, "total": total, "page": page})
}

// ListByAuthor returns a page of one author's entities, newest first
func (h *ContentHandler[T, P]) ListByAuthor(c echo.Context) error {
	authorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	page, limit := getPagination(c, h.pageSize)
	entities, total, err := h.contentRepository.ListByAuthor(c.Request().Context(), uint(authorID), page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"items": entities, "total": total, "page": page})
}

// Update modifies an entity. Only the author may update.
func (h *ContentHandler[T, P]) Update(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid ID")
	}

	entity, err := h.contentRepository.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if h.ownerID(entity) != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Not the author")
	}

	var req models.UpdateContentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.apply(entity, req)
	if err := h.contentRepository.Update(c.Request().Context(), entity); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, entity)
}

// Delete removes an entity. Only the author or an admin may delete.
func (h *ContentHandler[T, P]) Delete(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid ID")
	}

	entity, err := h.contentRepository.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.ownerID(entity) != currentUserID {
		user, err := h.userRepository.GetUserByID(c.Request().Context(), currentUserID)
		if err != nil || !user.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "Not the author")
		}
	}

	if err := h.contentRepository.Delete(c.Request().Context(), entity); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
