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

// CommentHandler handles comments for every commentable parent kind.
// The exists map verifies, per kind, that the parent entity is persisted
// before a comment is attached to it.
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	userRepository    repositories.UserRepository
	exists            map[models.TargetKind]TargetExistsFunc
	pageSize          int
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, userRepo repositories.UserRepository, exists map[models.TargetKind]TargetExistsFunc, pageSize int) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		userRepository:    userRepo,
		exists:            exists,
		pageSize:          pageSize,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/comments/:kind/:id", h.CreateComment)
	g.GET("/comments/:kind/:id", h.GetComments)
	g.PUT("/comments/:id/disabled", h.SetDisabled)
	g.DELETE("/comments/:id", h.DeleteComment)
}

func (h *CommentHandler) resolveParent(c echo.Context) (models.TargetKind, uint, error) {
	kind := models.TargetKind(c.Param("kind"))
	if _, ok := h.exists[kind]; !ok {
		return "", 0, echo.NewHTTPError(http.StatusBadRequest, "Unknown parent kind")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return "", 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid parent ID")
	}

	found, err := h.exists[kind](c.Request().Context(), uint(id))
	if err != nil {
		return "", 0, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !found {
		return "", 0, echo.NewHTTPError(http.StatusNotFound, "Parent not found")
	}
	return kind, uint(id), nil
}

// CreateComment attaches a comment to a parent entity
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Authenticated user not found in database")
	}
	if !user.Can(models.PermissionComment) {
		return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
	}

	kind, parentID, err := h.resolveParent(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment := &models.Comment{
		AuthorID:   currentUserID,
		ParentKind: kind,
		ParentID:   parentID,
		Body:       req.Body,
	}
	if err := h.commentRepository.CreateComment(c.Request().Context(), comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, comment)
}

// GetComments returns a parent's comments, oldest first. Disabled comments
// are excluded.
func (h *CommentHandler) GetComments(c echo.Context) error {
	kind, parentID, err := h.resolveParent(c)
	if err != nil {
		return err
	}

	page, limit := getPagination(c, h.pageSize)
	comments, total, err := h.commentRepository.GetCommentsByParent(c.Request().Context(), kind, parentID, page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"items": comments, "total": total, "page": page})
}

// SetDisabled hides or restores a comment. Moderator permission required.
func (h *CommentHandler) SetDisabled(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Authenticated user not found in database")
	}
	if !user.Can(models.PermissionModerate) && !user.IsAdmin() {
		return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	var req struct {
		Disabled bool `json:"disabled"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := h.commentRepository.SetDisabled(c.Request().Context(), uint(id), req.Disabled); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"id": uint(id), "disabled": req.Disabled})
}

// DeleteComment removes a comment. Only the author or an admin may delete.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if comment.AuthorID != currentUserID {
		user, err := h.userRepository.GetUserByID(c.Request().Context(), currentUserID)
		if err != nil || !user.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "Not the author")
		}
	}

	if err := h.commentRepository.DeleteComment(c.Request().Context(), uint(id)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
