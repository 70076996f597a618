package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/storycircle/backend/internal/mailer"
)

// ContactRequest defines the request body for the contact form
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"omitempty,max=200"`
	Message string `json:"message" validate:"required,min=1,max=5000"`
}

// ContactHandler forwards contact form submissions to the site operators
type ContactHandler struct {
	mailer     mailer.Mailer
	adminEmail string
	log        zerolog.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(m mailer.Mailer, adminEmail string, log zerolog.Logger) *ContactHandler {
	return &ContactHandler{mailer: m, adminEmail: adminEmail, log: log.With().Str("component", "contact").Logger()}
}

// RegisterContactRoutes registers the contact form route
func (h *ContactHandler) RegisterContactRoutes(g *echo.Group) {
	g.POST("/contact", h.Submit)
}

// Submit accepts a contact form submission and mails it to the admin address
func (h *ContactHandler) Submit(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	subject := req.Subject
	if subject == "" {
		subject = "Contact form submission"
	}
	body := fmt.Sprintf("<p>From: %s &lt;%s&gt;</p><p>%s</p>", req.Name, req.Email, req.Message)

	go func() {
		if err := h.mailer.Send([]string{h.adminEmail}, subject, body); err != nil {
			h.log.Warn().Err(err).Msg("failed to deliver contact mail")
		}
	}()

	return c.JSON(http.StatusAccepted, echo.Map{"status": "received"})
}
