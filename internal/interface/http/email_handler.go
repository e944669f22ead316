package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/frontfolio/frontfolio-api/internal/application"
	"github.com/frontfolio/frontfolio-api/pkg/mailer"
	"github.com/frontfolio/frontfolio-api/pkg/response"
	"github.com/frontfolio/frontfolio-api/pkg/validation"
)

// EmailHandler exposes a raw enqueue endpoint for operational mail
// (admin only; OTP mail goes through the auth flows instead).
type EmailHandler struct {
	Enqueuer application.EmailEnqueuer
	Logger   *logrus.Logger
}

func NewEmailHandler(enqueuer application.EmailEnqueuer, logger *logrus.Logger) *EmailHandler {
	return &EmailHandler{Enqueuer: enqueuer, Logger: logger}
}

type sendEmailRequest struct {
	To      string `json:"to" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Text    string `json:"text" binding:"required_without=HTML"`
	HTML    string `json:"html" binding:"required_without=Text"`
}

// Send POST /api/emails/send
func (h *EmailHandler) Send(c *gin.Context) {
	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	job := mailer.EmailJob{
		To:      req.To,
		Subject: req.Subject,
		Text:    req.Text,
		HTML:    req.HTML,
	}
	if err := h.Enqueuer.PublishJSON(c.Request.Context(), job); err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("email enqueue failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "the server encountered an unexpected issue, please try again later", nil)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"queued": true}, "email queued", nil)
}
