package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"onnrides/internal/http/middleware"
	"onnrides/internal/repositories"
	"onnrides/internal/services"
)

// POST /api/reminders/run (admin) triggers one reminder scan outside the
// scheduled window.
func RunPaymentReminders(c *gin.Context) {
	svc := services.ReminderService{
		BookingRepo: repositories.BookingRepository{},
		Notifier:    messageSender(),
		RequestID:   middleware.GetRequestID(c),
	}
	sent, err := svc.SendPaymentReminders(c.Request.Context(), time.Now())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "reminders_sent": sent})
}
