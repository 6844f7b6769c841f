package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"onnrides/internal/notifications"
	"onnrides/internal/repositories"
	"onnrides/internal/services"
	"onnrides/internal/utils"
)

// StartReminderJob schedules the daily payment reminder scan. Returns the
// running scheduler so main can stop it on shutdown; nil when the schedule is
// empty or invalid.
func StartReminderJob(spec string, sender notifications.Sender) *cron.Cron {
	if spec == "" {
		utils.LogEvent("", "jobs", "reminder", "schedule empty, reminder job disabled")
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		svc := services.ReminderService{
			BookingRepo: repositories.BookingRepository{},
			Notifier:    sender,
			RequestID:   "cron",
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := svc.SendPaymentReminders(ctx, time.Now()); err != nil {
			utils.LogEvent("cron", "jobs", "reminder", "scan failed: "+err.Error())
		}
	})
	if err != nil {
		utils.LogEvent("", "jobs", "reminder", "invalid schedule "+spec+": "+err.Error())
		return nil
	}

	c.Start()
	utils.LogEvent("", "jobs", "reminder", "scheduled with spec "+spec)
	return c
}
