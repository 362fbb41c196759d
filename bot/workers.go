package bot

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"wagerbot/application"
)

// StartReminderWorker periodically DMs players who have not paid into a pending wager.
// Returns a cleanup function to stop the worker gracefully.
func (b *Bot) StartReminderWorker(ctx context.Context, interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	stopChan := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer ticker.Stop()
		log.WithField("interval", interval).Info("Payment reminder worker started")

		for {
			select {
			case <-ctx.Done():
				log.Info("Payment reminder worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Payment reminder worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				b.sendPaymentReminders(ctx)
			}
		}
	}()

	return func() {
		close(stopChan)
		<-done
	}
}

// sendPaymentReminders DMs every unpaid player of every underfunded pending wager
func (b *Bot) sendPaymentReminders(ctx context.Context) {
	underfunded, err := b.wagerService.ListUnderfundedPendingWagers(ctx)
	if err != nil {
		log.Errorf("Error listing underfunded wagers: %v", err)
		return
	}

	sent := 0
	for _, u := range underfunded {
		for _, userID := range u.UnpaidUserIDs {
			target := application.Target{UserID: userID}
			if err := b.notifier.Notify(ctx, target, application.NotificationPaymentReminder, u.Wager); err != nil {
				log.WithFields(log.Fields{
					"wager_id": u.Wager.ID,
					"user_id":  userID,
				}).Warnf("Failed to send payment reminder: %v", err)
				continue
			}
			sent++
		}
	}

	if len(underfunded) > 0 {
		log.WithFields(log.Fields{
			"wagers":    len(underfunded),
			"reminders": sent,
		}).Info("Payment reminders sent")
	}
}
