package cron

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"linque/config"
	"linque/models"
	"linque/services/tasks"
)

// ReminderQueue enqueues day-of reminders for new reservations. It implements
// booking.ReminderScheduler.
type ReminderQueue struct {
	client   *asynq.Client
	fireTime string
	logger   *zap.Logger
}

// NewReminderQueue constructs the asynq client for the reminder queue.
func NewReminderQueue(logger *zap.Logger) *ReminderQueue {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	return &ReminderQueue{
		client:   client,
		fireTime: config.AppConfig.ReminderFireTime,
		logger:   logger,
	}
}

// ScheduleReminder enqueues a reminder that fires on the morning of the
// reservation date. Same-day bookings after the fire time get no automatic
// reminder; the vendor can still trigger one manually.
func (q *ReminderQueue) ScheduleReminder(res *models.Reservation) error {
	fireAt, err := time.ParseInLocation("2006-01-02 15:04", res.Date+" "+q.fireTime, time.Local)
	if err != nil {
		return fmt.Errorf("invalid reminder fire time: %w", err)
	}
	if fireAt.Before(time.Now()) {
		q.logger.Debug("skipping reminder for same-day booking",
			zap.String("reservationId", res.ID), zap.String("date", res.Date))
		return nil
	}

	payload := models.ReminderPayload{
		ReservationID: res.ID,
		FireDate:      fireAt.Format(time.RFC3339),
	}
	task, opts, err := tasks.NewReminderTask(payload, fireAt)
	if err != nil {
		return err
	}
	if _, err := q.client.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("enqueueing reminder: %w", err)
	}
	return nil
}
