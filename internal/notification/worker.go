package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"timeclock-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// AcceptedPunch is the job payload for one accepted clock-in.
type AcceptedPunch struct {
	WorkerName string
	ClockTime  string
}

// WorkerPool manages a pool of workers for sending clock-in notifications to
// subscribed supervisor devices. Delivery is best effort; a full queue drops
// the job rather than stalling ingestion.
type WorkerPool struct {
	size    int
	jobs    chan AcceptedPunch
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan AcceptedPunch, size*4), // Buffered channel
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Notification worker %d started", id)
	for {
		select {
		case punch := <-wp.jobs:
			wp.sendNotificationsForPunch(ctx, punch)
		case <-ctx.Done():
			log.Printf("Notification worker %d shutting down", id)
			return
		}
	}
}

// ClockInAccepted queues a punch for fan-out. Implements clockin.Notifier.
func (wp *WorkerPool) ClockInAccepted(workerName, clockTime string) {
	select {
	case wp.jobs <- AcceptedPunch{WorkerName: workerName, ClockTime: clockTime}:
	default:
		log.Printf("Notification queue full, dropping punch for %s", workerName)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan AcceptedPunch {
	return wp.jobs
}

// sendNotificationsForPunch fetches all subscriptions and notifies each one.
func (wp *WorkerPool) sendNotificationsForPunch(ctx context.Context, punch AcceptedPunch) {
	var subscriptions []model.PushSubscription
	if err := wp.db.WithContext(ctx).Find(&subscriptions).Error; err != nil {
		log.Printf("Error fetching push subscriptions: %v", err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	message := fmt.Sprintf("%s clocked in at %s", punch.WorkerName, punch.ClockTime)
	log.Printf("Sending %d notifications: %s", len(subscriptions), message)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
