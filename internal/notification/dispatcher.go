package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ReubenWash/reubensocials-backend/internal/logger"
	"github.com/ReubenWash/reubensocials-backend/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "notifications"
	failedQueueKey = "notifications:failed"
	maxTries       = 3
)

type Job struct {
	RecipientID int64     `json:"recipient_id"`
	SenderID    int64     `json:"sender_id"`
	Type        string    `json:"type"`
	Content     string    `json:"content"`
	Link        string    `json:"link"`
	Tries       int       `json:"tries"`
	Created     time.Time `json:"created"`
}

// Dispatcher is the fire-and-forget notification sink. Producers enqueue
// jobs onto a Redis list; a background loop drains the list into the
// notifications table. A failing sink never affects the producing request.
type Dispatcher struct {
	redis *redis.Client
	repo  *Repository
}

func New(redisAddr string, repo *Repository) *Dispatcher {
	return &Dispatcher{
		redis: redis.NewClient(&redis.Options{Addr: redisAddr}),
		repo:  repo,
	}
}

// NewWithClient wires an existing Redis client, used by tests.
func NewWithClient(client *redis.Client, repo *Repository) *Dispatcher {
	return &Dispatcher{redis: client, repo: repo}
}

// Notify queues one notification. Errors are logged and swallowed: the
// sink must never roll back the operation that triggered it.
func (d *Dispatcher) Notify(ctx context.Context, recipientID, senderID int64, notifType, content, link string) {
	job := Job{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        notifType,
		Content:     content,
		Link:        link,
		Tries:       0,
		Created:     time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal notification job: %v", err)
		metrics.RecordNotification(notifType, "error")
		return
	}

	if err := d.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue notification for user %d: %v", recipientID, err)
		metrics.RecordNotification(notifType, "error")
		return
	}

	if length, err := d.redis.LLen(ctx, queueKey).Result(); err == nil {
		metrics.NotificationQueueLength.Set(float64(length))
	}
	metrics.RecordNotification(notifType, "queued")
}

func (d *Dispatcher) Start(ctx context.Context) {
	logger.Info("Notification dispatcher started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification dispatcher stopped")
			return
		default:
			d.processNext(ctx)
		}
	}
}

func (d *Dispatcher) processNext(ctx context.Context) {
	result, err := d.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad notification data: %v", err)
		return
	}

	job.Tries++
	var senderID *int64
	if job.SenderID != 0 {
		senderID = &job.SenderID
	}

	if _, err := d.repo.Create(ctx, job.RecipientID, senderID, job.Type, job.Content, job.Link); err != nil {
		logger.Errorf("Failed to store notification for user %d: %v", job.RecipientID, err)

		if job.Tries < maxTries {
			data, _ := json.Marshal(job)
			d.redis.LPush(context.Background(), queueKey, data)
			return
		}

		logger.Errorf("Notification for user %d dropped after %d attempts", job.RecipientID, maxTries)
		metrics.RecordNotification(job.Type, "dropped")
		data, _ := json.Marshal(job)
		d.redis.LPush(context.Background(), failedQueueKey, data)
		return
	}

	metrics.RecordNotification(job.Type, "stored")
}

func (d *Dispatcher) Close() error {
	return d.redis.Close()
}
