package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"ytvd/internal/crawler"
	"ytvd/internal/db"
	"ytvd/pkg/tasks"
)

// TaskHandler executes crawl tasks pulled off the queue.
type TaskHandler struct {
	asynqClient tasks.TaskEnqueuer
	crawler     *crawler.Crawler
}

func NewTaskHandler(client tasks.TaskEnqueuer, c *crawler.Crawler) *TaskHandler {
	return &TaskHandler{asynqClient: client, crawler: c}
}

// HandleCrawlAllSubscriptionsTask fans the hourly sweep out into one task
// per subscription, so each gets asynq's retry handling independently.
func (h *TaskHandler) HandleCrawlAllSubscriptionsTask(ctx context.Context, t *asynq.Task) error {
	log.Println("Checking all subscriptions...")

	subscriptions, err := db.GetAllSubscriptions()
	if err != nil {
		return fmt.Errorf("failed to get all subscriptions: %w", err)
	}

	for _, sub := range subscriptions {
		task, err := tasks.NewCrawlSubscriptionTask(sub.ID)
		if err != nil {
			log.Printf("failed to create crawl task for subscription %d: %v", sub.ID, err)
			continue
		}

		_, err = h.asynqClient.Enqueue(task)
		if err != nil {
			log.Printf("failed to enqueue crawl task for subscription %d: %v", sub.ID, err)
			continue
		}
	}

	log.Println("Finished checking all subscriptions.")
	return nil
}

func (h *TaskHandler) HandleCrawlSubscriptionTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.CrawlSubscriptionTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}
	log.Printf("Crawling subscription: %d", p.SubscriptionID)

	subscription, err := db.GetSubscriptionByID(p.SubscriptionID)
	if err != nil {
		return fmt.Errorf("failed to get subscription by id: %w", err)
	}

	return h.crawler.CrawlSubscription(ctx, &subscription)
}

// HandleCrawlUserTask runs a full crawl of one user's subscriptions, as
// triggered from the web UI's crawl-now button.
func (h *TaskHandler) HandleCrawlUserTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.CrawlUserTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}
	log.Printf("Crawling subscriptions for user: %d", p.UserID)

	user, err := db.GetUserByID(p.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	return h.crawler.Crawl(ctx, &user)
}
