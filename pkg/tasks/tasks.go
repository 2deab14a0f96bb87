package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeCrawlSubscription     = "subscription:crawl"
	TypeCrawlUser             = "user:crawl"
	TypeCrawlAllSubscriptions = "subscriptions:crawl"
)

type CrawlSubscriptionTaskPayload struct {
	SubscriptionID int
}

func NewCrawlSubscriptionTask(subscriptionID int) (*asynq.Task, error) {
	payload, err := json.Marshal(CrawlSubscriptionTaskPayload{SubscriptionID: subscriptionID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCrawlSubscription, payload), nil
}

type CrawlUserTaskPayload struct {
	UserID int64
}

func NewCrawlUserTask(userID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(CrawlUserTaskPayload{UserID: userID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCrawlUser, payload), nil
}

func NewCrawlAllSubscriptionsTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeCrawlAllSubscriptions, nil), nil
}
