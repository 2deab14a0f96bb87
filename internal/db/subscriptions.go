package db

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"ytvd/internal/models"
)

// ErrDuplicateSubscription reports that the user already has a subscription
// with the same youtube_id.
var ErrDuplicateSubscription = errors.New("subscription already exists")

func GetSubscriptionByID(id int) (models.Subscription, error) {
	subscription := models.Subscription{}
	err := DB.Get(&subscription, "SELECT * FROM subscriptions WHERE id = $1", id)
	return subscription, err
}

func GetSubscriptionsByUserID(userID int64) ([]models.Subscription, error) {
	query := `
		SELECT id, user_id, name, youtube_id, item_type, last_checked, created_at
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	var subscriptions []models.Subscription
	err := DB.Select(&subscriptions, query, userID)
	if err != nil {
		log.Printf("Error getting subscriptions for user %d: %v", userID, err)
		return nil, err
	}
	return subscriptions, nil
}

func GetAllSubscriptions() ([]models.Subscription, error) {
	var subscriptions []models.Subscription
	err := DB.Select(&subscriptions, "SELECT * FROM subscriptions ORDER BY id")
	return subscriptions, err
}

func CountSubscriptionsByUserID(userID int64) (int, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM subscriptions WHERE user_id = $1", userID)
	return count, err
}

// AddSubscription creates a subscription. The (user_id, youtube_id) pair is
// unique, so subscribing twice to the same source comes back as
// ErrDuplicateSubscription.
func AddSubscription(userID int64, name, youtubeID, itemType string) (*models.Subscription, error) {
	query := `
		INSERT INTO subscriptions (user_id, name, youtube_id, item_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, youtube_id, item_type, last_checked, created_at
	`
	sub := &models.Subscription{}
	err := DB.Get(sub, query, userID, name, youtubeID, itemType)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSubscription, youtubeID)
		}
		log.Printf("Error adding subscription for user %d: %v", userID, err)
		return nil, err
	}
	return sub, nil
}

func DeleteSubscription(userID int64, subscriptionID int) error {
	query := `
		DELETE FROM subscriptions
		WHERE id = $1 AND user_id = $2
	`
	_, err := DB.Exec(query, subscriptionID, userID)
	if err != nil {
		log.Printf("Error deleting subscription %d for user %d: %v", subscriptionID, userID, err)
		return err
	}
	return nil
}

// UpdateSubscriptionLastChecked advances the crawl watermark. The crawler
// is the only caller and always passes the time it captured at the start of
// the crawl pass.
func UpdateSubscriptionLastChecked(id int, lastChecked time.Time) error {
	_, err := DB.Exec("UPDATE subscriptions SET last_checked = $1 WHERE id = $2", lastChecked, id)
	return err
}

// isUniqueViolation reports whether err is Postgres error 23505.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
