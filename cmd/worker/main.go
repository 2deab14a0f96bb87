package main

import (
	"log"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"ytvd/internal/crawler"
	"ytvd/internal/db"
	"ytvd/internal/worker"
	"ytvd/internal/youtube"
	"ytvd/pkg/tasks"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	db.InitDB()

	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		log.Fatal("GOOGLE_API_KEY is not set")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer client.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			// A handful of tasks at a time; the API client's own rate
			// limiter keeps us inside quota.
			Concurrency: 4,
			Queues: map[string]int{
				"high":    2,
				"default": 1,
			},
			// Custom retry delay function for exponential backoff
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				delay := 5 * time.Minute
				maxDelay := 24 * time.Hour

				// Exponential backoff: 5min, 10min, 20min, 40min, 80min, etc.
				for i := 0; i < n; i++ {
					delay *= 2
					if delay > maxDelay {
						delay = maxDelay
						break
					}
				}

				log.Printf("Task %s failed %d times, retrying in %v", task.Type(), n+1, delay)
				return delay
			},
		},
	)

	c := crawler.New(youtube.NewClient(apiKey))

	mux := asynq.NewServeMux()
	taskHandler := worker.NewTaskHandler(client, c)

	mux.HandleFunc(tasks.TypeCrawlSubscription, taskHandler.HandleCrawlSubscriptionTask)
	mux.HandleFunc(tasks.TypeCrawlUser, taskHandler.HandleCrawlUserTask)
	mux.HandleFunc(tasks.TypeCrawlAllSubscriptions, taskHandler.HandleCrawlAllSubscriptionsTask)

	log.Printf("Worker starting (commit: %s)", CommitSHA)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
