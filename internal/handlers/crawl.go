package handlers

import (
	"log"
	"net/http"

	"ytvd/internal/middleware"
	"ytvd/internal/models"
	"ytvd/pkg/tasks"
)

// PostCrawlNow enqueues an immediate crawl of all the user's subscriptions
// instead of waiting for the scheduler's next sweep.
func (h *Handlers) PostCrawlNow(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(middleware.UserContextKey).(*models.User)

	task, err := tasks.NewCrawlUserTask(user.ID)
	if err != nil {
		log.Printf("Error creating crawl task: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if _, err := h.asynqClient.Enqueue(task); err != nil {
		log.Printf("Error enqueuing crawl task: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
