package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"ytvd/internal/db"
	"ytvd/internal/middleware"
	"ytvd/internal/models"
)

// GetFeed renders the user's video feed, unwatched first.
func (h *Handlers) GetFeed(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(middleware.UserContextKey).(*models.User)

	videos, err := db.ListVideosByUserID(user.ID)
	if err != nil {
		log.Printf("Error listing videos: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.templates.ExecuteTemplate(w, "feed.html", videos); err != nil {
		log.Printf("Error executing template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// PostMarkWatched flips a video's watched flag. This is the only writer of
// that column; the crawler never updates videos once created.
func (h *Handlers) PostMarkWatched(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(middleware.UserContextKey).(*models.User)
	vars := mux.Vars(r)
	videoID, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "Invalid video ID", http.StatusBadRequest)
		return
	}

	if err := db.MarkVideoWatched(user.ID, videoID); err != nil {
		log.Printf("Error marking video watched: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
