package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"ytvd/internal/db"
	"ytvd/internal/middleware"
	"ytvd/internal/models"
	"ytvd/internal/youtube"
	"ytvd/pkg/tasks"
)

const maxSubscriptionsPerUser = 50

// GetSearch renders the search form.
func (h *Handlers) GetSearch(w http.ResponseWriter, r *http.Request) {
	if err := h.templates.ExecuteTemplate(w, "search.html", nil); err != nil {
		log.Printf("Error executing template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// PostSearch runs a YouTube search and renders the classified results, from
// which the user can subscribe.
func (h *Handlers) PostSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	term := r.FormValue("term")
	if term == "" {
		http.Error(w, "Search term is required", http.StatusBadRequest)
		return
	}

	results, err := h.search.Search(r.Context(), term)
	if err != nil {
		log.Printf("Error searching for %q: %v", term, err)
		http.Error(w, "Search failed", http.StatusBadGateway)
		return
	}

	if err := h.templates.ExecuteTemplate(w, "search_results.html", results); err != nil {
		log.Printf("Error executing template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handlers) GetSubscriptions(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(middleware.UserContextKey).(*models.User)

	subscriptions, err := db.GetSubscriptionsByUserID(user.ID)
	if err != nil {
		log.Printf("Error getting subscriptions: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.templates.ExecuteTemplate(w, "subscriptions.html", subscriptions); err != nil {
		log.Printf("Error executing template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// PostSubscription creates a subscription from a search result and kicks
// off its first crawl.
func (h *Handlers) PostSubscription(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(middleware.UserContextKey).(*models.User)

	count, err := db.CountSubscriptionsByUserID(user.ID)
	if err != nil {
		log.Printf("Error counting subscriptions: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if count >= maxSubscriptionsPerUser {
		http.Error(w, "Subscription limit reached", http.StatusForbidden)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	youtubeID := r.FormValue("youtube_id")
	name := r.FormValue("name")
	itemType := r.FormValue("item_type")
	if youtubeID == "" || name == "" {
		http.Error(w, "youtube_id and name are required", http.StatusBadRequest)
		return
	}
	if _, err := youtube.ParseItemType(itemType); err != nil {
		http.Error(w, "Invalid item type", http.StatusBadRequest)
		return
	}

	sub, err := db.AddSubscription(user.ID, name, youtubeID, itemType)
	if err != nil {
		if errors.Is(err, db.ErrDuplicateSubscription) {
			http.Error(w, "You are already subscribed to this source.", http.StatusConflict)
			return
		}
		log.Printf("Error creating subscription: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Enqueue the first crawl so new videos show up without waiting for the
	// hourly sweep.
	task, err := tasks.NewCrawlSubscriptionTask(sub.ID)
	if err != nil {
		log.Printf("Error creating task: %v", err)
	} else {
		_, err = h.asynqClient.Enqueue(task)
		if err != nil {
			log.Printf("Error enqueuing task: %v", err)
		}
	}

	http.Redirect(w, r, "/subscriptions", http.StatusSeeOther)
}

func (h *Handlers) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(middleware.UserContextKey).(*models.User)
	vars := mux.Vars(r)
	subscriptionID, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "Invalid subscription ID", http.StatusBadRequest)
		return
	}

	err = db.DeleteSubscription(user.ID, subscriptionID)
	if err != nil {
		log.Printf("Error deleting subscription: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
