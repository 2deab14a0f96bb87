package handlers

import (
	"context"
	"html/template"
	"net/http"

	"github.com/graphql-go/graphql"

	"ytvd/internal/middleware"
	"ytvd/internal/models"
	"ytvd/internal/youtube"
	"ytvd/pkg/tasks"
)

// SearchClient is the slice of the YouTube client the web layer uses.
type SearchClient interface {
	Search(ctx context.Context, term string) ([]youtube.SearchResult, error)
}

type Handlers struct {
	templates   *template.Template
	asynqClient tasks.TaskEnqueuer
	search      SearchClient
	schema      graphql.Schema
}

func New(templates *template.Template, asynqClient tasks.TaskEnqueuer, search SearchClient, schema graphql.Schema) *Handlers {
	return &Handlers{
		templates:   templates,
		asynqClient: asynqClient,
		search:      search,
		schema:      schema,
	}
}

func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(middleware.UserContextKey).(*models.User)
	if err := h.templates.ExecuteTemplate(w, "index.html", user); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// PostLogin sets the session cookie. The user row itself is created lazily
// by the auth middleware on the first authenticated request.
func (h *Handlers) PostLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	if username == "" {
		http.Error(w, "Username is required", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    username,
		Path:     "/",
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
