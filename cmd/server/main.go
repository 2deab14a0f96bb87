package main

import (
	"html/template"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"ytvd/internal/db"
	gqlschema "ytvd/internal/graphql"
	"ytvd/internal/handlers"
	"ytvd/internal/middleware"
	"ytvd/internal/youtube"
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
	ytClient := youtube.NewClient(apiKey)

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer asynqClient.Close()

	templates := template.Must(template.ParseGlob(filepath.Join("web", "templates", "*.html")))

	schema, err := gqlschema.NewSchema()
	if err != nil {
		log.Fatalf("could not build graphql schema: %v", err)
	}

	h := handlers.New(templates, asynqClient, ytClient, schema)
	rl := middleware.NewRateLimiterMiddleware(rate.Limit(5), 10)

	r := mux.NewRouter()
	r.HandleFunc("/login", h.PostLogin).Methods(http.MethodPost)

	authed := r.PathPrefix("/").Subrouter()
	authed.Use(middleware.AuthMiddleware, rl.Middleware)
	authed.HandleFunc("/", h.Index).Methods(http.MethodGet)
	authed.HandleFunc("/search", h.GetSearch).Methods(http.MethodGet)
	authed.HandleFunc("/search", h.PostSearch).Methods(http.MethodPost)
	authed.HandleFunc("/subscriptions", h.GetSubscriptions).Methods(http.MethodGet)
	authed.HandleFunc("/subscriptions", h.PostSubscription).Methods(http.MethodPost)
	authed.HandleFunc("/subscriptions/{id:[0-9]+}", h.DeleteSubscription).Methods(http.MethodDelete)
	authed.HandleFunc("/feed", h.GetFeed).Methods(http.MethodGet)
	authed.HandleFunc("/videos/{id:[0-9]+}/watched", h.PostMarkWatched).Methods(http.MethodPost)
	authed.HandleFunc("/crawl", h.PostCrawlNow).Methods(http.MethodPost)
	authed.HandleFunc("/graphql", h.PostGraphQL).Methods(http.MethodPost)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on :%s (commit: %s)", port, CommitSHA)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}
