package main

import (
	"context"
	"embed"
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ndbelov/planner/internal/app"
	"github.com/ndbelov/planner/internal/auth"
	"github.com/ndbelov/planner/internal/commands"
	"github.com/ndbelov/planner/internal/config"
	"github.com/ndbelov/planner/internal/event"
	"github.com/ndbelov/planner/internal/store"
)

//go:embed static/*
var staticFiles embed.FS

//go:embed static/index.html
var indexHTML []byte

//go:embed static/manifest.webmanifest
var manifest []byte

//go:embed static/sw.js
var swScript []byte

func main() {
	// Check for subcommands
	if len(os.Args) > 1 && os.Args[1] == "useradd" {
		commands.UserAdd(os.Args[2:])
		return
	}

	// Parse flags
	configPath := flag.String("config", "planner.yaml", "Path to config file")
	listen := flag.String("listen", "", "Listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	eventStore, err := store.NewFileStore(filepath.Join(cfg.DataDir, "events.json"))
	if err != nil {
		log.Fatalf("Failed to open event store: %v", err)
	}

	authSvc, err := auth.NewService(filepath.Join(cfg.DataDir, "users.json"), cfg.SessionTTLDuration())
	if err != nil {
		log.Fatalf("Failed to open account store: %v", err)
	}

	sweeper, err := authSvc.StartSweeper(cfg.SessionSweep)
	if err != nil {
		log.Fatalf("Failed to start session sweeper: %v", err)
	}
	defer sweeper.Stop()

	a := app.New(eventStore, authSvc, event.WeekStart(cfg.WeekStart), cfg.DayStart, cfg.SessionTTLDuration())
	a.IndexHTML = indexHTML
	a.Manifest = manifest
	a.SWScript = swScript

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.WatchOwnerChanges(ctx)

	// Setup routes
	http.HandleFunc("/", a.ServeIndex)
	http.HandleFunc("/manifest.webmanifest", a.ServeManifest)
	http.HandleFunc("/sw.js", a.ServeWorker)
	http.HandleFunc("/api/auth/signup", a.HandleSignUp)
	http.HandleFunc("/api/auth/signin", a.HandleSignIn)
	http.HandleFunc("/api/auth/signout", a.HandleSignOut)

	// Owner-scoped routes
	http.HandleFunc("/api/session", a.RequireOwner(a.HandleSession))
	http.HandleFunc("/api/events", a.RequireOwner(eventsDispatch(a)))
	http.HandleFunc("/api/events/update", a.RequireOwner(a.HandleUpdateEvent))
	http.HandleFunc("/api/events/delete", a.RequireOwner(a.HandleDeleteEvent))
	http.HandleFunc("/api/view", a.RequireOwner(a.HandleView))
	http.HandleFunc("/api/buckets", a.RequireOwner(a.HandleBuckets))
	http.HandleFunc("/api/day", a.RequireOwner(a.HandleDay))
	http.HandleFunc("/api/select", a.RequireOwner(a.HandleSelect))
	http.HandleFunc("/api/export", a.RequireOwner(a.HandleExport))

	// Serve static files
	http.Handle("/static/", http.FileServer(http.FS(staticFiles)))

	log.Printf("Starting planner on http://%s", cfg.Listen)
	log.Printf("Data directory: %s", cfg.DataDir)
	if err := http.ListenAndServe(cfg.Listen, nil); err != nil {
		log.Fatal(err)
	}
}

// eventsDispatch routes GET to the list handler and POST to create.
func eventsDispatch(a *app.App) func(w http.ResponseWriter, r *http.Request, ownerID string) {
	return func(w http.ResponseWriter, r *http.Request, ownerID string) {
		switch r.Method {
		case http.MethodGet:
			a.HandleEvents(w, r, ownerID)
		case http.MethodPost:
			a.HandleCreateEvent(w, r, ownerID)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
