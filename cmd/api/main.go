package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"strings"

	"courseflow/internal/config"
	"courseflow/internal/http"
	"courseflow/internal/library"
	"courseflow/internal/localdir"
	"courseflow/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Directory access grants last one process run; re-authorization goes
	// through the terminal prompt below, reached only from explicit
	// authorize/link requests.
	dirs := localdir.NewManager(localdir.PrompterFunc(promptOnTerminal))

	svc := library.NewService(library.Deps{
		Courses:  storage.NewCourseRepo(db),
		Sections: storage.NewSectionRepo(db),
		Videos:   storage.NewVideoRepo(db),
		Progress: storage.NewProgressRepo(db),
		Notes:    storage.NewNoteRepo(db),
		Tasks:    storage.NewTaskRepo(db),
		Settings: storage.NewSettingsRepo(db),
		Dirs:     dirs,
	}, library.Policy{
		CompletionThreshold: cfg.CompletionThreshold,
		CheckpointInterval:  cfg.CheckpointInterval,
		MaxEmbedBytes:       cfg.MaxEmbedBytes,
		QuotaBytes:          cfg.StorageQuotaBytes,
		DBPath:              cfg.DBPath,
	})
	slog.Info("Library service initialized",
		"completion_threshold", cfg.CompletionThreshold,
		"checkpoint_interval", cfg.CheckpointInterval)

	router := http.NewRouter(&http.Deps{
		Service: svc,
		DB:      db,
	})

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}

// promptOnTerminal asks for directory access on stdin. It blocks the
// requesting API call until the user answers.
func promptOnTerminal(_ context.Context, ref localdir.Ref, write bool) (bool, error) {
	mode := "read"
	if write {
		mode = "read-write"
	}
	fmt.Printf("Grant %s access to %q for this session? [y/N] ", mode, ref.Root)

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
