/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the schedule and dues ledger server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Seed the default shift catalog on first run
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: daman.db)
           Use ":memory:" for an in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/daman.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on different port
  ./server -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alfians29/app-daman-sub000/api"
	"github.com/Alfians29/app-daman-sub000/shift"
	"github.com/Alfians29/app-daman-sub000/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "daman.db", "SQLite database path")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Seed the default catalog so a fresh install can render a schedule
	if err := seedShiftCatalog(context.Background(), store); err != nil {
		log.Printf("Warning: failed to seed shift catalog: %v", err)
	}

	// Create router
	router := api.NewRouter(api.NewHandler(store))

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// seedShiftCatalog installs the default shift types if none exist yet.
// Existing codes are never overwritten.
func seedShiftCatalog(ctx context.Context, store *sqlite.Store) error {
	catalog, err := store.Catalog(ctx)
	if err != nil {
		return err
	}
	if catalog.Len() > 0 {
		return nil
	}
	for _, t := range []shift.Type{
		{Code: "PAGI", DisplayName: "Pagi", Color: "#fde047"},
		{Code: "SIANG", DisplayName: "Siang", Color: "#93c5fd"},
		{Code: "MALAM", DisplayName: "Malam", Color: "#a78bfa"},
		{Code: "OFF", DisplayName: "Libur", Color: "#d1d5db", IsDayOff: true},
	} {
		if err := store.SaveShiftType(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
