// Package main runs the HTTP service exposing persisted play-test analyses.
// The server is read-only over the session store; sessions are written by the
// playtest-report CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/banshee-data/playtest.report/internal/api"
	"github.com/banshee-data/playtest.report/internal/db"
	"github.com/banshee-data/playtest.report/internal/units"
	"github.com/banshee-data/playtest.report/internal/version"
)

var (
	dbPath        = flag.String("db", "", "Path to the session database (default $PLAYTEST_DB or playtest.db)")
	listen        = flag.String("listen", "", "Listen address (default $PLAYTEST_LISTEN or :8080)")
	displayUnits  = flag.String("units", units.UPS, "Display units for speeds in API responses: ups, mps, mph, kmph, kph")
	debugMode     = flag.Bool("debug", false, "Attach admin debug routes (tailsql browser, backup endpoint)")
	retentionDays = flag.Int("retention-days", 0, "Delete sessions older than this many days (0 = keep forever)")
	showVersion   = flag.Bool("version", false, "Print version and exit")
)

// envOr resolves a setting with flag > environment > default precedence.
func envOr(flagValue, envKey, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return fallback
}

func main() {
	// A missing .env file is fine; environment variables still apply.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("playtest-server %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	dbFile := envOr(*dbPath, "PLAYTEST_DB", "playtest.db")
	addr := envOr(*listen, "PLAYTEST_LISTEN", ":8080")

	if !units.IsValid(*displayUnits) {
		log.Fatalf("invalid units %q (valid: %s)", *displayUnits, units.GetValidUnitsString())
	}

	database, err := db.NewDB(dbFile)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()
	log.Printf("opened session database %s", dbFile)

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *retentionDays > 0 {
		worker := db.NewRetentionWorker(database, time.Duration(*retentionDays)*24*time.Hour)
		worker.Start()
		defer worker.Stop()
		log.Printf("retention worker started (max age %dd)", *retentionDays)
	}

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := api.NewServer(database, *displayUnits).ServeMux()
		if *debugMode {
			database.AttachAdminRoutes(mux)
			log.Print("admin debug routes attached")
		}

		server := &http.Server{
			Addr:    addr,
			Handler: api.LoggingMiddleware(mux),
		}

		go func() {
			log.Printf("listening on %s", addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			if err := server.Close(); err != nil {
				log.Printf("HTTP server force close error: %v", err)
			}
		}
	}()

	wg.Wait()
	log.Printf("graceful shutdown complete")
}
