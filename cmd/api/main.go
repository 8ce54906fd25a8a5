package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storyforge/internal/agent"
	"storyforge/internal/gateway/config"
	"storyforge/internal/gateway/handler"
	"storyforge/internal/gateway/server"
	"storyforge/internal/gateway/service/discovery"
	"storyforge/internal/gateway/service/publish"
	"storyforge/internal/gateway/service/runevents"
	"storyforge/internal/gateway/session"
	"storyforge/internal/llm"
	"storyforge/internal/scrape"
	"storyforge/internal/tracker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var client llm.Client
	var fetcher agent.PageFetcher
	if cfg.PipelineEnabled() {
		gemini, err := llm.NewGeminiClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Fatalf("Failed to initialize LLM client: %v", err)
		}
		defer gemini.Close()
		client = gemini
		fetcher = scrape.NewFetcher()
	} else {
		log.Printf("GEMINI_API_KEY not set; pipeline endpoints disabled")
	}

	trackerClient := tracker.New(tracker.Config{
		BaseURL:  cfg.Tracker.BaseURL,
		Email:    cfg.Tracker.Email,
		APIToken: cfg.Tracker.APIToken,
	})
	if !trackerClient.Configured() {
		log.Printf("tracker credentials not set; submission disabled")
	}

	sessions := session.NewStore()
	hub := runevents.NewHub()
	discoverySvc := discovery.New(client, fetcher, cfg.Tracker.ProjectKey, sessions, hub)
	publishSvc := publish.New(trackerClient, cfg.Tracker.ProjectKey)

	mux := server.NewMux(
		handler.NewStatusHandler(cfg, publishSvc),
		handler.NewDiscoveryHandler(discoverySvc),
		handler.NewSessionHandler(sessions),
		handler.NewTrackerHandler(publishSvc),
		handler.NewWatchHandler(hub),
	)
	srv := server.New(cfg.Port, mux)

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
