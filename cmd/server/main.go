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

	"github.com/opsdesk/opsdesk/internal/api"
	"github.com/opsdesk/opsdesk/internal/config"
	"github.com/opsdesk/opsdesk/internal/core"
	"github.com/opsdesk/opsdesk/internal/ingest"
	"github.com/opsdesk/opsdesk/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Command line flag for a boot-time context dataset
	contextFileFlag := flag.String("context", config.AppConfig.ContextFile, "Load a context data file (.json, .xlsx, or .pdf) at startup")
	flag.Parse()

	// Initialize session store
	sessionStore := store.NewMemoryStore()

	// Initialize LLM service
	llmService := core.NewLLMService()
	defer llmService.Close()

	// Load the grounding dataset: built-in default, optionally replaced at boot
	contextData := ingest.NewHolder(ingest.DefaultData())
	if *contextFileFlag != "" {
		raw, err := os.ReadFile(*contextFileFlag)
		if err != nil {
			log.Fatalf("Failed to read context file %s: %v", *contextFileFlag, err)
		}
		parsed, err := ingest.Parse(*contextFileFlag, raw)
		if err != nil {
			log.Fatalf("Failed to parse context file %s: %v", *contextFileFlag, err)
		}
		contextData.Replace(parsed)
		log.Printf("Loaded context data from %s: %d inventory records, %d knowledge base records",
			*contextFileFlag, len(parsed.Inventory), len(parsed.KnowledgeBase))
	} else {
		log.Println("Using built-in default context data")
	}

	// Initialize Chat service
	chatService := core.NewChatService(sessionStore, llmService, contextData)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(chatService, sessionStore, contextData)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second, // Adjusted for potentially slower LLM handshakes
		WriteTimeout: 60 * time.Second, // LLM calls can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give active connections time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
