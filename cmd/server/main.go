// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/nexify/go-nexify/internal/config"
	"github.com/nexify/go-nexify/internal/domain"
	"github.com/nexify/go-nexify/internal/handlers"
	"github.com/nexify/go-nexify/internal/middleware"
	"github.com/nexify/go-nexify/internal/repository/chat"
	"github.com/nexify/go-nexify/internal/repository/message"
	"github.com/nexify/go-nexify/internal/services"
	"github.com/nexify/go-nexify/internal/services/ai"
	chatservice "github.com/nexify/go-nexify/internal/services/chat"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.Chat{}, &domain.Message{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	chatRepo := chat.NewChatRepository(db)
	messageRepo := message.NewMessageRepository(db)

	// --- Services ---
	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.GroqAPIKey
	aiConfig.BaseURL = cfg.GroqBaseURL
	if err := aiConfig.Validate(); err != nil {
		log.Fatalf("FATAL: Invalid AI configuration: %v", err)
	}
	provider := ai.NewOpenAIProvider(aiConfig)

	chatConfig := chatservice.DefaultConfig()
	chatConfig.ChatModel = cfg.ChatModelName
	chatConfig.TitleModel = cfg.TitleModelName
	if cfg.ContextWindowSize > 0 {
		chatConfig.ContextWindowSize = cfg.ContextWindowSize
	}

	logger := services.NewLogger("go_nexify")

	chatService, err := services.NewChatService(chatRepo, messageRepo, provider, chatConfig, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Chat Service: %v", err)
	}

	// --- Handlers ---
	chatHandler, err := handlers.NewChatHandler(chatService)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Chat Handler: %v", err)
	}

	// --- Router Setup ---
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); _, _ = w.Write([]byte("OK")) }).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/prompt", chatHandler.PromptGPT).Methods("POST")
	api.HandleFunc("/chats/today", chatHandler.TodaysChats).Methods("GET")
	api.HandleFunc("/chats/yesterday", chatHandler.YesterdaysChats).Methods("GET")
	api.HandleFunc("/chats/last-week", chatHandler.SevenDaysChats).Methods("GET")
	api.HandleFunc("/chats/{id}/messages", chatHandler.GetChatMessages).Methods("GET")

	// --- Server Configuration ---
	port := ":8080"
	if cfg.ServerPort != "" {
		port = ":" + cfg.ServerPort
	}
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	// --- Startup Logging ---
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("==================================================")
	log.Printf("Nexify - Chat Backend")
	log.Printf("==================================================")
	log.Printf("Server starting on port %s", port)
	log.Printf("Local access: http://localhost%s", port)
	log.Printf("==================================================")

	// --- Start Server in Goroutine ---
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
