package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/nexify/go-nexify/internal/domain"
	"github.com/nexify/go-nexify/internal/repository/chat"
	"github.com/nexify/go-nexify/internal/repository/message"
	"github.com/nexify/go-nexify/internal/services"
	"github.com/nexify/go-nexify/internal/services/ai"
	chatservice "github.com/nexify/go-nexify/internal/services/chat"
)

type stubProvider struct {
	reply string
	err   error
}

func (p *stubProvider) GetCompletion(ctx context.Context, model string, messages []ai.Message) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func (p *stubProvider) HealthCheck(ctx context.Context) error { return nil }

// newTestRouter wires the full stack over in-memory sqlite with a stubbed
// completion provider.
func newTestRouter(t *testing.T, provider ai.CompletionProvider) (*mux.Router, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Chat{}, &domain.Message{}); err != nil {
		t.Fatalf("migrating schema: %v", err)
	}

	chatRepo := chat.NewChatRepository(db)
	messageRepo := message.NewMessageRepository(db)
	chatService, err := services.NewChatService(chatRepo, messageRepo, provider, chatservice.DefaultConfig(), &services.NoOpLogger{})
	if err != nil {
		t.Fatalf("NewChatService: %v", err)
	}
	handler, err := NewChatHandler(chatService)
	if err != nil {
		t.Fatalf("NewChatHandler: %v", err)
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/prompt", handler.PromptGPT).Methods("POST")
	api.HandleFunc("/chats/today", handler.TodaysChats).Methods("GET")
	api.HandleFunc("/chats/yesterday", handler.YesterdaysChats).Methods("GET")
	api.HandleFunc("/chats/last-week", handler.SevenDaysChats).Methods("GET")
	api.HandleFunc("/chats/{id}/messages", handler.GetChatMessages).Methods("GET")

	return r, db
}

func TestPromptGPT_Success(t *testing.T) {
	router, db := newTestRouter(t, &stubProvider{reply: "Hi there!"})

	req := httptest.NewRequest(http.MethodPost, "/api/prompt",
		strings.NewReader(`{"chat_id": "c1", "content": "Hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body["reply"] != "Hi there!" {
		t.Errorf("expected reply in body, got %q", body["reply"])
	}

	var chatCount, messageCount int64
	db.Model(&domain.Chat{}).Count(&chatCount)
	db.Model(&domain.Message{}).Count(&messageCount)
	if chatCount != 1 {
		t.Errorf("expected 1 chat, got %d", chatCount)
	}
	if messageCount != 2 {
		t.Errorf("expected 2 messages, got %d", messageCount)
	}
}

func TestPromptGPT_Validation(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectedErr string
	}{
		{"missing chat id", `{"chat_id": "", "content": "Hi"}`, "Chat ID was not provided."},
		{"missing content", `{"chat_id": "c1", "content": ""}`, "There was no prompt passed."},
		{"oversized chat id", `{"chat_id": "` + strings.Repeat("x", 101) + `", "content": "Hi"}`, "Chat ID must be 100 characters or less."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, db := newTestRouter(t, &stubProvider{reply: "unused"})

			req := httptest.NewRequest(http.MethodPost, "/api/prompt", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if body["error"] != tt.expectedErr {
				t.Errorf("expected error %q, got %q", tt.expectedErr, body["error"])
			}

			var chatCount, messageCount int64
			db.Model(&domain.Chat{}).Count(&chatCount)
			db.Model(&domain.Message{}).Count(&messageCount)
			if chatCount != 0 || messageCount != 0 {
				t.Errorf("validation failure must not write rows: chats=%d messages=%d", chatCount, messageCount)
			}
		})
	}
}

func TestPromptGPT_LongCompletionStillCreates(t *testing.T) {
	// A completion past the 200-character title bound must not fail the
	// request; the title is clamped and the cycle completes.
	router, db := newTestRouter(t, &stubProvider{reply: strings.Repeat("a", 250)})

	req := httptest.NewRequest(http.MethodPost, "/api/prompt",
		strings.NewReader(`{"chat_id": "c1", "content": "Hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var chatRecord domain.Chat
	if err := db.First(&chatRecord, "id = ?", "c1").Error; err != nil {
		t.Fatalf("loading chat: %v", err)
	}
	if len(chatRecord.Title) != 200 {
		t.Errorf("expected title clamped to 200 characters, got %d", len(chatRecord.Title))
	}

	var messageCount int64
	db.Model(&domain.Message{}).Count(&messageCount)
	if messageCount != 2 {
		t.Errorf("expected 2 messages, got %d", messageCount)
	}
}

func TestPromptGPT_UpstreamFailure(t *testing.T) {
	router, db := newTestRouter(t, &stubProvider{err: errors.New("groq: 503")})

	req := httptest.NewRequest(http.MethodPost, "/api/prompt",
		strings.NewReader(`{"chat_id": "c1", "content": "Hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	// The user message persists; no assistant row is written.
	var messages []domain.Message
	db.Order("created_at asc").Find(&messages)
	if len(messages) != 1 || messages[0].Role != domain.RoleUser {
		t.Errorf("expected only the user message to persist, got %+v", messages)
	}
}

func TestGetChatMessages_NotFound(t *testing.T) {
	router, _ := newTestRouter(t, &stubProvider{reply: "unused"})

	req := httptest.NewRequest(http.MethodGet, "/api/chats/missing/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetChatMessages_ReturnsHistory(t *testing.T) {
	router, _ := newTestRouter(t, &stubProvider{reply: "Hi there!"})

	promptReq := httptest.NewRequest(http.MethodPost, "/api/prompt",
		strings.NewReader(`{"chat_id": "c1", "content": "Hello"}`))
	promptRec := httptest.NewRecorder()
	router.ServeHTTP(promptRec, promptReq)
	if promptRec.Code != http.StatusCreated {
		t.Fatalf("prompt setup failed: %d", promptRec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/chats/c1/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body []map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(body))
	}
	if body[0]["role"] != "user" || body[0]["content"] != "Hello" {
		t.Errorf("unexpected first message: %+v", body[0])
	}
	if body[1]["role"] != "assistant" || body[1]["content"] != "Hi there!" {
		t.Errorf("unexpected second message: %+v", body[1])
	}
}

func TestTodaysChats_ListsCreatedChat(t *testing.T) {
	router, _ := newTestRouter(t, &stubProvider{reply: "Hi there!"})

	promptReq := httptest.NewRequest(http.MethodPost, "/api/prompt",
		strings.NewReader(`{"chat_id": "c1", "content": "Hello"}`))
	promptRec := httptest.NewRecorder()
	router.ServeHTTP(promptRec, promptReq)
	if promptRec.Code != http.StatusCreated {
		t.Fatalf("prompt setup failed: %d", promptRec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/chats/today", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body []map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body) != 1 || body[0]["id"] != "c1" {
		t.Errorf("expected chat c1 in today's listing, got %+v", body)
	}

	// Empty buckets for the other views.
	for _, path := range []string{"/api/chats/yesterday", "/api/chats/last-week"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
		var bucket []map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &bucket); err != nil {
			t.Fatalf("%s: decoding response: %v", path, err)
		}
		if len(bucket) != 0 {
			t.Errorf("%s: expected empty bucket, got %+v", path, bucket)
		}
	}
}
