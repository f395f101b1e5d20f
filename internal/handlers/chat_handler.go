// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/nexify/go-nexify/internal/dtos"
	"github.com/nexify/go-nexify/internal/services"
	chatservice "github.com/nexify/go-nexify/internal/services/chat"
)

type ChatHandler struct {
	ChatService *services.ChatService
}

func NewChatHandler(cs *services.ChatService) (*ChatHandler, error) {
	if cs == nil {
		return nil, errors.New("chat service is required")
	}
	return &ChatHandler{ChatService: cs}, nil
}

// PromptGPT handles a prompt request: the reply comes back with 201 once
// both turns of the cycle are persisted.
func (h *ChatHandler) PromptGPT(w http.ResponseWriter, r *http.Request) {
	var req dtos.PromptRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	reply, err := h.ChatService.Prompt(r.Context(), req.ChatID, req.Content)
	if err != nil {
		writeChatError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dtos.PromptResponseDTO{Reply: reply})
}

// GetChatMessages handles the request to retrieve all messages for a specific chat.
func (h *ChatHandler) GetChatMessages(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	chatID := vars["id"]

	messages, err := h.ChatService.GetChatMessages(r.Context(), chatID)
	if err != nil {
		writeChatError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromMessageSlice(messages))
}

// TodaysChats lists chats created today, newest first.
func (h *ChatHandler) TodaysChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.ChatService.TodaysChats(r.Context(), time.Now())
	if err != nil {
		writeError(w, "Could not retrieve chats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromChatSlice(chats))
}

// YesterdaysChats lists chats created yesterday, newest first.
func (h *ChatHandler) YesterdaysChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.ChatService.YesterdaysChats(r.Context(), time.Now())
	if err != nil {
		writeError(w, "Could not retrieve chats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromChatSlice(chats))
}

// SevenDaysChats lists chats created two to seven days back, newest first.
func (h *ChatHandler) SevenDaysChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.ChatService.LastSevenDaysChats(r.Context(), time.Now())
	if err != nil {
		writeError(w, "Could not retrieve chats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromChatSlice(chats))
}

// writeChatError maps service error types onto HTTP statuses.
func writeChatError(w http.ResponseWriter, err error) {
	var chatErr *chatservice.ChatError
	if errors.As(err, &chatErr) {
		switch chatErr.Type {
		case chatservice.ErrTypeValidation:
			writeError(w, chatErr.Message, http.StatusBadRequest)
			return
		case chatservice.ErrTypeNotFound:
			writeError(w, "Chat not found", http.StatusNotFound)
			return
		case chatservice.ErrTypeUpstream:
			writeError(w, chatErr.Error(), http.StatusInternalServerError)
			return
		}
	}
	writeError(w, "Something went wrong on our end.", http.StatusInternalServerError)
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
