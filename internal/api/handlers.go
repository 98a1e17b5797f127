package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/opsdesk/opsdesk/internal/auth"
	"github.com/opsdesk/opsdesk/internal/config"
	"github.com/opsdesk/opsdesk/internal/core"
	"github.com/opsdesk/opsdesk/internal/ingest"
	"github.com/opsdesk/opsdesk/internal/store"
)

const maxUploadBytes = 20 << 20 // uploads over 20MB are rejected up front

type APIHandler struct {
	chatService *core.ChatService
	sessions    *store.MemoryStore
	contextData *ingest.Holder
}

func NewAPIHandler(cs *core.ChatService, sessions *store.MemoryStore, contextData *ingest.Holder) *APIHandler {
	return &APIHandler{
		chatService: cs,
		sessions:    sessions,
		contextData: contextData,
	}
}

func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if _, err := auth.ValidateJWT(tokenString); err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type LoginRequest struct {
	AccessKey string `json:"access_key"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.AccessKey), []byte(config.AppConfig.AccessKey)) != 1 {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateJWT("operator")
	if err != nil {
		log.Printf("Error generating JWT: %v", err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

func (h *APIHandler) CreateChatHandler(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.CreateSession()
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(session)
}

type ListChatsResponse struct {
	Sessions  []store.Session `json:"sessions"`
	CurrentID string          `json:"current_id"`
}

func (h *APIHandler) ListChatsHandler(w http.ResponseWriter, r *http.Request) {
	resp := ListChatsResponse{
		Sessions:  h.sessions.Sessions(),
		CurrentID: h.sessions.CurrentID(),
	}
	json.NewEncoder(w).Encode(resp)
}

func (h *APIHandler) GetChatDetailsHandler(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	session, ok := h.sessions.GetSession(chatID)
	if !ok {
		http.Error(w, "Chat not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(session)
}

// SelectChatHandler moves the current pointer. A stale id is a benign
// no-op, not an error; either way the client gets 204.
func (h *APIHandler) SelectChatHandler(w http.ResponseWriter, r *http.Request) {
	h.sessions.SelectSession(chi.URLParam(r, "chatID"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) DeleteChatHandler(w http.ResponseWriter, r *http.Request) {
	h.sessions.DeleteSession(chi.URLParam(r, "chatID"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) ClearChatsHandler(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.ClearAll()
	json.NewEncoder(w).Encode(session)
}

type PostMessageRequest struct {
	Content string `json:"content"`
}

type MessagesResponse struct {
	Messages []store.Message `json:"messages"`
}

func (h *APIHandler) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	messages, err := h.chatService.Submit(r.Context(), chatID, req.Content)
	if err != nil {
		h.writeChatError(w, chatID, err)
		return
	}
	json.NewEncoder(w).Encode(MessagesResponse{Messages: messages})
}

type EditMessageRequest struct {
	Content string `json:"content"`
}

// EditMessageHandler replays the edit flow: enter edit mode for the target
// message, replace the draft, then save (truncate and resubmit).
func (h *APIHandler) EditMessageHandler(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	messageID := chi.URLParam(r, "messageID")

	var req EditMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.chatService.StartEdit(chatID, messageID); err != nil {
		h.writeChatError(w, chatID, err)
		return
	}
	if err := h.chatService.SetDraft(chatID, req.Content); err != nil {
		h.writeChatError(w, chatID, err)
		return
	}

	messages, err := h.chatService.SaveEdit(r.Context(), chatID)
	if err != nil {
		h.chatService.CancelEdit(chatID)
		h.writeChatError(w, chatID, err)
		return
	}
	json.NewEncoder(w).Encode(MessagesResponse{Messages: messages})
}

func (h *APIHandler) writeChatError(w http.ResponseWriter, chatID string, err error) {
	switch {
	case errors.Is(err, core.ErrEmptyMessage):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, core.ErrSessionNotFound), errors.Is(err, core.ErrMessageNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, core.ErrExchangeInFlight):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("Unexpected chat error for session %s: %v", chatID, err)
		http.Error(w, "Failed to process message", http.StatusInternalServerError)
	}
}

type ContextSummaryResponse struct {
	InventoryCount     int  `json:"inventory_count"`
	KnowledgeBaseCount int  `json:"knowledge_base_count"`
	HasRawText         bool `json:"has_raw_text"`
	IsDefault          bool `json:"is_default"`
}

// UploadContextHandler replaces the grounding dataset from an uploaded
// document. A failed parse leaves the previously loaded data untouched.
func (h *APIHandler) UploadContextHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "A 'file' form field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		log.Printf("Error reading uploaded file %s: %v", header.Filename, err)
		http.Error(w, "Failed to read uploaded file", http.StatusInternalServerError)
		return
	}

	parsed, err := ingest.Parse(header.Filename, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.contextData.Replace(parsed)
	log.Printf("Context data replaced from %s: %d inventory records, %d knowledge base records",
		header.Filename, len(parsed.Inventory), len(parsed.KnowledgeBase))

	h.writeContextSummary(w, parsed)
}

func (h *APIHandler) ContextSummaryHandler(w http.ResponseWriter, r *http.Request) {
	h.writeContextSummary(w, h.contextData.Get())
}

func (h *APIHandler) writeContextSummary(w http.ResponseWriter, data *ingest.AppData) {
	json.NewEncoder(w).Encode(ContextSummaryResponse{
		InventoryCount:     len(data.Inventory),
		KnowledgeBaseCount: len(data.KnowledgeBase),
		HasRawText:         data.RawText != "",
		IsDefault:          data.IsDefault,
	})
}
