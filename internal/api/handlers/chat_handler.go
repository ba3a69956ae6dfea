package handlers

import (
	"net/http"

	"github.com/zatekoja/chikitsamitra/internal/application/services"
)

// ChatHandler serves the chat assistant
type ChatHandler struct {
	chat *services.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Greeting handles GET /api/chat/greeting
func (h *ChatHandler) Greeting(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, chatResponse{Reply: h.chat.Greet(r.Context())})
}

// Reply handles POST /api/chat
func (h *ChatHandler) Reply(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	reply, ok := h.chat.Reply(r.Context(), req.Message)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "message is required")
		return
	}
	respondWithJSON(w, http.StatusOK, chatResponse{Reply: reply})
}
