package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/xelth-com/esimchatgo/internal/chat"
	"github.com/xelth-com/esimchatgo/internal/utils"
)

// postChat runs one dialogue turn. The widget replays its history with
// every request; nothing is kept server-side.
func (r *Router) postChat(w http.ResponseWriter, req *http.Request) {
	if r.settings != nil && !r.settings.Current().Enabled {
		respondError(w, http.StatusServiceUnavailable, "chat_disabled")
		return
	}

	var chatReq chat.Request
	if err := json.NewDecoder(req.Body).Decode(&chatReq); err != nil {
		respondError(w, http.StatusBadRequest, "message_required")
		return
	}
	chatReq.ClientIP = utils.ClientIP(req)

	resp, err := r.chat.Respond(req.Context(), chatReq)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			respondError(w, http.StatusBadRequest, "message_required")
			return
		}
		log.Printf("⚠️ Chat turn failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
