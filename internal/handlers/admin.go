package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xelth-com/esimchatgo/internal/settings"
)

// getSettings returns the current chat settings
func (r *Router) getSettings(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.settings.Current())
}

// updateSettings applies a partial settings update
func (r *Router) updateSettings(w http.ResponseWriter, req *http.Request) {
	var in settings.UpdateInput
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	row, err := r.settings.Update(in)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, row)
}
