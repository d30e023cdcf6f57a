package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	_ "serwer-kont/internal/database"
)

// @Summary      Get authentication history
// @Description  Returns the authentication audit entries attributed to the current user, newest last, starting after the given id.
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        since  query     int  false  "Return entries with id greater than this value"
// @Success      200    {array}   database.AuditEntry
// @Failure      401    {string}  string "Unauthorized"
// @Failure      500    {string}  string "Internal Server Error"
// @Router       /audit [get]
func (s *Server) GetAuditHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	sinceID := int64(0)
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		parsed, err := strconv.ParseInt(sinceStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid 'since' parameter", http.StatusBadRequest)
			return
		}
		sinceID = parsed
	}

	entries, err := s.store.ListAuditSince(r.Context(), claims.UserID, sinceID)
	if err != nil {
		http.Error(w, "Failed to retrieve audit entries", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
