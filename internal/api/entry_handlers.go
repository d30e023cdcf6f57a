package api

import (
	"encoding/json"
	"net/http"

	_ "serwer-kont/internal/models"
)

// @Summary      List filesystem entries
// @Description  Lists the authenticated user's filesystem entries, including the default set created at signup.
// @Tags         entries
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.Entry
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /entries [get]
func (s *Server) ListEntriesHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	entries, err := s.store.ListEntriesForUser(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to retrieve entries", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
