package api

import (
	"encoding/json"
	"net/http"
)

// @Summary      Get current user info
// @Description  Retrieves the public view of the currently authenticated account, matching the user object returned at login.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PublicUser
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /me [get]
func (s *Server) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to retrieve user data", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	emailConfirmed := 0
	if user.EmailConfirmed || user.WalletAddress != nil {
		emailConfirmed = 1
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.publicUser(r, user, emailConfirmed))
}
