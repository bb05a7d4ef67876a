package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"readlog/middleware"
	"readlog/utils"
)

// ProfileHandler reads and updates the signed-in user's Micropub settings.
type ProfileHandler struct {
	Users    UserStore
	TokenKey []byte // encrypts the Micropub token at rest; nil = plaintext
}

type ProfileResponse struct {
	Slug                 string   `json:"slug"`
	Email                string   `json:"email"`
	MicropubEndpoint     string   `json:"micropubEndpoint,omitempty"`
	TokenSet             bool     `json:"tokenSet"`
	TokenScope           []string `json:"tokenScope,omitempty"`
	VisibilityOptions    []string `json:"visibilityOptions,omitempty"`
	LastMicropubResponse string   `json:"lastMicropubResponse,omitempty"`
}

type UpdateProfileRequest struct {
	MicropubEndpoint  *string   `json:"micropubEndpoint"`
	MicropubToken     *string   `json:"micropubToken"`
	TokenScope        *[]string `json:"tokenScope"`
	VisibilityOptions *[]string `json:"visibilityOptions"`
}

// Get returns the profile. The raw token is never echoed back, only whether
// one is set; the last raw endpoint response is included for diagnostics.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	user, err := h.Users.Get(r.Context(), userID)
	if err != nil || user == nil {
		http.Error(w, `{"error":"failed to load profile"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ProfileResponse{
		Slug:                 user.Slug,
		Email:                user.Email,
		MicropubEndpoint:     user.MicropubEndpoint,
		TokenSet:             user.MicropubToken != "",
		TokenScope:           user.TokenScope,
		VisibilityOptions:    user.VisibilityOptions,
		LastMicropubResponse: user.LastMicropubResponse,
	})
}

// Update applies partial changes to the Micropub settings. The token is
// encrypted before storage when an encryption key is configured.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	fields := map[string]any{}
	if req.MicropubEndpoint != nil {
		fields["micropubEndpoint"] = strings.TrimSpace(*req.MicropubEndpoint)
	}
	if req.MicropubToken != nil {
		token := strings.TrimSpace(*req.MicropubToken)
		if token != "" && h.TokenKey != nil {
			sealed, err := utils.SealToken(token, h.TokenKey)
			if err != nil {
				http.Error(w, `{"error":"failed to store token"}`, http.StatusInternalServerError)
				return
			}
			token = sealed
		}
		fields["micropubToken"] = token
	}
	if req.TokenScope != nil {
		fields["tokenScope"] = *req.TokenScope
	}
	if req.VisibilityOptions != nil {
		fields["visibilityOptions"] = *req.VisibilityOptions
	}
	if len(fields) == 0 {
		http.Error(w, `{"error":"nothing to update"}`, http.StatusBadRequest)
		return
	}
	user, err := h.Users.Update(r.Context(), userID, fields)
	if err != nil {
		http.Error(w, `{"error":"failed to update profile"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ProfileResponse{
		Slug:              user.Slug,
		Email:             user.Email,
		MicropubEndpoint:  user.MicropubEndpoint,
		TokenSet:          user.MicropubToken != "",
		TokenScope:        user.TokenScope,
		VisibilityOptions: user.VisibilityOptions,
	})
}
