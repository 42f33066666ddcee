package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/boypaida12/kidsjourneyhub/internal/logger"
	"github.com/boypaida12/kidsjourneyhub/internal/user"
	"github.com/boypaida12/kidsjourneyhub/internal/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	userSvc user.Service
}

func NewAuthHandler(userSvc user.Service) *AuthHandler {
	return &AuthHandler{userSvc: userSvc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		utils.WriteJSONError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	token, err := h.userSvc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			utils.WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		logger.FromCtx(ctx).Error("login failed", zap.Error(err))
		utils.WriteJSONError(w, "Failed to log in", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.WriteJSON(w, loginResponse{Token: token}, http.StatusOK)
}
