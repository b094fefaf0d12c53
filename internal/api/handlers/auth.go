package handlers

import (
	"net/http"

	"github.com/baharkarakas/kuota-backend/internal/api/httpx"
	"github.com/baharkarakas/kuota-backend/internal/auth"
	"github.com/baharkarakas/kuota-backend/internal/middleware"
	"github.com/baharkarakas/kuota-backend/internal/models"
	"github.com/baharkarakas/kuota-backend/internal/services"
)

type AuthHandler struct {
	Users *services.UserService
}

func NewAuthHandler(us *services.UserService) *AuthHandler {
	return &AuthHandler{Users: us}
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResp struct {
	auth.TokenPair
	User models.User `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !decode(w, r, &req) {
		return
	}
	pair, u, err := h.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, loginResp{TokenPair: pair, User: u})
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if !decode(w, r, &req) {
		return
	}
	pair, err := h.Users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pair)
}

type logoutReq struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout revokes the access token used for this request and, if sent, the
// matching refresh token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.FromCtx(r.Context())
	var req logoutReq
	if r.ContentLength != 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			badRequest(w, err)
			return
		}
	}
	if err := h.Users.Logout(r.Context(), u.TokenID, u.TokenExp, req.RefreshToken); err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
