package handlers

import (
	"context"
	"net/http"
	"strings"

	"order-management/internal/common/logger"
	"order-management/internal/service"
)

type contextKey string

const authContextKey contextKey = "auth"

type AuthHandler struct {
	auth service.AuthServiceInterface
	lg   *logger.Logger
}

func NewAuthHandler(auth service.AuthServiceInterface, lg *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, lg: lg}
}

type loginResponse struct {
	Token string       `json:"token"`
	User  UserResource `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, user, err := h.auth.Login(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	h.lg.Info("user_logged_in", map[string]any{"user_id": user.ID})
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: newUserResource(user)})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth := authFrom(r.Context())
	if err := h.auth.Logout(r.Context(), auth.TokenID); err != nil {
		respondError(w, err)
		return
	}

	h.lg.Info("user_logged_out", map[string]any{"user_id": auth.User.ID})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out."})
}

func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	auth := authFrom(r.Context())
	writeJSON(w, http.StatusOK, newUserResource(auth.User))
}

// Require is the bearer-token middleware. It resolves the Authorization
// header to a user and stores the auth context on the request.
func (h *AuthHandler) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthenticated.", nil)
			return
		}

		auth, err := h.auth.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthenticated.", nil)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), authContextKey, auth)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

func authFrom(ctx context.Context) *service.AuthContext {
	auth, _ := ctx.Value(authContextKey).(*service.AuthContext)
	return auth
}
