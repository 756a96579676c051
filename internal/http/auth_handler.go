package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/charerimana/agrisense/internal/domain"
)

// AuthHandler login endpoint.
type AuthHandler struct {
	auth   *AuthStore
	logger *zap.Logger
}

func NewAuthHandler(auth *AuthStore, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	h.Login(w, r)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Account  string `json:"account"`
		Password string `json:"password"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if req.Account == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, Fail("account and password are required"))
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Account, req.Password)
	if err != nil {
		h.logger.Info("Login rejected", zap.String("account", req.Account))
		writeJSON(w, http.StatusUnauthorized, Fail("invalid credentials"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"token":   token,
		"user_id": user.UserID,
		"account": user.Account,
		"role":    user.Role,
	}))
}

// authenticate resolves the caller or writes a 401.
func authenticate(auth *AuthStore, w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	u, err := auth.UserFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, Fail("unauthorized"))
		return nil, false
	}
	return u, true
}
