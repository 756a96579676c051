package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/charerimana/agrisense/internal/service"
)

// PreferenceHandler notification preference get/update for the caller.
type PreferenceHandler struct {
	prefs  service.PreferenceService
	auth   *AuthStore
	logger *zap.Logger
}

func NewPreferenceHandler(prefs service.PreferenceService, auth *AuthStore, logger *zap.Logger) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs, auth: auth, logger: logger}
}

func (h *PreferenceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.GetPreference(w, r)
	case http.MethodPut:
		h.UpdatePreference(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *PreferenceHandler) GetPreference(w http.ResponseWriter, r *http.Request) {
	user, ok := authenticate(h.auth, w, r)
	if !ok {
		return
	}

	prefs, err := h.prefs.GetPreference(r.Context(), user.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(prefs.ToJSON()))
}

func (h *PreferenceHandler) UpdatePreference(w http.ResponseWriter, r *http.Request) {
	user, ok := authenticate(h.auth, w, r)
	if !ok {
		return
	}

	var req struct {
		AlertsEnabled bool   `json:"alerts_enabled"`
		EmailEnabled  bool   `json:"email_enabled"`
		SMSEnabled    bool   `json:"sms_enabled"`
		PhoneNumber   string `json:"phone_number"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	prefs, err := h.prefs.UpdatePreference(r.Context(), service.UpdatePreferenceRequest{
		UserID:        user.UserID,
		AlertsEnabled: req.AlertsEnabled,
		EmailEnabled:  req.EmailEnabled,
		SMSEnabled:    req.SMSEnabled,
		PhoneNumber:   req.PhoneNumber,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(prefs.ToJSON()))
}
