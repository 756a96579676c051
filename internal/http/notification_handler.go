package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/charerimana/agrisense/internal/repository"
)

// NotificationHandler read-only access to the caller's alert history.
type NotificationHandler struct {
	notifRepo repository.NotificationsRepository
	auth      *AuthStore
	logger    *zap.Logger
}

func NewNotificationHandler(notifRepo repository.NotificationsRepository, auth *AuthStore, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifRepo: notifRepo, auth: auth, logger: logger}
}

func (h *NotificationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user, ok := authenticate(h.auth, w, r)
	if !ok {
		return
	}

	notifications, err := h.notifRepo.ListNotifications(r.Context(), user.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, n.ToJSON())
	}
	writeJSON(w, http.StatusOK, Ok(items))
}
