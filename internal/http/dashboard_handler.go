package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/charerimana/agrisense/internal/repository"
	"github.com/charerimana/agrisense/internal/service"
)

// DashboardHandler chart-ready aggregates over the caller's readings.
type DashboardHandler struct {
	dashboard *service.Dashboard
	resolver  *repository.OwnerResolver
	auth      *AuthStore
	logger    *zap.Logger
}

func NewDashboardHandler(dashboard *service.Dashboard, resolver *repository.OwnerResolver, auth *AuthStore, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, resolver: resolver, auth: auth, logger: logger}
}

func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user, ok := authenticate(h.auth, w, r)
	if !ok {
		return
	}

	farmID := r.URL.Query().Get("farm_id")
	if farmID != "" {
		if err := h.resolver.Authorize(r.Context(), user, repository.ResourceFarm, farmID); err != nil {
			writeError(w, err)
			return
		}
	}

	// The dashboard is always scoped to the caller's own farms, admin or not.
	data, err := h.dashboard.Aggregate(r.Context(), user.UserID, farmID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(data))
}
