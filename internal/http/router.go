package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router thin wrapper over the standard library ServeMux (no third-party
// routing dependency needed for this surface).
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterAPIRoutes wires every handler under /api/v1.
func (r *Router) RegisterAPIRoutes(
	auth *AuthHandler,
	farms *FarmHandler,
	readings *ReadingHandler,
	dashboard *DashboardHandler,
	prefs *PreferenceHandler,
	notifications *NotificationHandler,
) {
	r.Handle("/api/v1/auth/login", auth)

	r.Handle("/api/v1/farms", farms)
	r.Handle("/api/v1/farms/", farms)

	r.Handle("/api/v1/readings", readings)

	r.Handle("/api/v1/dashboard-data", dashboard)

	r.Handle("/api/v1/notification-preferences", prefs)

	r.Handle("/api/v1/notifications", notifications)

	r.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, Ok("ok"))
	}))
}
