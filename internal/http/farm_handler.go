package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/charerimana/agrisense/internal/domain"
	"github.com/charerimana/agrisense/internal/repository"
	"github.com/charerimana/agrisense/internal/service"
)

// FarmHandler farm CRUD plus the readings export download.
type FarmHandler struct {
	farms        service.FarmService
	readingsRepo repository.ReadingsRepository
	resolver     *repository.OwnerResolver
	auth         *AuthStore
	logger       *zap.Logger
}

func NewFarmHandler(
	farms service.FarmService,
	readingsRepo repository.ReadingsRepository,
	resolver *repository.OwnerResolver,
	auth *AuthStore,
	logger *zap.Logger,
) *FarmHandler {
	return &FarmHandler{
		farms:        farms,
		readingsRepo: readingsRepo,
		resolver:     resolver,
		auth:         auth,
		logger:       logger,
	}
}

func (h *FarmHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/api/v1/farms" && r.Method == http.MethodGet:
		h.ListFarms(w, r)
	case path == "/api/v1/farms" && r.Method == http.MethodPost:
		h.UpsertFarm(w, r, "")
	case strings.HasSuffix(path, "/readings/export") && r.Method == http.MethodGet:
		farmID := strings.TrimSuffix(path, "/readings/export")
		farmID = strings.TrimPrefix(farmID, "/api/v1/farms/")
		if farmID != "" && !strings.Contains(farmID, "/") {
			h.ExportReadings(w, r, farmID)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	case strings.HasPrefix(path, "/api/v1/farms/"):
		farmID := strings.TrimPrefix(path, "/api/v1/farms/")
		if farmID == "" || strings.Contains(farmID, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.GetFarm(w, r, farmID)
		case http.MethodPut:
			h.UpsertFarm(w, r, farmID)
		case http.MethodDelete:
			h.DeleteFarm(w, r, farmID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *FarmHandler) ListFarms(w http.ResponseWriter, r *http.Request) {
	user, ok := authenticate(h.auth, w, r)
	if !ok {
		return
	}

	ownerID := user.UserID
	if user.IsAdmin() {
		ownerID = "" // admins see every farm
	}

	farms, err := h.farms.ListFarms(r.Context(), service.ListFarmsRequest{
		OwnerID: ownerID,
		Search:  r.URL.Query().Get("q"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(farms))
	for _, f := range farms {
		items = append(items, f.ToJSON())
	}
	writeJSON(w, http.StatusOK, Ok(items))
}

func (h *FarmHandler) GetFarm(w http.ResponseWriter, r *http.Request, farmID string) {
	user, ok := authenticate(h.auth, w, r)
	if !ok {
		return
	}
	if err := h.resolver.Authorize(r.Context(), user, repository.ResourceFarm, farmID); err != nil {
		writeError(w, err)
		return
	}

	farm, err := h.farms.GetFarm(r.Context(), farmID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(farm.ToJSON()))
}

func (h *FarmHandler) UpsertFarm(w http.ResponseWriter, r *http.Request, farmID string) {
	user, ok := authenticate(h.auth, w, r)
	if !ok {
		return
	}

	// Edits keep the farm's existing owner, so an admin editing someone
	// else's farm runs the duplicate check against that owner, not itself.
	ownerID := user.UserID
	if farmID != "" {
		resolved, err := h.resolver.ResolveOwner(r.Context(), repository.ResourceFarm, farmID)
		if err != nil {
			writeError(w, err)
			return
		}
		if !user.IsAdmin() && resolved != user.UserID {
			writeError(w, fmt.Errorf("farm: %w", domain.ErrForbidden))
			return
		}
		ownerID = resolved
	}

	var req struct {
		Name     string  `json:"name"`
		Location string  `json:"location"`
		MinTemp  float64 `json:"min_temp"`
		MaxTemp  float64 `json:"max_temp"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	result, err := h.farms.UpsertFarm(r.Context(), service.UpsertFarmRequest{
		FarmID:   farmID,
		OwnerID:  ownerID,
		Name:     req.Name,
		Location: req.Location,
		MinTemp:  req.MinTemp,
		MaxTemp:  req.MaxTemp,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if farmID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, Ok(result.ToJSON()))
}

func (h *FarmHandler) DeleteFarm(w http.ResponseWriter, r *http.Request, farmID string) {
	user, ok := authenticate(h.auth, w, r)
	if !ok {
		return
	}
	if err := h.resolver.Authorize(r.Context(), user, repository.ResourceFarm, farmID); err != nil {
		writeError(w, err)
		return
	}

	if err := h.farms.DeleteFarm(r.Context(), farmID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"deleted": farmID}))
}

func (h *FarmHandler) ExportReadings(w http.ResponseWriter, r *http.Request, farmID string) {
	user, ok := authenticate(h.auth, w, r)
	if !ok {
		return
	}
	if err := h.resolver.Authorize(r.Context(), user, repository.ResourceFarm, farmID); err != nil {
		writeError(w, err)
		return
	}

	farm, err := h.farms.GetFarm(r.Context(), farmID)
	if err != nil {
		writeError(w, err)
		return
	}
	readings, err := h.readingsRepo.ListFarmReadings(r.Context(), farmID)
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := service.GenerateReadingsExport(farm.Name, readings)
	if err != nil {
		writeError(w, err)
		return
	}

	filename := strings.ReplaceAll(strings.ToLower(farm.Name), " ", "-") + "-readings.xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
