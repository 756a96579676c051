package httpapi

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/charerimana/agrisense/internal/repository"
	"github.com/charerimana/agrisense/internal/service"
)

// ReadingHandler reading ingestion and listing.
type ReadingHandler struct {
	ingestor     *service.Ingestor
	readingsRepo repository.ReadingsRepository
	resolver     *repository.OwnerResolver
	auth         *AuthStore
	logger       *zap.Logger
}

func NewReadingHandler(
	ingestor *service.Ingestor,
	readingsRepo repository.ReadingsRepository,
	resolver *repository.OwnerResolver,
	auth *AuthStore,
	logger *zap.Logger,
) *ReadingHandler {
	return &ReadingHandler{
		ingestor:     ingestor,
		readingsRepo: readingsRepo,
		resolver:     resolver,
		auth:         auth,
		logger:       logger,
	}
}

func (h *ReadingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.CreateReading(w, r)
	case http.MethodGet:
		h.ListReadings(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// CreateReading ingests one reading. Only the owning farmer (or an admin)
// may post readings for a sensor.
func (h *ReadingHandler) CreateReading(w http.ResponseWriter, r *http.Request) {
	user, ok := authenticate(h.auth, w, r)
	if !ok {
		return
	}

	var req struct {
		SensorID    string   `json:"sensor_id"`
		Temperature *float64 `json:"temperature"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if req.SensorID == "" || req.Temperature == nil {
		writeJSON(w, http.StatusBadRequest, Fail("sensor_id and temperature are required"))
		return
	}

	if err := h.resolver.Authorize(r.Context(), user, repository.ResourceSensor, req.SensorID); err != nil {
		writeError(w, err)
		return
	}

	reading, err := h.ingestor.Ingest(r.Context(), req.SensorID, *req.Temperature)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Debug("Reading ingested",
		zap.Int64("reading_id", reading.ID),
		zap.String("sensor_id", reading.SensorID),
		zap.Float64("temperature", reading.Temperature),
		zap.Bool("is_valid", reading.IsValid),
	)
	writeJSON(w, http.StatusCreated, Ok(reading.ToJSON()))
}

func (h *ReadingHandler) ListReadings(w http.ResponseWriter, r *http.Request) {
	user, ok := authenticate(h.auth, w, r)
	if !ok {
		return
	}

	sensorID := r.URL.Query().Get("sensor_id")
	if sensorID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("sensor_id is required"))
		return
	}
	if err := h.resolver.Authorize(r.Context(), user, repository.ResourceSensor, sensorID); err != nil {
		writeError(w, err)
		return
	}

	readings, err := h.readingsRepo.ListReadings(r.Context(), sensorID)
	if err != nil {
		writeError(w, err)
		return
	}

	limit := parseIntParam(r.URL.Query().Get("limit"), 0)
	if limit > 0 && len(readings) > limit {
		readings = readings[len(readings)-limit:]
	}

	items := make([]map[string]any, 0, len(readings))
	for _, rd := range readings {
		items = append(items, rd.ToJSON())
	}
	writeJSON(w, http.StatusOK, Ok(items))
}

func parseIntParam(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
