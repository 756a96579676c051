package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/charerimana/agrisense/internal/repository"
	"github.com/charerimana/agrisense/internal/store"
)

// Chart.js line colors, rotated across sensors.
var chartColors = []string{"#0d6efd", "#198754", "#dc3545", "#ffc107"}

// Labels are local time at minute granularity.
const labelFormat = "2006-01-02 15:04"

// DashboardData the three-part aggregate rendered by the dashboard.
type DashboardData struct {
	LineData    LineData     `json:"line_data"`
	VolumeData  VolumeData   `json:"volume_data"`
	HealthStats []HealthStat `json:"health_stats"`
}

type LineData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label       string  `json:"label"`
	Data        []Point `json:"data"`
	BorderColor string  `json:"borderColor"`
	Tension     float64 `json:"tension"`
}

type Point struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

type VolumeData struct {
	Labels []string `json:"labels"`
	Counts []int    `json:"counts"`
}

type HealthStat struct {
	Name string `json:"name"`
	In   int    `json:"in"`
	Out  int    `json:"out"`
}

// Dashboard read-only aggregator over historical readings, with a short-TTL
// Redis cache in front. Cache failures fall back to the live query.
type Dashboard struct {
	sensorsRepo repository.SensorsRepository
	cache       store.KV
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewDashboard creates the aggregator. cache may be nil to disable caching.
func NewDashboard(sensorsRepo repository.SensorsRepository, cache store.KV, cacheTTL time.Duration, logger *zap.Logger) *Dashboard {
	return &Dashboard{
		sensorsRepo: sensorsRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// Aggregate builds the dashboard view for the user's sensors, optionally
// restricted to one farm. A user with no farms gets empty collections.
// Out-of-range counts are recomputed against each sensor's current bounds,
// so editing bounds retroactively changes the health split.
func (d *Dashboard) Aggregate(ctx context.Context, userID, farmID string) (*DashboardData, error) {
	if cached := d.fromCache(ctx, userID, farmID); cached != nil {
		return cached, nil
	}

	series, err := d.sensorsRepo.ListSensorSeries(ctx, userID, farmID)
	if err != nil {
		return nil, err
	}

	labelSet := map[string]bool{}
	data := &DashboardData{
		LineData:    LineData{Labels: []string{}, Datasets: []Dataset{}},
		VolumeData:  VolumeData{Labels: []string{}, Counts: []int{}},
		HealthStats: []HealthStat{},
	}

	for i, ss := range series {
		points := make([]Point, 0, len(ss.Readings))
		outOfRange := 0
		for _, r := range ss.Readings {
			label := r.RecordedAt.Local().Format(labelFormat)
			labelSet[label] = true
			points = append(points, Point{X: label, Y: r.Temperature})
			if !ss.Sensor.InRange(r.Temperature) {
				outOfRange++
			}
		}

		data.LineData.Datasets = append(data.LineData.Datasets, Dataset{
			Label:       ss.FarmName,
			Data:        points,
			BorderColor: chartColors[i%len(chartColors)],
			Tension:     0.3,
		})
		data.VolumeData.Labels = append(data.VolumeData.Labels, ss.FarmName)
		data.VolumeData.Counts = append(data.VolumeData.Counts, len(ss.Readings))
		data.HealthStats = append(data.HealthStats, HealthStat{
			Name: ss.FarmName,
			In:   len(ss.Readings) - outOfRange,
			Out:  outOfRange,
		})
	}

	for label := range labelSet {
		data.LineData.Labels = append(data.LineData.Labels, label)
	}
	sort.Strings(data.LineData.Labels)

	d.toCache(ctx, userID, farmID, data)
	return data, nil
}

// Invalidate drops all cached dashboard payloads for the user. Best effort.
func (d *Dashboard) Invalidate(ctx context.Context, userID string) {
	if d.cache == nil {
		return
	}
	keys, err := d.cache.ScanKeys(ctx, "dashboard:"+userID+":*")
	if err != nil {
		d.logger.Warn("Failed to scan dashboard cache keys", zap.String("user_id", userID), zap.Error(err))
		return
	}
	if err := d.cache.Del(ctx, keys...); err != nil {
		d.logger.Warn("Failed to invalidate dashboard cache", zap.String("user_id", userID), zap.Error(err))
	}
}

func cacheKey(userID, farmID string) string {
	return "dashboard:" + userID + ":" + farmID
}

func (d *Dashboard) fromCache(ctx context.Context, userID, farmID string) *DashboardData {
	if d.cache == nil {
		return nil
	}
	raw, err := d.cache.Get(ctx, cacheKey(userID, farmID))
	if err != nil {
		if err != store.ErrMiss {
			d.logger.Warn("Dashboard cache read failed", zap.Error(err))
		}
		return nil
	}
	var data DashboardData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		d.logger.Warn("Dashboard cache entry corrupt", zap.Error(err))
		return nil
	}
	return &data
}

func (d *Dashboard) toCache(ctx context.Context, userID, farmID string, data *DashboardData) {
	if d.cache == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := d.cache.Set(ctx, cacheKey(userID, farmID), string(raw), d.cacheTTL); err != nil {
		d.logger.Warn("Dashboard cache write failed", zap.Error(err))
	}
}
