package domain

import "time"

// SensorTypeTemp the only sensor type currently supported.
const SensorTypeTemp = "TEMP"

// Sensor a farm's temperature sensor (sensors table, one-to-one with farms).
// MinTemp <= MaxTemp is expected but not enforced by storage; the ingest
// validator must not rely on it.
type Sensor struct {
	SensorID   string  `db:"sensor_id"` // UUID
	FarmID     string  `db:"farm_id"`   // unique
	SensorType string  `db:"sensor_type"`
	MinTemp    float64 `db:"min_temp"`
	MaxTemp    float64 `db:"max_temp"`
}

// InRange reports whether t lies inside the sensor's closed bounds.
func (s *Sensor) InRange(t float64) bool {
	return s.MinTemp <= t && t <= s.MaxTemp
}

func (s *Sensor) ToJSON() map[string]any {
	return map[string]any{
		"sensor_id":   s.SensorID,
		"farm_id":     s.FarmID,
		"sensor_type": s.SensorType,
		"min_temp":    s.MinTemp,
		"max_temp":    s.MaxTemp,
	}
}

// SensorReading a single measurement (sensor_readings table, append-only).
// RecordedAt is server-assigned at insert and never updated; IsValid is
// computed once right after insert.
type SensorReading struct {
	ID          int64     `db:"id"` // BIGSERIAL
	SensorID    string    `db:"sensor_id"`
	Temperature float64   `db:"temperature"`
	RecordedAt  time.Time `db:"recorded_at"`
	IsValid     bool      `db:"is_valid"`
}

func (r *SensorReading) ToJSON() map[string]any {
	return map[string]any{
		"id":          r.ID,
		"sensor_id":   r.SensorID,
		"temperature": r.Temperature,
		"recorded_at": r.RecordedAt.Format(time.RFC3339),
		"is_valid":    r.IsValid,
	}
}
