package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/charerimana/agrisense/internal/domain"
	"github.com/charerimana/agrisense/internal/notify"
	"github.com/charerimana/agrisense/internal/repository"
)

// In-memory fakes for the repository interfaces, shared across the service
// tests.

type fakePrefsRepo struct {
	prefs map[string]*domain.NotificationPreference
}

func newFakePrefsRepo() *fakePrefsRepo {
	return &fakePrefsRepo{prefs: map[string]*domain.NotificationPreference{}}
}

func (f *fakePrefsRepo) GetPreference(_ context.Context, userID string) (*domain.NotificationPreference, error) {
	p, ok := f.prefs[userID]
	if !ok {
		return nil, fmt.Errorf("notification preference %w", domain.ErrNotFound)
	}
	return p, nil
}

func (f *fakePrefsRepo) UpsertPreference(_ context.Context, p *domain.NotificationPreference) error {
	f.prefs[p.UserID] = p
	return nil
}

type fakeNotifRepo struct {
	nextID  int64
	created []*domain.Notification
}

func (f *fakeNotifRepo) CreateNotification(_ context.Context, n *domain.Notification) error {
	f.nextID++
	n.ID = f.nextID
	n.SentAt = time.Now()
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotifRepo) ListNotifications(_ context.Context, userID string) ([]*domain.Notification, error) {
	out := []*domain.Notification{}
	for _, n := range f.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakeChannel struct {
	name string
	fail bool
	sent []notify.Message
}

func (f *fakeChannel) Name() string { return f.name }

func (f *fakeChannel) Send(_ context.Context, msg notify.Message) notify.Result {
	f.sent = append(f.sent, msg)
	if f.fail {
		return notify.Result{Channel: f.name, Err: errors.New("provider unreachable")}
	}
	return notify.Result{Channel: f.name, OK: true}
}

type fakeSensorsRepo struct {
	contexts  map[string]*repository.SensorContext
	series    []*repository.SensorSeries
	listCalls int
}

func newFakeSensorsRepo() *fakeSensorsRepo {
	return &fakeSensorsRepo{contexts: map[string]*repository.SensorContext{}}
}

func (f *fakeSensorsRepo) GetSensor(_ context.Context, sensorID string) (*domain.Sensor, error) {
	sc, ok := f.contexts[sensorID]
	if !ok {
		return nil, fmt.Errorf("sensor %w", domain.ErrNotFound)
	}
	s := sc.Sensor
	return &s, nil
}

func (f *fakeSensorsRepo) GetSensorContext(_ context.Context, sensorID string) (*repository.SensorContext, error) {
	sc, ok := f.contexts[sensorID]
	if !ok {
		return nil, fmt.Errorf("sensor %w", domain.ErrNotFound)
	}
	return sc, nil
}

func (f *fakeSensorsRepo) ListSensorSeries(_ context.Context, ownerID, farmID string) ([]*repository.SensorSeries, error) {
	f.listCalls++
	out := []*repository.SensorSeries{}
	for _, ss := range f.series {
		if farmID != "" && ss.Sensor.FarmID != farmID {
			continue
		}
		out = append(out, ss)
	}
	return out, nil
}

type fakeReadingsRepo struct {
	nextID   int64
	inserted []*domain.SensorReading
}

func (f *fakeReadingsRepo) InsertReading(_ context.Context, sensorID string, temperature float64) (*domain.SensorReading, error) {
	f.nextID++
	r := &domain.SensorReading{
		ID:          f.nextID,
		SensorID:    sensorID,
		Temperature: temperature,
		RecordedAt:  time.Now(),
		IsValid:     true,
	}
	f.inserted = append(f.inserted, r)
	return r, nil
}

func (f *fakeReadingsRepo) SetReadingValidity(_ context.Context, readingID int64, isValid bool) error {
	for _, r := range f.inserted {
		if r.ID == readingID {
			r.IsValid = isValid
			return nil
		}
	}
	return fmt.Errorf("reading %w", domain.ErrNotFound)
}

func (f *fakeReadingsRepo) ListReadings(_ context.Context, sensorID string) ([]*domain.SensorReading, error) {
	out := []*domain.SensorReading{}
	for _, r := range f.inserted {
		if r.SensorID == sensorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReadingsRepo) ListFarmReadings(_ context.Context, _ string) ([]*domain.SensorReading, error) {
	return f.inserted, nil
}

type fakeFarmsRepo struct {
	farms      map[string]*domain.FarmWithSensor
	duplicates map[string]string // "owner|name|location" -> farm_id
	deleted    []string
}

func newFakeFarmsRepo() *fakeFarmsRepo {
	return &fakeFarmsRepo{
		farms:      map[string]*domain.FarmWithSensor{},
		duplicates: map[string]string{},
	}
}

func dupKey(ownerID, name, location string) string {
	return ownerID + "|" + name + "|" + location
}

func (f *fakeFarmsRepo) GetFarm(_ context.Context, farmID string) (*domain.Farm, error) {
	fw, ok := f.farms[farmID]
	if !ok {
		return nil, fmt.Errorf("farm %w", domain.ErrNotFound)
	}
	farm := fw.Farm
	return &farm, nil
}

func (f *fakeFarmsRepo) ListFarms(_ context.Context, ownerID string, _ repository.FarmFilters) ([]*domain.FarmWithSensor, error) {
	out := []*domain.FarmWithSensor{}
	for _, fw := range f.farms {
		if ownerID == "" || fw.OwnerID == ownerID {
			out = append(out, fw)
		}
	}
	return out, nil
}

func (f *fakeFarmsRepo) FarmExists(_ context.Context, ownerID, name, location, excludeFarmID string) (bool, error) {
	id, ok := f.duplicates[dupKey(ownerID, name, location)]
	return ok && id != excludeFarmID, nil
}

func (f *fakeFarmsRepo) UpsertFarm(_ context.Context, farm *domain.Farm, minTemp, maxTemp float64) (*domain.FarmWithSensor, error) {
	if farm.FarmID == "" {
		farm.FarmID = uuid.NewString()
	}
	fw := &domain.FarmWithSensor{
		Farm: *farm,
		Sensor: &domain.Sensor{
			SensorID:   uuid.NewString(),
			FarmID:     farm.FarmID,
			SensorType: domain.SensorTypeTemp,
			MinTemp:    minTemp,
			MaxTemp:    maxTemp,
		},
	}
	f.farms[farm.FarmID] = fw
	f.duplicates[dupKey(farm.OwnerID, farm.Name, farm.Location)] = farm.FarmID
	return fw, nil
}

func (f *fakeFarmsRepo) DeleteFarm(_ context.Context, farmID string) error {
	if _, ok := f.farms[farmID]; !ok {
		return fmt.Errorf("farm %w", domain.ErrNotFound)
	}
	delete(f.farms, farmID)
	f.deleted = append(f.deleted, farmID)
	return nil
}
