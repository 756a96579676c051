package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/charerimana/agrisense/internal/domain"
	"github.com/charerimana/agrisense/internal/repository"
	"github.com/charerimana/agrisense/internal/service"
)

type fakeFarmService struct {
	lastUpsert service.UpsertFarmRequest
	upserts    int
}

func (f *fakeFarmService) ListFarms(_ context.Context, _ service.ListFarmsRequest) ([]*domain.FarmWithSensor, error) {
	return []*domain.FarmWithSensor{}, nil
}

func (f *fakeFarmService) GetFarm(_ context.Context, farmID string) (*domain.Farm, error) {
	return &domain.Farm{FarmID: farmID}, nil
}

func (f *fakeFarmService) UpsertFarm(_ context.Context, req service.UpsertFarmRequest) (*domain.FarmWithSensor, error) {
	f.lastUpsert = req
	f.upserts++
	return &domain.FarmWithSensor{
		Farm: domain.Farm{
			FarmID:   req.FarmID,
			OwnerID:  req.OwnerID,
			Name:     req.Name,
			Location: req.Location,
		},
		Sensor: &domain.Sensor{
			SensorID:   uuid.NewString(),
			FarmID:     req.FarmID,
			SensorType: domain.SensorTypeTemp,
			MinTemp:    req.MinTemp,
			MaxTemp:    req.MaxTemp,
		},
	}, nil
}

func (f *fakeFarmService) DeleteFarm(_ context.Context, _ string) error { return nil }

func loggedInAs(t *testing.T, account, role string) (*AuthStore, *domain.User, string) {
	t.Helper()
	user := &domain.User{
		UserID:       uuid.NewString(),
		Account:      account,
		Email:        account + "@example.com",
		Role:         role,
		PasswordHash: HashAccountPassword(account, "s3cret"),
	}
	auth := NewAuthStore(&fakeUsersRepo{users: map[string]*domain.User{user.UserID: user}})
	token, _, err := auth.Login(context.Background(), account, "s3cret")
	require.NoError(t, err)
	return auth, user, token
}

// An admin editing another farmer's farm keeps that farmer as the owner: the
// duplicate check and the response report the row's real owner, not the admin.
func TestUpsertFarm_AdminEditKeepsRealOwner(t *testing.T) {
	auth, admin, token := loggedInAs(t, "admin", domain.RoleAdmin)
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	farmID := uuid.NewString()
	realOwnerID := uuid.NewString()
	mock.ExpectQuery(`SELECT owner_id::text FROM farms`).
		WithArgs(farmID).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(realOwnerID))

	svc := &fakeFarmService{}
	h := NewFarmHandler(svc, nil, repository.NewOwnerResolver(db), auth, zap.NewNop())

	body := `{"name":"Hillside","location":"Musanze","min_temp":10,"max_temp":20}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/farms/"+farmID, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, realOwnerID, svc.lastUpsert.OwnerID)
	assert.NotEqual(t, admin.UserID, svc.lastUpsert.OwnerID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertFarm_NonOwnerEditForbidden(t *testing.T) {
	auth, _, token := loggedInAs(t, "claudine", domain.RoleFarmer)
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	farmID := uuid.NewString()
	mock.ExpectQuery(`SELECT owner_id::text FROM farms`).
		WithArgs(farmID).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(uuid.NewString()))

	svc := &fakeFarmService{}
	h := NewFarmHandler(svc, nil, repository.NewOwnerResolver(db), auth, zap.NewNop())

	body := `{"name":"Hillside","location":"Musanze","min_temp":10,"max_temp":20}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/farms/"+farmID, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, svc.upserts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertFarm_CreateUsesCallerAsOwner(t *testing.T) {
	auth, user, token := loggedInAs(t, "claudine", domain.RoleFarmer)
	svc := &fakeFarmService{}
	h := NewFarmHandler(svc, nil, nil, auth, zap.NewNop())

	body := `{"name":"Hillside","location":"Musanze","min_temp":10,"max_temp":20}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/farms", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, user.UserID, svc.lastUpsert.OwnerID)
}
