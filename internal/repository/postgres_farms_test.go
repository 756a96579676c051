package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charerimana/agrisense/internal/domain"
)

func setupMockFarmsDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresFarmsRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresFarmsRepository(db)
}

func TestFarmExists(t *testing.T) {
	db, mock, repo := setupMockFarmsDB(t)
	defer db.Close()

	ownerID := uuid.New().String()

	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(ownerID, "Green Valley", "Gasabo").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.FarmExists(context.Background(), ownerID, "Green Valley", "Gasabo", "")

	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertFarm_CreateCommitsBothWrites(t *testing.T) {
	db, mock, repo := setupMockFarmsDB(t)
	defer db.Close()

	ownerID := uuid.New().String()
	sensorID := uuid.New().String()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO farms`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO sensors`).
		WillReturnRows(sqlmock.NewRows([]string{"sensor_id"}).AddRow(sensorID))
	mock.ExpectCommit()

	farm := &domain.Farm{OwnerID: ownerID, Name: "Green Valley", Location: "Gasabo"}
	result, err := repo.UpsertFarm(context.Background(), farm, 10, 30)

	require.NoError(t, err)
	assert.NotEmpty(t, result.FarmID)
	require.NotNil(t, result.Sensor)
	assert.Equal(t, sensorID, result.Sensor.SensorID)
	assert.Equal(t, 10.0, result.Sensor.MinTemp)
	assert.Equal(t, 30.0, result.Sensor.MaxTemp)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertFarm_SensorFailureRollsBackFarm(t *testing.T) {
	db, mock, repo := setupMockFarmsDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO farms`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO sensors`).
		WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	farm := &domain.Farm{OwnerID: uuid.New().String(), Name: "Green Valley", Location: "Gasabo"}
	result, err := repo.UpsertFarm(context.Background(), farm, 10, 30)

	assert.Nil(t, result)
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A concurrent create of the same (owner, name, location) triple slips past
// the FarmExists pre-check; the unique index turns it into the same field
// error the pre-check produces.
func TestUpsertFarm_UniqueViolationBecomesFieldError(t *testing.T) {
	db, mock, repo := setupMockFarmsDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO farms`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "farms_owner_id_name_location_key"})
	mock.ExpectRollback()

	farm := &domain.Farm{OwnerID: uuid.New().String(), Name: "Green Valley", Location: "Gasabo"}
	result, err := repo.UpsertFarm(context.Background(), farm, 10, 30)

	assert.Nil(t, result)
	fe, ok := domain.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "You already have a farm with this name in this district.", fe["name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteFarm_ExplicitCascade(t *testing.T) {
	db, mock, repo := setupMockFarmsDB(t)
	defer db.Close()

	farmID := uuid.New().String()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM notifications`).
		WithArgs(farmID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM sensor_readings`).
		WithArgs(farmID).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(`DELETE FROM sensors`).
		WithArgs(farmID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM farms`).
		WithArgs(farmID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteFarm(context.Background(), farmID)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteFarm_NotFound(t *testing.T) {
	db, mock, repo := setupMockFarmsDB(t)
	defer db.Close()

	farmID := uuid.New().String()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM notifications`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM sensor_readings`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM sensors`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM farms`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteFarm(context.Background(), farmID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListFarms_JoinsSensor(t *testing.T) {
	db, mock, repo := setupMockFarmsDB(t)
	defer db.Close()

	ownerID := uuid.New().String()
	farmID := uuid.New().String()
	sensorID := uuid.New().String()

	rows := sqlmock.NewRows([]string{
		"farm_id", "owner_id", "name", "location",
		"sensor_id", "sensor_type", "min_temp", "max_temp",
	}).
		AddRow(farmID, ownerID, "Green Valley", "Gasabo", sensorID, "TEMP", 10.0, 30.0).
		AddRow(uuid.New().String(), ownerID, "Hillside", "Musanze", nil, nil, nil, nil)

	mock.ExpectQuery(`SELECT (.+) FROM farms f`).
		WithArgs(ownerID).
		WillReturnRows(rows)

	farms, err := repo.ListFarms(context.Background(), ownerID, FarmFilters{})

	require.NoError(t, err)
	require.Len(t, farms, 2)
	require.NotNil(t, farms[0].Sensor)
	assert.Equal(t, sensorID, farms[0].Sensor.SensorID)
	assert.Nil(t, farms[1].Sensor)
	require.NoError(t, mock.ExpectationsWereMet())
}
