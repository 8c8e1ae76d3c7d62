package records

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"plan-uptake-workers/internal/common/config"
	"plan-uptake-workers/internal/uptake"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Helpers
// ==========================

func testProfile() uptake.RespondentProfile {
	return uptake.RespondentProfile{
		Age:        0.4,
		Gender:     uptake.GenderFemale,
		Race:       uptake.RaceOther,
		Income:     uptake.IncomeOther,
		HasDegree:  true,
		GoodHealth: false,
	}
}

func testLevels(cost float64) uptake.AttributeLevels {
	return uptake.AttributeLevels{
		EfficacySelf: 0.5,
		RiskSelf:     0.1,
		CostSelf:     cost,
	}
}

func newTestRecord(t *testing.T, cost float64, at time.Time) *SavedRecord {
	t.Helper()
	engine, err := uptake.NewEngine(nil)
	require.NoError(t, err)

	result, err := engine.Evaluate(uptake.Scenario1, testProfile(), testLevels(cost))
	require.NoError(t, err)
	return NewSavedRecord(result, testProfile(), testLevels(cost), at)
}

// ==========================
// SavedRecord
// ==========================

func TestNewSavedRecord(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	rec := newTestRecord(t, 10, at)

	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, at.UTC(), rec.CreatedAt)
	assert.Equal(t, 1, rec.Scenario)
	assert.Equal(t, uptake.BuiltinTableName, rec.TableName)
	assert.Equal(t, [2]string{"Risk-Averse", "Cost-Sensitive"}, rec.ClassLabels)
	assert.InDelta(t, 1.0, rec.ClassProbabilities[0]+rec.ClassProbabilities[1], 1e-12)
	assert.Contains(t, rec.FormattedMembership, "Risk-Averse: ")
	assert.Contains(t, rec.FormattedUptake, "Probability of Plan Uptake (vs. Opt-Out): ")
}

// ==========================
// MemoryStore
// ==========================

func TestMemoryStore_AppendAndList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(2)
	base := time.Now()

	first := newTestRecord(t, 1, base)
	second := newTestRecord(t, 2, base.Add(time.Second))
	third := newTestRecord(t, 3, base.Add(2*time.Second))
	for _, rec := range []*SavedRecord{first, second, third} {
		require.NoError(t, store.Append(ctx, rec))
	}

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, third.ID, all[1].ID)

	latest, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, third.ID, latest[0].ID)
}

// ==========================
// PostgresStore
// ==========================

func newMockPostgres(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(sqlx.NewDb(db, "postgres"), 0), mock
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	store, mock := newMockPostgres(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS uptake_records").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Append(t *testing.T) {
	store, mock := newMockPostgres(t)
	rec := newTestRecord(t, 10, time.Now())

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO uptake_records")).
		WithArgs(
			rec.ID.String(),
			sqlmock.AnyArg(),
			1,
			uptake.BuiltinTableName,
			uptake.BuiltinTableVersion,
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			rec.FormattedMembership,
			rec.FormattedUptake,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Append(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_AppendTrimsToMax(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewPostgresStore(sqlx.NewDb(db, "postgres"), 3)
	rec := newTestRecord(t, 10, time.Now())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO uptake_records")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM uptake_records")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.Append(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_AppendRollsBackFailedTrim(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewPostgresStore(sqlx.NewDb(db, "postgres"), 3)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO uptake_records")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM uptake_records")).
		WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	err = store.Append(context.Background(), newTestRecord(t, 10, time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trim records to 3")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListInInsertionOrder(t *testing.T) {
	store, mock := newMockPostgres(t)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	columns := []string{"id", "created_at", "scenario", "table_name", "table_version",
		"inputs", "outputs", "formatted_membership", "formatted_uptake"}
	inputs := []byte(`{"profile":{"age":0.4,"gender":"female","race":"other","income":"other","degree":true,"goodHealth":false},"attributes":{"costSelf":10}}`)
	outputs := []byte(`{"classLabels":["A","B"],"classProbabilities":[0.25,0.75],"classPlanProbabilities":[0.1,0.2],"uptake":0.175}`)

	rows := sqlmock.NewRows(columns).
		AddRow("3f1c1a2e-7d4b-4c55-9a51-0c7d1f4b2a10", at, 1, "table3-exact", "1", inputs, outputs, "A: 25.00%\nB: 75.00%", "Probability of Plan Uptake (vs. Opt-Out): 17.50%").
		AddRow("8a0e5b71-2f33-4d0b-8c1e-5b9e2d7c6f21", at.Add(time.Minute), 2, "table3-exact", "1", inputs, outputs, "A: 25.00%\nB: 75.00%", "Probability of Plan Uptake (vs. Opt-Out): 17.50%")

	mock.ExpectQuery(regexp.QuoteMeta("FROM uptake_records ORDER BY seq ASC")).WillReturnRows(rows)

	got, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "3f1c1a2e-7d4b-4c55-9a51-0c7d1f4b2a10", got[0].ID.String())
	assert.Equal(t, 2, got[1].Scenario)
	assert.Equal(t, uptake.GenderFemale, got[0].Profile.Gender)
	assert.Equal(t, 10.0, got[0].Attributes.CostSelf)
	assert.Equal(t, [2]string{"A", "B"}, got[0].ClassLabels)
	assert.InDelta(t, 0.175, got[0].Uptake, 1e-12)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListWithLimit(t *testing.T) {
	store, mock := newMockPostgres(t)
	columns := []string{"id", "created_at", "scenario", "table_name", "table_version",
		"inputs", "outputs", "formatted_membership", "formatted_uptake"}

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY seq DESC LIMIT $1")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(columns))

	got, err := store.List(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRejectsBadID(t *testing.T) {
	store, mock := newMockPostgres(t)
	columns := []string{"id", "created_at", "scenario", "table_name", "table_version",
		"inputs", "outputs", "formatted_membership", "formatted_uptake"}
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(columns).
		AddRow("not-a-uuid", time.Now(), 1, "t", "1", []byte(`{}`), []byte(`{}`), "", ""))

	_, err := store.List(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse record id")
}

// ==========================
// RedisStore
// ==========================

func newMiniRedisStore(t *testing.T, max int) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, "uptake:records", max), mr
}

func TestRedisStore_AppendAndList(t *testing.T) {
	ctx := context.Background()
	store, mr := newMiniRedisStore(t, 0)
	base := time.Now()

	first := newTestRecord(t, 1, base)
	second := newTestRecord(t, 2, base.Add(time.Second))
	require.NoError(t, store.Append(ctx, first))
	require.NoError(t, store.Append(ctx, second))

	entries, err := mr.List("uptake:records")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	got, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
	assert.Equal(t, first.FormattedUptake, got[0].FormattedUptake)
	assert.Equal(t, first.Attributes, got[0].Attributes)
}

func TestRedisStore_TrimsToMax(t *testing.T) {
	ctx := context.Background()
	store, _ := newMiniRedisStore(t, 2)
	base := time.Now()

	var ids []string
	for i := 0; i < 4; i++ {
		rec := newTestRecord(t, float64(i), base.Add(time.Duration(i)*time.Second))
		ids = append(ids, rec.ID.String())
		require.NoError(t, store.Append(ctx, rec))
	}

	got, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ids[2], got[0].ID.String())
	assert.Equal(t, ids[3], got[1].ID.String())

	latest, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, ids[3], latest[0].ID.String())
}

func TestRedisStore_ListErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("lrange failure", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client, "uptake:records", 0)
		mock.ExpectLRange("uptake:records", 0, -1).SetErr(errors.New("connection reset"))

		_, err := store.List(ctx, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupted entry", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client, "uptake:records", 0)
		mock.ExpectLRange("uptake:records", -3, -1).SetVal([]string{"{not json"})

		_, err := store.List(ctx, 3)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode record 0")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// ==========================
// NewStore
// ==========================

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	store, err := NewStore(ctx, config.RecordsConfig{Backend: config.RecordsBackendNone}, Backends{})
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = NewStore(ctx, config.RecordsConfig{Backend: config.RecordsBackendMemory}, Backends{})
	require.NoError(t, err)
	assert.Equal(t, "memory", store.Backend())

	_, err = NewStore(ctx, config.RecordsConfig{Backend: config.RecordsBackendRedis}, Backends{})
	assert.Error(t, err)

	_, err = NewStore(ctx, config.RecordsConfig{Backend: "sqlite"}, Backends{})
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store, err = NewStore(ctx, config.RecordsConfig{Backend: config.RecordsBackendRedis, RedisKey: "k"}, Backends{Redis: client})
	require.NoError(t, err)
	assert.Equal(t, "redis", store.Backend())
}
