// internal/records/postgres_store.go
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"plan-uptake-workers/internal/uptake"
)

const (
	createRecordsTable = `CREATE TABLE IF NOT EXISTS uptake_records (
	seq BIGSERIAL PRIMARY KEY,
	id UUID NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL,
	scenario SMALLINT NOT NULL,
	table_name TEXT NOT NULL,
	table_version TEXT NOT NULL,
	inputs JSONB NOT NULL,
	outputs JSONB NOT NULL,
	formatted_membership TEXT NOT NULL,
	formatted_uptake TEXT NOT NULL
)`

	insertRecord = `INSERT INTO uptake_records
	(id, created_at, scenario, table_name, table_version, inputs, outputs, formatted_membership, formatted_uptake)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	trimRecords = `DELETE FROM uptake_records
	WHERE seq NOT IN (SELECT seq FROM uptake_records ORDER BY seq DESC LIMIT $1)`

	recordColumns = `id, created_at, scenario, table_name, table_version, inputs, outputs, formatted_membership, formatted_uptake`

	selectAllRecords = `SELECT ` + recordColumns + ` FROM uptake_records ORDER BY seq ASC`

	selectRecentRecords = `SELECT ` + recordColumns + ` FROM (
	SELECT seq, ` + recordColumns + ` FROM uptake_records ORDER BY seq DESC LIMIT $1
) recent ORDER BY seq ASC`
)

type recordRow struct {
	ID                  string    `db:"id"`
	CreatedAt           time.Time `db:"created_at"`
	Scenario            int       `db:"scenario"`
	TableName           string    `db:"table_name"`
	TableVersion        string    `db:"table_version"`
	Inputs              []byte    `db:"inputs"`
	Outputs             []byte    `db:"outputs"`
	FormattedMembership string    `db:"formatted_membership"`
	FormattedUptake     string    `db:"formatted_uptake"`
}

type recordInputs struct {
	Profile    uptake.RespondentProfile `json:"profile"`
	Attributes uptake.AttributeLevels   `json:"attributes"`
}

type recordOutputs struct {
	ClassLabels            [2]string  `json:"classLabels"`
	ClassProbabilities     [2]float64 `json:"classProbabilities"`
	ClassPlanProbabilities [2]float64 `json:"classPlanProbabilities"`
	Uptake                 float64    `json:"uptake"`
}

// PostgresStore persists records in the uptake_records table. Insertion
// order is the BIGSERIAL seq column. When max is set, each append deletes
// everything but the newest max rows in the same transaction.
type PostgresStore struct {
	db  *sqlx.DB
	max int
}

func NewPostgresStore(db *sqlx.DB, max int) *PostgresStore {
	return &PostgresStore{db: db, max: max}
}

func (s *PostgresStore) Backend() string { return "postgres" }

// EnsureSchema creates the records table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createRecordsTable); err != nil {
		return fmt.Errorf("create uptake_records: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, rec *SavedRecord) error {
	inputs, err := json.Marshal(recordInputs{Profile: rec.Profile, Attributes: rec.Attributes})
	if err != nil {
		return fmt.Errorf("encode record inputs: %w", err)
	}
	outputs, err := json.Marshal(recordOutputs{
		ClassLabels:            rec.ClassLabels,
		ClassProbabilities:     rec.ClassProbabilities,
		ClassPlanProbabilities: rec.ClassPlanProbabilities,
		Uptake:                 rec.Uptake,
	})
	if err != nil {
		return fmt.Errorf("encode record outputs: %w", err)
	}

	args := []interface{}{
		rec.ID.String(),
		rec.CreatedAt,
		rec.Scenario,
		rec.TableName,
		rec.TableVersion,
		inputs,
		outputs,
		rec.FormattedMembership,
		rec.FormattedUptake,
	}

	if s.max <= 0 {
		if _, err := s.db.ExecContext(ctx, insertRecord, args...); err != nil {
			return fmt.Errorf("insert record %s: %w", rec.ID, err)
		}
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, insertRecord, args...); err != nil {
		return fmt.Errorf("insert record %s: %w", rec.ID, err)
	}
	if _, err := tx.ExecContext(ctx, trimRecords, s.max); err != nil {
		return fmt.Errorf("trim records to %d: %w", s.max, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record %s: %w", rec.ID, err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]SavedRecord, error) {
	var (
		rows []recordRow
		err  error
	)
	if limit > 0 {
		err = s.db.SelectContext(ctx, &rows, selectRecentRecords, limit)
	} else {
		err = s.db.SelectContext(ctx, &rows, selectAllRecords)
	}
	if err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}

	out := make([]SavedRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r recordRow) toRecord() (SavedRecord, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return SavedRecord{}, fmt.Errorf("parse record id %q: %w", r.ID, err)
	}
	var in recordInputs
	if err := json.Unmarshal(r.Inputs, &in); err != nil {
		return SavedRecord{}, fmt.Errorf("decode inputs of record %s: %w", r.ID, err)
	}
	var out recordOutputs
	if err := json.Unmarshal(r.Outputs, &out); err != nil {
		return SavedRecord{}, fmt.Errorf("decode outputs of record %s: %w", r.ID, err)
	}

	return SavedRecord{
		ID:                     id,
		CreatedAt:              r.CreatedAt.UTC(),
		Scenario:               r.Scenario,
		TableName:              r.TableName,
		TableVersion:           r.TableVersion,
		Profile:                in.Profile,
		Attributes:             in.Attributes,
		ClassLabels:            out.ClassLabels,
		ClassProbabilities:     out.ClassProbabilities,
		ClassPlanProbabilities: out.ClassPlanProbabilities,
		Uptake:                 out.Uptake,
		FormattedMembership:    r.FormattedMembership,
		FormattedUptake:        r.FormattedUptake,
	}, nil
}
