// internal/records/record.go

// Package records keeps an append-only history of evaluations.
package records

import (
	"context"
	"time"

	"plan-uptake-workers/internal/uptake"

	"github.com/google/uuid"
)

// SavedRecord is one evaluation as shown to the user.
type SavedRecord struct {
	ID                     uuid.UUID                `json:"id"`
	CreatedAt              time.Time                `json:"createdAt"`
	Scenario               int                      `json:"scenario"`
	TableName              string                   `json:"tableName"`
	TableVersion           string                   `json:"tableVersion"`
	Profile                uptake.RespondentProfile `json:"profile"`
	Attributes             uptake.AttributeLevels   `json:"attributes"`
	ClassLabels            [2]string                `json:"classLabels"`
	ClassProbabilities     [2]float64               `json:"classProbabilities"`
	ClassPlanProbabilities [2]float64               `json:"classPlanProbabilities"`
	Uptake                 float64                  `json:"uptake"`
	FormattedMembership    string                   `json:"formattedMembership"`
	FormattedUptake        string                   `json:"formattedUptake"`
}

// NewSavedRecord snapshots an evaluation and its inputs.
func NewSavedRecord(result *uptake.EvaluationResult, profile uptake.RespondentProfile, levels uptake.AttributeLevels, now time.Time) *SavedRecord {
	return &SavedRecord{
		ID:                     uuid.New(),
		CreatedAt:              now.UTC(),
		Scenario:               int(result.Scenario),
		TableName:              result.TableName,
		TableVersion:           result.TableVersion,
		Profile:                profile,
		Attributes:             levels,
		ClassLabels:            result.Membership.Labels,
		ClassProbabilities:     result.Membership.Probabilities,
		ClassPlanProbabilities: result.ClassPlanProbabilities(),
		Uptake:                 result.Uptake,
		FormattedMembership:    uptake.FormatMembership(result.Membership),
		FormattedUptake:        uptake.FormatUptake(result.Uptake),
	}
}

// Store appends records and lists them oldest first.
type Store interface {
	Append(ctx context.Context, rec *SavedRecord) error
	// List returns the most recent limit records in insertion order; a
	// non-positive limit returns every record.
	List(ctx context.Context, limit int) ([]SavedRecord, error)
	Backend() string
}
