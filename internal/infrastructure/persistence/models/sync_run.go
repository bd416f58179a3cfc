package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/nicksmagento/syncbridge/internal/application/sync"
	"github.com/nicksmagento/syncbridge/internal/domain/connector"
)

// SyncRunModel is the persistence model for a sync run report. The
// per-connector results are stored as a JSONB document because they are
// written once and read back whole.
type SyncRunModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	Kind       string    `gorm:"type:varchar(32);not null;index"`
	StartedAt  time.Time `gorm:"type:timestamptz;not null;index"`
	FinishedAt time.Time `gorm:"type:timestamptz;not null"`
	Results    string    `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SyncRunModel) TableName() string {
	return "sync_runs"
}

// ToDomain converts the persistence model to a sync.Run report
func (m *SyncRunModel) ToDomain() *sync.Run {
	results := connector.ResultMap{}
	if m.Results != "" {
		_ = json.Unmarshal([]byte(m.Results), &results)
	}
	return &sync.Run{
		ID:         m.ID,
		Kind:       sync.RunKind(m.Kind),
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
		Results:    results,
	}
}

// FromDomain populates the persistence model from a sync.Run report
func (m *SyncRunModel) FromDomain(r *sync.Run) {
	m.ID = r.ID
	m.Kind = string(r.Kind)
	m.StartedAt = r.StartedAt
	m.FinishedAt = r.FinishedAt

	if encoded, err := json.Marshal(r.Results); err == nil {
		m.Results = string(encoded)
	} else {
		m.Results = "{}"
	}
}

// SyncRunModelFromDomain creates a new persistence model from a sync.Run report
func SyncRunModelFromDomain(r *sync.Run) *SyncRunModel {
	m := &SyncRunModel{}
	m.FromDomain(r)
	return m
}
