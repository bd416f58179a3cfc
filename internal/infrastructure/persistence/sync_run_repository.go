package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/nicksmagento/syncbridge/internal/application/sync"
	"github.com/nicksmagento/syncbridge/internal/infrastructure/persistence/models"
)

const defaultRunListLimit = 50

// GormSyncRunRepository implements sync.RunRepository using GORM
type GormSyncRunRepository struct {
	db *gorm.DB
}

// NewGormSyncRunRepository creates a new GormSyncRunRepository
func NewGormSyncRunRepository(db *gorm.DB) *GormSyncRunRepository {
	return &GormSyncRunRepository{db: db}
}

// Save stores a sync run report
func (r *GormSyncRunRepository) Save(ctx context.Context, run *sync.Run) error {
	model := models.SyncRunModelFromDomain(run)
	return r.db.WithContext(ctx).Create(model).Error
}

// List returns the most recent sync runs, newest first
func (r *GormSyncRunRepository) List(ctx context.Context, limit int) ([]*sync.Run, error) {
	if limit <= 0 {
		limit = defaultRunListLimit
	}

	var runModels []models.SyncRunModel
	if err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runModels).Error; err != nil {
		return nil, err
	}

	runs := make([]*sync.Run, len(runModels))
	for i := range runModels {
		runs[i] = runModels[i].ToDomain()
	}
	return runs, nil
}

var _ sync.RunRepository = (*GormSyncRunRepository)(nil)
