package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"examspace/internal/model"
)

// MaintenanceRepository 维护窗口数据访问接口
type MaintenanceRepository interface {
	ListBetween(ctx context.Context, start, end time.Time) ([]model.MaintenancePeriod, error)
}

type maintenanceRepo struct {
	db *gorm.DB
}

// NewMaintenanceRepo 创建 MaintenanceRepository 实例
func NewMaintenanceRepo(db *gorm.DB) MaintenanceRepository {
	return &maintenanceRepo{db: db}
}

func (r *maintenanceRepo) ListBetween(ctx context.Context, start, end time.Time) ([]model.MaintenancePeriod, error) {
	var periods []model.MaintenancePeriod
	err := r.db.WithContext(ctx).
		Where("starts_at < ? AND ends_at > ?", end, start).
		Order("starts_at ASC").
		Find(&periods).Error
	return periods, err
}
