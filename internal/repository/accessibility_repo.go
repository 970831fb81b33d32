package repository

import (
	"context"

	"gorm.io/gorm"

	"examspace/internal/model"
)

// AccessibilityRepository 无障碍标签数据访问接口
type AccessibilityRepository interface {
	List(ctx context.Context) ([]model.Accessibility, error)
}

type accessibilityRepo struct {
	db *gorm.DB
}

// NewAccessibilityRepo 创建 AccessibilityRepository 实例
func NewAccessibilityRepo(db *gorm.DB) AccessibilityRepository {
	return &accessibilityRepo{db: db}
}

func (r *accessibilityRepo) List(ctx context.Context) ([]model.Accessibility, error) {
	var tags []model.Accessibility
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}
