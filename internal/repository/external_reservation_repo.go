package repository

import (
	"context"

	"gorm.io/gorm"

	"examspace/internal/model"
)

// ExternalReservationRepository 对端机构预约回执的数据访问接口
type ExternalReservationRepository interface {
	// Replace 同一报名只保留最新一条对端回执
	Replace(ctx context.Context, res *model.ExternalReservation) error
	ListByUser(ctx context.Context, userID string) ([]model.ExternalReservation, error)
	DeleteByEnrolment(ctx context.Context, enrolmentID string) error
}

type externalReservationRepo struct {
	db *gorm.DB
}

// NewExternalReservationRepo 创建 ExternalReservationRepository 实例
func NewExternalReservationRepo(db *gorm.DB) ExternalReservationRepository {
	return &externalReservationRepo{db: db}
}

func (r *externalReservationRepo) Replace(ctx context.Context, res *model.ExternalReservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("enrolment_id = ?", res.EnrolmentID).
			Delete(&model.ExternalReservation{}).Error; err != nil {
			return err
		}
		return tx.Create(res).Error
	})
}

func (r *externalReservationRepo) DeleteByEnrolment(ctx context.Context, enrolmentID string) error {
	return r.db.WithContext(ctx).
		Where("enrolment_id = ?", enrolmentID).
		Delete(&model.ExternalReservation{}).Error
}

func (r *externalReservationRepo) ListByUser(ctx context.Context, userID string) ([]model.ExternalReservation, error) {
	var reservations []model.ExternalReservation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("starts_at ASC").
		Find(&reservations).Error
	return reservations, err
}
