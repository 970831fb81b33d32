package repository

import (
	"context"

	"gorm.io/gorm"

	"examspace/internal/model"
)

// ExamRepository 考试与报名数据访问接口
type ExamRepository interface {
	GetByID(ctx context.Context, id string) (*model.Exam, error)
	// GetEnrolment 取用户在某考试下的报名（含既有预约）
	GetEnrolment(ctx context.Context, examID, userID string) (*model.Enrolment, error)
}

type examRepo struct {
	db *gorm.DB
}

// NewExamRepo 创建 ExamRepository 实例
func NewExamRepo(db *gorm.DB) ExamRepository {
	return &examRepo{db: db}
}

func (r *examRepo) GetByID(ctx context.Context, id string) (*model.Exam, error) {
	var exam model.Exam
	err := r.db.WithContext(ctx).Where("exam_id = ?", id).First(&exam).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepo) GetEnrolment(ctx context.Context, examID, userID string) (*model.Enrolment, error) {
	var enrolment model.Enrolment
	err := r.db.WithContext(ctx).
		Preload("Exam").
		Preload("Reservation").
		Where("exam_id = ? AND user_id = ?", examID, userID).
		First(&enrolment).Error
	if err != nil {
		return nil, err
	}
	return &enrolment, nil
}
