package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User                UserRepository
	Room                RoomRepository
	Exception           ExceptionRepository
	Accessibility       AccessibilityRepository
	Exam                ExamRepository
	Reservation         ReservationRepository
	ExternalReservation ExternalReservationRepository
	Maintenance         MaintenanceRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:                NewUserRepo(db),
		Room:                NewRoomRepo(db),
		Exception:           NewExceptionRepo(db),
		Accessibility:       NewAccessibilityRepo(db),
		Exam:                NewExamRepo(db),
		Reservation:         NewReservationRepo(db),
		ExternalReservation: NewExternalReservationRepo(db),
		Maintenance:         NewMaintenanceRepo(db),
	}
}
