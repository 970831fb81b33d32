package service

import (
	"go.uber.org/zap"

	"examspace/config"
	"examspace/internal/repository"
	"examspace/pkg/jwt"
	"examspace/pkg/mailer"
	"examspace/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth        AuthService
	Room        RoomService
	Calendar    CalendarService
	Reservation ReservationService
	IOP         IOPClient
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	mail *mailer.Mailer,
	logger *zap.Logger,
) *Service {
	iop := NewIOPClient(&cfg.IOP, logger)
	calendarSvc := NewCalendarService(cfg, repo, rdb, iop, logger)
	return &Service{
		Auth:        NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Room:        NewRoomService(repo, rdb, logger),
		Calendar:    calendarSvc,
		Reservation: NewReservationService(cfg, repo, calendarSvc, iop, mail, logger),
		IOP:         iop,
	}
}
