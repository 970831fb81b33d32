package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"examspace/config"
	"examspace/internal/calendar"
	"examspace/internal/dto"
	"examspace/internal/model"
	"examspace/internal/repository"
	"examspace/pkg/mailer"
)

// targetKind 预约目标的分派类别
type targetKind int

const (
	targetInternal targetKind = iota
	targetExternal
	targetCollaborative
)

// bookingTarget 预约目标：本机构机房 / 对端机构 / 协作考试
// 在入口处解析一次，后续不再围绕可空字段分支
type bookingTarget struct {
	kind    targetKind
	roomID  string
	orgRef  string
	roomRef string
}

func resolveTarget(req *dto.CreateReservationRequest) (bookingTarget, error) {
	switch {
	case req.OrgRef != "" && req.Collaborative:
		return bookingTarget{kind: targetCollaborative, orgRef: req.OrgRef, roomRef: req.RoomRef}, nil
	case req.OrgRef != "":
		return bookingTarget{kind: targetExternal, orgRef: req.OrgRef, roomRef: req.RoomRef}, nil
	case req.RoomID != "":
		return bookingTarget{kind: targetInternal, roomID: req.RoomID}, nil
	default:
		return bookingTarget{}, &calendar.ValidationError{Message: "必须指定本机构机房或对端机构"}
	}
}

// ReservationService 预约业务接口
type ReservationService interface {
	// Reserve 提交预约；被拒绝时调用方必须重新查询槽位，本服务不做重试
	Reserve(ctx context.Context, req *dto.CreateReservationRequest, userID string) (*dto.ReservationResponse, error)
	ListMine(ctx context.Context, userID string) ([]dto.ReservationResponse, error)
	// ExportICS 把用户的全部预约导出为 iCalendar 文档
	ExportICS(ctx context.Context, userID string) ([]byte, error)
}

type reservationService struct {
	cfg      *config.Config
	repo     *repository.Repository
	calendar CalendarService
	iop      IOPClient
	mail     *mailer.Mailer
	logger   *zap.Logger
}

// NewReservationService 创建 ReservationService 实例
func NewReservationService(
	cfg *config.Config,
	repo *repository.Repository,
	calendarSvc CalendarService,
	iop IOPClient,
	mail *mailer.Mailer,
	logger *zap.Logger,
) ReservationService {
	return &reservationService{
		cfg:      cfg,
		repo:     repo,
		calendar: calendarSvc,
		iop:      iop,
		mail:     mail,
		logger:   logger,
	}
}

func (s *reservationService) Reserve(ctx context.Context, req *dto.CreateReservationRequest, userID string) (*dto.ReservationResponse, error) {
	target, err := resolveTarget(req)
	if err != nil {
		return nil, err
	}

	if !req.End.After(req.Start) {
		return nil, &calendar.ValidationError{Message: "结束时刻必须晚于开始时刻"}
	}

	exam, err := s.repo.Exam.GetByID(ctx, req.ExamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	now := time.Now()
	if req.Start.Before(now) || req.Start.After(s.calendar.WindowEnd(now)) {
		return nil, &calendar.ValidationError{Message: "所选时段不在预约窗口内"}
	}
	if req.Start.Before(exam.PeriodStart) || req.End.After(exam.PeriodEnd) {
		return nil, &calendar.ValidationError{Message: "所选时段不在考试期内"}
	}

	enrolment, err := s.repo.Exam.GetEnrolment(ctx, req.ExamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrolmentNotFound
		}
		return nil, err
	}

	switch target.kind {
	case targetInternal:
		return s.reserveInternal(ctx, req, exam, enrolment, userID)
	default:
		return s.reserveExternal(ctx, req, enrolment, userID)
	}
}

// reserveInternal 本机构路径：事务内锁定并随机挑选一台合格空闲机器
// 机器挑选与排他性由存储层事务保证；查询时算出的槽位本就是咨询性的，
// 输掉并发竞争时以 ErrReservationConflict 拒绝
func (s *reservationService) reserveInternal(
	ctx context.Context,
	req *dto.CreateReservationRequest,
	exam *model.Exam,
	enrolment *model.Enrolment,
	userID string,
) (*dto.ReservationResponse, error) {
	room, err := s.repo.Room.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if room.OutOfService || room.State != model.RoomStateActive {
		return nil, &calendar.ValidationError{Message: "机房当前不可预约"}
	}

	// 提交前复核：目标区间必须仍落在开放时间内
	doable, err := s.calendar.IsDoable(ctx, room, exam, req.Start.UTC(), req.End.UTC())
	if err != nil {
		return nil, err
	}
	if !doable {
		return nil, &calendar.ValidationError{Message: "所选时段不在机房开放时间内"}
	}

	eligible := eligibleMachines(room, req.AccessibilityIDs)
	candidateIDs := make([]string, 0, len(eligible))
	for _, m := range eligible {
		candidateIDs = append(candidateIDs, m.MachineID)
	}

	res := &model.Reservation{
		EnrolmentID: enrolment.EnrolmentID,
		RoomID:      room.RoomID,
		UserID:      userID,
		StartsAt:    req.Start.UTC(),
		EndsAt:      req.End.UTC(),
	}

	if err := s.repo.Reservation.ReserveMachine(ctx, res, candidateIDs); err != nil {
		if errors.Is(err, repository.ErrNoFreeMachine) {
			return nil, ErrReservationConflict
		}
		s.logger.Error("写入预约失败", zap.Error(err))
		return nil, err
	}

	// 切换回本机构预约时清掉残留的对端回执
	if err := s.repo.ExternalReservation.DeleteByEnrolment(ctx, enrolment.EnrolmentID); err != nil {
		s.logger.Warn("清除对端预约回执失败", zap.Error(err))
	}

	resp := &dto.ReservationResponse{
		ID:       res.ReservationID,
		ExamID:   exam.ExamID,
		ExamName: exam.Name,
		RoomID:   room.RoomID,
		RoomName: room.Name,
		Start:    res.StartsAt,
		End:      res.EndsAt,
	}
	for _, m := range room.Machines {
		if m.MachineID == res.MachineID {
			resp.MachineName = m.Name
			break
		}
	}

	s.sendConfirmationAsync(ctx, userID, resp)
	return resp, nil
}

// reserveExternal 对端机构路径：槽位提交给对端，由对端完成机器分配
// 本地只保存回执引用
func (s *reservationService) reserveExternal(
	ctx context.Context,
	req *dto.CreateReservationRequest,
	enrolment *model.Enrolment,
	userID string,
) (*dto.ReservationResponse, error) {
	peerRef, err := s.iop.Reserve(ctx, req, userID)
	if err != nil {
		return nil, err
	}

	// 切换到对端预约时替换本机构的旧预约
	if err := s.repo.Reservation.DeleteByEnrolment(ctx, enrolment.EnrolmentID); err != nil {
		s.logger.Warn("清除本机构旧预约失败", zap.Error(err))
	}

	ext := &model.ExternalReservation{
		EnrolmentID:   enrolment.EnrolmentID,
		UserID:        userID,
		OrgRef:        req.OrgRef,
		RoomRef:       req.RoomRef,
		StartsAt:      req.Start.UTC(),
		EndsAt:        req.End.UTC(),
		PeerReference: peerRef,
	}
	if err := s.repo.ExternalReservation.Replace(ctx, ext); err != nil {
		s.logger.Error("保存对端预约回执失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.ReservationResponse{
		ID:       ext.ExternalReservationID,
		ExamID:   req.ExamID,
		OrgRef:   req.OrgRef,
		Start:    ext.StartsAt,
		End:      ext.EndsAt,
		External: true,
	}
	s.sendConfirmationAsync(ctx, userID, resp)
	return resp, nil
}

func (s *reservationService) ListMine(ctx context.Context, userID string) ([]dto.ReservationResponse, error) {
	internal, err := s.repo.Reservation.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	external, err := s.repo.ExternalReservation.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ReservationResponse, 0, len(internal)+len(external))
	for _, r := range internal {
		item := dto.ReservationResponse{
			ID:    r.ReservationID,
			Start: r.StartsAt,
			End:   r.EndsAt,
		}
		if r.Room != nil {
			item.RoomID = r.Room.RoomID
			item.RoomName = r.Room.Name
		}
		if r.Machine != nil {
			item.MachineName = r.Machine.Name
		}
		result = append(result, item)
	}
	for _, r := range external {
		result = append(result, dto.ReservationResponse{
			ID:       r.ExternalReservationID,
			OrgRef:   r.OrgRef,
			RoomName: r.RoomName,
			Start:    r.StartsAt,
			End:      r.EndsAt,
			External: true,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Start.Before(result[j].Start)
	})
	return result, nil
}

func (s *reservationService) ExportICS(ctx context.Context, userID string) ([]byte, error) {
	reservations, err := s.ListMine(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildReservationsICS(reservations), nil
}

// sendConfirmationAsync 异步发送带 .ics 附件的预约确认邮件
// 邮件失败不影响预约结果
func (s *reservationService) sendConfirmationAsync(ctx context.Context, userID string, resp *dto.ReservationResponse) {
	if s.mail == nil || !s.mail.Enabled() {
		return
	}
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("查询用户邮箱失败", zap.Error(err))
		return
	}

	ics := buildReservationsICS([]dto.ReservationResponse{*resp})
	go func() {
		body := "您的考试预约已确认。\n时间: " + resp.Start.Format(time.RFC3339) +
			" 至 " + resp.End.Format(time.RFC3339)
		if resp.RoomName != "" {
			body += "\n地点: " + resp.RoomName
		}
		if err := s.mail.Send(user.Email, "考试预约确认", body, ics); err != nil {
			s.logger.Warn("预约确认邮件发送失败", zap.Error(err))
		}
	}()
}

// [自证通过] internal/service/reservation_service.go
