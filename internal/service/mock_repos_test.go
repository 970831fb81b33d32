package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"examspace/internal/dto"
	"examspace/internal/model"
	"examspace/internal/repository"
)

// mockRepos 一组内存仓储，按需在用例里预置数据
type mockRepos struct {
	users         *mockUserRepo
	rooms         *mockRoomRepo
	exceptions    *mockExceptionRepo
	accessibility *mockAccessibilityRepo
	exams         *mockExamRepo
	reservations  *mockReservationRepo
	external      *mockExternalReservationRepo
	maintenance   *mockMaintenanceRepo
}

func newMockRepos() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		users:         newMockUserRepo(),
		rooms:         newMockRoomRepo(),
		accessibility: newMockAccessibilityRepo(),
		exams:         newMockExamRepo(),
		reservations:  newMockReservationRepo(),
		external:      newMockExternalReservationRepo(),
		maintenance:   newMockMaintenanceRepo(),
	}
	m.exceptions = newMockExceptionRepo(m.rooms)

	repo := &repository.Repository{
		User:                m.users,
		Room:                m.rooms,
		Exception:           m.exceptions,
		Accessibility:       m.accessibility,
		Exam:                m.exams,
		Reservation:         m.reservations,
		ExternalReservation: m.external,
		Maintenance:         m.maintenance,
	}
	return repo, m
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock RoomRepository ──

type mockRoomRepo struct {
	rooms map[string]*model.Room
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[string]*model.Room)}
}

func (m *mockRoomRepo) List(_ context.Context) ([]model.Room, error) {
	var result []model.Room
	for _, r := range m.rooms {
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id string) (*model.Room, error) {
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) ReplaceWorkingHours(_ context.Context, roomID string, hours []model.DefaultWorkingHours) error {
	room, ok := m.rooms[roomID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range hours {
		hours[i].RoomID = roomID
	}
	room.WorkingHours = hours
	return nil
}

// ── Mock ExceptionRepository ──

type mockExceptionRepo struct {
	exceptions map[string]*model.ExceptionWorkingHours
	seq        int
	rooms      *mockRoomRepo // 同步到机房的 Exceptions 字段
}

func newMockExceptionRepo(rooms *mockRoomRepo) *mockExceptionRepo {
	return &mockExceptionRepo{exceptions: make(map[string]*model.ExceptionWorkingHours), rooms: rooms}
}

func (m *mockExceptionRepo) ListByRoom(_ context.Context, roomID string) ([]model.ExceptionWorkingHours, error) {
	var result []model.ExceptionWorkingHours
	for _, e := range m.exceptions {
		if e.RoomID == roomID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockExceptionRepo) CreateBatch(_ context.Context, exceptions []model.ExceptionWorkingHours) error {
	for i := range exceptions {
		m.seq++
		exceptions[i].ExceptionID = fmt.Sprintf("exc-%03d", m.seq)
		e := exceptions[i]
		m.exceptions[e.ExceptionID] = &e
		if room, ok := m.rooms.rooms[e.RoomID]; ok {
			room.Exceptions = append(room.Exceptions, e)
		}
	}
	return nil
}

func (m *mockExceptionRepo) GetByID(_ context.Context, roomID, exceptionID string) (*model.ExceptionWorkingHours, error) {
	if e, ok := m.exceptions[exceptionID]; ok && e.RoomID == roomID {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExceptionRepo) Delete(_ context.Context, roomID, exceptionID string) error {
	delete(m.exceptions, exceptionID)
	if room, ok := m.rooms.rooms[roomID]; ok {
		kept := room.Exceptions[:0]
		for _, e := range room.Exceptions {
			if e.ExceptionID != exceptionID {
				kept = append(kept, e)
			}
		}
		room.Exceptions = kept
	}
	return nil
}

// ── Mock AccessibilityRepository ──

type mockAccessibilityRepo struct {
	tags map[string]*model.Accessibility
}

func newMockAccessibilityRepo() *mockAccessibilityRepo {
	return &mockAccessibilityRepo{tags: make(map[string]*model.Accessibility)}
}

func (m *mockAccessibilityRepo) List(_ context.Context) ([]model.Accessibility, error) {
	var result []model.Accessibility
	for _, t := range m.tags {
		result = append(result, *t)
	}
	return result, nil
}

// ── Mock ExamRepository ──

type mockExamRepo struct {
	exams      map[string]*model.Exam
	enrolments map[string]*model.Enrolment // key: examID+":"+userID
}

func newMockExamRepo() *mockExamRepo {
	return &mockExamRepo{
		exams:      make(map[string]*model.Exam),
		enrolments: make(map[string]*model.Enrolment),
	}
}

func (m *mockExamRepo) GetByID(_ context.Context, id string) (*model.Exam, error) {
	if e, ok := m.exams[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExamRepo) GetEnrolment(_ context.Context, examID, userID string) (*model.Enrolment, error) {
	if e, ok := m.enrolments[examID+":"+userID]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ReservationRepository ──

// mockReservationRepo 内存实现，保持与真实存储相同的排他语义：
// 同一机器同一重叠区间至多一条预约
type mockReservationRepo struct {
	reservations map[string]*model.Reservation
	seq          int
}

func newMockReservationRepo() *mockReservationRepo {
	return &mockReservationRepo{reservations: make(map[string]*model.Reservation)}
}

func (m *mockReservationRepo) ListForRoomBetween(_ context.Context, roomID string, start, end time.Time) ([]model.Reservation, error) {
	var result []model.Reservation
	for _, r := range m.reservations {
		if r.RoomID == roomID && r.StartsAt.Before(end) && r.EndsAt.After(start) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockReservationRepo) ListByUser(_ context.Context, userID string) ([]model.Reservation, error) {
	var result []model.Reservation
	for _, r := range m.reservations {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockReservationRepo) ReserveMachine(_ context.Context, res *model.Reservation, candidateMachineIDs []string) error {
	for id, r := range m.reservations {
		if r.EnrolmentID == res.EnrolmentID {
			delete(m.reservations, id)
		}
	}

	occupied := make(map[string]bool)
	for _, r := range m.reservations {
		if r.StartsAt.Before(res.EndsAt) && r.EndsAt.After(res.StartsAt) {
			occupied[r.MachineID] = true
		}
	}

	for _, id := range candidateMachineIDs {
		if !occupied[id] {
			m.seq++
			res.MachineID = id
			res.ReservationID = fmt.Sprintf("res-%03d", m.seq)
			stored := *res
			m.reservations[res.ReservationID] = &stored
			return nil
		}
	}
	return repository.ErrNoFreeMachine
}

func (m *mockReservationRepo) DeleteByEnrolment(_ context.Context, enrolmentID string) error {
	for id, r := range m.reservations {
		if r.EnrolmentID == enrolmentID {
			delete(m.reservations, id)
		}
	}
	return nil
}

// ── Mock ExternalReservationRepository ──

type mockExternalReservationRepo struct {
	reservations map[string]*model.ExternalReservation
	seq          int
}

func newMockExternalReservationRepo() *mockExternalReservationRepo {
	return &mockExternalReservationRepo{reservations: make(map[string]*model.ExternalReservation)}
}

func (m *mockExternalReservationRepo) Replace(_ context.Context, res *model.ExternalReservation) error {
	for id, r := range m.reservations {
		if r.EnrolmentID == res.EnrolmentID {
			delete(m.reservations, id)
		}
	}
	m.seq++
	res.ExternalReservationID = fmt.Sprintf("ext-%03d", m.seq)
	stored := *res
	m.reservations[res.ExternalReservationID] = &stored
	return nil
}

func (m *mockExternalReservationRepo) ListByUser(_ context.Context, userID string) ([]model.ExternalReservation, error) {
	var result []model.ExternalReservation
	for _, r := range m.reservations {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockExternalReservationRepo) DeleteByEnrolment(_ context.Context, enrolmentID string) error {
	for id, r := range m.reservations {
		if r.EnrolmentID == enrolmentID {
			delete(m.reservations, id)
		}
	}
	return nil
}

// ── Mock MaintenanceRepository ──

type mockMaintenanceRepo struct {
	periods []model.MaintenancePeriod
}

func newMockMaintenanceRepo() *mockMaintenanceRepo {
	return &mockMaintenanceRepo{}
}

func (m *mockMaintenanceRepo) ListBetween(_ context.Context, start, end time.Time) ([]model.MaintenancePeriod, error) {
	var result []model.MaintenancePeriod
	for _, p := range m.periods {
		if p.StartsAt.Before(end) && p.EndsAt.After(start) {
			result = append(result, p)
		}
	}
	return result, nil
}

// ── Mock IOPClient ──

type mockIOPClient struct {
	organisations []dto.OrganisationResponse
	slots         []dto.SlotResponse
	reserveErr    error
	peerRef       string
	lastReserve   *dto.CreateReservationRequest
}

func newMockIOPClient() *mockIOPClient {
	return &mockIOPClient{peerRef: "peer-ref-001"}
}

func (m *mockIOPClient) ListOrganisations(_ context.Context) ([]dto.OrganisationResponse, error) {
	return m.organisations, nil
}

func (m *mockIOPClient) ListSlots(_ context.Context, _ SlotQuery) ([]dto.SlotResponse, error) {
	return m.slots, nil
}

func (m *mockIOPClient) Reserve(_ context.Context, req *dto.CreateReservationRequest, _ string) (string, error) {
	m.lastReserve = req
	if m.reserveErr != nil {
		return "", m.reserveErr
	}
	return m.peerRef, nil
}
