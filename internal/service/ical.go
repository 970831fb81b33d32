package service

import (
	"time"

	ics "github.com/arran4/golang-ical"

	"examspace/internal/dto"
)

// buildReservationsICS 把预约列表渲染为 iCalendar 文档
// 用于确认邮件附件和 "我的预约" 导出
func buildReservationsICS(reservations []dto.ReservationResponse) []byte {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//examspace//reservations//EN")

	now := time.Now()
	for _, r := range reservations {
		event := cal.AddEvent(r.ID)
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetStartAt(r.Start)
		event.SetEndAt(r.End)

		summary := "考试预约"
		if r.ExamName != "" {
			summary += ": " + r.ExamName
		}
		event.SetSummary(summary)

		switch {
		case r.RoomName != "":
			event.SetLocation(r.RoomName)
		case r.OrgRef != "":
			event.SetLocation(r.OrgRef)
		}
	}

	return []byte(cal.Serialize())
}
