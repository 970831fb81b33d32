package service

import (
	"errors"
	"fmt"
)

// 服务层哨兵错误
var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUserInactive       = errors.New("账号已停用")
	ErrRoomNotFound       = errors.New("机房不存在")
	ErrExamNotFound       = errors.New("考试不存在")
	ErrEnrolmentNotFound  = errors.New("报名记录不存在")
	ErrExceptionNotFound  = errors.New("例外时段不存在")
	// ErrReservationConflict 预约在提交时输给了并发的另一次预约
	// 调用方必须重新查询槽位，引擎不做自动重试
	ErrReservationConflict = errors.New("所选时段已被占用，请重新查询可用槽位")
	ErrIOPDisabled         = errors.New("跨机构互操作未启用")
)

// UpstreamError 对端机构不可达或返回异常状态
// 原样上抛，不在本地构造任何兜底数据
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("对端机构返回异常状态 %d: %s", e.Status, e.Body)
}
