package notify

import (
	"context"
	"errors"
	"strings"
)

// ErrDeliveryFailed 通知投递失败
// 所有后端的失败（含超时、收件地址无效）统一包装为该错误；
// 调用方只把它作为附带警告上报，绝不回滚已提交的状态变更。
var ErrDeliveryFailed = errors.New("notification delivery failed")

// Notifier 通知投递接口
// 尽力而为（best-effort）：实现必须自带有界超时，失败以 ErrDeliveryFailed 返回，
// 不允许让异常穿透到工作流
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) error
}

// ValidRecipient 收件地址粗校验（与邮件后端共用）
func ValidRecipient(addr string) bool {
	return addr != "" && strings.Contains(addr, "@")
}

// Noop 空实现：notify.backend=off 时使用，总是投递成功
type Noop struct{}

// Notify 直接返回成功
func (Noop) Notify(_ context.Context, _, _, _ string) error { return nil }
