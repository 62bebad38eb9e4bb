package errors

import "errors"

// ErrStatusConflict 条件更新未命中：请假单已被其他操作处理
var ErrStatusConflict = errors.New("记录状态已变更，条件更新未生效")
