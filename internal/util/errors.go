package util

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrEmailRegistered   = errors.New("该邮箱已被注册")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrAttemptNotFound   = errors.New("attempt not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrPretestImmutable  = errors.New("pretest attempts cannot be deleted")
	ErrDuplicatePretest  = errors.New("pretest already recorded for this lesson, retry as update")
	ErrPretestIncomplete = errors.New("course pretests not completed")
)

// ValidationError 请求字段校验失败，消息直接回给调用方
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
