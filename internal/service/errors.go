package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
	// ErrDanglingFavorite 收藏指向的星球或角色已不存在，正常的级联删除下不会出现
	ErrDanglingFavorite = errors.New("favorite references a missing target")
)

// Error 携带面向调用方的消息，Kind 为上面的哨兵错误之一
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
