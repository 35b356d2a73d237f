package duel

import (
	"errors"
	"fmt"
)

// Code 机器可读的错误码
type Code string

const (
	CodeNotFound             Code = "NOT_FOUND"
	CodeInvalidHandSize      Code = "INVALID_HAND_SIZE"
	CodeInvalidSelection     Code = "INVALID_SELECTION"
	CodeNoSelection          Code = "NO_SELECTION"
	CodeRoundAlreadyResolved Code = "ROUND_ALREADY_RESOLVED"
	CodeInvalidPhase         Code = "INVALID_PHASE"
	CodeUndefinedMatchup     Code = "UNDEFINED_MATCHUP"
	CodeInvalidCatalog       Code = "INVALID_CATALOG"
)

// Error 对局错误，按 Code 比较
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is 只比较错误码，errors.Is(err, ErrNoSelection) 对任何同码错误都成立
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

var (
	ErrNotFound             = &Error{Code: CodeNotFound, Message: "card not found"}
	ErrInvalidHandSize      = &Error{Code: CodeInvalidHandSize, Message: "invalid hand size"}
	ErrInvalidSelection     = &Error{Code: CodeInvalidSelection, Message: "invalid selection"}
	ErrNoSelection          = &Error{Code: CodeNoSelection, Message: "no card selected"}
	ErrRoundAlreadyResolved = &Error{Code: CodeRoundAlreadyResolved, Message: "round already resolved"}
	ErrInvalidPhase         = &Error{Code: CodeInvalidPhase, Message: "invalid phase"}
	ErrUndefinedMatchup     = &Error{Code: CodeUndefinedMatchup, Message: "undefined matchup"}
	ErrInvalidCatalog       = &Error{Code: CodeInvalidCatalog, Message: "invalid catalog"}
)

func newError(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf 取出错误链中的错误码，非对局错误返回空串
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
