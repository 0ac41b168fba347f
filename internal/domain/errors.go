package domain

import (
	"errors"
	"fmt"
)

type ErrCode string

const (
	CodeNotFound       ErrCode = "not_found"
	CodeInvalidRequest ErrCode = "invalid_request"
	CodeNameConflict   ErrCode = "name_conflict"
	CodeInternal       ErrCode = "internal_error"
)

type AppError struct {
	Code    ErrCode
	Message string
	Meta    map[string]string
}

func (e *AppError) Error() string {
	if len(e.Meta) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Meta)
}

func ErrNotFound(msg string) error       { return &AppError{Code: CodeNotFound, Message: msg} }
func ErrInvalidRequest(msg string) error { return &AppError{Code: CodeInvalidRequest, Message: msg} }
func ErrInvalidRequestMeta(msg string, meta map[string]string) error {
	return &AppError{Code: CodeInvalidRequest, Message: msg, Meta: meta}
}
func ErrNameConflict(msg string) error { return &AppError{Code: CodeNameConflict, Message: msg} }
func ErrInternal(msg string) error     { return &AppError{Code: CodeInternal, Message: msg} }

// CodeOf returns the AppError code carried by err, or CodeInternal.
func CodeOf(err error) ErrCode {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}
