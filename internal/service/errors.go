package service

import (
	"errors"
	"fmt"
)

var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrNotBookingOwner     = errors.New("booking belongs to another mentor")
	ErrInvalidTransition   = errors.New("booking status does not allow this action")
	ErrSlotUnavailable     = errors.New("slot is no longer available")
	ErrMentorNotFound      = errors.New("mentor not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrTemplateUnavailable = errors.New("availability could not be loaded")
)

// ValidationError входные данные отклонены до любой записи в хранилище
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation проверяет что ошибка - ошибка валидации
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
