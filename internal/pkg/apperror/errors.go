package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// CodeOf возвращает код ошибки приложения; для прочих ошибок INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// IsDomain сообщает, что ошибка относится к предметной области, а не к инфраструктуре.
func IsDomain(err error) bool {
	switch CodeOf(err) {
	case ErrCodeNotFound, ErrCodeForbidden, ErrCodeConflict, ErrCodeValidation, ErrCodeBadRequest, ErrCodeUnauthorized:
		return true
	}
	return false
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	return CodeOf(err) == ErrCodeForbidden
}

func IsConflict(err error) bool {
	return CodeOf(err) == ErrCodeConflict
}

func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}

func IsUnauthorized(err error) bool {
	return CodeOf(err) == ErrCodeUnauthorized
}

var (
	ErrGigNotFound  = New(ErrCodeNotFound, "заказ не найден")
	ErrBidNotFound  = New(ErrCodeNotFound, "отклик не найден")
	ErrUserNotFound = New(ErrCodeNotFound, "пользователь не найден")

	ErrSelfBid     = New(ErrCodeForbidden, "нельзя откликнуться на собственный заказ")
	ErrNotGigOwner = New(ErrCodeForbidden, "только владелец заказа может выполнить это действие")

	ErrGigNotOpen         = New(ErrCodeConflict, "заказ больше не принимает отклики")
	ErrGigAlreadyAssigned = New(ErrCodeConflict, "исполнитель для заказа уже выбран")
	ErrDuplicateBid       = New(ErrCodeConflict, "вы уже откликнулись на этот заказ")
	ErrBidNotPending      = New(ErrCodeConflict, "отклик уже обработан")
	ErrEmailTaken         = New(ErrCodeConflict, "email уже зарегистрирован")

	ErrUnauthorized       = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden          = New(ErrCodeForbidden, "недостаточно прав")
	ErrInvalidCredentials = New(ErrCodeUnauthorized, "неверные учетные данные")
)
