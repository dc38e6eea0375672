package domain

import (
	"errors"
	"fmt"
)

// Доменные ошибки фасада
var (
	// ErrNotFound возвращается когда ресурс не найден в хранилище
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized возвращается когда сессия отсутствует или истекла
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidInput возвращается при невалидном запросе
	ErrInvalidInput = errors.New("invalid input")
)

// LoginStatus классифицирует ошибки логина и получения сессии
type LoginStatus string

// Возможные значения LoginStatus
const (
	LoginInvalidCreds      LoginStatus = "INVALID_CREDS"       // Неверные учётные данные
	LoginEmailNotConfirmed LoginStatus = "EMAIL_NOT_CONFIRMED" // Email не подтверждён
	LoginError             LoginStatus = "ERROR"               // Любая другая ошибка
)

// RegistrationStatus классифицирует ошибки регистрации
type RegistrationStatus string

// Возможные значения RegistrationStatus
const (
	RegistrationEmailExists RegistrationStatus = "EMAIL_EXISTS" // Email уже занят
	RegistrationError       RegistrationStatus = "ERROR"
)

// EmailOperationStatus классифицирует ошибки операций по токену из письма
type EmailOperationStatus string

// Возможные значения EmailOperationStatus
const (
	EmailOperationInvalidToken EmailOperationStatus = "INVALID_TOKEN" // Токен невалиден или уже использован
	EmailOperationError        EmailOperationStatus = "ERROR"
)

// APIError - классифицированная ошибка шлюза.
// Status берётся из закрытого перечисления семейства операций (или bool для операций без классификации),
// Detail - сообщение сервиса, либо текст транспортной ошибки.
// Err - исходная ошибка (ответ сервиса или транспортный сбой), доступна через errors.As.
type APIError[S comparable] struct {
	Status S
	Detail string
	Err    error
}

func (e *APIError[S]) Error() string {
	return fmt.Sprintf("api error %v: %s", e.Status, e.Detail)
}

func (e *APIError[S]) Unwrap() error {
	return e.Err
}

// NewAPIError создает классифицированную ошибку
func NewAPIError[S comparable](status S, detail string) *APIError[S] {
	return &APIError[S]{Status: status, Detail: detail}
}

// DecodeError возвращается когда ответ сервиса получен, но не содержит обязательных полей
type DecodeError struct {
	Target string // Что декодировали (user, team, ...)
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Target, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ErrorCode представляет коды ошибок фасада в ответах клиенту
type ErrorCode string

// Коды ошибок фасада
const (
	CodeBadRequest   ErrorCode = "BAD_REQUEST"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeDecodeFailed ErrorCode = "BAD_UPSTREAM_RESPONSE"
	CodeUpstream     ErrorCode = "UPSTREAM_ERROR"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// MapErrorToCode преобразует ошибку в код ответа фасада.
// Классифицированные ошибки шлюза возвращают свой статус как код.
func MapErrorToCode(err error) ErrorCode {
	var (
		loginErr *APIError[LoginStatus]
		regErr   *APIError[RegistrationStatus]
		emailErr *APIError[EmailOperationStatus]
		flagErr  *APIError[bool]
		decErr   *DecodeError
	)
	switch {
	case errors.Is(err, ErrInvalidInput):
		return CodeBadRequest
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.As(err, &loginErr):
		return ErrorCode(loginErr.Status)
	case errors.As(err, &regErr):
		return ErrorCode(regErr.Status)
	case errors.As(err, &emailErr):
		return ErrorCode(emailErr.Status)
	case errors.As(err, &flagErr):
		return CodeUpstream
	case errors.As(err, &decErr):
		return CodeDecodeFailed
	default:
		return CodeInternal
	}
}
