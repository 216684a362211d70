package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для ошибок бизнес-логики Findtern.
*/

// =========================================================================
// Фабричные ФУНКЦИИ (для оборачивания ошибок репозитория)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// =========================================================================
// Фабричные ФУНКЦИИ (новые ошибки)
// =========================================================================

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - переход статуса запрещен (409)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// ErrLimitExceeded - превышен лимит (409)
func ErrLimitExceeded(domain, message string) *AppError {
	return New(CodeLimitExceeded, domain, message, http.StatusConflict)
}

// ErrExternalService - интеграция недоступна (502)
func ErrExternalService(err error, domain, message string) *AppError {
	return Wrap(err, CodeExternalServiceError, domain, message, http.StatusBadGateway)
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ
// =========================================================================

// --- Auth ---

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrWrongCurrentPassword - при смене пароля текущий пароль не совпал
var ErrWrongCurrentPassword = New(
	CodeInvalidCredentials,
	"auth",
	"Current password is incorrect",
	http.StatusUnauthorized,
)

// --- Uploads ---

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// --- Interviews ---

var ErrInvalidInterviewStatus = New(
	CodeInvalidStatus,
	"interview",
	"Operation not allowed for the current interview status",
	http.StatusConflict,
)

// --- Proposals ---

var ErrInvalidProposalTransition = New(
	CodeInvalidStatus,
	"proposal",
	"Proposal status transition is not allowed",
	http.StatusConflict,
)

var ErrProposalNotEditable = New(
	CodeInvalidStatus,
	"proposal",
	"Only draft proposals can be edited",
	http.StatusConflict,
)

// --- Shortlists ---

var ErrCompareLimit = New(
	CodeLimitExceeded,
	"shortlist",
	"Compare list is full",
	http.StatusConflict,
)
