package apperrors

import "net/http"

/*
Предопределенные ошибки домена каталога.
Сравниваются через errors.Is (по коду, домену и сообщению).
*/

// --- Submissions ---

// ErrSubmissionNotFound - работа не найдена или скрыта от вызывающего.
// Ответ намеренно одинаковый, чтобы не раскрывать существование скрытых работ.
var ErrSubmissionNotFound = NotFound("submission", "Submission not found")

// ErrRateUnapproved - оценивать можно только одобренные работы.
var ErrRateUnapproved = Conflict("rating", "Cannot rate an unapproved work")

// ErrInvalidScore - оценка вне диапазона 1..5.
var ErrInvalidScore = New(
	CodeValidationFailed,
	"rating",
	"Score must be between 1 and 5",
	http.StatusBadRequest,
)

// ErrInvalidSubmissionStatus - неизвестный статус.
var ErrInvalidSubmissionStatus = New(
	CodeInvalidStatus,
	"submission",
	"Status must be one of: pending, approved, rejected",
	http.StatusBadRequest,
)

// ErrPartialFile - у вложения должны быть заполнены все четыре поля или ни одно.
var ErrPartialFile = New(
	CodeValidationFailed,
	"submission",
	"File descriptor must be complete or absent",
	http.StatusBadRequest,
)

// ErrNoFile - у работы нет вложенного файла.
var ErrNoFile = NotFound("file", "No file available for this submission")

// --- Auth ---

// ErrModeratorOnly - операция доступна только модератору.
var ErrModeratorOnly = NewForbiddenError("Moderator role required")

// ErrAuthenticationRequired - анонимный вызов операции для участников.
var ErrAuthenticationRequired = NewUnauthorizedError("Authentication required")

// ErrInvalidToken - неверный или просроченный токен.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// --- Uploads ---

// ErrFileTooLarge - файл превышает допустимый размер.
var ErrFileTooLarge = New(
	CodeValidationFailed,
	"file",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

// ErrInvalidFileType - MIME-тип файла не разрешен.
var ErrInvalidFileType = New(
	CodeValidationFailed,
	"file",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)
