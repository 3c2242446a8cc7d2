package appErrors

// Коды ошибок сгруппированные по доменам
const (
	// Аутентификация и авторизация
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	// Валидация
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeInvalidUserRole  ErrorCode = "INVALID_USER_ROLE"

	// Ресурсы
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
	CodeCandidateNotFound ErrorCode = "CANDIDATE_NOT_FOUND"
	CodeJobNotFound       ErrorCode = "JOB_NOT_FOUND"
	CodeRoundNotFound     ErrorCode = "ROUND_NOT_FOUND"

	// Конфликты
	CodeConflict           ErrorCode = "CONFLICT"
	CodeEmailAlreadyExists ErrorCode = "EMAIL_ALREADY_EXISTS"

	// Системные ошибки
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
)
