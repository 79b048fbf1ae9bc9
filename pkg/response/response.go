package response

// Error codes shared by handlers and middleware
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"
	ErrCodeTimeout         = "REQUEST_TIMEOUT"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// Response is the JSON envelope returned by every endpoint
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorData  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorData carries a machine-readable code next to the human message
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta holds pagination details
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Success wraps data in a successful envelope
func Success(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// SuccessWithMessage wraps data and a human-readable message
func SuccessWithMessage(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Paginated wraps a page of items with pagination meta
func Paginated(items interface{}, page, limit int, total int64) Response {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Response{
		Success: true,
		Data:    items,
		Meta: &Meta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}

// Error builds a failed envelope with the given code
func Error(code, message string) Response {
	return Response{
		Success: false,
		Message: message,
		Error:   &ErrorData{Code: code, Message: message},
	}
}

func BadRequest(message string) Response {
	return Error(ErrCodeBadRequest, message)
}

func Unauthorized(message string) Response {
	return Error(ErrCodeUnauthorized, message)
}

func Forbidden(message string) Response {
	return Error(ErrCodeForbidden, message)
}

func NotFound(message string) Response {
	return Error(ErrCodeNotFound, message)
}

func Conflict(message string) Response {
	return Error(ErrCodeConflict, message)
}

func InternalError(message string) Response {
	return Error(ErrCodeInternal, message)
}
