package httpapi

// Result the JSON envelope every endpoint returns.
// - code: 2000 on success
// - type: 'success' | 'error'
// - message: string
// - result: payload, or field->message map on validation failure
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message, Result: nil}
}

// FailFields carries field-scoped validation messages in the result payload.
func FailFields(fields map[string]string) Result[map[string]string] {
	return Result[map[string]string]{Code: ResultError, Type: "error", Message: "validation failed", Result: fields}
}
