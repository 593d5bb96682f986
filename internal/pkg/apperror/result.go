package apperror

import "errors"

// Result is the uniform outcome shape handed to non-HTTP callers (CLI,
// workers). Exactly one of Data or ErrorKind is meaningful.
type Result[T any] struct {
	OK        bool           `json:"ok"`
	Data      T              `json:"data,omitempty"`
	ErrorKind Kind           `json:"errorKind,omitempty"`
	Message   string         `json:"message,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// ResultOf folds a (value, error) pair into a Result. Errors that are not
// business errors are reported with an empty kind so callers treat them as
// infrastructure failures.
func ResultOf[T any](data T, err error) Result[T] {
	if err == nil {
		return Result[T]{OK: true, Data: data}
	}

	res := Result[T]{OK: false, Message: err.Error()}
	var appErr *Error
	if errors.As(err, &appErr) {
		res.ErrorKind = appErr.Kind
		res.Message = appErr.Message
		res.Details = appErr.Details
	}
	return res
}
