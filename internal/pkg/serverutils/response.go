package serverutils

// BaseResponse is the envelope every handler returns.
type BaseResponse[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
	// Source marks responses served from the fallback demo dataset so the
	// client can render its data-status indicator.
	Source string `json:"source,omitempty"`
}

func OkResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func OkResponseFrom[T any](message string, data T, source string) BaseResponse[T] {
	res := OkResponse(message, data)
	res.Source = source
	return res
}

func ErrorResponse(code int, message string) BaseResponse[any] {
	return BaseResponse[any]{
		Success: false,
		Code:    code,
		Message: message,
	}
}
