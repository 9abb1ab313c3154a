package dto

// ErrorResponse is the error body emitted by every handler. Errors carries
// field-level validation messages keyed by JSON field name.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors,omitempty"`
}

// DataResponse wraps a payload as {"data": ...}.
type DataResponse struct {
	Data any `json:"data"`
}

// SuccessResponse wraps a payload as {"success": true, "data": ...}.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// NewSuccessResponse returns a successful envelope around data.
func NewSuccessResponse(data any) SuccessResponse {
	return SuccessResponse{Success: true, Data: data}
}
